package main

import (
	"os"

	"github.com/viant/tooring/cmd/tooring/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
