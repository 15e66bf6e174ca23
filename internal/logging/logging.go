package logging

import (
	"github.com/sirupsen/logrus"
	"io"
)

// Discard returns a logger dropping every entry; services use it until a
// logger is injected
func Discard() logrus.FieldLogger {
	ret := logrus.New()
	ret.SetOutput(io.Discard)
	ret.SetLevel(logrus.PanicLevel)
	return ret
}
