package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var scoreCmd = &cobra.Command{
	Use:   "score IDENTITY",
	Short: "Print the identity credit score",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		srv, err := newService()
		if err != nil {
			return err
		}
		score, err := srv.Score(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), score)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)
}
