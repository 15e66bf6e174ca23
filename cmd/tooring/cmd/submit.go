package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var submitCmd = &cobra.Command{
	Use:     "submit",
	Short:   "Register a machine document as a new task and print its ID",
	Example: "tooring submit --input machine.yaml",
	Args:    cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(cmd, map[string]string{"submit.input": "input"})
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		input := viper.GetString("submit.input")
		if input == "" {
			return fmt.Errorf("--input is required")
		}
		srv, err := newService()
		if err != nil {
			return err
		}
		taskID, err := srv.SubmitURL(cmd.Context(), input)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), taskID)
		return nil
	},
}

func init() {
	submitCmd.Flags().StringP("input", "i", "", "machine document (json, or yaml by extension); any afs URL")
	rootCmd.AddCommand(submitCmd)
}
