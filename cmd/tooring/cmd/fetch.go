package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/viant/tooring/model/machine"
	"github.com/viant/tooring/service/document"
)

var fetchCmd = &cobra.Command{
	Use:     "fetch ID",
	Short:   "Print or write the task document; done reports whether the tape is final",
	Example: "tooring fetch 9b2c... --output result.yaml --consume",
	Args:    cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(cmd, map[string]string{"fetch.output": "output", "fetch.consume": "consume"})
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		srv, err := newService()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		taskID := args[0]
		var result *document.Result
		if viper.GetBool("fetch.consume") {
			result, err = srv.Consume(ctx, taskID)
		} else {
			result, err = srv.Fetch(ctx, taskID)
		}
		if err != nil {
			return err
		}
		if output := viper.GetString("fetch.output"); output != "" {
			return srv.Documents().SaveResult(ctx, output, result)
		}
		data, err := machine.Encode(result, machine.FormatJSON)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

func init() {
	fetchCmd.Flags().StringP("output", "o", "", "write the document to this URL instead of stdout (yaml by extension)")
	fetchCmd.Flags().BoolP("consume", "c", false, "remove the task once fetched")
	rootCmd.AddCommand(fetchCmd)
}
