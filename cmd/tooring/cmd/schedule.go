package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/viant/tooring/service/claim"
)

// exit status per schedule result
var scheduleExitCodes = map[claim.Result]int{
	claim.Scheduled:        0,
	claim.AlreadyScheduled: 3,
	claim.AlreadyDone:      4,
	claim.NotFound:         5,
	claim.Contended:        6,
}

var scheduleCmd = &cobra.Command{
	Use:     "schedule ID",
	Short:   "Queue a task on behalf of an identity, debiting its score",
	Example: "tooring schedule 9b2c... --id u1",
	Args:    cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(cmd, map[string]string{"identity": "id"})
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		identity := viper.GetString("identity")
		if identity == "" {
			return fmt.Errorf("--id is required")
		}
		srv, err := newService()
		if err != nil {
			return err
		}
		result, err := srv.Schedule(cmd.Context(), identity, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result)
		return scheduleExit(result)
	},
}

func scheduleExit(result claim.Result) error {
	code, ok := scheduleExitCodes[result]
	if !ok {
		code = 1
	}
	if code == 0 {
		return nil
	}
	return &exitError{code: code}
}

func init() {
	scheduleCmd.Flags().String("id", "", "requester identity")
	rootCmd.AddCommand(scheduleCmd)
}
