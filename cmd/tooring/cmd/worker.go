package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/viant/tooring"
	"github.com/viant/tooring/service/event"
)

var workerCmd = &cobra.Command{
	Use:     "worker",
	Short:   "Run worker loops executing scheduled tasks until interrupted",
	Example: "tooring worker --id w1 --workers 4 --metrics-port 9100",
	Args:    cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(cmd, map[string]string{
			"identity":                  "id",
			"processor.workerCount":     "workers",
			"processor.checkpointSteps": "checkpoint",
			"processor.verbose":         "verbose",
			"metrics.port":              "metrics-port",
			"worker.events":             "events",
		})
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
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var server *http.Server
		if port := viper.GetInt("metrics.port"); port > 0 {
			mux := http.NewServeMux()
			mux.Handle("/metrics", srv.MetricsHandler())
			server = &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
			go func() {
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					fmt.Fprintf(os.Stderr, "metrics endpoint stopped: %v\n", err)
				}
			}()
		}
		if viper.GetBool("worker.events") {
			out := cmd.OutOrStdout()
			srv.OnEvent(func(e *event.Event[event.Task]) error {
				data, err := json.Marshal(e)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, string(data))
				return err
			})
		}
		if err = srv.StartWorkers(ctx, identity); err != nil {
			return err
		}
		srv.StartReclaimer(ctx)
		<-ctx.Done()
		srv.Shutdown()
		if server != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		}
		return nil
	},
}

func init() {
	workerCmd.Flags().String("id", "", "worker identity credited for every executed task")
	workerCmd.Flags().IntP("workers", "w", tooring.DefaultConfig().Processor.WorkerCount, "number of worker loops")
	workerCmd.Flags().Int("checkpoint", 0, "persist progress every N transitions, 0 disables checkpoints")
	workerCmd.Flags().BoolP("verbose", "v", false, "log every transition at debug level")
	workerCmd.Flags().Bool("events", false, "print task lifecycle events of this process as JSON lines")
	workerCmd.Flags().Int("metrics-port", 0, "serve prometheus metrics on this port, 0 disables the endpoint")
	rootCmd.AddCommand(workerCmd)
}
