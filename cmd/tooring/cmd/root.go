package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/viant/tooring"
	"github.com/viant/tooring/service/store/consul"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:           "tooring",
	Short:         "Submit, schedule and execute Turing machines on a shared fair-share cluster",
	Example:       "tooring submit --input machine.yaml",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// exitError carries a process exit status
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

// Execute runs the root command and returns the process exit status
func Execute() int {
	err := rootCmd.Execute()
	if err == nil {
		return 0
	}
	var exitErr *exitError
	if errors.As(err, &exitErr) {
		if exitErr.err != nil {
			fmt.Fprintln(os.Stderr, exitErr.err)
		}
		return exitErr.code
	}
	fmt.Fprintln(os.Stderr, err)
	return 1
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $(PWD)/.tooring.yaml)")
	flags.String("store", tooring.StoreConsul, "store backend: memory or consul")
	flags.String("consul-address", "", "consul agent address (default is the consul client default)")
	flags.String("consul-prefix", consul.DefaultPrefix, "consul KV folder holding cluster state")
	flags.String("log-level", "info", "log level: debug, info, warn, error")
	flags.String("log-format", tooring.LogFormatText, "log format: text or json")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	viper.SetEnvPrefix("tooring")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()
	if err := bindFlags(rootCmd, map[string]string{
		"store.backend":        "store",
		"store.consul.address": "consul-address",
		"store.consul.prefix":  "consul-prefix",
		"log.level":            "log-level",
		"log.format":           "log-format",
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Error binding tooring flags: %s\n", err)
		os.Exit(2)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".tooring")
		viper.AddConfigPath(".")
	}
	err := viper.ReadInConfig()
	// ReadInConfig fails when no config exists; only an explicit file must be readable
	if cfgFile != "" && err != nil {
		fmt.Fprintf(os.Stderr, "Error reading tooring configuration: %s\n", err)
		os.Exit(2)
	}
}

// loadConfig layers config file, TOORING_* environment and flags over the defaults
func loadConfig() (*tooring.Config, error) {
	ret := tooring.DefaultConfig()
	if err := viper.Unmarshal(ret); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	if err := ret.Validate(); err != nil {
		return nil, err
	}
	return ret, nil
}

// newService creates the service from the resolved configuration
func newService(options ...tooring.Option) (*tooring.Service, error) {
	config, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := tooring.NewLogger(config.Log.Level, config.Log.Format, os.Stderr)
	if err != nil {
		return nil, err
	}
	options = append([]tooring.Option{tooring.WithConfig(config), tooring.WithLogger(logger)}, options...)
	return tooring.New(options...)
}

// bindFlags exposes the running command flags to viper under the given keys
func bindFlags(cmd *cobra.Command, keys map[string]string) error {
	for key, name := range keys {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			flag = cmd.PersistentFlags().Lookup(name)
		}
		if err := viper.BindPFlag(key, flag); err != nil {
			return err
		}
	}
	return nil
}
