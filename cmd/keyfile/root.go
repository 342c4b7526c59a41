package main

import (
	"strconv"

	"github.com/eternalApril/keyfile/internal/config"
	"github.com/eternalApril/keyfile/internal/logger"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// cli holds what PersistentPreRunE prepares for the subcommands
type cli struct {
	configFile string
	logLevel   string

	cfg *config.Config
	log *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	rootCmd := &cobra.Command{
		Use:           "keyfile",
		Short:         "Read, edit and serve line-oriented settings files",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configFile)
			if err != nil {
				return errors.Wrap(err, "unable to load configuration")
			}
			if c.logLevel != "" {
				cfg.Log.Level = c.logLevel
			}

			log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
			if err != nil {
				return errors.Wrap(err, "unable to initialize logger")
			}

			c.cfg = cfg
			c.log = log
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.log != nil {
				c.log.Sync() //nolint:errcheck
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&c.configFile, "config", "", "path to keyfile.yaml (default: ./keyfile.yaml when present)")
	rootCmd.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "override log.level (debug, info, warn, error)")

	rootCmd.AddCommand(newServeCmd(c))
	rootCmd.AddCommand(newGetCmd(c))
	rootCmd.AddCommand(newSetCmd(c))
	rootCmd.AddCommand(newListCmd(c))

	return rootCmd
}

// indexArg parses the optional trailing INDEX argument
func indexArg(args []string, pos int) (int, error) {
	if len(args) <= pos {
		return 0, nil
	}

	idx, err := strconv.Atoi(args[pos])
	if err != nil || idx < 0 {
		return 0, errors.Errorf("index %q is not a non-negative integer", args[pos])
	}
	return idx, nil
}
