package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/greendrake/mkvmux/config"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

type commandContext struct {
	configFlag   string
	logLevelFlag string
}

func (c *commandContext) loadConfig() (*config.Config, error) {
	path := strings.TrimSpace(c.configFlag)
	if path == "" {
		return nil, fmt.Errorf("--config is required")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if c.logLevelFlag != "" {
		cfg.Log.Level = c.logLevelFlag
	}
	return cfg, nil
}

func newRootCommand() *cobra.Command {
	ctx := &commandContext{}

	rootCmd := &cobra.Command{
		Use:           "mkvmux",
		Short:         "Mux encoded audio and video into Matroska and WebM",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&ctx.configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&ctx.logLevelFlag, "log-level", "", "Override Log.Level (debug, info, warn, error)")

	rootCmd.AddCommand(newMuxCommand(ctx))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the mkvmux version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "mkvmux %s\n", version)
			return err
		},
	}
}
