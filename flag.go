package main

import (
	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "tiler",
		Short:        "Fly a camera over a tiled globe and stream its level of detail pyramid",
		Version:      "v0.1.0",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "./conf/conf.toml", "set config `file`")
	cmd.Flags().StringVarP(&logLevel, "log-level", "l", "info", "set log level")
	return cmd
}
