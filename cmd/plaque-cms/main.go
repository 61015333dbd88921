// Command plaque-cms runs the CMS server and its operator tooling.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/stonesign/plaque-cms/internal/config"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgFile string
	root := &cobra.Command{
		Use:          "plaque-cms",
		Short:        "Content, media and gallery management for the plaque site",
		Version:      fmt.Sprintf("%s (built %s)", version, buildDate),
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, json or toml)")
	config.BindFlags(root.PersistentFlags())

	load := func(cmd *cobra.Command) (*config.Config, error) {
		cfg, err := config.Load(cmd.Flags(), cfgFile)
		if err != nil {
			return nil, err
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	root.AddCommand(
		newServeCmd(load),
		newMigrateCmd(load),
		newUserCmd(load),
		newTokenCmd(load),
		newCallCmd(),
	)
	return root
}

// loader resolves the configuration for the running command.
type loader func(cmd *cobra.Command) (*config.Config, error)

func newLogger(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
