package main

import (
	"github.com/spf13/cobra"

	"github.com/zeusync/artrainer/internal/config"
)

type globalFlags struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}
	root := &cobra.Command{
		Use:          "artrainer",
		Short:        "AR target-practice trainer and placement solver",
		Version:      version,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "path to a YAML or TOML config file")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newRunCmd(flags))
	root.AddCommand(newSolverdCmd(flags))
	root.AddCommand(newVersionCmd())
	return root
}

func (f *globalFlags) load() (*config.Config, error) {
	cfg := config.Default()
	if f.configPath != "" {
		var err error
		if cfg, err = config.Load(f.configPath); err != nil {
			return nil, err
		}
	}
	if f.verbose {
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}
