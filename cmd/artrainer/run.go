package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zeusync/artrainer/internal/config"
	"github.com/zeusync/artrainer/internal/injector"
)

func newRunCmd(flags *globalFlags) *cobra.Command {
	var (
		targets   int
		transport string
		addr      string
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Play a headless training session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("targets") {
				cfg.Placement.TargetCount = targets
			}
			if transport != "" {
				cfg.Solver.Transport = config.Transport(transport)
			}
			if addr != "" {
				if cfg.Solver.Transport == config.TransportQUIC {
					cfg.Solver.QUICAddr = addr
				} else {
					cfg.Solver.Addr = addr
				}
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			app, cleanup, err := injector.InitializeApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			score, err := app.Run(cmd.Context())
			fmt.Fprintf(cmd.OutOrStdout(), "hits: %d  misses: %d\n", score.Hits, score.Misses)
			return err
		},
	}
	cmd.Flags().IntVarP(&targets, "targets", "n", 0, "number of targets (0 uses the default of 10)")
	cmd.Flags().StringVar(&transport, "solver", "", "solver transport: local, websocket or quic")
	cmd.Flags().StringVar(&addr, "solver-addr", "", "remote solver address")
	return cmd
}
