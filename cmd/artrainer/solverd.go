package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/quic-go/quic-go"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/zeusync/artrainer/internal/core/observability/log"
	"github.com/zeusync/artrainer/internal/injector"
	"github.com/zeusync/artrainer/internal/solver/remote"
)

func newSolverdCmd(flags *globalFlags) *cobra.Command {
	var (
		httpAddr string
		quicAddr string
		noQUIC   bool
	)
	cmd := &cobra.Command{
		Use:   "solverd",
		Short: "Serve the placement solver over WebSocket and QUIC",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			if httpAddr != "" {
				cfg.Solver.Addr = httpAddr
			}
			if quicAddr != "" {
				cfg.Solver.QUICAddr = quicAddr
			}

			d, cleanup, err := injector.InitializeSolverd(cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			var ln *quic.Listener
			if !noQUIC {
				tlsConfig, err := remote.GenerateSelfSignedTLS()
				if err != nil {
					return err
				}
				if ln, err = remote.ListenQUIC(cfg.Solver.QUICAddr, tlsConfig); err != nil {
					return err
				}
			}

			g, ctx := errgroup.WithContext(cmd.Context())

			httpServer := &http.Server{
				Addr:              cfg.Solver.Addr,
				Handler:           d.Server.Routes(),
				ReadHeaderTimeout: 5 * time.Second,
			}
			g.Go(func() error {
				d.Logger.Info("serving websocket", log.String("addr", httpServer.Addr))
				if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return httpServer.Shutdown(shutdownCtx)
			})

			if ln != nil {
				g.Go(func() error { return d.Server.ServeQUIC(ctx, ln) })
			}

			err = g.Wait()
			d.Logger.Info("solverd stopped")
			if err == nil && cmd.Context().Err() != nil {
				return nil
			}
			return err
		},
	}
	cmd.Flags().StringVar(&httpAddr, "http-addr", "", "websocket listen address (default from solver.addr)")
	cmd.Flags().StringVar(&quicAddr, "quic-addr", "", "QUIC listen address (default from solver.quic_addr)")
	cmd.Flags().BoolVar(&noQUIC, "no-quic", false, "serve WebSocket only")
	return cmd
}
