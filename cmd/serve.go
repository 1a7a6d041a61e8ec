package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/codetrain/internal/printer"
	"github.com/abhisek/codetrain/internal/report"
	"github.com/abhisek/codetrain/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve practice sessions over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		env, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		if cmd.Flags().Changed("addr") {
			env.cfg.Addr, _ = cmd.Flags().GetString("addr")
		}

		provider, err := env.provider(ctx)
		if err != nil {
			return err
		}
		sessions, err := env.sessionService(ctx, provider)
		if err != nil {
			return err
		}

		srv := server.New(server.Config{
			Addr:        env.cfg.Addr,
			CORSOrigins: env.cfg.CORSOrigins,
			Mode:        env.cfg.GinMode,
			IdleTimeout: env.cfg.IdleTimeout,
		}, server.Deps{
			Sessions: sessions,
			Mastery:  env.masteryService(),
			Attempts: env.store.Attempts(),
			Learners: env.store.Learners(),
			Renderer: report.NewRenderer(provider, report.DefaultRendererConfig()),
		})

		printer.Success("Listening on %s\n", env.cfg.Addr)
		if err := srv.Run(ctx); err != nil {
			return err
		}
		printer.Info("Server stopped\n")
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "Listen address (overrides CODETRAIN_ADDR)")
}
