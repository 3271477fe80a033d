package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"moodpoet/internal/adapter/web"
	"moodpoet/internal/infra/logger"
	"moodpoet/internal/infra/metrics"
	"moodpoet/internal/infra/tracer"
	"moodpoet/internal/usecase/poem"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			log, closeLog, err := logger.New(cfg.Logger)
			if err != nil {
				return err
			}
			defer closeLog()

			sigCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			shutdownTracer, err := tracer.Setup(sigCtx, cfg.Tracer)
			if err != nil {
				return fmt.Errorf("tracer: %w", err)
			}
			defer func() {
				if err := shutdownTracer(context.Background()); err != nil {
					log.Warn("tracer shutdown failed", "error", err)
				}
			}()

			m := metrics.New()
			health := poem.NewHealthTracker()
			gen := initGenerator(cfg, log, m, health)

			router := web.NewRouter(web.RouterDeps{
				Poems:   gen,
				Health:  health,
				Metrics: m,
				Logger:  log,
			})
			srv := web.NewServer(cfg.Server, router, log)
			if err := srv.Start(sigCtx); err != nil {
				return err
			}

			var serveErr error
			select {
			case <-sigCtx.Done():
				log.Info("shutdown signal received")
			case err, ok := <-srv.Err():
				if ok {
					serveErr = err
				}
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Error("graceful shutdown failed", "error", err)
				return err
			}
			log.Info("server stopped")
			return serveErr
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")
	return cmd
}
