package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/crewline/pulse/internal/cron"
	"github.com/crewline/pulse/internal/export"
	"github.com/crewline/pulse/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the pulse HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.close()
		logger := rt.logger

		// HTTP server.
		srv := server.New(rt.engine, rt.store, logger)
		httpServer := &http.Server{
			Addr:    rt.cfg.HTTPAddr,
			Handler: srv.NewHTTPHandler(rt.cfg.AuthToken),
		}

		go func() {
			logger.Info("HTTP server listening", "addr", rt.cfg.HTTPAddr)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("HTTP server error", "err", err)
			}
		}()

		// Scheduled analysis passes.
		scheduler, err := cron.New(cron.Config{
			Logger:      logger,
			Bottlenecks: rt.cfg.CronBottlenecks,
			Suggestions: rt.cfg.CronSuggestions,
			RunBottlenecks: func(ctx context.Context) error {
				_, err := rt.engine.RunBottlenecks(ctx, "")
				return err
			},
			RunSuggestions: func(ctx context.Context) error {
				_, err := rt.engine.RunSuggestions(ctx, "", 0)
				return err
			},
		})
		if err != nil {
			return err
		}
		scheduler.Start(context.Background())

		// Digest export, if any destinations are configured.
		var exporter *export.Scheduler
		if rt.cfg.ExportInterval > 0 {
			var dests []export.Destination

			if rt.cfg.ExportS3Bucket != "" {
				s3Dest, err := export.NewS3Destination(
					context.Background(),
					rt.cfg.ExportS3Bucket,
					rt.cfg.ExportS3Prefix,
					rt.cfg.ExportS3Region,
					rt.cfg.ExportS3Endpoint,
				)
				if err != nil {
					logger.Error("failed to create S3 export destination", "err", err)
				} else {
					dests = append(dests, s3Dest)
					logger.Info("export S3 destination enabled", "bucket", rt.cfg.ExportS3Bucket, "prefix", rt.cfg.ExportS3Prefix)
				}
			}

			if rt.cfg.ExportGitRepo != "" {
				gitDest := export.NewGitDestination(rt.cfg.ExportGitRepo, rt.cfg.ExportGitFile, rt.cfg.ExportGitBranch)
				dests = append(dests, gitDest)
				logger.Info("export git destination enabled", "repo", rt.cfg.ExportGitRepo, "file", rt.cfg.ExportGitFile)
			}

			if len(dests) > 0 {
				exporter = export.NewScheduler(rt.store, dests, rt.cfg.ExportInterval, logger)
				exporter.Start()
				logger.Info("export scheduler started", "interval", rt.cfg.ExportInterval)
			}
		}

		logger.Info("pulse server started", "http_addr", rt.cfg.HTTPAddr)

		// Wait for SIGINT or SIGTERM.
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig)

		// Graceful shutdown.
		scheduler.Stop()

		if exporter != nil {
			exporter.Stop()
			logger.Info("export scheduler stopped")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", "err", err)
		}
		logger.Info("HTTP server stopped")

		logger.Info("shutdown complete")
		return nil
	},
}
