package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gyeh/mrrequest/internal/dashboard"
	"github.com/gyeh/mrrequest/internal/exitcode"
	"github.com/gyeh/mrrequest/internal/logging"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the tracking dashboard API and generated PDFs",
	RunE:  runServe,
}

func init() {
	f := serveCmd.Flags()
	f.StringVar(&cfg.Addr, "addr", cfg.Addr, "Listen address")
	f.StringVar(&cfg.OutputDir, "output", cfg.OutputDir, "Root directory of generated documents")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)
	ctx := context.Background()

	trk, err := openTracker(ctx, log)
	if err != nil {
		fail(log, exitcode.DBConnError, err, "tracker connection failed")
	}
	defer trk.Close()

	e := dashboard.New(trk, newSmartRequestAPI(log), cfg.OutputDir, log).Echo()

	go func() {
		log.Info().Str("addr", cfg.Addr).Msg("starting dashboard")
		if err := e.Start(cfg.Addr); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
			os.Exit(exitcode.ConfigError)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down dashboard")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("dashboard shutdown failed")
		return err
	}
	log.Info().Msg("dashboard stopped")
	return nil
}
