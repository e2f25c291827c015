package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/lukkan78/film-simulator/internal/config"
	"github.com/lukkan78/film-simulator/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the interactive preview server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "HTTP listen address (default from config)")
	serveCmd.Flags().StringSlice("preload", nil, "profile IDs whose LUTs are fetched at startup")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	addr, _ := cmd.Flags().GetString("addr")
	preload, _ := cmd.Flags().GetStringSlice("preload")
	addr = config.FirstNonZero(addr, cfg.Server.Addr)

	proc, err := newProcessor(0)
	if err != nil {
		return err
	}
	state := server.NewState(server.Options{
		Processor: proc,
		Preview:   cfg.Preview,
		Defaults:  cfg.Defaults,
		Logger:    &log.Logger,
	})

	srv := &http.Server{
		Addr:         addr,
		Handler:      state.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if len(preload) > 0 {
		go func() {
			if err := proc.Preload(ctx, preload...); err != nil {
				log.Warn().Err(err).Msg("preload incomplete")
				return
			}
			log.Info().Strs("profiles", preload).Msg("LUTs preloaded")
		}()
	}

	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Int("profiles", proc.Catalog().Len()).Msg("HTTP server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
