package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/lukkan78/film-simulator/internal/config"
	"github.com/lukkan78/film-simulator/internal/pipeline"
)

// cfg is loaded before any subcommand runs.
var cfg = config.Default()

var rootCmd = &cobra.Command{
	Use:           "filmsim",
	Short:         "Emulate analog film stocks on digital photos",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zerolog.TimeFieldFormat = time.RFC3339
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

		path, _ := cmd.Flags().GetString("config")
		if c, err := config.Load(path); err != nil {
			// A missing default file is normal; anything else is worth a warning.
			if !errors.Is(err, fs.ErrNotExist) || cmd.Flags().Changed("config") {
				log.Warn().Err(err).Str("path", path).Msg("config load failed; using defaults")
			}
		} else {
			cfg = c
		}

		level := cfg.LogLevel
		if cmd.Flags().Changed("log-level") {
			level, _ = cmd.Flags().GetString("log-level")
		}
		lvl, err := zerolog.ParseLevel(level)
		if err != nil {
			return fmt.Errorf("log level: %w", err)
		}
		zerolog.SetGlobalLevel(lvl)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "config.yaml", "path to config.yaml")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug | info | warn | error")
}

// newProcessor builds a pipeline from the loaded configuration.
func newProcessor(seed int64) (*pipeline.Processor, error) {
	cat, err := cfg.Catalog()
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	return pipeline.New(pipeline.Options{
		Source:        cfg.Source(),
		Catalog:       cat,
		FetchTimeout:  cfg.LUTs.Timeout,
		MaxPreviewDim: cfg.Preview.MaxDim,
		Seed:          seed,
		Logger:        &log.Logger,
	}), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
