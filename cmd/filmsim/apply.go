package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/lukkan78/film-simulator/internal/adjust"
	"github.com/lukkan78/film-simulator/internal/frame"
	"github.com/lukkan78/film-simulator/internal/imageio"
	"github.com/lukkan78/film-simulator/internal/pipeline"
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply a film profile to an image file",
	RunE:  runApply,
}

// sliders maps each settings field to its flag.
var sliders = []struct {
	name  string
	usage string
	field func(*adjust.Settings) *int
}{
	{"strength", "film look strength 0..100", func(s *adjust.Settings) *int { return &s.Strength }},
	{"grain", "grain intensity 0..100", func(s *adjust.Settings) *int { return &s.GrainIntensity }},
	{"grain-size", "grain size 0..10", func(s *adjust.Settings) *int { return &s.GrainSize }},
	{"brightness", "brightness -100..100", func(s *adjust.Settings) *int { return &s.Brightness }},
	{"contrast", "contrast -100..100", func(s *adjust.Settings) *int { return &s.Contrast }},
	{"saturation", "saturation -100..100", func(s *adjust.Settings) *int { return &s.Saturation }},
	{"temperature", "temperature -100..100", func(s *adjust.Settings) *int { return &s.Temperature }},
	{"vignette", "vignette 0..100", func(s *adjust.Settings) *int { return &s.Vignette }},
	{"fade", "fade -100..100", func(s *adjust.Settings) *int { return &s.Fade }},
	{"shadows", "shadows -100..100", func(s *adjust.Settings) *int { return &s.Shadows }},
	{"highlights", "highlights -100..100", func(s *adjust.Settings) *int { return &s.Highlights }},
	{"blacks", "crushed blacks 0..100", func(s *adjust.Settings) *int { return &s.Blacks }},
}

func init() {
	f := applyCmd.Flags()
	f.StringP("input", "i", "", "input image (jpeg, png, webp)")
	f.StringP("output", "o", "", "output image; format follows the extension unless --format is set")
	f.StringP("profile", "p", "original", "film profile ID")
	f.String("format", "", "output format: jpeg | png")
	f.Int("quality", 0, "JPEG quality (default from config)")
	f.Bool("preview", false, "downscale to the preview size before processing")
	f.Int64("seed", 0, "grain seed; 0 draws a random one")
	f.Duration("timeout", 2*time.Minute, "overall time limit")
	for _, sl := range sliders {
		f.Int(sl.name, 0, sl.usage)
	}
	applyCmd.MarkFlagRequired("input")
	applyCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(applyCmd)
}

// settingsFromFlags starts from base and overrides only the sliders given on the command line.
func settingsFromFlags(cmd *cobra.Command, base adjust.Settings) adjust.Settings {
	s := base
	for _, sl := range sliders {
		if cmd.Flags().Changed(sl.name) {
			v, _ := cmd.Flags().GetInt(sl.name)
			*sl.field(&s) = v
		}
	}
	return s
}

func runApply(cmd *cobra.Command, args []string) error {
	inputPath, _ := cmd.Flags().GetString("input")
	outputPath, _ := cmd.Flags().GetString("output")
	profileID, _ := cmd.Flags().GetString("profile")
	formatStr, _ := cmd.Flags().GetString("format")
	quality, _ := cmd.Flags().GetInt("quality")
	preview, _ := cmd.Flags().GetBool("preview")
	seed, _ := cmd.Flags().GetInt64("seed")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	var (
		format imageio.Format
		err    error
	)
	if formatStr != "" {
		format, err = imageio.ParseFormat(formatStr)
	} else {
		format, err = imageio.FormatFromPath(outputPath)
	}
	if err != nil {
		return err
	}
	quality = firstPositive(quality, cfg.Export.Quality, imageio.DefaultJPEGQuality)

	proc, err := newProcessor(seed)
	if err != nil {
		return err
	}
	prof, err := proc.Catalog().Get(profileID)
	if err != nil {
		return err
	}

	img, err := imageio.Open(inputPath)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	src := frame.FromImage(img)

	mode := pipeline.Export
	if preview {
		mode = pipeline.Preview
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()
	out, rep, err := proc.Run(ctx, mode, src, prof, settingsFromFlags(cmd, cfg.Defaults))
	if err != nil {
		if out == nil || ctx.Err() != nil {
			return err
		}
		log.Warn().Err(err).Msg("processing failed; writing the unprocessed image")
	}
	if rep.LUTError != "" {
		log.Warn().Str("profile", prof.ID).Str("reason", rep.LUTError).Msg("film LUT unavailable; adjustments only")
	}

	if err := imageio.Save(outputPath, out.Image(), format, quality); err != nil {
		return err
	}
	ev := log.Info().Str("profile", prof.ID).Str("out", outputPath).
		Int("w", out.Width).Int("h", out.Height).Float64("total_ms", rep.TotalMS)
	for _, st := range rep.Stages {
		ev = ev.Float64(string(st.Stage)+"_ms", st.MS)
	}
	ev.Msg("written")
	return nil
}

func firstPositive(vs ...int) int {
	for _, v := range vs {
		if v > 0 {
			return v
		}
	}
	return 0
}
