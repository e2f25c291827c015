package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/lukkan78/film-simulator/internal/lut"
)

var lutCmd = &cobra.Command{
	Use:   "lut",
	Short: "Inspect, validate and generate .cube lookup tables",
}

var lutInfoCmd = &cobra.Command{
	Use:     "info <file|profile>",
	Aliases: []string{"inspect"},
	Short:   "Describe a .cube file or the LUT of a catalog profile",
	Args:    cobra.ExactArgs(1),
	RunE:    runLUTInfo,
}

var lutValidateCmd = &cobra.Command{
	Use:   "validate <file>...",
	Short: "Check that .cube files parse",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runLUTValidate,
}

var lutIdentityCmd = &cobra.Command{
	Use:   "identity",
	Short: "Write an identity .cube table",
	RunE:  runLUTIdentity,
}

func init() {
	lutInfoCmd.Flags().Duration("timeout", 30*time.Second, "fetch timeout when the argument is a profile")
	lutIdentityCmd.Flags().Int("size", 33, "grid points per axis")
	lutIdentityCmd.Flags().StringP("output", "o", "", "output file (default stdout)")
	lutCmd.AddCommand(lutInfoCmd, lutValidateCmd, lutIdentityCmd)
	rootCmd.AddCommand(lutCmd)
}

// loadTable reads arg as a file, or failing that fetches the LUT of the profile with that ID.
func loadTable(ctx context.Context, arg string) (*lut.Table, string, error) {
	if f, err := os.Open(arg); err == nil {
		defer f.Close()
		t, err := lut.ParseReader(f)
		return t, arg, err
	}
	cat, err := cfg.Catalog()
	if err != nil {
		return nil, "", err
	}
	prof, err := cat.Get(arg)
	if err != nil {
		return nil, "", fmt.Errorf("%s is neither a readable file nor a profile: %w", arg, err)
	}
	if prof.LUT == "" {
		return nil, "", fmt.Errorf("profile %s has no LUT", prof.ID)
	}
	text, err := cfg.Source().Fetch(ctx, prof.LUT)
	if err != nil {
		return nil, prof.LUT, err
	}
	t, err := lut.Parse(text)
	return t, prof.LUT, err
}

func runLUTInfo(cmd *cobra.Command, args []string) error {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	t, from, err := loadTable(ctx, args[0])
	if err != nil {
		return err
	}
	mean, peak := identityDistance(t)
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "source:   %s\n", from)
	fmt.Fprintf(w, "title:    %s\n", t.Title)
	fmt.Fprintf(w, "size:     %d (%d entries)\n", t.Size, len(t.Data))
	fmt.Fprintf(w, "shift:    mean %.4f, max %.4f from identity\n", mean, peak)
	return nil
}

// identityDistance is the mean and maximum Euclidean distance of each entry
// from the grid point it replaces.
func identityDistance(t *lut.Table) (mean, peak float64) {
	id := lut.Identity(t.Size)
	for i, c := range t.Data {
		ref := id.Data[i]
		d := math.Sqrt((c.R-ref.R)*(c.R-ref.R) + (c.G-ref.G)*(c.G-ref.G) + (c.B-ref.B)*(c.B-ref.B))
		mean += d
		peak = math.Max(peak, d)
	}
	if len(t.Data) > 0 {
		mean /= float64(len(t.Data))
	}
	return mean, peak
}

func runLUTValidate(cmd *cobra.Command, args []string) error {
	bad := 0
	for _, path := range args {
		f, err := os.Open(path)
		if err == nil {
			var t *lut.Table
			t, err = lut.ParseReader(f)
			f.Close()
			if err == nil {
				log.Info().Str("file", path).Int("size", t.Size).Msg("ok")
				continue
			}
		}
		bad++
		log.Error().Err(err).Str("file", path).Msg("invalid")
	}
	if bad > 0 {
		return fmt.Errorf("%d of %d files invalid", bad, len(args))
	}
	return nil
}

func runLUTIdentity(cmd *cobra.Command, args []string) (err error) {
	size, _ := cmd.Flags().GetInt("size")
	outputPath, _ := cmd.Flags().GetString("output")
	if size < 2 || size > lut.MaxSize {
		return fmt.Errorf("size must be in 2..%d, got %d", lut.MaxSize, size)
	}

	var w io.Writer = cmd.OutOrStdout()
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}()
		w = f
	}
	return lut.Encode(w, lut.Identity(size))
}
