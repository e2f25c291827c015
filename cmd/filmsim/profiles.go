package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/lukkan78/film-simulator/internal/profile"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List the film profile catalog",
	RunE:  runProfiles,
}

func init() {
	profilesCmd.Flags().StringP("category", "c", "", "only list one category (color, slide, bw, instant)")
	profilesCmd.Flags().Bool("json", false, "print JSON instead of a table")
	rootCmd.AddCommand(profilesCmd)
}

func runProfiles(cmd *cobra.Command, args []string) error {
	category, _ := cmd.Flags().GetString("category")
	asJSON, _ := cmd.Flags().GetBool("json")

	cat, err := cfg.Catalog()
	if err != nil {
		return err
	}
	var list []profile.Profile
	if category != "" {
		list = cat.ByCategory(profile.Category(category))
		if len(list) == 0 {
			return fmt.Errorf("unknown category %q", category)
		}
	} else {
		list = cat.All()
	}

	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(list)
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tKIND\tISO\tDESCRIPTION")
	for _, p := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n", p.ID, p.Name, p.Category, p.Kind, p.Grain.ISO, p.Description)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if cmd.OutOrStdout() == os.Stdout {
		fmt.Fprintf(os.Stderr, "%d profiles\n", len(list))
	}
	return nil
}
