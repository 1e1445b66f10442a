package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vrsandeep/koma-go/internal/core"
)

var browsePages int

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "List the catalog feed",
	RunE:  withApp(runBrowse),
}

var curatedCmd = &cobra.Command{
	Use:   "curated",
	Short: "List the curated selection",
	RunE: withApp(func(cmd *cobra.Command, app *core.App, args []string) error {
		if err := app.Catalog().RefreshCurated(cmd.Context()); err != nil {
			return err
		}
		printMangaTable(cmd.OutOrStdout(), app.Catalog().Curated().Items)
		return nil
	}),
}

func init() {
	browseCmd.Flags().IntVarP(&browsePages, "pages", "p", 1, "number of pages to load")
	rootCmd.AddCommand(browseCmd, curatedCmd)
}

func runBrowse(cmd *cobra.Command, app *core.App, args []string) error {
	if browsePages < 1 {
		return fmt.Errorf("pages must be at least 1")
	}
	engine := app.Catalog()
	if err := engine.Restart(cmd.Context()); err != nil {
		return err
	}
	for page := 1; page < browsePages; page++ {
		st := engine.Browse()
		if !st.HasMore() {
			break
		}
		// Anchoring on the last item always passes the prefetch threshold.
		if _, err := engine.LoadMoreIfNeeded(cmd.Context(), st.Items[len(st.Items)-1].ID); err != nil {
			return err
		}
	}

	st := engine.Browse()
	printMangaTable(cmd.OutOrStdout(), st.Items)
	fmt.Fprintf(cmd.OutOrStdout(), "\n%d of %d entries (page %d)\n", len(st.Items), st.TotalCount, st.CurrentPage)
	return nil
}
