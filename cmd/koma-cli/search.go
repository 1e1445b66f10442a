package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vrsandeep/koma-go/internal/core"
	"github.com/vrsandeep/koma-go/internal/models"
)

var searchArgs struct {
	title        string
	genres       []string
	themes       []string
	demographics []string
	prefix       bool
}

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search the catalog by title and tags",
	RunE:  withApp(runSearch),
}

var historyArgs struct {
	deleteID string
	clear    bool
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show or edit the search history",
	RunE:  withApp(runHistory),
}

func init() {
	searchCmd.Flags().StringVarP(&searchArgs.title, "title", "t", "", "title text")
	searchCmd.Flags().StringSliceVarP(&searchArgs.genres, "genre", "g", nil, "required genre (repeatable)")
	searchCmd.Flags().StringSliceVar(&searchArgs.themes, "theme", nil, "required theme (repeatable)")
	searchCmd.Flags().StringSliceVarP(&searchArgs.demographics, "demographic", "d", nil, "required demographic (repeatable)")
	searchCmd.Flags().BoolVar(&searchArgs.prefix, "prefix", false, "match the title as a prefix instead of a substring")

	historyCmd.Flags().StringVar(&historyArgs.deleteID, "delete", "", "delete the entry with this id")
	historyCmd.Flags().BoolVar(&historyArgs.clear, "clear", false, "delete every entry")

	rootCmd.AddCommand(searchCmd, historyCmd)
}

func runSearch(cmd *cobra.Command, app *core.App, args []string) error {
	filter := models.SearchFilter{
		Title:        searchArgs.title,
		Genres:       searchArgs.genres,
		Themes:       searchArgs.themes,
		Demographics: searchArgs.demographics,
		Contains:     !searchArgs.prefix,
	}
	if filter.IsEmpty() {
		return fmt.Errorf("give a title or at least one tag")
	}

	engine := app.Search()
	if err := engine.LoadHistory(cmd.Context()); err != nil {
		return err
	}
	engine.SetFilter(filter)
	if err := engine.SearchIfNeeded(cmd.Context()); err != nil {
		return err
	}

	st := engine.Snapshot()
	if st.ShowEmpty {
		fmt.Fprintln(cmd.OutOrStdout(), "No results.")
		return nil
	}
	printMangaTable(cmd.OutOrStdout(), st.Results.Items)
	fmt.Fprintf(cmd.OutOrStdout(), "\n%d of %d results\n", len(st.Results.Items), st.Results.TotalCount)
	return nil
}

func runHistory(cmd *cobra.Command, app *core.App, args []string) error {
	engine := app.Search()
	if err := engine.LoadHistory(cmd.Context()); err != nil {
		return err
	}

	switch {
	case historyArgs.clear:
		return engine.ClearHistory(cmd.Context())
	case historyArgs.deleteID != "":
		entry, ok := engine.HistoryEntry(historyArgs.deleteID)
		if !ok {
			return fmt.Errorf("no history entry %q", historyArgs.deleteID)
		}
		return engine.DeleteHistoryEntry(cmd.Context(), entry)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tQUERY\tTAGS\tLAST USED")
	for _, h := range engine.History() {
		tags := append(append(append([]string{}, h.Genres...), h.Themes...), h.Demographics...)
		fmt.Fprintf(w, "%s\t%s\t%v\t%s\n", h.ID, h.Query, tags, h.LastUsedAt.Local().Format("2006-01-02 15:04"))
	}
	return w.Flush()
}
