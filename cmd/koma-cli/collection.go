package main

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vrsandeep/koma-go/internal/catalog"
	"github.com/vrsandeep/koma-go/internal/core"
	"github.com/vrsandeep/koma-go/internal/models"
)

var collectionCmd = &cobra.Command{
	Use:   "collection",
	Short: "Manage saved manga and volume counters",
}

var listByTitle bool

var collectionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved manga",
	RunE:  withApp(runCollectionList),
}

var collectionAddCmd = &cobra.Command{
	Use:   "add <id>",
	Short: "Save a catalog entry",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runCollectionAdd),
}

var collectionRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a saved entry",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, app *core.App, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return app.Catalog().RemoveItem(cmd.Context(), models.Manga{ID: id})
	}),
}

var collectionOwnedCmd = &cobra.Command{
	Use:   "owned <id> <count>",
	Short: "Set how many volumes you own",
	Args:  cobra.ExactArgs(2),
	RunE: withApp(func(cmd *cobra.Command, app *core.App, args []string) error {
		return runSetCount(cmd, app, args, app.Catalog().SetOwnedCount)
	}),
}

var collectionReadCmd = &cobra.Command{
	Use:   "read <id> <count>",
	Short: "Set how many volumes you have read",
	Args:  cobra.ExactArgs(2),
	RunE: withApp(func(cmd *cobra.Command, app *core.App, args []string) error {
		return runSetCount(cmd, app, args, app.Catalog().SetReadCount)
	}),
}

func init() {
	collectionListCmd.Flags().BoolVar(&listByTitle, "by-title", false, "order by title instead of save time")
	collectionCmd.AddCommand(collectionListCmd, collectionAddCmd, collectionRemoveCmd, collectionOwnedCmd, collectionReadCmd)
	rootCmd.AddCommand(collectionCmd)
}

func parseID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid manga id %q", raw)
	}
	return id, nil
}

func runCollectionList(cmd *cobra.Command, app *core.App, args []string) error {
	engine := app.Catalog()
	if err := engine.RefreshSaved(cmd.Context()); err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tOWNED\tREAD")
	entries := engine.Saved()
	if listByTitle {
		entries = engine.SavedByTitle()
	}
	for _, e := range entries {
		fmt.Fprintf(w, "%d\t%s\t%d/%s\t%d\n", e.Manga.ID, e.Manga.Title, e.OwnedCount, volumesLabel(e.Manga), e.ReadCount)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	stats := engine.CollectionStats()
	fmt.Fprintf(cmd.OutOrStdout(), "\n%d saved, %d volumes owned, %d read\n", stats.Entries, stats.OwnedVolumes, stats.ReadVolumes)
	return nil
}

// runCollectionAdd pages through the catalog feed until the id shows up.
func runCollectionAdd(cmd *cobra.Command, app *core.App, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	engine := app.Catalog()
	if err := engine.Restart(cmd.Context()); err != nil {
		return err
	}
	for {
		st := engine.Browse()
		if m, ok := findByID(st, id); ok {
			if err := engine.SaveItem(cmd.Context(), m); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %q.\n", m.Title)
			return nil
		}
		if !st.HasMore() || len(st.Items) == 0 {
			return fmt.Errorf("manga %d is not in the catalog", id)
		}
		if _, err := engine.LoadMoreIfNeeded(cmd.Context(), st.Items[len(st.Items)-1].ID); err != nil {
			return err
		}
	}
}

func findByID(st catalog.BrowseState, id int) (models.Manga, bool) {
	for _, m := range st.Items {
		if m.ID == id {
			return m, true
		}
	}
	return models.Manga{}, false
}

func runSetCount(cmd *cobra.Command, app *core.App, args []string, set func(ctx context.Context, item models.Manga, value int) error) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	value, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid count %q", args[1])
	}
	if err := set(cmd.Context(), models.Manga{ID: id}, value); err != nil {
		return err
	}
	st, err := app.Catalog().LoadItemState(cmd.Context(), models.Manga{ID: id})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "owned %d, read %d\n", st.OwnedCount, st.ReadCount)
	return nil
}
