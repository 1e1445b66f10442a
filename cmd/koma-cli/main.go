// koma-cli talks to the catalog and the local collection from the terminal.
// It shares the database and configuration with the server.
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vrsandeep/koma-go/internal/core"
	"github.com/vrsandeep/koma-go/internal/models"
)

var version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:           "koma-cli",
	Short:         "Browse the manga catalog and manage your collection",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	log.SetOutput(io.Discard)
	if os.Getenv("KOMA_DEBUG") != "" {
		log.SetOutput(os.Stderr)
	}
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// withApp opens the application for a single command and closes it after.
func withApp(run func(cmd *cobra.Command, app *core.App, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		app, err := core.New(version)
		if err != nil {
			return err
		}
		defer app.Close()
		return run(cmd, app, args)
	}
}

func printMangaTable(out io.Writer, items []models.Manga) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tVOLUMES\tSTATUS\tGENRES")
	for _, m := range items {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", m.ID, m.Title, volumesLabel(m), m.PublicationStatus(), tagNames(m.Genres))
	}
	w.Flush()
}

func volumesLabel(m models.Manga) string {
	if total, ok := m.TotalParts(); ok {
		return fmt.Sprint(total)
	}
	return "?"
}

func tagNames(tags []models.Tag) string {
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.Name)
	}
	return strings.Join(names, ", ")
}
