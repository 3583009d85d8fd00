package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/cryptea/internal/catalog"
)

var (
	catalogBase       string
	catalogCollection string
	catalogWatch      bool
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Trait catalog tools",
}

var catalogBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Scan a collection and write its catalog",
	Long: `Scan <base>/<collection>/<Category>/ for image assets and write
<collection>.json and <collection>.ts into the collection directory.

With --watch the catalog is rebuilt whenever a category directory changes.`,
	RunE: runCatalogBuild,
}

func init() {
	catalogBuildCmd.Flags().StringVar(&catalogBase, "base", "assets", "directory holding the collections")
	catalogBuildCmd.Flags().StringVar(&catalogCollection, "collection", "", "collection name")
	catalogBuildCmd.Flags().BoolVar(&catalogWatch, "watch", false, "rebuild on changes until interrupted")
	_ = catalogBuildCmd.MarkFlagRequired("collection")

	catalogCmd.AddCommand(catalogBuildCmd)
}

func runCatalogBuild(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	input := &catalog.GenerateInput{
		BasePath:       catalogBase,
		CollectionName: catalogCollection,
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Scanning %s...\n", input.CollectionPath())
	out, err := catalog.Generate(ctx, input)
	if err != nil {
		return err
	}
	printGenerated(cmd, out)

	if !catalogWatch {
		return nil
	}
	return watchCatalog(ctx, cmd, input)
}

func watchCatalog(ctx context.Context, cmd *cobra.Command, input *catalog.GenerateInput) error {
	w, err := catalog.NewWatcher(&catalog.WatcherConfig{
		Input: input,
		OnGenerate: func(out *catalog.GenerateOutput, err error) {
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Rebuild failed: %v\n", err)
				return
			}
			printGenerated(cmd, out)
		},
	})
	if err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		w.Stop()
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Watching %s for changes (Ctrl+C to stop)\n", input.CollectionPath())
	<-ctx.Done()
	w.Stop()
	return nil
}

func printGenerated(cmd *cobra.Command, out *catalog.GenerateOutput) {
	w := cmd.OutOrStdout()
	for _, entry := range out.Catalog.Entries() {
		fmt.Fprintf(w, "  %-20s %d assets\n", entry.Category, len(entry.Assets))
	}
	fmt.Fprintf(w, "Wrote %s\n", out.JSONPath)
	fmt.Fprintf(w, "Wrote %s\n", out.TypeScriptPath)
}
