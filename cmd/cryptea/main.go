// Package main is the entry point for the cryptea forge
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/cryptea/cmd/cryptea/client"
)

var rootCmd = &cobra.Command{
	Use:   "cryptea",
	Short: "Cryptea trait forge",
	Long: `Cryptea builds trait catalogs from layered artwork, serves an editor API for
picking traits and composes the selected layers into mintable artifacts.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(client.ClientCmd)
}
