// Package client provides commands that talk to a running forge over gRPC
package client

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/KirkDiggler/cryptea/internal/errors"
	"github.com/KirkDiggler/cryptea/internal/handlers/forge/v1alpha1"
)

var (
	// Connection flags
	serverAddr string
	timeout    time.Duration
)

// ClientCmd is the root command for all client commands
var ClientCmd = &cobra.Command{
	Use:   "client",
	Short: "Client commands for a running forge",
	Long:  `Client commands drive the forge editor API by making real gRPC requests.`,
}

func init() {
	ClientCmd.PersistentFlags().StringVar(&serverAddr, "server", "localhost:50051", "gRPC server address")
	ClientCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")

	ClientCmd.AddCommand(catalogCmd)

	// Session commands
	ClientCmd.AddCommand(startCmd)
	ClientCmd.AddCommand(getCmd)
	ClientCmd.AddCommand(activeCmd)
	ClientCmd.AddCommand(toggleCmd)
	ClientCmd.AddCommand(randomizeCmd)
	ClientCmd.AddCommand(resetCmd)
	ClientCmd.AddCommand(endCmd)

	// Rendering and mint commands
	ClientCmd.AddCommand(composeCmd)
	ClientCmd.AddCommand(publishCmd)
	ClientCmd.AddCommand(confirmCmd)
}

// createForgeClient creates a forge service client
func createForgeClient() (v1alpha1.ForgeServiceClient, func(), error) {
	conn, err := grpc.NewClient(serverAddr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to server: %w", err)
	}

	cleanup := func() {
		_ = conn.Close() // nolint:errcheck // safe to ignore in cleanup
	}

	return v1alpha1.NewForgeClient(conn), cleanup, nil
}

// callError turns a gRPC status back into a readable domain error
func callError(action string, err error) error {
	return errors.Wrap(errors.FromGRPCError(err), "failed to "+action)
}

func printJSON(cmd *cobra.Command, v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(output))
	return nil
}

func printSession(cmd *cobra.Command, s *v1alpha1.Session) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Session %s (%s)\n", s.ID, s.State)
	if s.ActiveCategory != "" {
		fmt.Fprintf(w, "  Editing: %s\n", s.ActiveCategory)
	}
	for _, category := range slices.Sorted(maps.Keys(s.Selection)) {
		asset := s.Selection[category]
		if asset == "" {
			asset = "-"
		}
		fmt.Fprintf(w, "  %-20s %s\n", category, asset)
	}
	if s.LastError != "" {
		fmt.Fprintf(w, "  Last error: %s\n", s.LastError)
	}
	if len(s.Pending) > 0 {
		fmt.Fprintf(w, "  Pending uploads: %d\n", len(s.Pending))
	}
	fmt.Fprintf(w, "  Expires at: %s\n", time.Unix(s.ExpiresAt, 0).Format(time.RFC3339))
}
