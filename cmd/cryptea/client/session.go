package client

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/cryptea/internal/handlers/forge/v1alpha1"
)

var toggleCategory string

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print the served trait catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, cleanup, err := createForgeClient()
		if err != nil {
			return err
		}
		defer cleanup()

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		resp, err := client.GetCatalog(ctx, &v1alpha1.GetCatalogRequest{})
		if err != nil {
			return callError("get catalog", err)
		}
		return printJSON(cmd, resp)
	},
}

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Open a new editor session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return sessionCall(cmd, "start session", func(ctx context.Context, c v1alpha1.ForgeServiceClient) (*v1alpha1.SessionResponse, error) {
			return c.StartSession(ctx, &v1alpha1.StartSessionRequest{})
		})
	},
}

var getCmd = &cobra.Command{
	Use:   "get [session-id]",
	Short: "Show a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return sessionCall(cmd, "get session", func(ctx context.Context, c v1alpha1.ForgeServiceClient) (*v1alpha1.SessionResponse, error) {
			return c.GetSession(ctx, &v1alpha1.GetSessionRequest{SessionID: args[0]})
		})
	},
}

var activeCmd = &cobra.Command{
	Use:   "active [session-id] [category]",
	Short: "Choose the category being edited",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return sessionCall(cmd, "set active category", func(ctx context.Context, c v1alpha1.ForgeServiceClient) (*v1alpha1.SessionResponse, error) {
			return c.SetActiveCategory(ctx, &v1alpha1.SetActiveCategoryRequest{
				SessionID: args[0],
				Category:  args[1],
			})
		})
	},
}

var toggleCmd = &cobra.Command{
	Use:   "toggle [session-id] [asset]",
	Short: "Pick an asset, or clear it if already picked",
	Long: `Toggle an asset in the active category, or in --category when given. Examples:

  toggle 3f2a... ape.png
  toggle 3f2a... cap.png --category Hat`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return sessionCall(cmd, "toggle trait", func(ctx context.Context, c v1alpha1.ForgeServiceClient) (*v1alpha1.SessionResponse, error) {
			return c.ToggleTrait(ctx, &v1alpha1.ToggleTraitRequest{
				SessionID: args[0],
				Category:  toggleCategory,
				Asset:     args[1],
			})
		})
	},
}

var randomizeCmd = &cobra.Command{
	Use:   "randomize [session-id]",
	Short: "Replace the selection with a random draw",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return sessionCall(cmd, "randomize", func(ctx context.Context, c v1alpha1.ForgeServiceClient) (*v1alpha1.SessionResponse, error) {
			return c.Randomize(ctx, &v1alpha1.RandomizeRequest{SessionID: args[0]})
		})
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset [session-id]",
	Short: "Clear every category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return sessionCall(cmd, "reset selection", func(ctx context.Context, c v1alpha1.ForgeServiceClient) (*v1alpha1.SessionResponse, error) {
			return c.ResetSelection(ctx, &v1alpha1.ResetSelectionRequest{SessionID: args[0]})
		})
	},
}

var endCmd = &cobra.Command{
	Use:   "end [session-id]",
	Short: "End a session and discard unminted uploads",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, cleanup, err := createForgeClient()
		if err != nil {
			return err
		}
		defer cleanup()

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		resp, err := client.EndSession(ctx, &v1alpha1.EndSessionRequest{SessionID: args[0]})
		if err != nil {
			return callError("end session", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Session ended, %d uploads queued for deletion\n", resp.CleanupScheduled)
		return nil
	},
}

func init() {
	toggleCmd.Flags().StringVar(&toggleCategory, "category", "", "category to toggle in (defaults to the active one)")
}

// sessionCall runs one call that answers with the session and prints it
func sessionCall(
	cmd *cobra.Command,
	action string,
	call func(context.Context, v1alpha1.ForgeServiceClient) (*v1alpha1.SessionResponse, error),
) error {
	client, cleanup, err := createForgeClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	resp, err := call(ctx, client)
	if err != nil {
		return callError(action, err)
	}
	printSession(cmd, resp.Session)
	return nil
}
