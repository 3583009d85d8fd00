package client

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/cryptea/internal/handlers/forge/v1alpha1"
)

var (
	composeOut    string
	composeFormat string

	publishName        string
	publishDescription string
	publishFormat      string

	confirmTokenURI string
)

var composeCmd = &cobra.Command{
	Use:   "compose [session-id]",
	Short: "Render the session's selection to a file",
	Args:  cobra.ExactArgs(1),
	RunE:  compose,
}

var publishCmd = &cobra.Command{
	Use:   "publish [session-id]",
	Short: "Upload the artifact and its metadata, printing the token URI",
	Args:  cobra.ExactArgs(1),
	RunE:  publish,
}

var confirmCmd = &cobra.Command{
	Use:   "confirm [session-id]",
	Short: "Mark pending uploads as minted",
	Args:  cobra.ExactArgs(1),
	RunE:  confirm,
}

func init() {
	composeCmd.Flags().StringVar(&composeOut, "out", "", "file to write the image to")
	composeCmd.Flags().StringVar(&composeFormat, "format", "", "jpeg or png (server default when empty)")
	_ = composeCmd.MarkFlagRequired("out")

	publishCmd.Flags().StringVar(&publishName, "name", "", "token name")
	publishCmd.Flags().StringVar(&publishDescription, "description", "", "token description (collection default when empty)")
	publishCmd.Flags().StringVar(&publishFormat, "format", "", "jpeg or png (server default when empty)")
	_ = publishCmd.MarkFlagRequired("name")

	confirmCmd.Flags().StringVar(&confirmTokenURI, "token-uri", "", "token URI the mint used")
}

func compose(cmd *cobra.Command, args []string) error {
	client, cleanup, err := createForgeClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	resp, err := client.Compose(ctx, &v1alpha1.ComposeRequest{
		SessionID: args[0],
		Format:    composeFormat,
	})
	if err != nil {
		return callError("compose", err)
	}

	if err := os.WriteFile(composeOut, resp.Image, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", composeOut, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%s, %d bytes)\n", composeOut, resp.ContentType, len(resp.Image))
	for _, attr := range resp.Attributes {
		fmt.Fprintf(cmd.OutOrStdout(), "  %-20s %s\n", attr.TraitType, attr.Value)
	}
	return nil
}

func publish(cmd *cobra.Command, args []string) error {
	client, cleanup, err := createForgeClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	resp, err := client.Publish(ctx, &v1alpha1.PublishRequest{
		SessionID:   args[0],
		Name:        publishName,
		Description: publishDescription,
		Format:      publishFormat,
	})
	if err != nil {
		return callError("publish", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Image:     %s\n", resp.ImageURI)
	fmt.Fprintf(cmd.OutOrStdout(), "Token URI: %s\n", resp.TokenURI)
	return printJSON(cmd, resp.Metadata)
}

func confirm(cmd *cobra.Command, args []string) error {
	client, cleanup, err := createForgeClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	resp, err := client.ConfirmMint(ctx, &v1alpha1.ConfirmMintRequest{
		SessionID: args[0],
		TokenURI:  confirmTokenURI,
	})
	if err != nil {
		return callError("confirm mint", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Confirmed %d uploads\n", resp.Confirmed)
	return nil
}
