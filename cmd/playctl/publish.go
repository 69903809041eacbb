package main

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"playgate/internal/playgate/types"
)

func newPublishCommand(client func() *apiClient) *cobra.Command {
	var imagePath string
	var gameTime string
	var title string
	var useScan bool

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish today's play (replaces any existing one)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := client()

			image, err := encodeImageFile(imagePath)
			if err != nil {
				return err
			}

			if useScan {
				result, err := c.Scan(cmd.Context(), image)
				if err != nil {
					return fmt.Errorf("scan slip: %w", err)
				}
				if title == "" {
					title = result.Title
				}
				if gameTime == "" {
					gameTime = result.GameTime
				}
				fmt.Fprintf(cmd.OutOrStdout(), "scan: %s (%s, %s)\n",
					result.Title, result.BetType, result.Odds)
			}

			resp, err := c.Publish(cmd.Context(), types.PublishRequest{
				ImageBase64: image,
				GameTime:    gameTime,
				Title:       title,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "play published (updatedAt %s)\n", resp.UpdatedAt)
			return nil
		},
	}

	cmd.Flags().StringVar(&imagePath, "image", "", "Path to the slip image (required)")
	cmd.Flags().StringVar(&gameTime, "game-time", "", "Game start time, RFC 3339 or YYYY-MM-DDTHH:MM")
	cmd.Flags().StringVar(&title, "title", "", "Play title (defaults server-side)")
	cmd.Flags().BoolVar(&useScan, "scan", false, "Prefill title and game time from the slip scanner")
	_ = cmd.MarkFlagRequired("image")

	return cmd
}

// encodeImageFile reads the slip image and encodes it as a data URL, the
// payload shape the server stores and serves verbatim.
func encodeImageFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}

	mediaType := "image/jpeg"
	if strings.EqualFold(filepath.Ext(path), ".png") {
		mediaType = "image/png"
	}

	return fmt.Sprintf("data:%s;base64,%s", mediaType, base64.StdEncoding.EncodeToString(data)), nil
}
