package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newScanCommand(client func() *apiClient) *cobra.Command {
	var imagePath string

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Run the slip scanner on an image without publishing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			image, err := encodeImageFile(imagePath)
			if err != nil {
				return err
			}

			result, err := client().Scan(cmd.Context(), image)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "title:       %s\n", result.Title)
			fmt.Fprintf(out, "matchup:     %s\n", result.Matchup)
			fmt.Fprintf(out, "bet type:    %s\n", result.BetType)
			fmt.Fprintf(out, "odds:        %s\n", result.Odds)
			fmt.Fprintf(out, "game time:   %s\n", result.GameTime)
			fmt.Fprintf(out, "description: %s\n", result.Description)
			return nil
		},
	}

	cmd.Flags().StringVar(&imagePath, "image", "", "Path to the slip image (required)")
	_ = cmd.MarkFlagRequired("image")

	return cmd
}
