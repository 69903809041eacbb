package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"playgate/internal/playgate/types"
)

func newStatusCommand(client func() *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current play and its visibility state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := client().GetPlay(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderPlayTable(resp))
			return nil
		},
	}
}

func renderPlayTable(resp types.PlayResponse) string {
	headers := []string{"State", "Title", "Game Time", "Updated At", "Countdown"}

	if resp.Play == nil {
		return renderTable(headers, [][]string{{resp.State, "-", "-", "-", "-"}})
	}

	countdown := "-"
	if resp.Countdown != nil {
		countdown = fmt.Sprintf("%02d:%02d:%02d",
			resp.Countdown.Hours, resp.Countdown.Minutes, resp.Countdown.Seconds)
	}

	return renderTable(headers, [][]string{{
		resp.State,
		resp.Play.Title,
		resp.Play.GameTime,
		resp.Play.UpdatedAt,
		countdown,
	}})
}
