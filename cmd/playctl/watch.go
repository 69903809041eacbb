package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"playgate/internal/playgate/types"
)

func newWatchCommand(client func() *apiClient) *cobra.Command {
	var refresh time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll the current play and render a live countdown",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runWatch(ctx, cmd, client(), refresh)
		},
	}

	cmd.Flags().DurationVar(&refresh, "refresh", 30*time.Second, "How often to re-fetch the play record")
	return cmd
}

// runWatch re-fetches the record on the refresh interval and recomputes
// the countdown from wall-clock time every second.  Recomputing from
// scratch each tick (rather than decrementing a counter) keeps the
// display driftless no matter how long it runs.
func runWatch(ctx context.Context, cmd *cobra.Command, client *apiClient, refresh time.Duration) error {
	resp, err := client.GetPlay(ctx)
	if err != nil {
		return err
	}

	fetchTicker := time.NewTicker(refresh)
	defer fetchTicker.Stop()
	countdownTicker := time.NewTicker(time.Second)
	defer countdownTicker.Stop()

	printWatchLine(cmd, resp)
	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		case <-fetchTicker.C:
			latest, err := client.GetPlay(ctx)
			if err != nil {
				// Transient fetch failures keep the last known record.
				continue
			}
			resp = latest
		case <-countdownTicker.C:
			printWatchLine(cmd, resp)
		}
	}
}

func printWatchLine(cmd *cobra.Command, resp types.PlayResponse) {
	out := cmd.OutOrStdout()

	if resp.Play == nil {
		fmt.Fprintf(out, "\rwaiting for today's play        ")
		return
	}

	gameTime, err := time.Parse(time.RFC3339, resp.Play.GameTime)
	if err != nil {
		fmt.Fprintf(out, "\r%s: %s        ", resp.State, resp.Play.Title)
		return
	}

	now := time.Now().UTC()
	if !now.Before(gameTime) {
		fmt.Fprintf(out, "\r%s: %s (game started)        ", resp.State, resp.Play.Title)
		return
	}

	total := int(gameTime.Sub(now) / time.Second)
	fmt.Fprintf(out, "\r%s: %s starts in %02d:%02d:%02d        ",
		resp.State, resp.Play.Title, total/3600, (total%3600)/60, total%60)
}
