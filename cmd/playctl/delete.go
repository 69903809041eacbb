package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDeleteCommand(client func() *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:   "delete",
		Short: "Delete the current play",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client().Delete(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "play deleted")
			return nil
		},
	}
}
