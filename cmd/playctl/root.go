package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var serverFlag string
	var secretFlag string

	rootCmd := &cobra.Command{
		Use:           "playctl",
		Short:         "Operator CLI for the playgate server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&serverFlag, "server", "", "Base URL of the playgate server (default $PLAYGATE_SERVER_URL or http://localhost:8080)")
	rootCmd.PersistentFlags().StringVar(&secretFlag, "secret", "", "Admin secret (default $PLAYGATE_ADMIN_SECRET)")

	client := func() *apiClient {
		server := strings.TrimSpace(serverFlag)
		if server == "" {
			server = strings.TrimSpace(os.Getenv("PLAYGATE_SERVER_URL"))
		}
		if server == "" {
			server = "http://localhost:8080"
		}
		secret := secretFlag
		if secret == "" {
			secret = os.Getenv("PLAYGATE_ADMIN_SECRET")
		}
		return newAPIClient(server, secret)
	}

	rootCmd.AddCommand(newStatusCommand(client))
	rootCmd.AddCommand(newWatchCommand(client))
	rootCmd.AddCommand(newPublishCommand(client))
	rootCmd.AddCommand(newDeleteCommand(client))
	rootCmd.AddCommand(newScanCommand(client))

	return rootCmd
}
