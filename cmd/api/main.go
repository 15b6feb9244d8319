// cmd/api/main.go
// Entry point for the MomMatch API. Subcommands share one configuration and
// database bootstrap; running without a subcommand starts the server.

package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	if err := newRootCommand().Execute(); err != nil {
		log.Printf("❌ %v", err)
		os.Exit(1)
	}
}

// rootOptions holds global flags for all commands
type rootOptions struct {
	EnvFile string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "mommatch",
		Short:         "MomMatch API server",
		Long:          "Match engine and API for MomMatch: likes, rejects, mutual matches and the conversations they open.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	cmd.AddCommand(newServeCommand(opts))
	cmd.AddCommand(newMigrateCommand(opts))
	cmd.AddCommand(newUserCommand(opts))

	return cmd
}
