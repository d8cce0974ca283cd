package cli

import (
	"os"

	"github.com/brinda-08/Quiz/pkg/client"
	"github.com/spf13/cobra"
)

// options holds the persistent flag values shared by every subcommand.
type options struct {
	server      string
	sessionPath string
}

// Execute creates the root command tree and runs it.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "quizctl",
		Short: "Administer the quiz server",
		Long: `quizctl manages the quiz server: database migrations, password hashes,
and the admin approval queue.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defaultServer := os.Getenv("QUIZ_SERVER")
	if defaultServer == "" {
		defaultServer = "http://localhost:8080"
	}
	cmd.PersistentFlags().StringVar(&opts.server, "server", defaultServer, "quiz server base URL (env QUIZ_SERVER)")
	cmd.PersistentFlags().StringVar(&opts.sessionPath, "session", client.DefaultSessionPath(), "session file")

	cmd.AddCommand(newMigrateCmd())
	cmd.AddCommand(newHashPasswordCmd())
	cmd.AddCommand(newLoginCmd(opts))
	cmd.AddCommand(newLogoutCmd(opts))
	cmd.AddCommand(newWhoamiCmd(opts))
	cmd.AddCommand(newPendingCmd(opts))
	cmd.AddCommand(newUsersCmd(opts))

	return cmd
}

// authedClient builds a client from the saved session. The session's server
// wins unless --server was given explicitly.
func authedClient(cmd *cobra.Command, opts *options) (*client.Client, error) {
	session, err := client.LoadSession(opts.sessionPath)
	if err != nil {
		return nil, err
	}

	server := session.Server
	if cmd.Flags().Changed("server") || server == "" {
		server = opts.server
	}
	return client.New(server, client.WithToken(session.Token)), nil
}
