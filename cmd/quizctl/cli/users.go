package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newUsersCmd(opts *options) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "users",
		Short: "List users with their scores, and admins",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := authedClient(cmd, opts)
			if err != nil {
				return err
			}
			resp, err := c.ListUsers(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(resp)
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ROLE\tID\tUSERNAME\tEMAIL\tQUIZZES TAKEN")
			for _, a := range resp.Admins {
				fmt.Fprintf(tw, "admin\t%s\t%s\t-\t-\n", a.ID, a.Username)
			}
			for _, u := range resp.Users {
				email := u.Email
				if email == "" {
					email = "-"
				}
				fmt.Fprintf(tw, "user\t%s\t%s\t%s\t%d\n", u.ID, u.Username, email, len(u.Scores))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
