package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newPendingCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pending",
		Short: "Review admin access requests",
	}

	cmd.AddCommand(newPendingListCmd(opts))
	cmd.AddCommand(newPendingApproveCmd(opts))
	cmd.AddCommand(newPendingRejectCmd(opts))

	return cmd
}

func newPendingListCmd(opts *options) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List pending admin requests, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := authedClient(cmd, opts)
			if err != nil {
				return err
			}
			pending, err := c.ListPending(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(pending)
			}
			if len(pending) == 0 {
				fmt.Fprintln(out, "No pending admin requests.")
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tUSERNAME\tEMAIL\tREQUESTED")
			for _, p := range pending {
				email := p.Email
				if email == "" {
					email = "-"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.ID, p.Username, email, p.CreatedAt.Format(time.RFC3339))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func newPendingApproveCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "approve <id>",
		Short: "Promote a pending request to an admin account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := authedClient(cmd, opts)
			if err != nil {
				return err
			}
			msg, err := c.Approve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}
}

func newPendingRejectCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "reject <id>",
		Short: "Delete a pending request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := authedClient(cmd, opts)
			if err != nil {
				return err
			}
			msg, err := c.Reject(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}
}
