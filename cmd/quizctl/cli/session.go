package cli

import (
	"bufio"
	"errors"
	"fmt"
	"time"

	"github.com/brinda-08/Quiz/pkg/client"
	"github.com/spf13/cobra"
)

func newLoginCmd(opts *options) *cobra.Command {
	var identifier string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and save the session token",
		Long: `Log in with a username or email. Admins and the superadmin receive a token
directly; other accounts are sent a one-time code by email, which is prompted for.`,
		Example: `  quizctl login --user root
  quizctl login --user grace@example.com --server https://quiz.example.com`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd, opts, identifier)
		},
	}

	cmd.Flags().StringVarP(&identifier, "user", "u", "", "username or email (required)")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func runLogin(cmd *cobra.Command, opts *options, identifier string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	password, err := promptPassword(cmd.ErrOrStderr(), "Password: ")
	if err != nil {
		return err
	}

	c := client.New(opts.server)
	resp, err := c.Login(ctx, identifier, password)
	if err != nil {
		return err
	}

	if resp.Token == "" {
		if resp.Email == "" {
			return errors.New("this account has no email address, so a login code cannot be sent")
		}
		if err := c.SendLoginOTP(ctx, resp.Username, resp.Email, password); err != nil {
			return err
		}
		code, err := promptLine(bufio.NewReader(cmd.InOrStdin()), cmd.ErrOrStderr(), "Code sent by email: ")
		if err != nil {
			return fmt.Errorf("failed to read code: %w", err)
		}
		if resp, err = c.VerifyLoginOTP(ctx, resp.Username, code); err != nil {
			return err
		}
	}

	session := &client.Session{
		Server:   opts.server,
		Token:    resp.Token,
		Username: resp.Username,
		Role:     resp.Role,
	}
	if err := session.Save(opts.sessionPath); err != nil {
		return err
	}

	fmt.Fprintf(out, "Logged in as %s (%s)\n", resp.Username, resp.Role)
	return nil
}

func newLogoutCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.DeleteSession(opts.sessionPath); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newWhoamiCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the saved session",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := client.LoadSession(opts.sessionPath)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s) on %s\n", session.Username, session.Role, session.Server)

			exp, err := session.ExpiresAt()
			if err != nil {
				return err
			}
			if time.Now().After(exp) {
				fmt.Fprintf(out, "token expired at %s, log in again\n", exp.Format(time.RFC3339))
			} else {
				fmt.Fprintf(out, "token expires at %s\n", exp.Format(time.RFC3339))
			}
			return nil
		},
	}
}
