package cli

import (
	"errors"
	"fmt"

	pkgauth "github.com/brinda-08/Quiz/pkg/auth"
	"github.com/spf13/cobra"
)

func newHashPasswordCmd() *cobra.Command {
	var cost int

	cmd := &cobra.Command{
		Use:   "hash-password",
		Short: "Print a bcrypt hash of a password read from the terminal",
		Example: `  quizctl hash-password
  quizctl hash-password --cost 14`,
		RunE: func(cmd *cobra.Command, args []string) error {
			errOut := cmd.ErrOrStderr()

			password, err := promptPassword(errOut, "Password: ")
			if err != nil {
				return err
			}
			confirm, err := promptPassword(errOut, "Confirm password: ")
			if err != nil {
				return err
			}
			if password != confirm {
				return errors.New("passwords do not match")
			}

			hash, err := pkgauth.NewHasher(cost).Hash(password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}

	cmd.Flags().IntVar(&cost, "cost", pkgauth.DefaultBcryptCost, "bcrypt cost")

	return cmd
}
