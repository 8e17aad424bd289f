package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eventhub-dev/eventhub/internal/auth"
)

// errWeakPassword makes `password check` exit non-zero for rejected passwords.
var errWeakPassword = errors.New("password does not meet the required criteria")

func newPasswordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "password",
		Short: "Password policy helpers",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "check <password>",
		Short: "Check a password against the account rules",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw := args[0]
			criteria := auth.CheckCriteria(pw)
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, headerStyle.Render("Criteria"))
			rows := []struct {
				label string
				ok    bool
			}{
				{fmt.Sprintf("at least %d characters", auth.PasswordMinLength), criteria.HasMinLength},
				{"uppercase letter", criteria.HasUpperCase},
				{"lowercase letter", criteria.HasLowerCase},
				{"digit", criteria.HasDigit},
				{"special character (" + auth.SpecialChars + ")", criteria.HasSpecialChar},
			}
			for _, r := range rows {
				fmt.Fprintf(out, "  %s %s\n", mark(r.ok), r.label)
			}

			result := auth.ValidatePassword(pw)
			if result.Valid {
				fmt.Fprintln(out, okStyle.Render("password is valid"))
				return nil
			}
			fmt.Fprintln(out, headerStyle.Render("Violations"))
			for i, msg := range result.Errors {
				fmt.Fprintf(out, "  %d. %s\n", i+1, msg)
			}
			cmd.SilenceErrors = true
			return errWeakPassword
		},
	})
	return cmd
}
