package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func initCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Generate the identity key pair and registration id and store them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pass, err := e.passphrase()
			if err != nil {
				return err
			}
			account, fp, err := e.wire.Identity.Provision(pass)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Identity created.")
			fmt.Fprintf(out, "Registration ID: %d\n", account.RegistrationID)
			fmt.Fprintf(out, "Fingerprint: %s\n", fp)
			return nil
		},
	}
}
