package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func prekeysCmd(e *env) *cobra.Command {
	var signedID, start, count int

	cmd := &cobra.Command{
		Use:   "prekeys",
		Short: "Generate a signed pre-key and a batch of one-time pre-keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pass, err := e.passphrase()
			if err != nil {
				return err
			}
			spk, batch, err := e.wire.PreKey.GenerateAndStore(cmd.Context(), pass, signedID, start, count)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Signed pre-key %d stored and marked current.\n", spk.KeyID)
			if len(batch) > 0 {
				fmt.Fprintf(out, "One-time pre-keys %d..%d stored.\n", batch[0].KeyID, batch[len(batch)-1].KeyID)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&signedID, "signed-id", 1, "signed pre-key id")
	cmd.Flags().IntVar(&start, "start", 1, "first one-time pre-key id")
	cmd.Flags().IntVar(&count, "count", 100, "number of one-time pre-keys")
	return cmd
}
