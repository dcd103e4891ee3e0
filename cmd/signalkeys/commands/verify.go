package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"signalkeys/internal/crypto"
	"signalkeys/internal/domain"
	"signalkeys/internal/store"
)

var errBadBundleSignature = errors.New("signed pre-key signature does not verify")

func verifyCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "verify <bundle.json>",
		Short: "Verify the signed pre-key signature in a bundle file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := store.ReadBundle(args[0])
			if err != nil {
				return err
			}
			ok, err := e.wire.Curve.Verify(b.IdentityKey, b.SignedPreKey, b.SignedPreKeySignature, domain.FullVerification)
			if err != nil {
				return err
			}
			if !ok {
				return errBadBundleSignature
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Signed pre-key %d OK\n", b.SignedPreKeyID)
			fmt.Fprintf(out, "Identity fingerprint: %s\n", crypto.Fingerprint(b.IdentityKey))
			fmt.Fprintf(out, "One-time pre-keys: %d\n", len(b.PreKeys))
			return nil
		},
	}
}
