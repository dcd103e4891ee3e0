package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"signalkeys/internal/store"
)

func bundleCmd(e *env) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "bundle",
		Short: "Export the public pre-key bundle as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pass, err := e.passphrase()
			if err != nil {
				return err
			}
			b, err := e.wire.PreKey.LoadBundle(pass)
			if err != nil {
				return err
			}
			if outPath != "" {
				if err := store.WriteBundle(outPath, b); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Bundle written to %s\n", outPath)
				return nil
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(b)
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write the bundle to this file instead of stdout")
	return cmd
}
