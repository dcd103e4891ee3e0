package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func strategyCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "strategy",
		Short: "Print the X25519 implementation selected at startup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "Strategy: %s\n", e.wire.Curve.Strategy())
			return nil
		},
	}
}
