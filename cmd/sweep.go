package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/socialine-cli/internal/config"
	"github.com/xkilldash9x/socialine-cli/internal/observability"
)

func newSweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Deactivate accounts whose session credentials have expired.",
		RunE: func(cmd *cobra.Command, args []string) error {
			defer observability.Sync()

			components, err := newComponents(cmd.Context(), config.Get())
			if err != nil {
				return err
			}
			defer components.Shutdown()

			swept, err := components.Dispatcher.SweepExpiredSessions(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Swept %d expired session(s)\n", swept)
			return nil
		},
	}
}
