package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/socialine-cli/api/schemas"
	"github.com/xkilldash9x/socialine-cli/internal/config"
	"github.com/xkilldash9x/socialine-cli/internal/observability"
)

func newActCmd() *cobra.Command {
	var (
		account string
		target  string
		kind    string
		comment string
	)

	cmd := &cobra.Command{
		Use:   "act",
		Short: "Perform a single action (like, reaction, comment, follow) against a target URL.",
		RunE: func(cmd *cobra.Command, args []string) error {
			defer observability.Sync()

			components, err := newComponents(cmd.Context(), config.Get())
			if err != nil {
				return err
			}
			defer components.Shutdown()

			outcome := components.Dispatcher.Dispatch(cmd.Context(), account, schemas.ActionRequest{
				TargetURL:   target,
				Kind:        schemas.ActionKind(kind),
				CommentText: comment,
			})

			if err := printJSON(outcome); err != nil {
				return err
			}
			if !outcome.Success {
				return fmt.Errorf("action failed: %s", outcome.Message)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "platform id of the acting account")
	cmd.Flags().StringVar(&target, "target", "", "target post or profile URL")
	cmd.Flags().StringVar(&kind, "type", "", "action type: like, love, haha, wow, sad, angry, comment, follow")
	cmd.Flags().StringVar(&comment, "comment", "", "comment text (required for comment actions)")
	_ = cmd.MarkFlagRequired("account")
	_ = cmd.MarkFlagRequired("target")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
