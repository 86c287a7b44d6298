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

func newBatchCmd() *cobra.Command {
	var (
		account string
		file    string
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Run a batch of actions from a JSON file, sequentially with pacing.",
		Long: `Runs up to the configured maximum number of actions for one account.
The actions file is a JSON array of requests:

  [
    {"targetUrl": "https://www.facebook.com/user/posts/1", "actionType": "like"},
    {"targetUrl": "https://www.facebook.com/user/posts/2", "actionType": "comment", "commentText": "hi"}
  ]`,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer observability.Sync()

			raw, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("failed to read actions file: %w", err)
			}
			var reqs []schemas.ActionRequest
			if err := json.Unmarshal(raw, &reqs); err != nil {
				return fmt.Errorf("failed to parse actions file: %w", err)
			}

			components, err := newComponents(cmd.Context(), config.Get())
			if err != nil {
				return err
			}
			defer components.Shutdown()

			result, err := components.Dispatcher.RunBatch(cmd.Context(), account, reqs)
			if err != nil {
				return err
			}
			if err := printJSON(result); err != nil {
				return err
			}
			if result.Summary.Failed > 0 {
				return fmt.Errorf("%d of %d actions failed", result.Summary.Failed, result.Summary.Total)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "platform id of the acting account")
	cmd.Flags().StringVar(&file, "file", "", "path to the JSON actions file")
	_ = cmd.MarkFlagRequired("account")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}
