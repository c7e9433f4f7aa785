package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"aria/internal/domain"
)

var queryMode string

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Run one message through the pipeline from the terminal",
	Long: `Run a single message through the full pipeline (memory recall,
retrieval, generation) without Telegram. Useful for smoke-testing the
configuration and the collections.

Examples:
  aria query -q "who was Seneca?"
  aria query -q "who was Seneca?" --mode book`,
	RunE: runQuery,
}

var queryText string

func init() {
	queryCmd.Flags().StringVarP(&queryText, "query", "q", "", "message to send (required)")
	queryCmd.Flags().StringVar(&queryMode, "mode", "", "retrieval mode for this run (hy, free, book)")
	queryCmd.MarkFlagRequired("query")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	p, err := buildPipeline()
	if err != nil {
		return err
	}
	defer p.close()

	ctx := cmd.Context()
	const conversationID = "cli"

	if queryMode != "" {
		m, err := domain.ParseMode(queryMode)
		if err != nil {
			return err
		}
		p.modes.Set(conversationID, m)
	}

	if err := p.memory.EnsureReady(ctx); err != nil {
		logger.Warn("chat collection not ready")
	}

	fmt.Println(p.replier.Reply(ctx, conversationID, queryText))
	return nil
}
