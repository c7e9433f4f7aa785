package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var essenceCmd = &cobra.Command{
	Use:   "essence",
	Short: "Summarize the state of the chat memory",
	Long: `Scroll the chat memory collection, aggregate the stored vectors into
a mean with recent samples, and print an LLM summary of the result.`,
	RunE: runEssence,
}

func init() {
	rootCmd.AddCommand(essenceCmd)
}

func runEssence(cmd *cobra.Command, args []string) error {
	p, err := buildPipeline()
	if err != nil {
		return err
	}
	defer p.close()

	ctx := cmd.Context()

	e, err := p.essence.Compute(ctx, cfg.Essence.ScrollLimit)
	if err != nil {
		return fmt.Errorf("compute essence: %w", err)
	}
	summary, err := p.essence.Summarize(ctx, e)
	if err != nil {
		return fmt.Errorf("summarize essence: %w", err)
	}

	fmt.Println(summary)
	return nil
}
