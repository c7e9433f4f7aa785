package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"aria/config"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "aria",
	Short: "Aria - conversational agent with retrieval-augmented memory",
	Long: `Aria is a conversational agent that blends passages retrieved from a
vector store of books with a rolling associative memory of the chat
itself. Per-conversation modes decide how much weight retrieval gets.

Example usage:
  aria serve               # Run the Telegram bot
  aria ingest ./books      # Chunk and embed books into the store
  aria query -q "hello"    # One-shot pipeline run from the terminal
  aria essence             # Summarize the state of the chat memory`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			wd, wdErr := os.Getwd()
			if wdErr != nil {
				return fmt.Errorf("failed to get working directory: %w", wdErr)
			}
			cfg, err = config.LoadFromDir(wd)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logger, err = newLogger(cfg.Logging.Level)
		if err != nil {
			return fmt.Errorf("failed to build logger: %w", err)
		}

		return nil
	},
}

// newLogger builds a zap logger: human-readable debug output when the
// configured level is debug, JSON at info otherwise.
func newLogger(level string) (*zap.Logger, error) {
	if level == "debug" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./aria.yaml)")
}
