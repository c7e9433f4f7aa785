package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"aria/internal/channels/telegram"
	"aria/internal/scheduler"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Telegram bot",
	Long: `Start the agent: poll Telegram for messages, answer them through the
retrieval pipeline, and (when configured) periodically aggregate the
chat memory into an essence summary.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	token := cfg.TelegramToken()
	if token == "" {
		return fmt.Errorf("no bot token in $%s", cfg.Telegram.TokenEnv)
	}

	p, err := buildPipeline()
	if err != nil {
		return err
	}
	defer p.close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Collections are created lazily; a dead store at startup is logged,
	// not fatal, so the bot can come up before the database does.
	if err := p.memory.EnsureReady(ctx); err != nil {
		logger.Warn("chat collection not ready", zap.Error(err))
	}
	if err := p.ingestor.EnsureReady(ctx); err != nil {
		logger.Warn("books collection not ready", zap.Error(err))
	}

	if schedule := cfg.Essence.Schedule; schedule != "" {
		sched := scheduler.New(logger)
		err := sched.Add(schedule, "essence", func(jobCtx context.Context) {
			e, err := p.essence.Compute(jobCtx, cfg.Essence.ScrollLimit)
			if err != nil {
				logger.Warn("periodic essence failed", zap.Error(err))
				return
			}
			summary, err := p.essence.Summarize(jobCtx, e)
			if err != nil {
				logger.Warn("periodic essence summary failed", zap.Error(err))
				return
			}
			logger.Info("periodic essence",
				zap.Int("points", e.Count),
				zap.String("summary", summary))
		})
		if err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()
	}

	adapter := telegram.NewAdapter(token, p.replier, p.essence, p.modes, cfg.Essence.ScrollLimit, logger)

	logger.Info("serving",
		zap.String("default_mode", cfg.Retrieve.DefaultMode),
		zap.Float64("threshold", cfg.Retrieve.Threshold))
	return adapter.Run(ctx)
}
