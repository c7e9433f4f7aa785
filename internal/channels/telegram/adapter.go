package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"aria/internal/domain"
)

// Replier is the core's entry point for one incoming message.
type Replier interface {
	Reply(ctx context.Context, conversationID, text string) string
}

// EssenceReporter serves the /essence command.
type EssenceReporter interface {
	Compute(ctx context.Context, limit int) (domain.Essence, error)
	Summarize(ctx context.Context, e domain.Essence) (string, error)
}

// ModeSetter is the per-conversation mode register.
type ModeSetter interface {
	Get(conversationID string) domain.Mode
	Set(conversationID string, m domain.Mode)
}

// sender abstracts the Telegram bot methods the adapter uses, enabling
// testing with mocks.
type sender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

const (
	modeHelpFormat = "Current mode: %s\nSwitch with one of:\n/mode hy\n/mode free\n/mode book"
	essenceDownMsg = "I can't reach my memory right now. Try again in a moment."
)

// Adapter wires Telegram updates to the reply pipeline. Commands /mode and
// /essence are dispatched here; everything else goes to the Replier.
type Adapter struct {
	token       string
	bot         sender
	replier     Replier
	essence     EssenceReporter
	modes       ModeSetter
	scrollLimit int
	log         *zap.Logger
}

func NewAdapter(token string, replier Replier, essence EssenceReporter, modes ModeSetter, scrollLimit int, log *zap.Logger) *Adapter {
	return &Adapter{
		token:       token,
		replier:     replier,
		essence:     essence,
		modes:       modes,
		scrollLimit: scrollLimit,
		log:         log,
	}
}

// Run starts long polling and blocks until ctx is cancelled.
func (a *Adapter) Run(ctx context.Context) error {
	b, err := bot.New(a.token, bot.WithDefaultHandler(func(ctx context.Context, _ *bot.Bot, update *models.Update) {
		a.handleUpdate(ctx, update)
	}))
	if err != nil {
		return fmt.Errorf("create telegram bot: %w", err)
	}

	a.bot = b
	a.log.Info("telegram bot started, polling")
	b.Start(ctx)
	return nil
}

func (a *Adapter) handleUpdate(ctx context.Context, update *models.Update) {
	if update.Message == nil {
		return
	}

	text := strings.TrimSpace(update.Message.Text)
	if text == "" {
		return
	}

	chatID := update.Message.Chat.ID
	conversationID := strconv.FormatInt(chatID, 10)

	var reply string
	switch {
	case strings.HasPrefix(text, "/mode"):
		reply = a.handleModeCommand(conversationID, text)
	case strings.HasPrefix(text, "/essence"):
		reply = a.handleEssenceCommand(ctx)
	default:
		reply = a.replier.Reply(ctx, conversationID, text)
	}

	a.send(ctx, chatID, reply)
}

// handleModeCommand switches the conversation's mode. A bare /mode, or an
// unknown token, reports the current mode and the valid tokens; the
// register is left unchanged.
func (a *Adapter) handleModeCommand(conversationID, text string) string {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return fmt.Sprintf(modeHelpFormat, a.modes.Get(conversationID))
	}

	mode, err := domain.ParseMode(fields[1])
	if err != nil {
		return fmt.Sprintf(modeHelpFormat, a.modes.Get(conversationID))
	}

	a.modes.Set(conversationID, mode)
	return fmt.Sprintf("Mode set to: %s", mode)
}

func (a *Adapter) handleEssenceCommand(ctx context.Context) string {
	e, err := a.essence.Compute(ctx, a.scrollLimit)
	if err != nil {
		a.log.Warn("essence compute failed", zap.Error(err))
		return essenceDownMsg
	}

	out, err := a.essence.Summarize(ctx, e)
	if err != nil {
		a.log.Warn("essence summary failed", zap.Error(err))
		return essenceDownMsg
	}
	return out
}

func (a *Adapter) send(ctx context.Context, chatID int64, text string) {
	if text == "" {
		return
	}
	_, err := a.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		a.log.Warn("telegram send failed", zap.Int64("chat", chatID), zap.Error(err))
	}
}
