package telegram

import (
	"context"
	"testing"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"aria/internal/domain"
	"aria/internal/usecase"
)

type fakeSender struct {
	sent []*bot.SendMessageParams
}

func (f *fakeSender) SendMessage(_ context.Context, params *bot.SendMessageParams) (*models.Message, error) {
	f.sent = append(f.sent, params)
	return &models.Message{}, nil
}

type fakeReplier struct {
	lastConversation string
	lastText         string
	reply            string
}

func (f *fakeReplier) Reply(_ context.Context, conversationID, text string) string {
	f.lastConversation = conversationID
	f.lastText = text
	return f.reply
}

type fakeEssence struct {
	essence domain.Essence
	summary string
	fail    error
}

func (f *fakeEssence) Compute(context.Context, int) (domain.Essence, error) {
	if f.fail != nil {
		return domain.Essence{}, f.fail
	}
	return f.essence, nil
}

func (f *fakeEssence) Summarize(context.Context, domain.Essence) (string, error) {
	if f.fail != nil {
		return "", f.fail
	}
	return f.summary, nil
}

func newTestAdapter(replier *fakeReplier, essence *fakeEssence) (*Adapter, *fakeSender, *usecase.ModeRegistry) {
	sender := &fakeSender{}
	modes := usecase.NewModeRegistry(domain.ModeHybrid)
	a := NewAdapter("token", replier, essence, modes, 256, zap.NewNop())
	a.bot = sender
	return a, sender, modes
}

func update(chatID int64, text string) *models.Update {
	return &models.Update{
		Message: &models.Message{
			Text: text,
			Chat: models.Chat{ID: chatID},
		},
	}
}

func TestHandleUpdate_PlainMessage(t *testing.T) {
	replier := &fakeReplier{reply: "hello back"}
	a, sender, _ := newTestAdapter(replier, &fakeEssence{})

	a.handleUpdate(context.Background(), update(42, "ciao"))

	assert.Equal(t, "42", replier.lastConversation)
	assert.Equal(t, "ciao", replier.lastText)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "hello back", sender.sent[0].Text)
	assert.Equal(t, int64(42), sender.sent[0].ChatID)
}

func TestHandleUpdate_ModeCommand(t *testing.T) {
	a, sender, modes := newTestAdapter(&fakeReplier{}, &fakeEssence{})

	a.handleUpdate(context.Background(), update(42, "/mode book"))

	assert.Equal(t, domain.ModeBook, modes.Get("42"))
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].Text, "book")

	// Aliases map to the canonical mode.
	a.handleUpdate(context.Background(), update(42, "/mode libri"))
	assert.Equal(t, domain.ModeBook, modes.Get("42"))

	// Modes are per conversation.
	assert.Equal(t, domain.ModeHybrid, modes.Get("7"))
}

func TestHandleUpdate_ModeCommandInvalid(t *testing.T) {
	a, sender, modes := newTestAdapter(&fakeReplier{}, &fakeEssence{})
	modes.Set("42", domain.ModeFree)

	a.handleUpdate(context.Background(), update(42, "/mode voice"))

	// Register unchanged, help returned.
	assert.Equal(t, domain.ModeFree, modes.Get("42"))
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].Text, "Current mode: free")
	assert.Contains(t, sender.sent[0].Text, "/mode hy")
}

func TestHandleUpdate_ModeCommandBare(t *testing.T) {
	a, sender, _ := newTestAdapter(&fakeReplier{}, &fakeEssence{})

	a.handleUpdate(context.Background(), update(42, "/mode"))

	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].Text, "Current mode: hy")
}

func TestHandleUpdate_EssenceCommand(t *testing.T) {
	essence := &fakeEssence{
		essence: domain.Essence{Count: 3, MeanVector: domain.Vector{1}},
		summary: "a calm day of questions",
	}
	a, sender, _ := newTestAdapter(&fakeReplier{}, essence)

	a.handleUpdate(context.Background(), update(42, "/essence"))

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "a calm day of questions", sender.sent[0].Text)
}

func TestHandleUpdate_EssenceFailure(t *testing.T) {
	a, sender, _ := newTestAdapter(&fakeReplier{}, &fakeEssence{fail: domain.ErrStoreUnavailable})

	a.handleUpdate(context.Background(), update(42, "/essence"))

	require.Len(t, sender.sent, 1)
	assert.Equal(t, essenceDownMsg, sender.sent[0].Text)
}

func TestHandleUpdate_IgnoresEmpty(t *testing.T) {
	a, sender, _ := newTestAdapter(&fakeReplier{reply: "x"}, &fakeEssence{})

	a.handleUpdate(context.Background(), &models.Update{})
	a.handleUpdate(context.Background(), update(42, "   "))

	assert.Empty(t, sender.sent)
}
