package memory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"aria/internal/domain"
	"aria/internal/port"
)

// Store keeps an append-only log of user utterances in the chat-history
// collection, embedded so they can be recalled by similarity. Everything
// here is best-effort: a broken store must never block a reply.
type Store struct {
	embedder   port.Embedder
	store      port.VectorStore
	collection string
	log        *zap.Logger

	recordTimeout time.Duration
}

func NewStore(embedder port.Embedder, store port.VectorStore, collection string, log *zap.Logger) *Store {
	return &Store{
		embedder:      embedder,
		store:         store,
		collection:    collection,
		log:           log,
		recordTimeout: 30 * time.Second,
	}
}

// EnsureReady creates the chat-history collection if needed.
func (s *Store) EnsureReady(ctx context.Context) error {
	return s.store.EnsureCollection(ctx, s.collection, s.embedder.Dimension())
}

// Record embeds text and upserts it as a fresh point with the current
// timestamp. One attempt, no retry.
func (s *Store) Record(ctx context.Context, text string) error {
	if text == "" {
		return nil
	}

	vector, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return err
	}

	point := domain.Point{
		ID:     uuid.NewString(),
		Vector: vector,
		Payload: domain.Payload{
			Text:      text,
			Source:    domain.SourceChat,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Weight:    1.0,
		},
	}

	return s.store.Upsert(ctx, s.collection, []domain.Point{point})
}

// RecordDetached runs Record in the background with its own deadline,
// independent of the caller's context. There is no ordering guarantee
// relative to the reply that triggered it; failures are logged and
// swallowed.
func (s *Store) RecordDetached(text string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.recordTimeout)
		defer cancel()

		if err := s.Record(ctx, text); err != nil {
			s.log.Warn("memory write failed", zap.Error(err))
		}
	}()
}

// Recall returns up to k most similar prior utterances joined by newlines,
// most similar first. Returns "" when there is nothing to recall or the
// embedder/store is unavailable.
func (s *Store) Recall(ctx context.Context, query string, k int) string {
	if query == "" || k <= 0 {
		return ""
	}

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		s.log.Warn("memory recall embed failed", zap.Error(err))
		return ""
	}

	hits, err := s.store.Search(ctx, s.collection, vector, k)
	if err != nil {
		s.log.Warn("memory recall search failed", zap.Error(err))
		return ""
	}

	texts := make([]string, 0, len(hits))
	for _, h := range hits {
		if h.Payload.Text != "" {
			texts = append(texts, h.Payload.Text)
		}
	}

	return strings.Join(texts, "\n")
}
