package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"aria/internal/adapter/chunker"
	"aria/internal/domain"
	"aria/internal/port"
)

// Ingestor chunks book text, embeds each chunk and upserts it into the
// books collection. Chunk ids are derived from title and index so
// re-ingesting a book overwrites its old chunks instead of duplicating
// them.
type Ingestor struct {
	embedder   port.Embedder
	store      port.VectorStore
	chunker    *chunker.Chunker
	collection string
	log        *zap.Logger
}

func NewIngestor(embedder port.Embedder, store port.VectorStore, ch *chunker.Chunker, collection string, log *zap.Logger) *Ingestor {
	return &Ingestor{
		embedder:   embedder,
		store:      store,
		chunker:    ch,
		collection: collection,
		log:        log,
	}
}

// EnsureReady creates the books collection if needed.
func (ing *Ingestor) EnsureReady(ctx context.Context) error {
	return ing.store.EnsureCollection(ctx, ing.collection, ing.embedder.Dimension())
}

// IngestText cleans, chunks, embeds and upserts one book. The progress
// callback, when non-nil, is invoked after every stored chunk. Returns the
// number of chunks stored.
func (ing *Ingestor) IngestText(ctx context.Context, title, text string, progress func(done, total int)) (int, error) {
	chunks := ing.chunker.Chunk(chunker.Clean(text))
	if len(chunks) == 0 {
		return 0, nil
	}

	for i, chunk := range chunks {
		vector, err := ing.embedder.Embed(ctx, chunk)
		if err != nil {
			return i, fmt.Errorf("embed chunk %d of %q: %w", i, title, err)
		}

		point := domain.Point{
			ID:     chunkID(title, i),
			Vector: vector,
			Payload: domain.Payload{
				Text:   chunk,
				Source: domain.SourceBook,
				Title:  title,
				Index:  i,
			},
		}

		if err := ing.store.Upsert(ctx, ing.collection, []domain.Point{point}); err != nil {
			return i, fmt.Errorf("store chunk %d of %q: %w", i, title, err)
		}

		if progress != nil {
			progress(i+1, len(chunks))
		}
	}

	ing.log.Info("book ingested",
		zap.String("title", title),
		zap.Int("chunks", len(chunks)))
	return len(chunks), nil
}

// chunkID derives a stable UUID from the book title and chunk index.
func chunkID(title string, index int) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("%s_%d", title, index))).String()
}
