package usecase

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"aria/internal/domain"
	"aria/internal/memory"
	"aria/internal/port"
)

// Fixed user-facing strings. Raw upstream errors are never surfaced.
const (
	apologyMessage    = "Something went wrong while composing the answer. Please try again in a moment."
	noPassagesMessage = "I found no relevant passages in the library for that. Try rephrasing, or switch mode with /mode hy."
)

// ReplyConfig tunes the retrieval side of the pipeline.
type ReplyConfig struct {
	BooksCollection string
	Threshold       float64
	DocLimit        int
	MemoryK         int
}

// Replier runs the full pipeline for one incoming message: record the
// utterance to memory, retrieve according to the active mode, compose the
// prompt, generate the reply.
type Replier struct {
	embedder port.Embedder
	store    port.VectorStore
	memory   *memory.Store
	llm      port.LLM
	modes    *ModeRegistry
	cfg      ReplyConfig
	log      *zap.Logger
}

func NewReplier(
	embedder port.Embedder,
	store port.VectorStore,
	mem *memory.Store,
	llm port.LLM,
	modes *ModeRegistry,
	cfg ReplyConfig,
	log *zap.Logger,
) *Replier {
	return &Replier{
		embedder: embedder,
		store:    store,
		memory:   mem,
		llm:      llm,
		modes:    modes,
		cfg:      cfg,
		log:      log,
	}
}

// Reply produces the answer for one message. Retrieval failures degrade to
// empty context; only a generation failure yields the apology message.
func (r *Replier) Reply(ctx context.Context, conversationID, text string) string {
	mode := r.modes.Get(conversationID)

	// Fire-and-forget: the reply does not wait for the memory write.
	r.memory.RecordDetached(text)

	in := ComposeInput{
		Mode:      mode,
		Threshold: r.cfg.Threshold,
	}

	// Book mode answers from documents alone; free mode from memory alone.
	if mode != domain.ModeBook {
		in.MemoryContext = r.memory.Recall(ctx, text, r.cfg.MemoryK)
	}
	if mode != domain.ModeFree {
		hits := r.searchDocs(ctx, text)
		if len(hits) > 0 {
			in.HasDocHits = true
			in.BestDocScore = hits[0].Score
			in.DocContext = joinHitTexts(hits)
		}
	}

	decision := Compose(in)
	if decision.NoAnswer {
		r.log.Info("no relevant passages",
			zap.String("conversation", conversationID),
			zap.Float64("best_score", in.BestDocScore))
		return noPassagesMessage
	}

	prompt := BuildPrompt(text, decision.Context)
	out, err := r.llm.Generate(ctx, prompt.System, prompt.User)
	if err != nil {
		r.log.Error("generation failed", zap.Error(err))
		return apologyMessage
	}

	r.log.Info("reply generated",
		zap.String("conversation", conversationID),
		zap.String("mode", string(mode)),
		zap.Bool("used_docs", in.HasDocHits && in.BestDocScore >= in.Threshold))
	return out
}

// searchDocs embeds the query and searches the books collection. Any
// failure is logged and treated as zero hits so the reply can proceed.
func (r *Replier) searchDocs(ctx context.Context, query string) []domain.SearchHit {
	vector, err := r.embedder.Embed(ctx, query)
	if err != nil {
		r.log.Warn("query embedding failed", zap.Error(err))
		return nil
	}

	hits, err := r.store.Search(ctx, r.cfg.BooksCollection, vector, r.cfg.DocLimit)
	if err != nil {
		r.log.Warn("document search failed", zap.Error(err))
		return nil
	}

	return hits
}

func joinHitTexts(hits []domain.SearchHit) string {
	texts := make([]string, 0, len(hits))
	for _, h := range hits {
		if h.Payload.Text != "" {
			texts = append(texts, h.Payload.Text)
		}
	}
	return strings.Join(texts, "\n\n")
}
