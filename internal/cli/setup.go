package cli

import (
	"fmt"
	"os"
	"time"

	"aria/internal/adapter/chunker"
	"aria/internal/adapter/embedding"
	"aria/internal/adapter/llm"
	"aria/internal/adapter/vectorstore"
	"aria/internal/domain"
	"aria/internal/memory"
	"aria/internal/port"
	"aria/internal/usecase"
)

// pipeline bundles the wired core components shared by the commands.
type pipeline struct {
	embedder port.Embedder
	store    port.VectorStore
	memory   *memory.Store
	modes    *usecase.ModeRegistry
	replier  *usecase.Replier
	essence  *usecase.EssenceService
	ingestor *usecase.Ingestor
	close    func()
}

// buildPipeline assembles the core from configuration. The vector store is
// Qdrant when a URL is configured, otherwise a local BoltDB file under the
// data dir so the whole pipeline stays runnable offline.
func buildPipeline() (*pipeline, error) {
	apiKey := cfg.OpenAIKey()
	if apiKey == "" {
		return nil, fmt.Errorf("no API key in $%s", cfg.OpenAI.APIKeyEnv)
	}

	openaiEmbedder, err := embedding.NewOpenAIEmbedder(apiKey, cfg.OpenAI.EmbedModel, cfg.OpenAI.BaseURL, cfg.OpenAI.Dimension)
	if err != nil {
		return nil, fmt.Errorf("build embedder: %w", err)
	}
	// One message gets embedded for recording, recall and retrieval, so
	// a small cache in front of the API pays for itself immediately.
	embedder := embedding.NewCachedEmbedder(openaiEmbedder, 256, 10*time.Minute)

	replyLLM, err := llm.NewOpenAIClient(apiKey, cfg.OpenAI.ChatModel, cfg.OpenAI.BaseURL, cfg.OpenAI.ReplyTemperature)
	if err != nil {
		return nil, fmt.Errorf("build chat client: %w", err)
	}
	essenceLLM, err := llm.NewOpenAIClient(apiKey, cfg.OpenAI.ChatModel, cfg.OpenAI.BaseURL, cfg.OpenAI.EssenceTemperature)
	if err != nil {
		return nil, fmt.Errorf("build chat client: %w", err)
	}

	var store port.VectorStore
	closeStore := func() {}
	if url := cfg.QdrantURL(); url != "" {
		store, err = vectorstore.NewQdrantStore(url, cfg.QdrantKey())
		if err != nil {
			return nil, fmt.Errorf("build qdrant client: %w", err)
		}
	} else {
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		bolt, err := vectorstore.NewBoltStore(cfg.LocalStorePath())
		if err != nil {
			return nil, fmt.Errorf("open local store: %w", err)
		}
		store = bolt
		closeStore = func() { bolt.Close() }
		logger.Info("no Qdrant URL configured, using local store")
	}

	defaultMode, err := domain.ParseMode(cfg.Retrieve.DefaultMode)
	if err != nil {
		closeStore()
		return nil, fmt.Errorf("bad default_mode in config: %w", err)
	}

	mem := memory.NewStore(embedder, store, cfg.Qdrant.ChatCollection, logger)
	modes := usecase.NewModeRegistry(defaultMode)

	replier := usecase.NewReplier(embedder, store, mem, replyLLM, modes, usecase.ReplyConfig{
		BooksCollection: cfg.Qdrant.BooksCollection,
		Threshold:       cfg.Retrieve.Threshold,
		DocLimit:        cfg.Retrieve.DocLimit,
		MemoryK:         cfg.Retrieve.MemoryK,
	}, logger)

	essence := usecase.NewEssenceService(store, essenceLLM, cfg.Qdrant.ChatCollection, logger)

	ingestor := usecase.NewIngestor(
		embedder,
		store,
		chunker.New(cfg.Ingest.ChunkSize, cfg.Ingest.ChunkOverlap),
		cfg.Qdrant.BooksCollection,
		logger,
	)

	return &pipeline{
		embedder: embedder,
		store:    store,
		memory:   mem,
		modes:    modes,
		replier:  replier,
		essence:  essence,
		ingestor: ingestor,
		close:    closeStore,
	}, nil
}
