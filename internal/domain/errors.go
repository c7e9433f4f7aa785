package domain

import "errors"

// Failure taxonomy for the reply pipeline. Retrieval-side failures
// (ErrEmbedding, ErrStoreUnavailable) degrade to empty context and never
// abort a reply; only ErrGeneration produces a visibly degraded answer.
var (
	ErrEmbedding        = errors.New("embedding failed")
	ErrStoreUnavailable = errors.New("vector store unavailable")
	ErrGeneration       = errors.New("generation failed")
	ErrInvalidMode      = errors.New("invalid mode")
)
