package domain

import (
	"fmt"
	"strings"
)

// Mode controls how retrieval results are weighted against free-form
// generation for one conversation.
type Mode string

const (
	// ModeHybrid blends document hits with conversational memory when the
	// best hit clears the relevance threshold. The default.
	ModeHybrid Mode = "hy"
	// ModeFree answers from conversational memory alone; document
	// retrieval is skipped entirely.
	ModeFree Mode = "free"
	// ModeBook answers strictly from documents, refusing to answer when
	// nothing relevant is found.
	ModeBook Mode = "book"
)

// ParseMode maps a user-supplied token to a Mode, accepting the aliases
// used by the /mode command.
func ParseMode(token string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "hy", "hybrid":
		return ModeHybrid, nil
	case "free":
		return ModeFree, nil
	case "book", "books", "libri":
		return ModeBook, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMode, token)
}
