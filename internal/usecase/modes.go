package usecase

import (
	"sync"

	"aria/internal/domain"
)

// ModeRegistry holds the active mode per conversation. State lives in
// memory only; a restart falls back to the default mode everywhere.
type ModeRegistry struct {
	mu    sync.RWMutex
	modes map[string]domain.Mode
	def   domain.Mode
}

func NewModeRegistry(def domain.Mode) *ModeRegistry {
	return &ModeRegistry{
		modes: make(map[string]domain.Mode),
		def:   def,
	}
}

// Get returns the conversation's mode, or the default when the
// conversation has not set one.
func (r *ModeRegistry) Get(conversationID string) domain.Mode {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if m, ok := r.modes[conversationID]; ok {
		return m
	}
	return r.def
}

// Set records the conversation's mode. A set is visible to the very next
// Get for the same conversation.
func (r *ModeRegistry) Set(conversationID string, m domain.Mode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.modes[conversationID] = m
}

// Default returns the configured default mode.
func (r *ModeRegistry) Default() domain.Mode {
	return r.def
}
