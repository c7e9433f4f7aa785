package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPrompt_NoContext(t *testing.T) {
	p := BuildPrompt("what is the library about?", "")
	assert.Equal(t, "what is the library about?", p.User)
	assert.NotEmpty(t, p.System)
}

func TestBuildPrompt_WithContext(t *testing.T) {
	p := BuildPrompt("ciao", "Mem1\n\nDoc1")
	assert.Equal(t, "ciao\n\nContext:\nMem1\n\nDoc1", p.User)
	// The persona is fixed, independent of context.
	assert.Equal(t, BuildPrompt("x", "").System, p.System)
}
