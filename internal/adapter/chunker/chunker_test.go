package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClean(t *testing.T) {
	in := "Line one.\r\n\r\n   Line   two.\t tabs\n\n\nLine three.  "
	out := Clean(in)
	assert.Equal(t, "Line one.\n Line two. tabs\nLine three.", out)
}

func TestChunk_ShortText(t *testing.T) {
	c := New(1000, 100)
	chunks := c.Chunk("a short paragraph")
	assert.Equal(t, []string{"a short paragraph"}, chunks)
}

func TestChunk_Empty(t *testing.T) {
	c := New(1000, 100)
	assert.Nil(t, c.Chunk(""))
}

func TestChunk_Overlap(t *testing.T) {
	c := New(10, 4)
	text := strings.Repeat("abcdef", 5) // 30 chars
	chunks := c.Chunk(text)

	assert.True(t, len(chunks) > 1)
	for i, ch := range chunks {
		assert.LessOrEqual(t, len(ch), 10, "chunk %d too long", i)
	}
	// Consecutive chunks share the configured overlap.
	assert.Equal(t, chunks[0][6:], chunks[1][:4])
}

func TestChunk_CoversWholeText(t *testing.T) {
	c := New(12, 3)
	text := "the quick brown fox jumps over the lazy dog"
	chunks := c.Chunk(text)

	joined := strings.Join(chunks, "")
	for _, word := range strings.Fields(text) {
		assert.Contains(t, joined, word)
	}
}

func TestNew_GuardsBadArguments(t *testing.T) {
	c := New(0, -1)
	assert.Equal(t, 1000, c.size)
	assert.Equal(t, 0, c.overlap)

	// Overlap >= size would make the scan stand still.
	c = New(10, 10)
	assert.Equal(t, 1, c.overlap)
}
