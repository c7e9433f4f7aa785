package chunker

import (
	"regexp"
	"strings"
)

var (
	runsOfSpace    = regexp.MustCompile(`[^\S\r\n]+`)
	runsOfNewlines = regexp.MustCompile(`[\r\n]+`)
)

// Chunker splits cleaned text into fixed-size overlapping chunks for
// embedding. Size and overlap are in characters.
type Chunker struct {
	size    int
	overlap int
}

func New(size, overlap int) *Chunker {
	if size <= 0 {
		size = 1000
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= size {
		overlap = size / 10
	}
	return &Chunker{size: size, overlap: overlap}
}

// Clean collapses whitespace runs so chunk boundaries do not fall inside
// long stretches of padding.
func Clean(text string) string {
	text = runsOfNewlines.ReplaceAllString(text, "\n")
	text = runsOfSpace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// Chunk splits text into overlapping chunks. Empty chunks are dropped.
func (c *Chunker) Chunk(text string) []string {
	if text == "" {
		return nil
	}

	var chunks []string
	runes := []rune(text)

	for start := 0; start < len(runes); start += c.size - c.overlap {
		end := start + c.size
		if end > len(runes) {
			end = len(runes)
		}
		chunk := strings.TrimSpace(string(runes[start:end]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		if end == len(runes) {
			break
		}
	}

	return chunks
}
