package fs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalk(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "shelf"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git"), 0755))
	write := func(rel string) {
		require.NoError(t, os.WriteFile(filepath.Join(root, rel), []byte("x"), 0644))
	}
	write("alpha.txt")
	write("notes.md")
	write("ignore.pdf")
	write(filepath.Join("shelf", "beta.txt"))
	write(filepath.Join(".git", "config.txt"))

	w := NewWalker([]string{"**/*.txt", "**/*.md"}, []string{"**/.git/**", ".git/"})
	files, err := w.Walk(root)
	require.NoError(t, err)

	rels := make([]string, 0, len(files))
	for _, f := range files {
		rel, err := filepath.Rel(root, f)
		require.NoError(t, err)
		rels = append(rels, rel)
	}
	assert.ElementsMatch(t, []string{"alpha.txt", "notes.md", filepath.Join("shelf", "beta.txt")}, rels)
}

func TestWalk_SingleFile(t *testing.T) {
	root := t.TempDir()
	book := filepath.Join(root, "book.txt")
	require.NoError(t, os.WriteFile(book, []byte("x"), 0644))

	w := NewWalker(nil, nil)
	files, err := w.Walk(book)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, book, files[0])
}
