package cli

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"aria/internal/adapter/fs"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [path]",
	Short: "Chunk and embed books into the vector store",
	Long: `Ingest book files into the books collection. The path can be a
directory (walked with the configured include/exclude patterns) or a
single file.

Examples:
  aria ingest ./books           # Ingest every matching file under ./books
  aria ingest ./books/night.txt # Ingest a single book`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

var titleCleaner = regexp.MustCompile(`[^a-z0-9_-]+`)

// bookTitle derives the stored title from a file path: the base name
// without extension, lowercased, with anything unusual collapsed to "_".
func bookTitle(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return titleCleaner.ReplaceAllString(strings.ToLower(base), "_")
}

func runIngest(cmd *cobra.Command, args []string) error {
	p, err := buildPipeline()
	if err != nil {
		return err
	}
	defer p.close()

	ctx := cmd.Context()

	if err := p.ingestor.EnsureReady(ctx); err != nil {
		return fmt.Errorf("books collection not ready: %w", err)
	}

	walker := fs.NewWalker(cfg.Ingest.Includes, cfg.Ingest.Excludes)
	files, err := walker.Walk(args[0])
	if err != nil {
		return fmt.Errorf("scan %s: %w", args[0], err)
	}
	if len(files) == 0 {
		fmt.Println("No files matched.")
		return nil
	}

	totalChunks := 0
	for _, path := range files {
		text, err := fs.ReadFile(path)
		if err != nil {
			fmt.Printf("skipping %s: %v\n", path, err)
			continue
		}

		title := bookTitle(path)

		var bar *progressbar.ProgressBar
		progress := func(done, total int) {
			if bar == nil {
				bar = progressbar.NewOptions(total,
					progressbar.OptionEnableColorCodes(true),
					progressbar.OptionSetWidth(40),
					progressbar.OptionShowCount(),
					progressbar.OptionSetDescription(fmt.Sprintf("[cyan]%s[reset]", title)),
					progressbar.OptionOnCompletion(func() {
						fmt.Println()
					}),
				)
			}
			bar.Set(done)
		}

		n, err := p.ingestor.IngestText(ctx, title, text, progress)
		if err != nil {
			return fmt.Errorf("ingest %s: %w", path, err)
		}
		totalChunks += n
	}

	fmt.Printf("\nIngest complete: %d files, %d chunks\n", len(files), totalChunks)
	return nil
}
