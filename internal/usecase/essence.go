package usecase

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"aria/internal/domain"
	"aria/internal/port"
)

const essenceEmptyMessage = "Current essence: empty. Not enough experiences integrated yet."

// maxEssenceSamples is how many recent fragments a summary includes.
const maxEssenceSamples = 5

// EssenceService aggregates stored chat memory into an Essence and turns
// it into a short narrative summary.
type EssenceService struct {
	store      port.VectorStore
	llm        port.LLM
	collection string
	log        *zap.Logger
}

func NewEssenceService(store port.VectorStore, llm port.LLM, collection string, log *zap.Logger) *EssenceService {
	return &EssenceService{
		store:      store,
		llm:        llm,
		collection: collection,
		log:        log,
	}
}

// Compute scrolls up to limit memory points and reduces them to an
// Essence: point count, component-wise mean vector, and the text of the
// last few points encountered. Vectors whose dimension does not match the
// first seen one are skipped so they cannot corrupt the sum.
func (s *EssenceService) Compute(ctx context.Context, limit int) (domain.Essence, error) {
	points, err := s.store.Scroll(ctx, s.collection, limit)
	if err != nil {
		return domain.Essence{}, err
	}

	if len(points) == 0 {
		return domain.Essence{
			MeanVector: domain.Vector{},
			Samples:    []string{},
		}, nil
	}

	var dim int
	for _, p := range points {
		if len(p.Vector) > 0 {
			dim = len(p.Vector)
			break
		}
	}

	sum := make([]float64, dim)
	summed := 0
	for _, p := range points {
		if len(p.Vector) != dim || dim == 0 {
			continue
		}
		for i, v := range p.Vector {
			sum[i] += float64(v)
		}
		summed++
	}

	mean := make(domain.Vector, dim)
	if summed > 0 {
		for i := range sum {
			mean[i] = float32(sum[i] / float64(summed))
		}
	}

	first := len(points) - maxEssenceSamples
	if first < 0 {
		first = 0
	}
	samples := make([]string, 0, maxEssenceSamples)
	for _, p := range points[first:] {
		if p.Payload.Text != "" {
			samples = append(samples, p.Payload.Text)
		}
	}

	return domain.Essence{
		Count:      len(points),
		MeanVector: mean,
		Samples:    samples,
	}, nil
}

// Summarize turns an Essence into a short narrative via the language
// model. An empty essence gets the fixed message without a model call.
func (s *EssenceService) Summarize(ctx context.Context, e domain.Essence) (string, error) {
	if e.Count == 0 {
		return essenceEmptyMessage, nil
	}

	prompt := fmt.Sprintf(`Summarize in 3-4 sentences the current state of the conversational memory:
- experiences integrated: %d
- mean vector preview: [%s]
- recent fragments:
- %s

Style: gentle, lucid, practical, not esoteric.`,
		e.Count, vectorPreview(e.MeanVector), samplesList(e.Samples))

	out, err := s.llm.Generate(ctx, "You are Aria. Summarize with clarity and human warmth.", prompt)
	if err != nil {
		return "", err
	}

	return "Current essence:\n" + out, nil
}

// vectorPreview renders the first 6 components at 2-decimal precision.
func vectorPreview(v domain.Vector) string {
	n := len(v)
	if n > 6 {
		n = 6
	}
	parts := make([]string, n)
	for i := 0; i < n; i++ {
		parts[i] = fmt.Sprintf("%.2f", v[i])
	}
	return strings.Join(parts, ", ")
}

func samplesList(samples []string) string {
	if len(samples) == 0 {
		return "(none)"
	}
	return strings.Join(samples, "\n- ")
}
