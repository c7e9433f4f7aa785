package vectorstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"aria/internal/domain"
)

// QdrantStore talks to a Qdrant instance over its REST API. Collections use
// cosine distance; points are written with full payloads and ids chosen by
// the caller.
type QdrantStore struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewQdrantStore creates a client for the given base URL and API key.
func NewQdrantStore(baseURL, apiKey string) (*QdrantStore, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("qdrant URL is empty")
	}

	return &QdrantStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 30 * time.Second},
	}, nil
}

type collectionsResponse struct {
	Result struct {
		Collections []struct {
			Name string `json:"name"`
		} `json:"collections"`
	} `json:"result"`
}

type createCollectionRequest struct {
	Vectors vectorsConfig `json:"vectors"`
}

type vectorsConfig struct {
	Size     int    `json:"size"`
	Distance string `json:"distance"`
}

type upsertRequest struct {
	Points []qdrantPoint `json:"points"`
}

type qdrantPoint struct {
	ID      string         `json:"id"`
	Vector  []float32      `json:"vector"`
	Payload domain.Payload `json:"payload"`
}

type searchRequest struct {
	Vector      []float32 `json:"vector"`
	Limit       int       `json:"limit"`
	WithPayload bool      `json:"with_payload"`
}

type searchResponse struct {
	Result []scoredPoint `json:"result"`
}

type scoredPoint struct {
	ID      json.RawMessage `json:"id"`
	Score   float64         `json:"score"`
	Payload domain.Payload  `json:"payload"`
}

type scrollRequest struct {
	Limit       int  `json:"limit"`
	WithPayload bool `json:"with_payload"`
	WithVector  bool `json:"with_vector"`
}

type scrollResponse struct {
	Result struct {
		Points []scrolledPoint `json:"points"`
	} `json:"result"`
}

type scrolledPoint struct {
	ID      json.RawMessage `json:"id"`
	Vector  []float32       `json:"vector"`
	Payload domain.Payload  `json:"payload"`
}

// EnsureCollection creates the collection with cosine distance if it does
// not exist yet. Idempotent.
func (s *QdrantStore) EnsureCollection(ctx context.Context, name string, dimension int) error {
	var listResp collectionsResponse
	if err := s.do(ctx, http.MethodGet, "/collections", nil, &listResp); err != nil {
		return err
	}

	for _, c := range listResp.Result.Collections {
		if c.Name == name {
			return nil
		}
	}

	req := createCollectionRequest{
		Vectors: vectorsConfig{Size: dimension, Distance: "Cosine"},
	}
	return s.do(ctx, http.MethodPut, "/collections/"+name, req, nil)
}

// Upsert inserts or overwrites points by ID.
func (s *QdrantStore) Upsert(ctx context.Context, collection string, points []domain.Point) error {
	if len(points) == 0 {
		return nil
	}

	req := upsertRequest{Points: make([]qdrantPoint, len(points))}
	for i, p := range points {
		req.Points[i] = qdrantPoint{
			ID:      p.ID,
			Vector:  p.Vector,
			Payload: p.Payload,
		}
	}

	return s.do(ctx, http.MethodPut, "/collections/"+collection+"/points", req, nil)
}

// Search returns up to limit nearest neighbors, highest score first.
func (s *QdrantStore) Search(ctx context.Context, collection string, vector domain.Vector, limit int) ([]domain.SearchHit, error) {
	req := searchRequest{
		Vector:      vector,
		Limit:       limit,
		WithPayload: true,
	}

	var resp searchResponse
	if err := s.do(ctx, http.MethodPost, "/collections/"+collection+"/points/search", req, &resp); err != nil {
		return nil, err
	}

	hits := make([]domain.SearchHit, len(resp.Result))
	for i, r := range resp.Result {
		hits[i] = domain.SearchHit{
			ID:      rawID(r.ID),
			Score:   r.Score,
			Payload: r.Payload,
		}
	}

	return hits, nil
}

// Scroll returns up to limit points in backend-defined order, vectors
// included.
func (s *QdrantStore) Scroll(ctx context.Context, collection string, limit int) ([]domain.Point, error) {
	req := scrollRequest{
		Limit:       limit,
		WithPayload: true,
		WithVector:  true,
	}

	var resp scrollResponse
	if err := s.do(ctx, http.MethodPost, "/collections/"+collection+"/points/scroll", req, &resp); err != nil {
		return nil, err
	}

	points := make([]domain.Point, len(resp.Result.Points))
	for i, p := range resp.Result.Points {
		points[i] = domain.Point{
			ID:      rawID(p.ID),
			Vector:  p.Vector,
			Payload: p.Payload,
		}
	}

	return points, nil
}

// do runs one request against the Qdrant API. Any transport or non-2xx
// failure wraps domain.ErrStoreUnavailable so callers can degrade to
// "no hits" instead of aborting.
func (s *QdrantStore) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: marshal request: %v", domain.ErrStoreUnavailable, err)
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("%w: create request: %v", domain.ErrStoreUnavailable, err)
	}

	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", domain.ErrStoreUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d: %s", domain.ErrStoreUnavailable, resp.StatusCode, string(data))
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("%w: parse response: %v", domain.ErrStoreUnavailable, err)
		}
	}

	return nil
}

// rawID renders a Qdrant point id, which may be a JSON string or number,
// as a plain string.
func rawID(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}
