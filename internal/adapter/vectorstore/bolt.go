package vectorstore

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"sync"

	"go.etcd.io/bbolt"

	"aria/internal/domain"
)

// BoltStore implements the vector store on a local BoltDB file, one bucket
// per collection. Search is brute-force cosine over an in-memory cache,
// which is plenty for chat-history and a few books. Used when no Qdrant
// instance is configured.
type BoltStore struct {
	db *bbolt.DB
	mu sync.RWMutex
	// collection -> id -> point, mirrors the on-disk buckets
	collections map[string]map[string]storedPoint
}

type storedPoint struct {
	Vector  []float32      `json:"v"`
	Payload domain.Payload `json:"p"`
}

// NewBoltStore opens (or creates) the database at path and loads existing
// points into memory.
func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", domain.ErrStoreUnavailable, path, err)
	}

	store := &BoltStore{
		db:          db,
		collections: make(map[string]map[string]storedPoint),
	}

	if err := store.load(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: load points: %v", domain.ErrStoreUnavailable, err)
	}

	return store, nil
}

func (s *BoltStore) load() error {
	return s.db.View(func(tx *bbolt.Tx) error {
		return tx.ForEach(func(name []byte, b *bbolt.Bucket) error {
			points := make(map[string]storedPoint)
			err := b.ForEach(func(k, v []byte) error {
				var p storedPoint
				if err := json.Unmarshal(v, &p); err != nil {
					return nil // skip corrupted entries
				}
				points[string(k)] = p
				return nil
			})
			if err != nil {
				return err
			}
			s.collections[string(name)] = points
			return nil
		})
	})
}

// EnsureCollection creates the bucket for the collection if absent.
func (s *BoltStore) EnsureCollection(_ context.Context, name string, _ int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(name))
		return err
	})
	if err != nil {
		return fmt.Errorf("%w: create collection %s: %v", domain.ErrStoreUnavailable, name, err)
	}

	if _, ok := s.collections[name]; !ok {
		s.collections[name] = make(map[string]storedPoint)
	}
	return nil
}

// Upsert inserts or overwrites points by ID.
func (s *BoltStore) Upsert(_ context.Context, collection string, points []domain.Point) error {
	if len(points) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(collection))
		if err != nil {
			return err
		}

		for _, p := range points {
			data, err := json.Marshal(storedPoint{Vector: p.Vector, Payload: p.Payload})
			if err != nil {
				return err
			}
			if err := b.Put([]byte(p.ID), data); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: upsert into %s: %v", domain.ErrStoreUnavailable, collection, err)
	}

	cached, ok := s.collections[collection]
	if !ok {
		cached = make(map[string]storedPoint)
		s.collections[collection] = cached
	}
	for _, p := range points {
		cached[p.ID] = storedPoint{Vector: p.Vector, Payload: p.Payload}
	}

	return nil
}

// Search returns up to limit nearest neighbors by cosine similarity,
// highest score first.
func (s *BoltStore) Search(_ context.Context, collection string, vector domain.Vector, limit int) ([]domain.SearchHit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cached := s.collections[collection]
	if len(cached) == 0 {
		return nil, nil
	}

	hits := make([]domain.SearchHit, 0, len(cached))
	for id, p := range cached {
		hits = append(hits, domain.SearchHit{
			ID:      id,
			Score:   cosineSimilarity(vector, p.Vector),
			Payload: p.Payload,
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})

	if limit < len(hits) {
		hits = hits[:limit]
	}
	return hits, nil
}

// Scroll returns up to limit points in map order.
func (s *BoltStore) Scroll(_ context.Context, collection string, limit int) ([]domain.Point, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cached := s.collections[collection]
	points := make([]domain.Point, 0, len(cached))
	for id, p := range cached {
		if len(points) >= limit {
			break
		}
		points = append(points, domain.Point{
			ID:      id,
			Vector:  p.Vector,
			Payload: p.Payload,
		})
	}
	return points, nil
}

// Close closes the underlying database.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// cosineSimilarity calculates the cosine similarity between two vectors.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
