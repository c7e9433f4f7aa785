package usecase

import (
	"context"
	"sync"

	"aria/internal/domain"
)

// fakeVectorStore serves canned hits per collection and counts calls.
// Guarded by a mutex because detached memory writes run concurrently with
// the test body.
type fakeVectorStore struct {
	mu          sync.Mutex
	hits        map[string][]domain.SearchHit
	points      []domain.Point
	upserts     map[string][]domain.Point
	searchCalls map[string]int
	failSearch  error
	failUpsert  error
	failScroll  error
}

func newFakeVectorStore() *fakeVectorStore {
	return &fakeVectorStore{
		hits:        make(map[string][]domain.SearchHit),
		upserts:     make(map[string][]domain.Point),
		searchCalls: make(map[string]int),
	}
}

func (f *fakeVectorStore) EnsureCollection(context.Context, string, int) error { return nil }

func (f *fakeVectorStore) Upsert(_ context.Context, collection string, points []domain.Point) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpsert != nil {
		return f.failUpsert
	}
	f.upserts[collection] = append(f.upserts[collection], points...)
	return nil
}

func (f *fakeVectorStore) Search(_ context.Context, collection string, _ domain.Vector, _ int) ([]domain.SearchHit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchCalls[collection]++
	if f.failSearch != nil {
		return nil, f.failSearch
	}
	return f.hits[collection], nil
}

func (f *fakeVectorStore) Scroll(_ context.Context, _ string, limit int) ([]domain.Point, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failScroll != nil {
		return nil, f.failScroll
	}
	if limit < len(f.points) {
		return f.points[:limit], nil
	}
	return f.points, nil
}

func (f *fakeVectorStore) searchCount(collection string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.searchCalls[collection]
}

// fakeLLM returns a canned completion and records what it was asked.
type fakeLLM struct {
	mu      sync.Mutex
	reply   string
	fail    error
	calls   int
	systems []string
	users   []string
}

func (f *fakeLLM) Generate(_ context.Context, system, user string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.systems = append(f.systems, system)
	f.users = append(f.users, user)
	if f.fail != nil {
		return "", f.fail
	}
	return f.reply, nil
}

func (f *fakeLLM) ModelName() string { return "fake" }

func (f *fakeLLM) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeLLM) lastUser() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.users) == 0 {
		return ""
	}
	return f.users[len(f.users)-1]
}
