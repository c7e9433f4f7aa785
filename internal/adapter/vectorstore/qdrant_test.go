package vectorstore

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aria/internal/domain"
)

func TestQdrantStore_EnsureCollection(t *testing.T) {
	var created bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/collections":
			w.Write([]byte(`{"result":{"collections":[{"name":"existing"}]}}`))
		case r.Method == http.MethodPut && r.URL.Path == "/collections/aria_books":
			var req createCollectionRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, 1536, req.Vectors.Size)
			assert.Equal(t, "Cosine", req.Vectors.Distance)
			created = true
			w.Write([]byte(`{"result":true}`))
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	}))
	defer srv.Close()

	s, err := NewQdrantStore(srv.URL, "key")
	require.NoError(t, err)

	require.NoError(t, s.EnsureCollection(context.Background(), "aria_books", 1536))
	assert.True(t, created)

	// Existing collection: no create call.
	created = false
	require.NoError(t, s.EnsureCollection(context.Background(), "existing", 1536))
	assert.False(t, created)
}

func TestQdrantStore_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/collections/aria_books/points/search", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("api-key"))

		var req searchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 4, req.Limit)
		assert.True(t, req.WithPayload)

		w.Write([]byte(`{"result":[
			{"id":"a","score":0.9,"payload":{"text":"first"}},
			{"id":42,"score":0.4,"payload":{"text":"second"}}
		]}`))
	}))
	defer srv.Close()

	s, err := NewQdrantStore(srv.URL, "secret")
	require.NoError(t, err)

	hits, err := s.Search(context.Background(), "aria_books", domain.Vector{0.1, 0.2}, 4)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "a", hits[0].ID)
	assert.Equal(t, 0.9, hits[0].Score)
	assert.Equal(t, "first", hits[0].Payload.Text)
	assert.Equal(t, "42", hits[1].ID)
}

func TestQdrantStore_Scroll(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/collections/aria_chat_history/points/scroll", r.URL.Path)

		var req scrollRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, req.WithVector)

		w.Write([]byte(`{"result":{"points":[
			{"id":"m1","vector":[0.5],"payload":{"text":"remembered"}}
		]}}`))
	}))
	defer srv.Close()

	s, err := NewQdrantStore(srv.URL, "")
	require.NoError(t, err)

	points, err := s.Scroll(context.Background(), "aria_chat_history", 128)
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, "m1", points[0].ID)
	assert.Equal(t, domain.Vector{0.5}, points[0].Vector)
}

func TestQdrantStore_Unreachable(t *testing.T) {
	s, err := NewQdrantStore("http://127.0.0.1:1", "")
	require.NoError(t, err)

	_, err = s.Search(context.Background(), "aria_books", domain.Vector{0.1}, 4)
	assert.True(t, errors.Is(err, domain.ErrStoreUnavailable))

	err = s.Upsert(context.Background(), "aria_books", []domain.Point{{ID: "x", Vector: domain.Vector{0.1}}})
	assert.True(t, errors.Is(err, domain.ErrStoreUnavailable))
}

func TestQdrantStore_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	s, err := NewQdrantStore(srv.URL, "bad-key")
	require.NoError(t, err)

	_, err = s.Scroll(context.Background(), "aria_chat_history", 10)
	assert.True(t, errors.Is(err, domain.ErrStoreUnavailable))
}
