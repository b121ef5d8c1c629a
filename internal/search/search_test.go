package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/catalog_api/internal/models"
)

type recorded struct {
	method string
	path   string
	body   string
}

func newFakeES(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*Indexer, *[]recorded) {
	t.Helper()

	var (
		mu   sync.Mutex
		reqs []recorded
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		reqs = append(reqs, recorded{method: r.Method, path: r.URL.Path, body: string(body)})
		mu.Unlock()

		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)

	return NewIndexer(client, "products"), &reqs
}

func TestIndexer_Index(t *testing.T) {
	idx, reqs := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"result":"created"}`))
	})

	p := models.Product{
		ID:          12,
		Name:        "lamp",
		Description: "desk lamp",
		Category:    &models.Category{Name: "lighting"},
		Tags:        []models.Tag{{ID: 1, Name: "red"}},
	}
	require.NoError(t, idx.Index(context.Background(), p))

	require.Len(t, *reqs, 1)
	req := (*reqs)[0]
	assert.Equal(t, http.MethodPut, req.method)
	assert.Equal(t, "/products/_doc/12", req.path)

	var doc Document
	require.NoError(t, json.Unmarshal([]byte(req.body), &doc))
	assert.Equal(t, DocumentFrom(p), doc)
	assert.Equal(t, []string{"red"}, doc.Tags)
}

func TestIndexer_DeleteIgnoresMissing(t *testing.T) {
	idx, _ := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"result":"not_found"}`))
	})

	require.NoError(t, idx.Delete(context.Background(), 5))
}

func TestIndexer_Search(t *testing.T) {
	idx, reqs := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"hits":{"total":{"value":7},"hits":[{"_source":{"id":4}},{"_source":{"id":2}}]}}`))
	})

	total, ids, err := idx.Search(context.Background(), "lamp", 0, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 7, total)
	assert.Equal(t, []uint{4, 2}, ids)

	require.Len(t, *reqs, 1)
	assert.True(t, strings.HasSuffix((*reqs)[0].path, "/products/_search"))
	assert.Contains(t, (*reqs)[0].body, `"multi_match"`)
}

func TestIndexer_SearchBackendError(t *testing.T) {
	idx, _ := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"boom"}`))
	})

	_, _, err := idx.Search(context.Background(), "lamp", 0, 2)
	require.ErrorIs(t, err, ErrUnavailable)
}
