package search

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/bookstore/internal/errs"
	"github.com/Skotchmaster/bookstore/internal/models"
	"github.com/Skotchmaster/bookstore/internal/testutil"
)

// stubES serves canned responses with the product header the client checks for.
func stubES(t *testing.T, handler http.HandlerFunc) *elasticsearch.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return client
}

func TestSearchParsesHits(t *testing.T) {
	var gotPath, gotBody string
	client := stubES(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		io.WriteString(w, `{
			"hits": {
				"total": {"value": 2},
				"hits": [
					{"_source": {"id": 1, "title": "Солярис", "price": 100, "stock": 3}},
					{"_source": {"id": 2, "title": "Соляные копи", "price": 80, "stock": 1}}
				]
			}
		}`)
	})

	total, hits, err := Search(context.Background(), client, "books", "солярис", 0, 10)
	require.NoError(t, err)

	assert.Equal(t, "/books/_search", gotPath)
	assert.Contains(t, gotBody, "multi_match")
	assert.Contains(t, gotBody, "title^2")

	assert.EqualValues(t, 2, total)
	require.Len(t, hits, 2)
	assert.Equal(t, "Солярис", hits[0].Title)
	assert.Equal(t, uint(2), hits[1].ID)
}

func TestSearchErrorResponse(t *testing.T) {
	client := stubES(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `{"error": "boom"}`)
	})

	_, _, err := Search(context.Background(), client, "books", "q", 0, 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrStorageUnavailable)
}

func TestReindexBulkIndexesAllBooks(t *testing.T) {
	db := testutil.OpenDB(t)
	testutil.MustCreate(t, db, &models.Book{Title: "Солярис", Price: 100, Stock: 3})
	testutil.MustCreate(t, db, &models.Book{Title: "Эдем", Price: 50, Stock: 0})

	var gotPath, gotBody string
	client := stubES(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		io.WriteString(w, `{"errors": false, "items": []}`)
	})

	n, err := Reindex(context.Background(), client, "books", db)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	assert.Equal(t, "/_bulk", gotPath)
	assert.Contains(t, gotBody, `"_index":"books"`)
	assert.Contains(t, gotBody, "Солярис")
	assert.Contains(t, gotBody, "Эдем")
	assert.Equal(t, 4, strings.Count(gotBody, "\n"), "one meta and one doc line per book")
}

func TestReindexEmptyCatalogSkipsES(t *testing.T) {
	db := testutil.OpenDB(t)
	client := stubES(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for an empty catalog")
	})

	n, err := Reindex(context.Background(), client, "books", db)
	require.NoError(t, err)
	assert.Zero(t, n)
}
