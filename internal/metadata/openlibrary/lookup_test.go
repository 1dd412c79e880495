package openlibrary_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storyloop/storyloop-server/internal/metadata/openlibrary"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *openlibrary.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return openlibrary.NewClient(nil, openlibrary.Options{
		BaseURL:           srv.URL,
		RequestsPerSecond: 1000, // no throttling in tests
	})
}

func TestLookupMapsResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/books", r.URL.Path)
		assert.Equal(t, "ISBN:9780064400558", r.URL.Query().Get("bibkeys"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"ISBN:9780064400558": {
				"title": "Sarah, Plain and Tall",
				"authors": [{"name": "Patricia MacLachlan"}],
				"subjects": [{"name": "Frontier life"}, {"name": "Family"}],
				"excerpts": [{"text": "Did Mama sing every day?"}],
				"cover": {"large": "https://covers.example/large.jpg"}
			}
		}`))
	})

	meta, err := client.Lookup(context.Background(), "9780064400558")
	require.NoError(t, err)
	assert.Equal(t, "9780064400558", meta.ISBN)
	assert.Equal(t, "Sarah, Plain and Tall", meta.Title)
	assert.Equal(t, "Patricia MacLachlan", meta.Author)
	assert.Equal(t, "Frontier life, Family", meta.Subjects)
	assert.Equal(t, "Did Mama sing every day?", meta.Summary)
	assert.Equal(t, "https://covers.example/large.jpg", meta.CoverURL)
}

func TestLookupNoRecord(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	})

	_, err := client.Lookup(context.Background(), "1111111111")
	require.ErrorIs(t, err, openlibrary.ErrNoRecord)
}

func TestLookupServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.Lookup(context.Background(), "1111111111")
	require.Error(t, err)
	require.NotErrorIs(t, err, openlibrary.ErrNoRecord)
}
