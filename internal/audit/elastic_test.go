package audit

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMirror(t *testing.T, handler http.HandlerFunc) *ElasticMirror {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return NewElasticMirror(es, "")
}

func TestElasticMirrorIndex(t *testing.T) {
	var (
		gotPath string
		gotBody Entry
	)
	mirror := newTestMirror(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotBody)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"result":"created"}`))
	})

	entry := Entry{ID: "65f000000000000000000001", Timestamp: time.Date(2024, 3, 9, 8, 0, 0, 0, time.UTC), Action: "Deleted patient ID: 1"}
	require.NoError(t, mirror.Index(context.Background(), entry))

	assert.Equal(t, "/clinic_audit_2024.03/_doc/65f000000000000000000001", gotPath)
	assert.Equal(t, entry.Action, gotBody.Action)
}

func TestElasticMirrorIndexError(t *testing.T) {
	mirror := newTestMirror(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"bad"}`))
	})

	err := mirror.Index(context.Background(), Entry{ID: "x", Timestamp: time.Now()})
	assert.Error(t, err)
}

func TestIndexName(t *testing.T) {
	m := NewElasticMirror(nil, "audit-")
	assert.Equal(t, "audit-2023.12", m.IndexName(Entry{Timestamp: time.Date(2023, 12, 31, 23, 0, 0, 0, time.UTC)}))
}
