package search

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/censys-research/censys-search-go/pkg/config"
)

const (
	testAPIID     = "test-api-id"
	testAPISecret = "test-api-secret"
)

// newTestServer starts an api server and returns it along with a counter of the requests it saw.
func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	return srv, &calls
}

func newTestSearcher(srv *httptest.Server) *Searcher {
	conf := config.NewConfig(
		config.WithAPIID(testAPIID),
		config.WithAPISecret(testAPISecret),
		config.WithV1URL(srv.URL+"/api/v1"),
		config.WithV2URL(srv.URL+"/api/v2"),
	)
	return New(WithConfig(conf), WithHTTPClient(srv.Client()))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
