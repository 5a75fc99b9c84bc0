package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/censys-research/censys-search-go/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const platformHostIP = "8.8.8.8"

// platformHandler serves n pages of two host hits each, and a host asset for platformHostIP.
// Any other host is a 404. Request bodies of search calls are appended to bodies.
func platformHandler(t *testing.T, n int, bodies *[]string) http.HandlerFunc {
	var page atomic.Int32

	return func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("Authorization"), "test-token")

		if strings.Contains(r.URL.Path, "/asset/host/") {
			if path.Base(r.URL.Path) != platformHostIP {
				writeJSON(w, http.StatusNotFound, map[string]any{"title": "Not Found", "status": 404, "detail": "host not found"})
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{
				"result": map[string]any{
					"resource": map[string]any{
						"ip": platformHostIP,
						"services": []any{
							map[string]any{"port": 22, "protocol": "SSH"},
							map[string]any{"port": 6379, "protocol": "REDIS"},
						},
					},
				},
			})
			return
		}

		body, _ := io.ReadAll(r.Body)
		*bodies = append(*bodies, string(body))

		p := int(page.Add(1))
		next := ""
		if p < n {
			next = fmt.Sprintf("token-%d", p)
		}

		hits := []any{
			map[string]any{"host_v1": map[string]any{"resource": map[string]any{"ip": fmt.Sprintf("10.0.%d.1", p)}}},
			map[string]any{"host_v1": map[string]any{"resource": map[string]any{"ip": fmt.Sprintf("10.0.%d.2", p)}}},
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"result": map[string]any{
				"hits":                  hits,
				"next_page_token":       next,
				"previous_page_token":   "",
				"query_duration_millis": 1,
				"total_hits":            2 * n,
			},
		})
	}
}

func newPlatformSearcher(t *testing.T, handler http.HandlerFunc) (*Searcher, *atomic.Int32) {
	t.Helper()

	srv, calls := newTestServer(t, handler)
	conf := config.NewConfig(
		config.WithPlatformToken("test-token"),
		config.WithOrganizationID("test-org"),
		config.WithPlatformURL(srv.URL),
	)
	return New(WithConfig(conf), WithHTTPClient(srv.Client())), calls
}

func recordJSON(t *testing.T, rec Record) string {
	t.Helper()
	data, err := json.Marshal(rec)
	require.NoError(t, err)
	return string(data)
}

func TestPlatformSearchAllPages(t *testing.T) {
	var bodies []string
	s, calls := newPlatformSearcher(t, platformHandler(t, 3, &bodies))

	res, err := s.Search(context.Background(), Query{Query: "host.services.port: 22", Index: "platform", Format: FormatJSON, Pages: AllPages})
	require.NoError(t, err)

	assert.EqualValues(t, 3, calls.Load())
	require.Len(t, res, 6)
	assert.Contains(t, recordJSON(t, res[0]), "10.0.1.1")
	assert.Contains(t, recordJSON(t, res[5]), "10.0.3.2")

	require.Len(t, bodies, 3)
	assert.Contains(t, bodies[0], "host.services.port: 22")
	assert.NotContains(t, bodies[0], "token-")
	assert.Contains(t, bodies[1], "token-1")
	assert.Contains(t, bodies[2], "token-2")
}

func TestPlatformSearchPageBudget(t *testing.T) {
	var bodies []string
	s, calls := newPlatformSearcher(t, platformHandler(t, 5, &bodies))

	res, err := s.Search(context.Background(), Query{Query: "x", Index: "platform", Format: FormatJSON, Pages: 2})
	require.NoError(t, err)

	assert.EqualValues(t, 2, calls.Load())
	assert.Len(t, res, 4)
}

func TestPlatformViewHost(t *testing.T) {
	var bodies []string
	s, _ := newPlatformSearcher(t, platformHandler(t, 1, &bodies))

	hv, err := s.HostViewer()
	require.NoError(t, err)

	host, err := hv.ViewHost(context.Background(), platformHostIP)
	require.NoError(t, err)

	out := recordJSON(t, host)
	assert.Contains(t, out, platformHostIP)
	assert.Contains(t, out, `"port":22`)
	assert.Contains(t, out, "REDIS")
}

func TestPlatformViewHostNotFound(t *testing.T) {
	var bodies []string
	s, _ := newPlatformSearcher(t, platformHandler(t, 1, &bodies))

	hv, err := s.HostViewer()
	require.NoError(t, err)

	_, err = hv.ViewHost(context.Background(), "192.0.2.1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPlatformServerErrorIsNotNotFound(t *testing.T) {
	s, _ := newPlatformSearcher(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusForbidden, map[string]any{"title": "Forbidden", "status": 403})
	})

	hv, err := s.HostViewer()
	require.NoError(t, err)

	_, err = hv.ViewHost(context.Background(), platformHostIP)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
}

func TestPlatformRejectsCSVBeforeRequest(t *testing.T) {
	s, calls := newPlatformSearcher(t, func(w http.ResponseWriter, r *http.Request) {})

	_, err := s.Search(context.Background(), Query{Query: "x", Index: "platform", Format: FormatCSV, Pages: 1})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Zero(t, calls.Load())
}

func TestPlatformInvalidPageCount(t *testing.T) {
	s, calls := newPlatformSearcher(t, func(w http.ResponseWriter, r *http.Request) {})

	_, err := s.Search(context.Background(), Query{Query: "x", Index: "platform", Format: FormatJSON, Pages: 0})
	assert.ErrorIs(t, err, ErrInvalidPageCount)
	assert.Zero(t, calls.Load())
}
