package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/censys-research/censys-search-go/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeFields(t *testing.T) {
	defaults := config.DefaultFields["websites"]

	t.Run("no user fields", func(t *testing.T) {
		assert.Empty(t, MergeFields(nil, defaults, false))
		assert.Empty(t, MergeFields(nil, defaults, true))
	})

	t.Run("append defaults", func(t *testing.T) {
		user := []string{"domain", "80.http.get.title", "domain"}
		got := MergeFields(user, defaults, false)

		assert.Subset(t, got, user)
		assert.Subset(t, got, defaults)

		seen := make(map[string]bool)
		for _, f := range got {
			assert.False(t, seen[f], "duplicate field %s", f)
			seen[f] = true
		}
		assert.Len(t, got, len(defaults)+1)
	})

	t.Run("overwrite", func(t *testing.T) {
		user := []string{"ip", "protocols"}
		assert.Equal(t, user, MergeFields(user, defaults, true))
	})
}

func TestV1TooManyFieldsMakesNoRequest(t *testing.T) {
	srv, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"results": []any{}})
	})
	s := newTestSearcher(srv)

	// ipv4 has 15 default fields, six more distinct fields puts us over the limit.
	var fields []string
	for i := 0; i < 6; i++ {
		fields = append(fields, fmt.Sprintf("field.%d", i))
	}

	_, err := s.Search(context.Background(), Query{Query: "*", Index: "ipv4", Fields: fields})
	assert.ErrorIs(t, err, ErrTooManyFields)
	assert.Equal(t, int32(0), calls.Load())

	_, err = s.Fields(Query{Index: "ipv4", Fields: fields})
	assert.ErrorIs(t, err, ErrTooManyFields)

	// the same fields are fine when they replace the defaults.
	got, err := s.Fields(Query{Index: "ipv4", Fields: fields, Overwrite: true})
	require.NoError(t, err)
	assert.Equal(t, fields, got)
}

func TestV1OverwriteTooMany(t *testing.T) {
	srv, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {})
	s := newTestSearcher(srv)

	fields := make([]string, 21)
	for i := range fields {
		fields[i] = fmt.Sprintf("f%d", i)
	}

	_, err := s.Search(context.Background(), Query{Query: "*", Index: "certs", Fields: fields, Overwrite: true})
	assert.ErrorIs(t, err, ErrTooManyFields)
	assert.Equal(t, int32(0), calls.Load())
}

func TestV1Search(t *testing.T) {
	srv, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/search/certificates", r.URL.Path)

		var body v1SearchBody
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "parsed.names: censys.io", body.Query)
		assert.Equal(t, 1, body.Page)
		assert.True(t, body.Flatten)
		assert.Contains(t, body.Fields, "parsed.fingerprint_sha256")
		assert.Contains(t, body.Fields, "parsed.issuer.common_name")

		writeJSON(w, http.StatusOK, map[string]any{
			"status": "ok",
			"results": []any{
				map[string]any{"parsed.fingerprint_sha256": "aaa", "parsed.names": []string{"censys.io"}},
				map[string]any{"parsed.fingerprint_sha256": "bbb"},
				map[string]any{"parsed.fingerprint_sha256": "ccc"},
			},
			"metadata": map[string]any{"count": 3, "page": 1, "pages": 1},
		})
	})
	s := newTestSearcher(srv)

	res, err := s.Search(context.Background(), Query{
		Query:      "parsed.names: censys.io",
		Index:      "certs",
		Fields:     []string{"parsed.fingerprint_sha256"},
		MaxRecords: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())

	require.Len(t, res, 2)
	assert.Equal(t, "aaa", res[0]["parsed.fingerprint_sha256"])
	assert.Equal(t, []any{"censys.io"}, res[0]["parsed.names"])
	assert.Equal(t, "bbb", res[1]["parsed.fingerprint_sha256"])
}

func TestV1SearchNoFields(t *testing.T) {
	srv, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.NotContains(t, body, "fields")
		writeJSON(w, http.StatusOK, map[string]any{"results": []any{map[string]any{"ip": "8.8.8.8"}}})
	})
	s := newTestSearcher(srv)

	res, err := s.Search(context.Background(), Query{Query: "8.8.8.8", Index: "ipv4"})
	require.NoError(t, err)
	assert.Len(t, res, 1)
}

func TestV1SearchAPIError(t *testing.T) {
	srv, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Invalid query", "error_type": "malformed_request", "status": "error"})
	})
	s := newTestSearcher(srv)

	_, err := s.Search(context.Background(), Query{Query: "bad[", Index: "websites"})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "malformed_request", apiErr.Type)
	assert.Equal(t, "Invalid query", apiErr.Message)
}
