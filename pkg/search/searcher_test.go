package search

import (
	"context"
	"testing"

	"github.com/censys-research/censys-search-go/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExecutor struct {
	queries []Query
	results ResultSet
}

func (f *fakeExecutor) Search(_ context.Context, q Query) (ResultSet, error) {
	f.queries = append(f.queries, q)
	return f.results, nil
}

func TestSearcherRequiresCredentials(t *testing.T) {
	s := New(WithConfig(config.NewConfig()))

	_, err := s.Search(context.Background(), Query{Query: "*", Index: "hosts", Pages: 1})
	assert.ErrorIs(t, err, ErrConfiguration)

	_, err = s.Search(context.Background(), Query{Query: "*", Index: "platform", Pages: 1})
	assert.ErrorIs(t, err, ErrConfiguration)

	_, err = s.HostViewer()
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestSearcherUnknownIndex(t *testing.T) {
	s := New()
	_, err := s.Search(context.Background(), Query{Query: "*", Index: "nope"})
	assert.ErrorIs(t, err, ErrUnknownIndex)
}

func TestSearcherDispatch(t *testing.T) {
	v1 := &fakeExecutor{results: ResultSet{{"ip": "1.1.1.1"}}}
	v2 := &fakeExecutor{results: ResultSet{{"ip": "2.2.2.2"}}}

	s := New(WithExecutor(V1, v1), WithExecutor(V2, v2))

	res, err := s.Search(context.Background(), Query{Query: "*", Index: "certs"})
	require.NoError(t, err)
	assert.Equal(t, "1.1.1.1", res[0]["ip"])

	res, err = s.Search(context.Background(), Query{Query: "*", Index: "certs", Generation: V2})
	require.NoError(t, err)
	assert.Equal(t, "2.2.2.2", res[0]["ip"])

	_, err = s.Search(context.Background(), Query{Query: "*"})
	require.NoError(t, err)

	require.Len(t, v1.queries, 1)
	require.Len(t, v2.queries, 2)
	assert.Equal(t, V1, v1.queries[0].Generation)
	assert.Equal(t, "hosts", v2.queries[1].Index)
	assert.Equal(t, V2, v2.queries[1].Generation)
}

func TestSearcherFields(t *testing.T) {
	s := New()

	fields, err := s.Fields(Query{Index: "hosts", Fields: []string{"ip"}})
	require.NoError(t, err)
	assert.Nil(t, fields)

	fields, err = s.Fields(Query{Index: "websites", Fields: []string{"domain"}})
	require.NoError(t, err)
	assert.ElementsMatch(t, config.DefaultFields["websites"], fields)
}

func TestSearcherHostViewerFallsBackToPlatform(t *testing.T) {
	conf := config.NewConfig(config.WithPlatformToken("token"), config.WithOrganizationID("org"))
	s := New(WithConfig(conf))

	hv, err := s.HostViewer()
	require.NoError(t, err)
	assert.IsType(t, &PlatformExecutor{}, hv)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("CSV")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	_, err = ParseFormat("xml")
	assert.Error(t, err)
}
