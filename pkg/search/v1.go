package search

import (
	"context"
	"fmt"
	"slices"

	"github.com/censys-research/censys-search-go/pkg/config"
	log "github.com/sirupsen/logrus"
)

// V1 runs searches against the legacy v1 indexes (ipv4, certs, websites).
type V1 struct {
	client   *Client
	config   *config.Config
	statusCb StatusCallback
}

// NewV1 creates a v1 executor. conf supplies the per-index default fields.
func NewV1(client *Client, conf *config.Config) *V1 {
	return &V1{client: client, config: conf}
}

type v1SearchBody struct {
	Query   string   `json:"query"`
	Page    int      `json:"page"`
	Fields  []string `json:"fields,omitempty"`
	Flatten bool     `json:"flatten"`
}

// MergeFields combines the user's fields with the index defaults. With overwrite set the user's
// fields are used as given; without any user fields the server picks its own default view.
func MergeFields(user, defaults []string, overwrite bool) []string {
	if len(user) == 0 {
		return nil
	}

	if overwrite {
		return slices.Clone(user)
	}

	out := make([]string, 0, len(user)+len(defaults))
	seen := make(map[string]bool)
	for _, f := range slices.Concat(user, defaults) {
		if seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}

	return out
}

// Fields returns the fields a v1 query will request, failing if there are too many.
func (v *V1) Fields(q Query) ([]string, error) {
	fields := MergeFields(q.Fields, v.config.GetDefaultFields(q.Index), q.Overwrite)
	if len(fields) > config.MaxV1Fields {
		return nil, fmt.Errorf("%w (got %d)", ErrTooManyFields, len(fields))
	}
	return fields, nil
}

// Search issues a single bounded search request. MaxRecords > 0 caps the number of records
// returned; results are kept in the order the api returned them.
func (v *V1) Search(ctx context.Context, q Query) (ResultSet, error) {
	spec, err := Resolve(q.Index, V1)
	if err != nil {
		return nil, err
	}

	fields, err := v.Fields(q)
	if err != nil {
		return nil, err
	}

	if v.statusCb != nil {
		v.statusCb(fmt.Sprintf("searching %s...", spec.Name))
	}

	log.WithField("index", spec.Name).Debugf("v1 search %q with %d fields", q.Query, len(fields))

	res, err := v.client.Post(ctx, "/search/"+spec.Path, nil, v1SearchBody{
		Query:   q.Query,
		Page:    1,
		Fields:  fields,
		Flatten: true,
	})
	if err != nil {
		return nil, fmt.Errorf("searching %s: %w", spec.Name, err)
	}

	var raws []string
	for _, r := range res.Get("results").Array() {
		raws = append(raws, r.Raw)
	}

	results := decodeRecords(raws, spec.Name)
	if q.MaxRecords > 0 && len(results) > q.MaxRecords {
		results = results[:q.MaxRecords]
	}

	log.WithField("index", spec.Name).Infof("v1 search returned %d records (%d total matches)",
		len(results), res.Get("metadata.count").Int())

	return results, nil
}
