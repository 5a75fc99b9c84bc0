package search

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	log "github.com/sirupsen/logrus"
)

// DefaultPerPage is the page size requested from the v2 search endpoints.
const DefaultPerPage = 100

// V2 runs searches against the Search 2.0 indexes (hosts, certs).
type V2 struct {
	client   *Client
	perPage  int
	statusCb StatusCallback
}

func NewV2(client *Client) *V2 {
	return &V2{client: client, perPage: DefaultPerPage}
}

// Search walks the cursor paginated search endpoint of the index, fetching up to q.Pages pages
// (AllPages for everything). CSV output is rejected up front since v2 records are too irregular to
// tabulate.
func (v *V2) Search(ctx context.Context, q Query) (ResultSet, error) {
	if q.Format == FormatCSV {
		return nil, ErrUnsupportedFormat
	}

	spec, err := Resolve(q.Index, V2)
	if err != nil {
		return nil, err
	}

	if err := validatePages(q.Pages); err != nil {
		return nil, err
	}

	logger := log.WithField("index", spec.Name)

	fetch := func(ctx context.Context, cursor string) (ResultSet, string, error) {
		params := url.Values{}
		params.Set("q", q.Query)
		params.Set("per_page", strconv.Itoa(v.perPage))
		if cursor != "" {
			params.Set("cursor", cursor)
		}

		res, err := v.client.Get(ctx, "/"+spec.Path+"/search", params)
		if err != nil {
			return nil, "", err
		}

		var raws []string
		for _, hit := range res.Get("result.hits").Array() {
			raws = append(raws, hit.Raw)
		}

		next := res.Get("result.links.next").String()
		logger.Debugf("got %d hits (total %d), next cursor %q", len(raws), res.Get("result.total").Int(), next)

		return decodeRecords(raws, spec.Name), next, nil
	}

	results, err := paginate(ctx, q.Pages, fetch, func(page int) {
		if v.statusCb != nil {
			v.statusCb(fmt.Sprintf("searching %s... [page %d]", spec.Name, page))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("searching %s: %w", spec.Name, err)
	}

	logger.Infof("v2 search returned %d records", len(results))
	return results, nil
}

// ViewHost returns the current host record for ip.
func (v *V2) ViewHost(ctx context.Context, ip string) (Record, error) {
	res, err := v.client.Get(ctx, "/hosts/"+url.PathEscape(ip), nil)
	if err != nil {
		return nil, fmt.Errorf("viewing host %s: %w", ip, err)
	}

	result := res.Get("result")
	if !result.IsObject() {
		return nil, fmt.Errorf("viewing host %s: %w", ip, ErrNotFound)
	}

	return decodeRecord([]byte(result.Raw))
}
