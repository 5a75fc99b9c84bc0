package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	censys "github.com/censys/censys-sdk-go"
	"github.com/censys/censys-sdk-go/models/components"
	"github.com/censys/censys-sdk-go/models/operations"
	log "github.com/sirupsen/logrus"
)

// PlatformExecutor searches the Censys Platform global data api through the censys sdk. It shares
// the v2 paging rules.
type PlatformExecutor struct {
	client   *censys.SDK
	status   *statusRecorder
	statusCb StatusCallback
}

// statusRecorder keeps the status code of the last response the sdk received.
type statusRecorder struct {
	doer HTTPDoer
	last int
}

func (r *statusRecorder) Do(req *http.Request) (*http.Response, error) {
	r.last = 0
	resp, err := r.doer.Do(req)
	if resp != nil {
		r.last = resp.StatusCode
	}
	return resp, err
}

// NewPlatform builds a platform executor from a personal access token and organization id.
// An empty serverURL uses the sdk's default server; a nil doer uses http.DefaultClient.
func NewPlatform(token, org, serverURL string, doer HTTPDoer) *PlatformExecutor {
	if doer == nil {
		doer = http.DefaultClient
	}
	rec := &statusRecorder{doer: doer}

	var client *censys.SDK
	if serverURL != "" {
		client = censys.New(
			censys.WithSecurity(token),
			censys.WithOrganizationID(org),
			censys.WithClient(rec),
			censys.WithServerURL(serverURL),
		)
	} else {
		client = censys.New(
			censys.WithSecurity(token),
			censys.WithOrganizationID(org),
			censys.WithClient(rec),
		)
	}

	return &PlatformExecutor{client: client, status: rec}
}

// apiError attaches the http status of a failed sdk call, so a 404 matches ErrNotFound.
func (p *PlatformExecutor) apiError(err error) error {
	if p.status == nil || p.status.last < 400 {
		return err
	}
	code := p.status.last
	return fmt.Errorf("%w: %w", &APIError{StatusCode: code, Code: code, Message: http.StatusText(code)}, err)
}

func (p *PlatformExecutor) Search(ctx context.Context, q Query) (ResultSet, error) {
	if q.Format == FormatCSV {
		return nil, ErrUnsupportedFormat
	}

	if err := validatePages(q.Pages); err != nil {
		return nil, err
	}

	req := operations.V3GlobaldataSearchQueryRequest{
		SearchQueryInputBody: components.SearchQueryInputBody{
			PageToken: nil,
			Query:     q.Query,
		},
	}

	fetch := func(ctx context.Context, cursor string) (ResultSet, string, error) {
		if cursor != "" {
			req.SearchQueryInputBody.PageToken = &cursor
		}

		res, err := p.client.GlobalData.Search(ctx, req)
		if err != nil {
			return nil, "", fmt.Errorf("failed to search: %w", p.apiError(err))
		}

		result := res.GetResponseEnvelopeSearchQueryResponse().GetResult()

		var raws []string
		for _, hit := range result.GetHits() {
			jstr, err := json.Marshal(hit)
			if err != nil {
				log.Warnf("error marshalling search hit for %q: %v", q.Query, err)
				continue
			}
			raws = append(raws, string(jstr))
		}

		return decodeRecords(raws, "platform"), result.GetNextPageToken(), nil
	}

	results, err := paginate(ctx, q.Pages, fetch, func(page int) {
		if p.statusCb != nil {
			p.statusCb(fmt.Sprintf("executing query: %s... [page %d]", q.Query, page))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("searching platform: %w", err)
	}

	return results, nil
}

// ViewHost returns the host asset for ip.
func (p *PlatformExecutor) ViewHost(ctx context.Context, ip string) (Record, error) {
	res, err := p.client.GlobalData.GetHost(ctx,
		operations.V3GlobaldataAssetHostRequest{
			HostID: ip,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("fetching host %s: %w", ip, p.apiError(err))
	}

	hostres := res.GetResponseEnvelopeHostAsset().GetResult()
	if hostres == nil {
		return nil, fmt.Errorf("no host asset found for %s: %w", ip, ErrNotFound)
	}

	jstr, err := json.Marshal(hostres.GetResource())
	if err != nil {
		return nil, fmt.Errorf("error marshalling host resource: %w", err)
	}

	return decodeRecord(jstr)
}
