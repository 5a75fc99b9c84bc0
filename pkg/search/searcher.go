package search

import (
	"context"
	"fmt"
	"maps"
	"net/http"
	"slices"

	"github.com/censys-research/censys-search-go/pkg/config"
	log "github.com/sirupsen/logrus"
)

// New creates a new Searcher with the provided options.
func New(options ...Option) *Searcher {
	s := &Searcher{executors: make(map[Generation]Executor)}

	for _, option := range options {
		option(s)
	}

	if s.config == nil {
		s.config = config.NewConfig()
	}

	if s.http == nil {
		s.http = &http.Client{Timeout: s.config.GetTimeout()}
	}

	return s
}

// WithConfig sets the configuration (credentials, api urls, default fields).
func WithConfig(cfg *config.Config) Option { return func(s *Searcher) { s.config = cfg } }

// WithHTTPClient sets the http client used for every api.
func WithHTTPClient(doer HTTPDoer) Option { return func(s *Searcher) { s.http = doer } }

// WithExecutor overrides the executor used for gen.
func WithExecutor(gen Generation, exec Executor) Option {
	return func(s *Searcher) {
		s.executors[gen] = exec
	}
}

// WithStatusCallback allows you to set a callback function that will be called with progress messages (i.e., a spinner)
func WithStatusCallback(callback func(message string)) Option {
	return func(s *Searcher) {
		s.statusCb = callback
	}
}

// Config returns the configuration in use.
func (s *Searcher) Config() *config.Config { return s.config }

// Search routes q to the generation that owns its index and runs it. Query validation (field
// count, page count, output format) happens before any request is made.
func (s *Searcher) Search(ctx context.Context, q Query) (ResultSet, error) {
	if q.Index == "" {
		q.Index = DefaultIndex
	}

	spec, err := Resolve(q.Index, q.Generation)
	if err != nil {
		return nil, err
	}
	q.Generation = spec.Generation

	exec, err := s.executor(spec.Generation)
	if err != nil {
		return nil, err
	}

	log.WithField("index", spec.Name).Infof("searching %s index %s for %q", spec.Generation, spec.Name, q.Query)
	return exec.Search(ctx, q)
}

// Fields returns the fields a query will request. Only v1 searches select fields; other
// generations return nil.
func (s *Searcher) Fields(q Query) ([]string, error) {
	if q.Index == "" {
		q.Index = DefaultIndex
	}

	spec, err := Resolve(q.Index, q.Generation)
	if err != nil {
		return nil, err
	}
	if spec.Generation != V1 {
		return nil, nil
	}

	return (&V1{config: s.config}).Fields(q)
}

// HostViewer returns the host lookup to use for a single IP: the v2 api when search credentials
// are configured, otherwise the platform api.
func (s *Searcher) HostViewer() (HostViewer, error) {
	gen := V2
	if !s.config.HasSearchCredentials() && s.config.HasPlatformCredentials() {
		gen = Platform
	}

	exec, err := s.executor(gen)
	if err != nil {
		return nil, err
	}

	hv, ok := exec.(HostViewer)
	if !ok {
		return nil, fmt.Errorf("%w: %s executor cannot view hosts", ErrConfiguration, gen)
	}
	return hv, nil
}

func (s *Searcher) sendStatus(message string) {
	if s.statusCb != nil {
		s.statusCb(message)
	}
}

func (s *Searcher) executor(gen Generation) (Executor, error) {
	if exec, ok := s.executors[gen]; ok {
		return exec, nil
	}

	var exec Executor

	switch gen {
	case V1:
		client, err := s.searchClient(s.config.GetV1URL())
		if err != nil {
			return nil, err
		}
		v1 := NewV1(client, s.config)
		v1.statusCb = s.sendStatus
		exec = v1
	case V2:
		client, err := s.searchClient(s.config.GetV2URL())
		if err != nil {
			return nil, err
		}
		v2 := NewV2(client)
		v2.statusCb = s.sendStatus
		exec = v2
	case Platform:
		if !s.config.HasPlatformCredentials() {
			return nil, fmt.Errorf("%w: a platform token is required (set CENSYS_PLATFORM_TOKEN)", ErrConfiguration)
		}
		p := NewPlatform(s.config.PlatformToken, s.config.OrganizationID, s.config.PlatformURL, s.http)
		p.statusCb = s.sendStatus
		exec = p
	default:
		return nil, fmt.Errorf("%w: no executor for generation %s", ErrUnknownIndex, gen)
	}

	s.executors[gen] = exec
	return exec, nil
}

func (s *Searcher) searchClient(baseURL string) (*Client, error) {
	if !s.config.HasSearchCredentials() {
		return nil, fmt.Errorf("%w: an api id and secret are required (set CENSYS_API_ID and CENSYS_API_SECRET)", ErrConfiguration)
	}

	var cookies []*http.Cookie
	for _, name := range slices.Sorted(maps.Keys(s.config.Cookies)) {
		cookies = append(cookies, &http.Cookie{Name: name, Value: s.config.Cookies[name]})
	}

	return NewClient(baseURL,
		WithCredentials(s.config.APIID, s.config.APISecret),
		WithCookies(cookies...),
		WithHTTPDoer(s.http),
	)
}
