package hnri

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/censys-research/censys-search-go/pkg/config"
	"github.com/censys-research/censys-search-go/pkg/search"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

type Tier string

const (
	TierHigh   Tier = "high"
	TierMedium Tier = "medium"
)

// Risk is a single exposed service on the analyzed host.
type Risk struct {
	Port        int
	ServiceName string
	Tier        Tier
}

// Report is the result of analyzing one IP. Found is false when censys has no data for the host.
type Report struct {
	IP     string
	Found  bool
	High   []Risk
	Medium []Risk
}

type Option func(*Analyzer)

// Analyzer computes the home network risk index: it finds the caller's public IP, looks the host
// up, and sorts its services into risk tiers.
type Analyzer struct {
	viewer   search.HostViewer
	http     search.HTTPDoer
	echoURL  string
	risks    *config.Risks
	statusCb search.StatusCallback
}

func WithHTTPClient(doer search.HTTPDoer) Option {
	return func(a *Analyzer) { a.http = doer }
}

// WithIPEchoURL overrides the service used to discover the public IP.
func WithIPEchoURL(u string) Option {
	return func(a *Analyzer) { a.echoURL = u }
}

func WithRisks(risks *config.Risks) Option {
	return func(a *Analyzer) { a.risks = risks }
}

func WithStatusCallback(callback func(message string)) Option {
	return func(a *Analyzer) { a.statusCb = callback }
}

func New(viewer search.HostViewer, options ...Option) *Analyzer {
	a := &Analyzer{
		viewer:  viewer,
		echoURL: config.DefaultIPEchoURL,
		risks:   config.DefaultRisks,
	}

	for _, opt := range options {
		opt(a)
	}

	if a.http == nil {
		a.http = &http.Client{Timeout: config.DefaultTimeout}
	}

	return a
}

// Run discovers the public IP and classifies the services censys sees on it.
func (a *Analyzer) Run(ctx context.Context) (*Report, error) {
	a.sendStatus("discovering public IP")
	ip, err := DiscoverIP(ctx, a.http, a.echoURL)
	if err != nil {
		return nil, err
	}

	a.sendStatus(fmt.Sprintf("looking up %s", ip))
	host, err := a.viewer.ViewHost(ctx, ip)
	if err != nil {
		if errors.Is(err, search.ErrNotFound) {
			log.Debugf("no host data for %s", ip)
			return &Report{IP: ip}, nil
		}
		return nil, fmt.Errorf("%w %s: %w", ErrHostLookup, ip, err)
	}

	high, medium := Classify(host, a.risks)

	return &Report{
		IP:     ip,
		Found:  true,
		High:   high,
		Medium: medium,
	}, nil
}

func (a *Analyzer) sendStatus(message string) {
	if a.statusCb != nil {
		a.statusCb(message)
	}
}

// Classify splits the services of a host record into high and medium risks. Services are matched
// by service_name (or protocol, for platform host assets) case-insensitively; anything not in the
// high tier is a medium risk.
func Classify(host search.Record, risks *config.Risks) (high, medium []Risk) {
	if host == nil {
		return nil, nil
	}
	if risks == nil {
		risks = config.DefaultRisks
	}

	data, err := json.Marshal(host)
	if err != nil {
		log.Warnf("could not read host services: %v", err)
		return nil, nil
	}

	gjson.GetBytes(data, "services").ForEach(func(_, svc gjson.Result) bool {
		name := svc.Get("service_name").String()
		if name == "" {
			name = svc.Get("protocol").String()
		}
		if name == "" {
			name = "UNKNOWN"
		}

		r := Risk{Port: int(svc.Get("port").Int()), ServiceName: name, Tier: tierOf(name, risks)}
		if r.Tier == TierHigh {
			high = append(high, r)
		} else {
			medium = append(medium, r)
		}
		return true
	})

	return high, medium
}

func tierOf(name string, risks *config.Risks) Tier {
	for _, n := range risks.High {
		if strings.EqualFold(n, name) {
			return TierHigh
		}
	}
	return TierMedium
}
