package hnri

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"

	"github.com/censys-research/censys-search-go/pkg/search"
	"github.com/tidwall/gjson"
)

var (
	ErrIPDiscovery     = errors.New("could not determine your public IP address")
	ErrHostLookup      = errors.New("could not look up host")
	ErrNoRisksToRender = errors.New("no risks to render")
)

// DiscoverIP asks the ip echo service at echoURL (ipify's JSON api) for the caller's public address.
func DiscoverIP(ctx context.Context, doer search.HTTPDoer, echoURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, echoURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrIPDiscovery, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := doer.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrIPDiscovery, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading response: %w", ErrIPDiscovery, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: %s returned %s", ErrIPDiscovery, echoURL, resp.Status)
	}

	if !gjson.ValidBytes(data) {
		return "", fmt.Errorf("%w: invalid JSON response", ErrIPDiscovery)
	}

	ip := gjson.GetBytes(data, "ip").String()
	if net.ParseIP(ip) == nil {
		return "", fmt.Errorf("%w: no ip in response", ErrIPDiscovery)
	}

	return ip, nil
}
