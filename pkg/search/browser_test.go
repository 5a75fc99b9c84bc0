package search

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchURL(t *testing.T) {
	mustResolve := func(name string, gen Generation) IndexSpec {
		spec, err := Resolve(name, gen)
		require.NoError(t, err)
		return spec
	}

	tests := []struct {
		name string
		spec IndexSpec
		want string
	}{
		{"v2 hosts", mustResolve("hosts", V2), "https://search.censys.io/search?q=services.port%3A+443&resource=hosts"},
		{"v2 certs", mustResolve("certs", V2), "https://search.censys.io/search?q=services.port%3A+443&resource=certs"},
		{"v1 certs", mustResolve("certs", V1), "https://search.censys.io/certificates?q=services.port%3A+443"},
		{"v1 ipv4", mustResolve("ipv4", V1), "https://censys.io/ipv4?q=services.port%3A+443"},
		{"v1 websites", mustResolve("websites", V1), "https://censys.io/websites?q=services.port%3A+443"},
		{"platform", mustResolve("platform", Platform), "https://platform.censys.io/search?q=services.port%3A+443"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SearchURL(tt.spec, "services.port: 443"))
		})
	}
}

func TestOpen(t *testing.T) {
	orig := openURL
	t.Cleanup(func() { openURL = orig })

	var opened string
	openURL = func(u string) error {
		opened = u
		return nil
	}

	require.NoError(t, Open(AccountURL))
	assert.Equal(t, "https://search.censys.io/me", opened)

	openURL = func(string) error { return errors.New("no browser") }
	assert.ErrorContains(t, Open(AccountURL), "no browser")
}
