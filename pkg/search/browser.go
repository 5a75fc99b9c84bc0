package search

import (
	"fmt"
	"net/url"

	"github.com/pkg/browser"
)

// AccountURL is the censys search account page opened by `hnri --open`.
const AccountURL = "https://search.censys.io/me"

// openURL is swapped out in tests.
var openURL = browser.OpenURL

// SearchURL returns the web ui url that runs query against the index.
func SearchURL(spec IndexSpec, query string) string {
	params := url.Values{"q": {query}}

	switch spec.Generation {
	case V1:
		if spec.Name == "certs" {
			return fmt.Sprintf("https://search.censys.io/certificates?%s", params.Encode())
		}
		return fmt.Sprintf("https://censys.io/%s?%s", spec.Name, params.Encode())
	case Platform:
		return fmt.Sprintf("https://platform.censys.io/search?%s", params.Encode())
	default:
		params.Set("resource", spec.Name)
		return fmt.Sprintf("https://search.censys.io/search?%s", params.Encode())
	}
}

// Open opens u in the default browser.
func Open(u string) error {
	if err := openURL(u); err != nil {
		return fmt.Errorf("opening %s: %w", u, err)
	}
	return nil
}
