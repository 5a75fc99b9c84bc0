package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

// Version is reported in the User-Agent header.
var Version = "dev"

// HTTPDoer is the subset of *http.Client used by Client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a thin REST client for one censys search api base url. It handles authentication and
// decoding of the api's JSON error envelope; it never retries.
type Client struct {
	baseURL   string
	apiID     string
	apiSecret string
	userAgent string
	cookies   []*http.Cookie
	http      HTTPDoer
}

type ClientOption func(*Client)

// WithCredentials sets the api id and secret sent as http basic auth.
func WithCredentials(id, secret string) ClientOption {
	return func(c *Client) {
		c.apiID = id
		c.apiSecret = secret
	}
}

func WithHTTPDoer(doer HTTPDoer) ClientOption {
	return func(c *Client) {
		c.http = doer
	}
}

// WithCookies adds cookies to every request.
func WithCookies(cookies ...*http.Cookie) ClientOption {
	return func(c *Client) {
		c.cookies = append(c.cookies, cookies...)
	}
}

// WithUserAgent appends ua to the default User-Agent.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent += " " + ua
	}
}

// NewClient creates a client for baseURL (e.g. https://search.censys.io/api/v2).
func NewClient(baseURL string, options ...ClientOption) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("%w: No API url configured.", ErrConfiguration)
	}

	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: "censys-search-go/" + Version,
		http:      http.DefaultClient,
	}

	for _, option := range options {
		option(c)
	}

	return c, nil
}

// Get issues a GET request for path with the given query parameters.
func (c *Client) Get(ctx context.Context, path string, params url.Values) (gjson.Result, error) {
	return c.do(ctx, http.MethodGet, path, params, nil)
}

// Post issues a POST request for path with body encoded as JSON.
func (c *Client) Post(ctx context.Context, path string, params url.Values, body any) (gjson.Result, error) {
	return c.do(ctx, http.MethodPost, path, params, body)
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, body any) (gjson.Result, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var rdr io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return gjson.Result{}, fmt.Errorf("encoding request body: %w", err)
		}
		rdr = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("building request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiID != "" || c.apiSecret != "" {
		req.SetBasicAuth(c.apiID, c.apiSecret)
	}
	for _, cookie := range c.cookies {
		req.AddCookie(cookie)
	}

	log.Debugf("%s %s", method, u)

	resp, err := c.http.Do(req)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("reading response body: %w", err)
	}

	return decodeResponse(resp.StatusCode, data)
}

// decodeResponse applies the api's envelope rules: an empty 2xx body is a plain success, a body
// carrying an "error" key is always an error, and anything that isn't JSON is an error.
func decodeResponse(status int, data []byte) (gjson.Result, error) {
	ok := status >= 200 && status < 300
	data = bytes.TrimSpace(data)

	if len(data) == 0 {
		if ok {
			return gjson.Parse(fmt.Sprintf(`{"status":"OK","code":%d}`, status)), nil
		}
		return gjson.Result{}, &APIError{StatusCode: status, Code: status, Message: http.StatusText(status)}
	}

	if !gjson.ValidBytes(data) {
		return gjson.Result{}, &APIError{
			StatusCode: status,
			Code:       status,
			Message:    fmt.Sprintf("%s is not valid JSON and cannot be decoded", data),
		}
	}

	res := gjson.ParseBytes(data)
	if !ok || (res.IsObject() && res.Get("error").Exists()) {
		return res, newAPIError(status, res)
	}

	return res, nil
}
