package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	APIID          string              `yaml:"api_id,omitempty"`
	APISecret      string              `yaml:"api_secret,omitempty"`
	V1URL          string              `yaml:"v1_url,omitempty"`
	V2URL          string              `yaml:"v2_url,omitempty"`
	PlatformToken  string              `yaml:"platform_token,omitempty"`
	OrganizationID string              `yaml:"organization_id,omitempty"`
	PlatformURL    string              `yaml:"platform_url,omitempty"` // empty uses the sdk's default server
	IPEchoURL      string              `yaml:"ip_echo_url,omitempty"`
	Timeout        time.Duration       `yaml:"timeout,omitempty"`
	DefaultFields  map[string][]string `yaml:"default_fields,omitempty"`
	Risks          *Risks              `yaml:"risks,omitempty"`
	Cookies        map[string]string   `yaml:"cookies,omitempty"` // sent with every v1/v2 request
}

// Risks holds the service names (as reported by censys, i.e. "TELNET") for each HNRI risk tier.
type Risks struct {
	High   []string `yaml:"high,omitempty"`
	Medium []string `yaml:"medium,omitempty"`
}

func (c *Config) GetV1URL() string {
	if c == nil || c.V1URL == "" {
		return DefaultV1URL
	}
	return c.V1URL
}

func (c *Config) GetV2URL() string {
	if c == nil || c.V2URL == "" {
		return DefaultV2URL
	}
	return c.V2URL
}

func (c *Config) GetIPEchoURL() string {
	if c == nil || c.IPEchoURL == "" {
		return DefaultIPEchoURL
	}
	return c.IPEchoURL
}

func (c *Config) GetTimeout() time.Duration {
	if c == nil || c.Timeout <= 0 {
		return DefaultTimeout
	}
	return c.Timeout
}

// GetDefaultFields returns a copy of the v1 default fields for index.
func (c *Config) GetDefaultFields(index string) []string {
	if c == nil || c.DefaultFields == nil {
		return slices.Clone(DefaultFields[index])
	}
	return slices.Clone(c.DefaultFields[index])
}

func (c *Config) GetRisks() *Risks {
	if c == nil || c.Risks == nil {
		return DefaultRisks
	}
	return c.Risks
}

// HasSearchCredentials reports whether the v1/v2 API id and secret are both set.
func (c *Config) HasSearchCredentials() bool {
	return c != nil && c.APIID != "" && c.APISecret != ""
}

// HasPlatformCredentials reports whether a platform token is set.
func (c *Config) HasPlatformCredentials() bool {
	return c != nil && c.PlatformToken != ""
}

// Redacted returns a copy of the config that is safe to print.
func (c *Config) Redacted() *Config {
	if c == nil {
		return nil
	}

	r := *c
	r.DefaultFields = maps.Clone(c.DefaultFields)
	mask := func(s string) string {
		if len(s) <= 4 {
			if s == "" {
				return ""
			}
			return "****"
		}
		return "****" + s[len(s)-4:]
	}
	r.APISecret = mask(c.APISecret)
	r.PlatformToken = mask(c.PlatformToken)
	if c.Cookies != nil {
		r.Cookies = make(map[string]string, len(c.Cookies))
		for k, v := range c.Cookies {
			r.Cookies[k] = mask(v)
		}
	}
	return &r
}

// ApplyEnv overrides the config with any censys environment variables that are set.
func (c *Config) ApplyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}

	set(&c.APIID, "CENSYS_API_ID")
	set(&c.APISecret, "CENSYS_API_SECRET")
	set(&c.V2URL, "CENSYS_API_URL")
	set(&c.V1URL, "CENSYS_API_V1_URL")
	set(&c.PlatformToken, "CENSYS_PLATFORM_TOKEN")
	set(&c.OrganizationID, "CENSYS_PLATFORM_ORGID")
	set(&c.PlatformURL, "CENSYS_PLATFORM_URL")
}

type ConfigOption func(*Config)

func WithAPIID(id string) ConfigOption {
	return func(c *Config) {
		c.APIID = id
	}
}

func WithAPISecret(secret string) ConfigOption {
	return func(c *Config) {
		c.APISecret = secret
	}
}

func WithV1URL(u string) ConfigOption {
	return func(c *Config) {
		c.V1URL = u
	}
}

func WithV2URL(u string) ConfigOption {
	return func(c *Config) {
		c.V2URL = u
	}
}

func WithPlatformToken(token string) ConfigOption {
	return func(c *Config) {
		c.PlatformToken = token
	}
}

func WithOrganizationID(org string) ConfigOption {
	return func(c *Config) {
		c.OrganizationID = org
	}
}

func WithPlatformURL(u string) ConfigOption {
	return func(c *Config) {
		c.PlatformURL = u
	}
}

func WithIPEchoURL(u string) ConfigOption {
	return func(c *Config) {
		c.IPEchoURL = u
	}
}

func WithTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

func WithDefaultFields(fields map[string][]string) ConfigOption {
	return func(c *Config) {
		c.DefaultFields = fields
	}
}

func WithRisks(risks *Risks) ConfigOption {
	return func(c *Config) {
		c.Risks = risks
	}
}

func NewConfig(options ...ConfigOption) *Config {
	config := &Config{
		V1URL:         DefaultV1URL,
		V2URL:         DefaultV2URL,
		IPEchoURL:     DefaultIPEchoURL,
		Timeout:       DefaultTimeout,
		DefaultFields: DefaultFields,
		Risks:         DefaultRisks,
	}

	for _, option := range options {
		option(config)
	}

	return config
}

func Parse(r io.Reader) (*Config, error) {
	decoder := yaml.NewDecoder(r)
	config := &Config{}

	if err := decoder.Decode(config); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

func ParseFile(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	return Parse(file)
}

// DefaultPath is where the config is looked up when --config is not given.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "censys", "censys.yaml")
}

// Load reads the config at path. An empty path falls back to DefaultPath, and a missing default
// file yields the built-in defaults.
func Load(path string) (*Config, error) {
	if path != "" {
		return ParseFile(path)
	}

	path = DefaultPath()
	if path == "" {
		return NewConfig(), nil
	}

	conf, err := ParseFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewConfig(), nil
	}
	return conf, err
}
