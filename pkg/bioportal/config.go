package bioportal

import (
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/x/configloader"
	"github.com/effective-security/x/values"
)

// Config describes the client configuration. It is read once at process
// start and passed in; the client never consults the environment after
// construction, except for the API key fallback in ResolveAPIKey.
type Config struct {
	// BaseURL overrides the BioPortal REST endpoint.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	// APIKey authorizes upstream calls. When empty, the
	// BIOPORTAL_API_KEY environment variable is used.
	// Never logged.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	// RequestTimeout bounds a single upstream call, in seconds.
	RequestTimeout int `json:"request_timeout,omitempty" yaml:"request_timeout,omitempty"`
}

// LoadConfig reads the yaml configuration from file, expanding
// environment variables. An empty file name yields the default config.
func LoadConfig(file string) (*Config, error) {
	cfg := new(Config)
	if file == "" {
		return cfg, nil
	}

	err := configloader.UnmarshalAndExpand(file, cfg)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// ResolveAPIKey returns the explicit key when non-empty, else the value
// of BIOPORTAL_API_KEY. The explicit key always wins, even when both
// are set.
func ResolveAPIKey(explicit string) (string, error) {
	key := values.StringsCoalesce(
		strings.TrimSpace(explicit),
		strings.TrimSpace(os.Getenv(EnvAPIKey)),
	)
	if key == "" {
		return "", errors.WithStack(ErrNoAPIKey)
	}
	return key, nil
}
