package types

import (
	"errors"
	"time"
)

// Supported backend names.
const (
	BackendJSONL  = "jsonl"
	BackendSQLite = "sqlite"
)

// Config defaults.
const (
	DefaultBackend          = BackendJSONL
	DefaultNoticeTTL        = 5 * time.Second
	DefaultOrganizerTimeout = 60 * time.Second
)

// Config validation errors.
var (
	ErrBackendEmpty     = errors.New("backend must not be empty")
	ErrBackendUnknown   = errors.New("unknown backend")
	ErrNoticeTTLInvalid = errors.New("notice TTL must not be negative")
	ErrTimeoutInvalid   = errors.New("organizer timeout must not be negative")
	ErrEndpointEmpty    = errors.New("organizer endpoint must not be empty")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendJSONL:  true,
	BackendSQLite: true,
}

// OrganizerConfig holds the external reorganizer connection settings.
// Endpoint is only required when the organize workflow is invoked.
type OrganizerConfig struct {
	Endpoint string        `json:"endpoint" yaml:"endpoint"`
	Timeout  time.Duration `json:"timeout" yaml:"timeout"`
	Token    string        `json:"token" yaml:"token"`
}

// Config holds backend selection and workflow parameters.
type Config struct {
	Backend   string          `json:"backend" yaml:"backend"`
	DataDir   string          `json:"data_dir" yaml:"data_dir"`
	Organizer OrganizerConfig `json:"organizer" yaml:"organizer"`
	NoticeTTL time.Duration   `json:"notice_ttl" yaml:"notice_ttl"`
}

// Validate checks that the Config is well-formed. It returns a sentinel
// error from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if c.NoticeTTL < 0 {
		return ErrNoticeTTLInvalid
	}
	if c.Organizer.Timeout < 0 {
		return ErrTimeoutInvalid
	}
	return nil
}
