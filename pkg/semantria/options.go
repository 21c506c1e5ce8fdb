package semantria

import (
	"net/http"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/semantria/semantria-go/pkg/semantria/auth"
	"github.com/semantria/semantria-go/pkg/semantria/serializer"
	"github.com/spf13/afero"
)

const (
	// DefaultHost is the production API host.
	DefaultHost = "https://api.semantria.com"
	// DefaultAPIVersion is the API version announced in x-api-version.
	DefaultAPIVersion = "4.2"
)

// Option configures a Session. Options are applied once by NewSession.
type Option func(*config)

type config struct {
	Host        string            `validate:"required,url"`
	AuthHost    string            `validate:"required,url"`
	Format      serializer.Format `validate:"oneof=json xml"`
	Compression bool
	APIVersion  string            `validate:"required"`
	AppName     string            `validate:"max=128,excludesall=/"`
	Timeout     time.Duration     `validate:"gte=0"`
	HTTPClient  *http.Client      `validate:"-"`
	Store       auth.SessionStore `validate:"-"`
	FS          afero.Fs          `validate:"-"`
	Logger      zerolog.Logger    `validate:"-"`
}

func defaultConfig() config {
	return config{
		Host:       DefaultHost,
		AuthHost:   auth.DefaultAuthHost,
		Format:     serializer.FormatJSON,
		APIVersion: DefaultAPIVersion,
		Logger:     zerolog.Nop(),
	}
}

var validate = validator.New()

func (c *config) validate() error {
	if err := validate.Struct(c); err != nil {
		return ErrInvalidArgument.Err(err)
	}
	if _, err := semver.NewVersion(c.APIVersion); err != nil {
		return ErrInvalidArgument.Msgf("invalid api version %q", c.APIVersion).Err(err)
	}
	return nil
}

// WithHost sets the API host, e.g. "https://api.semantria.com".
func WithHost(host string) Option {
	return func(c *config) { c.Host = host }
}

// WithAuthHost sets the authorization endpoint used for user logins.
func WithAuthHost(host string) Option {
	return func(c *config) { c.AuthHost = host }
}

// WithFormat selects the initial wire format.
func WithFormat(f serializer.Format) Option {
	return func(c *config) { c.Format = f }
}

// WithCompression enables gzip request and response bodies.
func WithCompression(on bool) Option {
	return func(c *config) { c.Compression = on }
}

// WithAPIVersion sets the API version. It must parse as a semantic version.
func WithAPIVersion(v string) Option {
	return func(c *config) { c.APIVersion = v }
}

// WithAppName prefixes x-app-name with the caller's application name.
func WithAppName(name string) Option {
	return func(c *config) { c.AppName = name }
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *config) { c.HTTPClient = hc }
}

// WithTimeout bounds each request. Zero means 120s.
func WithTimeout(d time.Duration) Option {
	return func(c *config) { c.Timeout = d }
}

// WithSessionStore replaces the session cache used for user logins.
func WithSessionStore(s auth.SessionStore) Option {
	return func(c *config) { c.Store = s }
}

// WithFileSystem sets the filesystem used for exported files and the default
// session cache.
func WithFileSystem(fs afero.Fs) Option {
	return func(c *config) { c.FS = fs }
}

// WithLogger sets the logger for the session, its transport and credential
// resolution. Sessions are silent by default.
func WithLogger(l zerolog.Logger) Option {
	return func(c *config) { c.Logger = l }
}
