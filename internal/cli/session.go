package cli

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/semantria/semantria-go/pkg/semantria"
	"github.com/semantria/semantria-go/pkg/semantria/auth"
	"github.com/semantria/semantria-go/pkg/semantria/serializer"
)

// DefaultAppName identifies the CLI in the x-app-name header.
const DefaultAppName = "semantria-cli"

// credentials prefers the key pair over a user login.
func (cfg *Config) credentials() auth.Credentials {
	if cfg.APIKey != "" {
		return auth.APIKey{Key: cfg.APIKey, Secret: cfg.APISecret}
	}
	return auth.UserLogin{Username: cfg.Username, Password: cfg.Password, ReuseSession: cfg.ReuseSession}
}

// sessionOptions translates the configuration and the --format flag into
// session options.
func (cfg *Config) sessionOptions() ([]semantria.Option, error) {
	opts := []semantria.Option{
		semantria.WithFileSystem(appFS),
		semantria.WithLogger(log.Logger),
		semantria.WithCompression(cfg.Compression),
		semantria.WithAppName(DefaultAppName),
	}
	if cfg.Host != "" {
		opts = append(opts, semantria.WithHost(cfg.Host))
	}
	if cfg.AuthHost != "" {
		opts = append(opts, semantria.WithAuthHost(cfg.AuthHost))
	}
	if cfg.APIVersion != "" {
		opts = append(opts, semantria.WithAPIVersion(cfg.APIVersion))
	}
	if cfg.AppName != "" {
		opts = append(opts, semantria.WithAppName(cfg.AppName))
	}

	format := cfg.Format
	if formatFlag != "" {
		format = formatFlag
	}
	if format != "" {
		f, err := serializer.ParseFormat(format)
		if err != nil {
			return nil, err
		}
		opts = append(opts, semantria.WithFormat(f))
	}

	if !cfg.ReuseSession {
		opts = append(opts, semantria.WithSessionStore(auth.NopStore{}))
	}
	return opts, nil
}

// newSession builds a session from the loaded configuration.
func newSession() (*semantria.Session, error) {
	cfg := GetConfig()
	if cfg == nil {
		return nil, errors.New("configuration not loaded")
	}
	opts, err := cfg.sessionOptions()
	if err != nil {
		return nil, err
	}
	s, err := semantria.NewSession(cfg.credentials(), opts...)
	if err != nil {
		return nil, errors.Wrap(err, "unable to create session")
	}
	return s, nil
}
