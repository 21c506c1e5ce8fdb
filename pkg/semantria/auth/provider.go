package auth

import (
	"context"
	"errors"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/semantria/semantria-go/internal/common/httpclient"
)

// Provider resolves the key pair used to sign API requests.
type Provider interface {
	// Keys returns the active key pair, negotiating a session first when
	// needed. Each call performs at most one validation and one creation.
	Keys(ctx context.Context) (httpclient.KeyPair, error)
	// Invalidate drops session keys so the next Keys call renegotiates.
	// It has no effect for API keys.
	Invalidate()
	Mode() Mode
}

// ProviderOption configures NewProvider.
type ProviderOption func(*providerConfig)

type providerConfig struct {
	authHost string
	appKey   string
	doer     httpclient.Doer
	store    SessionStore
	logger   zerolog.Logger
}

// WithAuthHost overrides DefaultAuthHost.
func WithAuthHost(host string) ProviderOption {
	return func(c *providerConfig) { c.authHost = host }
}

// WithAppKey overrides AppKey.
func WithAppKey(key string) ProviderOption {
	return func(c *providerConfig) { c.appKey = key }
}

// WithDoer sets the transport used for the authorization endpoint.
func WithDoer(d httpclient.Doer) ProviderOption {
	return func(c *providerConfig) { c.doer = d }
}

// WithStore sets the session cache. Defaults to a FileStore at
// DefaultSessionPath.
func WithStore(s SessionStore) ProviderOption {
	return func(c *providerConfig) { c.store = s }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) ProviderOption {
	return func(c *providerConfig) { c.logger = l }
}

var validate = validator.New()

// NewProvider returns the provider matching creds.
func NewProvider(creds Credentials, opts ...ProviderOption) (Provider, error) {
	if creds == nil {
		return nil, ErrInvalidCredentials.Msg("credentials are required")
	}
	if err := validate.Struct(creds); err != nil {
		return nil, ErrInvalidCredentials.Err(err)
	}

	switch c := creds.(type) {
	case APIKey:
		return &directProvider{keys: httpclient.KeyPair{Key: c.Key, Secret: c.Secret}}, nil
	case UserLogin:
		cfg := providerConfig{logger: zerolog.Nop()}
		for _, opt := range opts {
			opt(&cfg)
		}
		if cfg.doer == nil {
			cfg.doer = httpclient.New(httpclient.Options{})
		}
		if cfg.store == nil {
			cfg.store = NewFileStore(nil, "")
		}
		return &sessionProvider{
			login:  c,
			client: NewClient(cfg.doer, cfg.authHost, cfg.appKey),
			store:  cfg.store,
			logger: cfg.logger.With().Str("component", "auth").Str("user", c.Username).Logger(),
		}, nil
	}
	return nil, ErrInvalidCredentials.Msgf("unsupported credentials %T", creds)
}

type directProvider struct {
	keys httpclient.KeyPair
}

func (p *directProvider) Keys(context.Context) (httpclient.KeyPair, error) { return p.keys, nil }
func (p *directProvider) Invalidate()                                      {}
func (p *directProvider) Mode() Mode                                       { return ModeAPIKey }

type sessionProvider struct {
	mu     sync.Mutex
	login  UserLogin
	client *Client
	store  SessionStore
	logger zerolog.Logger

	keys *httpclient.KeyPair
}

func (p *sessionProvider) Mode() Mode { return ModeSession }

func (p *sessionProvider) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = nil
}

func (p *sessionProvider) Keys(ctx context.Context) (httpclient.KeyPair, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.keys != nil {
		return *p.keys, nil
	}

	if p.login.ReuseSession {
		if id, ok := p.store.Load(p.login.Username); ok {
			p.logger.Debug().Msg("validating cached session")
			s, err := p.client.ValidateSession(ctx, id)
			if err == nil {
				return p.adopt(s), nil
			}
			if !errors.Is(err, ErrAuthentication) {
				return httpclient.KeyPair{}, err
			}
			p.logger.Debug().Err(err).Msg("cached session rejected")
		} else {
			p.logger.Debug().Msg("no cached session")
		}
	}

	p.logger.Debug().Msg("creating session")
	s, err := p.client.CreateSession(ctx, p.login.Username, p.login.Password)
	if err != nil {
		if errors.Is(err, ErrAuthentication) {
			if cerr := p.store.Clear(); cerr != nil {
				p.logger.Debug().Err(cerr).Msg("failed to remove session cache")
			}
		}
		return httpclient.KeyPair{}, err
	}
	p.logger.Info().Msg("session created")
	return p.adopt(s), nil
}

func (p *sessionProvider) adopt(s *Session) httpclient.KeyPair {
	if err := p.store.Save(p.login.Username, s.ID); err != nil {
		p.logger.Debug().Err(err).Msg("failed to cache session")
	}
	keys := s.Keys
	p.keys = &keys
	return keys
}
