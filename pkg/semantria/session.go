// Package semantria is a client for the Semantria text analytics API.
//
// A Session combines a credential provider, a signing transport and a wire
// format serializer. It exposes the service status queries, generic
// list/add/update/delete for every configuration resource kind, document and
// collection queueing and the user directory export:
//
//	s, err := semantria.NewSession(auth.APIKey{Key: key, Secret: secret})
//	if err != nil {
//		return err
//	}
//	res, err := s.QueueDocument(ctx, models.Document{ID: "D1", Text: "it works"}, "")
//
// Every call performs one request, or two when a user session has to be
// renegotiated after a 401.
package semantria

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog"
	"github.com/semantria/semantria-go/internal/common/httpclient"
	"github.com/semantria/semantria-go/internal/common/logtrace"
	"github.com/semantria/semantria-go/internal/common/uuid"
	"github.com/semantria/semantria-go/pkg/semantria/auth"
	"github.com/semantria/semantria-go/pkg/semantria/serializer"
	"github.com/spf13/afero"
)

// Session is the entry point to the API. It is safe for concurrent use.
type Session struct {
	cfg      config
	client   httpclient.Doer
	provider auth.Provider
	fs       afero.Fs
	logger   zerolog.Logger
	obs      observers

	mu  sync.RWMutex
	ser serializer.Serializer
}

// NewSession validates the options and returns a session for creds. No
// request is made until the first operation.
func NewSession(creds auth.Credentials, opts ...Option) (*Session, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.Host = strings.TrimSuffix(cfg.Host, "/")
	cfg.AuthHost = strings.TrimSuffix(cfg.AuthHost, "/")
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	ser, err := serializer.New(cfg.Format)
	if err != nil {
		return nil, err
	}
	if cfg.FS == nil {
		cfg.FS = afero.NewOsFs()
	}

	s := &Session{
		cfg:    cfg,
		fs:     cfg.FS,
		ser:    ser,
		logger: cfg.Logger.With().Str("component", "session").Logger(),
	}

	base := httpclient.Options{
		Timeout:    cfg.Timeout,
		APIVersion: cfg.APIVersion,
		AppName:    cfg.AppName,
		HTTPClient: cfg.HTTPClient,
		Logger:     &cfg.Logger,
	}
	authOpts := base
	apiOpts := base
	apiOpts.UseCompression = cfg.Compression
	apiOpts.BeforeRequest = func(ri httpclient.RequestInfo) {
		s.obs.fireRequest(RequestEvent{Method: ri.Method, URL: ri.URL, Body: string(ri.Body)})
	}
	apiOpts.AfterResponse = func(r *httpclient.Response) {
		ev := ResponseEvent{Method: r.Method, URL: r.URL, Status: r.Status}
		if !r.Binary {
			ev.Body = r.Text()
		}
		s.obs.fireResponse(ev)
	}
	s.client = httpclient.New(apiOpts)

	store := cfg.Store
	if store == nil {
		store = auth.NewFileStore(cfg.FS, "")
	}
	s.provider, err = auth.NewProvider(creds,
		auth.WithAuthHost(cfg.AuthHost),
		auth.WithDoer(httpclient.New(authOpts)),
		auth.WithStore(store),
		auth.WithLogger(cfg.Logger),
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Host returns the API host.
func (s *Session) Host() string { return s.cfg.Host }

// Mode returns how the session authenticates.
func (s *Session) Mode() auth.Mode { return s.provider.Mode() }

// Format returns the active wire format.
func (s *Session) Format() serializer.Format {
	return s.serializer().Type()
}

// RegisterSerializer replaces the serializer. The format used in URLs and
// headers always follows the serializer, so both change together.
func (s *Session) RegisterSerializer(ser serializer.Serializer) error {
	if ser == nil {
		return ErrInvalidArgument.Msg("serializer is required")
	}
	if _, err := serializer.ParseFormat(string(ser.Type())); err != nil {
		return ErrInvalidArgument.Err(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ser = ser
	return nil
}

func (s *Session) serializer() serializer.Serializer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ser
}

// call describes one API request. Path excludes the format suffix.
type call struct {
	kind   string
	method string
	path   string
	query  url.Values
	// encode builds the body value for the serializer in use. Nil means no body.
	encode func(serializer.Serializer) any
	binary bool
}

var errUnauthorized = errors.New("unauthorized")

// send marshals the body, signs and sends the request. A 401 in session mode
// drops the session keys and retries exactly once.
func (s *Session) send(ctx context.Context, ser serializer.Serializer, c call) (*httpclient.Response, error) {
	var body []byte
	if c.encode != nil {
		b, err := ser.Marshal(c.encode(ser))
		if err != nil {
			return nil, err
		}
		body = b
	}

	target := s.cfg.Host + "/" + c.path
	if !c.binary {
		target += "." + ser.Type().String()
	}
	if logtrace.RequestIdFromContext(ctx) == "" {
		ctx = logtrace.WithRequestID(ctx, uuid.RequestID())
	}
	req := httpclient.Request{
		Method:      c.method,
		URL:         target,
		Query:       c.query,
		Body:        body,
		ContentType: ser.Type().ContentType(),
		Format:      ser.Type().String(),
		Binary:      c.binary,
	}

	attempts := uint(1)
	if s.provider.Mode() == auth.ModeSession {
		attempts = 2
	}
	var resp *httpclient.Response
	err := retry.Do(func() error {
		keys, err := s.provider.Keys(ctx)
		if err != nil {
			return retry.Unrecoverable(err)
		}
		req.Keys = &keys
		r, err := s.client.Do(ctx, req)
		if err != nil {
			return retry.Unrecoverable(err)
		}
		resp = r
		if r.Status == http.StatusUnauthorized && s.provider.Mode() == auth.ModeSession {
			s.provider.Invalidate()
			return errUnauthorized
		}
		return nil
	},
		retry.Attempts(attempts),
		retry.Context(ctx),
		retry.Delay(0),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			s.logger.Debug().Str("kind", c.kind).Msg("session rejected, renegotiating")
		}),
	)
	if err != nil && !errors.Is(err, errUnauthorized) {
		return nil, err
	}
	return resp, nil
}
