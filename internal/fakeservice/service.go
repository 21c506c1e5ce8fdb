// Package fakeservice is an in-memory stand-in for the Semantria API host and
// its authorization endpoint. It verifies request signatures, stores
// configuration resources per configuration, queues documents and
// collections and answers in JSON or XML exactly like the client expects.
// Tests mount it behind httptest; cmd/semantria-mock serves it on a port.
package fakeservice

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/semantria/semantria-go/internal/common/httpclient"
	"github.com/semantria/semantria-go/internal/common/middleware"
	"github.com/semantria/semantria-go/internal/common/uuid"
	"github.com/semantria/semantria-go/pkg/semantria/auth"
	"github.com/semantria/semantria-go/pkg/semantria/models"
)

// Version is reported by /status.
const Version = "4.2.0-mock"

// Option configures a Service.
type Option func(*Service)

// WithProcessingDelay sets how long queued items stay QUEUED.
func WithProcessingDelay(d time.Duration) Option {
	return func(s *Service) { s.delay = d }
}

// WithAppKey overrides the application key accepted by the auth endpoint.
func WithAppKey(key string) Option {
	return func(s *Service) { s.appKey = key }
}

// WithPublicURL fixes the scheme and host used to verify signatures, for
// deployments behind a proxy. By default they come from the request.
func WithPublicURL(u string) Option {
	return func(s *Service) { s.publicURL = u }
}

// WithRequestTimeout bounds handler execution.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

func withClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// Service is the mock. Create it with New and serve Router.
type Service struct {
	Router *chi.Mux

	delay     time.Duration
	appKey    string
	publicURL string
	timeout   time.Duration
	now       func() time.Time

	mu       sync.Mutex
	users    map[string]string
	sessions map[string]httpclient.KeyPair
	secrets  map[string]string

	creates   atomic.Int64
	validates atomic.Int64
	stats     usage

	configs    *table[models.Configuration]
	categories *table[models.Category]
	blacklist  *table[models.BlacklistItem]
	queries    *table[models.Query]
	entities   *table[models.UserEntity]
	phrases    *table[models.SentimentPhrase]
	taxonomy   *table[models.TaxonomyNode]

	docs  *taskQueue[models.DocAnalyticData]
	colls *taskQueue[models.CollAnalyticData]
}

// New returns a service with its routes mounted.
func New(opts ...Option) *Service {
	s := &Service{
		appKey:     auth.AppKey,
		timeout:    30 * time.Second,
		now:        time.Now,
		users:      map[string]string{},
		sessions:   map[string]httpclient.KeyPair{},
		secrets:    map[string]string{},
		configs:    newTable[models.Configuration](),
		categories: newTable[models.Category](),
		blacklist:  newTable[models.BlacklistItem](),
		queries:    newTable[models.Query](),
		entities:   newTable[models.UserEntity](),
		phrases:    newTable[models.SentimentPhrase](),
		taxonomy:   newTable[models.TaxonomyNode](),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.docs = newTaskQueue[models.DocAnalyticData](s.delay, s.clock)
	s.colls = newTaskQueue[models.CollAnalyticData](s.delay, s.clock)
	s.stats.apps = map[string]*models.Statistics{}
	s.mountHandlers()
	return s
}

func (s *Service) clock() time.Time { return s.now() }

// ServeHTTP makes the service an http.Handler.
func (s *Service) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

func (s *Service) mountHandlers() {
	r := chi.NewRouter()
	r.Use(middleware.RequestLogger)
	r.Use(middleware.PanicHandler)
	r.Use(middleware.SetTimeout(s.timeout))

	r.Route("/auth", s.authRouter)
	r.Group(func(r chi.Router) {
		r.Use(s.verifySignature)
		s.mountInfo(r)
		s.mountResources(r)
		s.mountDocuments(r)
		s.mountCollections(r)
	})
	s.Router = r

	if log.Logger.GetLevel() == zerolog.TraceLevel {
		_ = chi.Walk(r, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
			log.Trace().Str("method", method).Str("route", route).Msg("route")
			return nil
		})
	}
}

// AddUser registers a login for the auth endpoint.
func (s *Service) AddUser(username, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[username] = password
}

// AddAPIKey registers a consumer key for direct signing.
func (s *Service) AddAPIKey(key, secret string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.secrets[key] = secret
}

// ExpireSessions invalidates every session and the keys issued for them.
func (s *Service) ExpireSessions() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, keys := range s.sessions {
		delete(s.secrets, keys.Key)
		delete(s.sessions, id)
	}
}

// AuthCalls returns how many sessions were created and validated.
func (s *Service) AuthCalls() (creates, validates int64) {
	return s.creates.Load(), s.validates.Load()
}

func (s *Service) newSession() (string, httpclient.KeyPair) {
	id := uuid.New().String()
	keys := httpclient.KeyPair{Key: uuid.New().String(), Secret: uuid.New().String()}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = keys
	s.secrets[keys.Key] = keys.Secret
	return id, keys
}

func (s *Service) session(id string) (httpclient.KeyPair, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys, ok := s.sessions[id]
	return keys, ok
}

func (s *Service) secret(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	secret, ok := s.secrets[key]
	return secret, ok
}
