package semantria

import (
	"sync"

	"github.com/semantria/semantria-go/pkg/semantria/models"
)

// RequestEvent is published before a request is sent.
type RequestEvent struct {
	Method string
	URL    string
	Body   string
}

// ResponseEvent is published after a response is received, whatever its status.
type ResponseEvent struct {
	Method string
	URL    string
	Status int
	Body   string
}

// ErrorEvent is published for every ServiceError.
type ErrorEvent struct {
	Kind    string
	Status  int
	Message string
}

type observers struct {
	mu        sync.RWMutex
	request   []func(RequestEvent)
	response  []func(ResponseEvent)
	errors    []func(ErrorEvent)
	docsAuto  []func([]models.DocAnalyticData)
	collsAuto []func([]models.CollAnalyticData)
}

// OnRequest registers fn for RequestEvents.
func (s *Session) OnRequest(fn func(RequestEvent)) {
	s.obs.mu.Lock()
	defer s.obs.mu.Unlock()
	s.obs.request = append(s.obs.request, fn)
}

// OnResponse registers fn for ResponseEvents.
func (s *Session) OnResponse(fn func(ResponseEvent)) {
	s.obs.mu.Lock()
	defer s.obs.mu.Unlock()
	s.obs.response = append(s.obs.response, fn)
}

// OnError registers fn for ErrorEvents. Once a handler is registered,
// ServiceErrors returned by the session also match ErrHandled.
func (s *Session) OnError(fn func(ErrorEvent)) {
	s.obs.mu.Lock()
	defer s.obs.mu.Unlock()
	s.obs.errors = append(s.obs.errors, fn)
}

// OnDocsAutoResponse registers fn for results returned inline when queuing
// documents against a configuration with auto response enabled.
func (s *Session) OnDocsAutoResponse(fn func([]models.DocAnalyticData)) {
	s.obs.mu.Lock()
	defer s.obs.mu.Unlock()
	s.obs.docsAuto = append(s.obs.docsAuto, fn)
}

// OnCollsAutoResponse is OnDocsAutoResponse for collections.
func (s *Session) OnCollsAutoResponse(fn func([]models.CollAnalyticData)) {
	s.obs.mu.Lock()
	defer s.obs.mu.Unlock()
	s.obs.collsAuto = append(s.obs.collsAuto, fn)
}

func snapshot[T any](mu *sync.RWMutex, fns *[]T) []T {
	mu.RLock()
	defer mu.RUnlock()
	return append([]T(nil), *fns...)
}

func (o *observers) fireRequest(e RequestEvent) {
	for _, fn := range snapshot(&o.mu, &o.request) {
		fn(e)
	}
}

func (o *observers) fireResponse(e ResponseEvent) {
	for _, fn := range snapshot(&o.mu, &o.response) {
		fn(e)
	}
}

// fireError returns false when nobody is listening.
func (o *observers) fireError(e ErrorEvent) bool {
	fns := snapshot(&o.mu, &o.errors)
	for _, fn := range fns {
		fn(e)
	}
	return len(fns) > 0
}

func (o *observers) fireDocsAuto(docs []models.DocAnalyticData) {
	for _, fn := range snapshot(&o.mu, &o.docsAuto) {
		fn(docs)
	}
}

func (o *observers) fireCollsAuto(colls []models.CollAnalyticData) {
	for _, fn := range snapshot(&o.mu, &o.collsAuto) {
		fn(colls)
	}
}
