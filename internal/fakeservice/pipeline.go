package fakeservice

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/semantria/semantria-go/internal/common/httpx"
	"github.com/semantria/semantria-go/pkg/semantria/models"
	"github.com/semantria/semantria-go/pkg/semantria/serializer"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// pipeline serves the queue/get/cancel/processed endpoints of one kind of
// analysed input.
type pipeline[In, Out any] struct {
	path    string
	plural  string
	item    string
	batch   bool
	queue   *taskQueue[Out]
	id      func(*In) string
	job     func(*In) string
	analyze func(*analyzer, In) Out
}

func (s *Service) mountDocuments(r chi.Router) {
	mountPipeline(s, r, &pipeline[models.Document, models.DocAnalyticData]{
		path: "document", plural: "documents", item: "document", batch: true,
		queue:   s.docs,
		id:      func(d *models.Document) string { return d.ID },
		job:     func(d *models.Document) string { return d.JobID },
		analyze: (*analyzer).document,
	})
}

func (s *Service) mountCollections(r chi.Router) {
	mountPipeline(s, r, &pipeline[models.Collection, models.CollAnalyticData]{
		path: "collection", plural: "collections", item: "collection",
		queue:   s.colls,
		id:      func(c *models.Collection) string { return c.ID },
		job:     func(c *models.Collection) string { return c.JobID },
		analyze: (*analyzer).collection,
	})
}

func mountPipeline[In, Out any](s *Service, r chi.Router, p *pipeline[In, Out]) {
	r.Post("/"+p.path+".{format}", httpx.WrapHttpRsp(func(r *http.Request) (*httpx.Response, error) {
		ser, err := codec(r)
		if err != nil {
			return nil, err
		}
		in, err := decodeOne[In](r, ser, p.item)
		if err != nil {
			return nil, err
		}
		return queueItems(s, p, r, ser, []In{in})
	}))
	if p.batch {
		r.Post("/"+p.path+"/batch.{format}", httpx.WrapHttpRsp(func(r *http.Request) (*httpx.Response, error) {
			ser, err := codec(r)
			if err != nil {
				return nil, err
			}
			items, err := decodeList[In](r, ser, p.plural, p.item)
			if err != nil {
				return nil, err
			}
			if len(items) == 0 {
				return nil, httpx.ErrInvalidRequest(fmt.Sprintf("no %s given", p.plural))
			}
			return queueItems(s, p, r, ser, items)
		}))
	}
	r.Get("/"+p.path+"/processed.{format}", httpx.WrapHttpRsp(func(r *http.Request) (*httpx.Response, error) {
		return processed(s, p, r)
	}))
	r.Get("/"+p.path+"/{id}.{format}", httpx.WrapHttpRsp(func(r *http.Request) (*httpx.Response, error) {
		return getItem(s, p, r)
	}))
	r.Delete("/"+p.path+"/{id}.{format}", httpx.WrapHttpRsp(func(r *http.Request) (*httpx.Response, error) {
		return cancelItem(s, p, r)
	}))
}

// queueItems analyses items at once when the configuration has auto response
// enabled and answers 200 with the results; otherwise it queues them and
// answers 202.
func queueItems[In, Out any](s *Service, p *pipeline[In, Out], r *http.Request, ser serializer.Serializer, items []In) (*httpx.Response, error) {
	cfg, err := s.configuration(r.URL.Query().Get("config_id"))
	if err != nil {
		return nil, err
	}
	for i := range items {
		if err := validate.Struct(items[i]); err != nil {
			return nil, httpx.ErrInvalidRequest(fmt.Sprintf("%s at index %d: %v", p.item, i, err))
		}
	}
	a := s.analyzer(cfg)
	scope := a.configID()
	s.stats.add(r, func(st *models.Statistics) {
		st.DocsQueued += int64(len(items))
		if strings.HasSuffix(r.URL.Path, "/batch."+ser.Type().String()) {
			st.BatchesQueued++
		}
	})

	if cfg != nil && cfg.AutoResponse {
		results := make([]Out, 0, len(items))
		for i := range items {
			out := p.analyze(a, items[i])
			p.queue.complete(scope, p.job(&items[i]), p.id(&items[i]), out)
			results = append(results, out)
		}
		s.stats.add(r, func(st *models.Statistics) {
			st.DocsSuccessful += int64(len(results))
			st.DocsRetrieved += int64(len(results))
		})
		return respondList(ser, p.plural, p.item, results)
	}
	for i := range items {
		p.queue.enqueue(scope, p.job(&items[i]), p.id(&items[i]), p.analyze(a, items[i]))
	}
	s.stats.add(r, func(st *models.Statistics) { st.DocsSuccessful += int64(len(items)) })
	return accepted(), nil
}

func getItem[In, Out any](s *Service, p *pipeline[In, Out], r *http.Request) (*httpx.Response, error) {
	ser, err := codec(r)
	if err != nil {
		return nil, err
	}
	scope, err := s.scope(r, true)
	if err != nil {
		return nil, err
	}
	id := chi.URLParam(r, "id")
	out, done, found := p.queue.get(scope, id)
	switch {
	case !found:
		return nil, httpx.ErrNotFound(fmt.Sprintf("%s %q not found", p.item, id))
	case !done:
		return accepted(), nil
	}
	return respond(ser, http.StatusOK, &serializer.Element[Out]{Name: p.item, Value: out})
}

func cancelItem[In, Out any](s *Service, p *pipeline[In, Out], r *http.Request) (*httpx.Response, error) {
	if _, err := codec(r); err != nil {
		return nil, err
	}
	scope, err := s.scope(r, true)
	if err != nil {
		return nil, err
	}
	id := chi.URLParam(r, "id")
	found, done := p.queue.cancel(scope, id)
	switch {
	case !found:
		return nil, httpx.ErrNotFound(fmt.Sprintf("%s %q not found", p.item, id))
	case done:
		return nil, httpx.ErrInvalidRequest(fmt.Sprintf("%s %q is already processed", p.item, id))
	}
	s.stats.add(r, func(st *models.Statistics) { st.DocsSuccessful-- })
	return accepted(), nil
}

// processed hands out finished results once, either for a job across all
// configurations or for one configuration.
func processed[In, Out any](s *Service, p *pipeline[In, Out], r *http.Request) (*httpx.Response, error) {
	ser, err := codec(r)
	if err != nil {
		return nil, err
	}
	var match func(configID, jobID string) bool
	if job := r.URL.Query().Get("job_id"); job != "" {
		match = func(_, jobID string) bool { return jobID == job }
	} else {
		scope, err := s.scope(r, true)
		if err != nil {
			return nil, err
		}
		match = func(configID, _ string) bool { return configID == scope }
	}
	results := p.queue.drain(match)
	s.stats.add(r, func(st *models.Statistics) { st.DocsRetrieved += int64(len(results)) })
	return respondList(ser, p.plural, p.item, results)
}
