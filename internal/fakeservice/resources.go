package fakeservice

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/semantria/semantria-go/internal/common/httpx"
	"github.com/semantria/semantria-go/internal/common/uuid"
	"github.com/semantria/semantria-go/pkg/semantria/models"
)

// kind describes one resource endpoint family.
type kind[T any] struct {
	path   string
	plural string
	item   string
	scoped bool
	table  *table[T]
	id     func(*T) *string
	stamp  func(*T) *int64
	// prepare validates an item before it is stored; creating is true for POST.
	prepare func(item *T, creating bool) error
}

func (k *kind[T]) key(item *T) string { return *k.id(item) }

func (s *Service) mountResources(r chi.Router) {
	mountKind(s, r, &kind[models.Configuration]{
		path: "configurations", plural: "configurations", item: "configuration",
		table:   s.configs,
		id:      func(c *models.Configuration) *string { return &c.ID },
		stamp:   func(c *models.Configuration) *int64 { return &c.Timestamp },
		prepare: s.prepareConfiguration,
	})
	mountKind(s, r, &kind[models.Category]{
		path: "categories", plural: "categories", item: "category", scoped: true,
		table: s.categories,
		id:    func(c *models.Category) *string { return &c.ID },
		stamp: func(c *models.Category) *int64 { return &c.Timestamp },
		prepare: func(c *models.Category, _ bool) error {
			return requireName(c.Name)
		},
	})
	mountKind(s, r, &kind[models.BlacklistItem]{
		path: "blacklist", plural: "blacklist", item: "item", scoped: true,
		table: s.blacklist,
		id:    func(b *models.BlacklistItem) *string { return &b.ID },
		stamp: func(b *models.BlacklistItem) *int64 { return &b.Timestamp },
		prepare: func(b *models.BlacklistItem, _ bool) error {
			return requireName(b.Name)
		},
	})
	mountKind(s, r, &kind[models.Query]{
		path: "queries", plural: "queries", item: "query", scoped: true,
		table: s.queries,
		id:    func(q *models.Query) *string { return &q.ID },
		stamp: func(q *models.Query) *int64 { return &q.Timestamp },
		prepare: func(q *models.Query, _ bool) error {
			if err := requireName(q.Name); err != nil {
				return err
			}
			if strings.TrimSpace(q.Query) == "" {
				return httpx.ErrInvalidRequest("query is required")
			}
			return nil
		},
	})
	mountKind(s, r, &kind[models.UserEntity]{
		path: "entities", plural: "entities", item: "entity", scoped: true,
		table: s.entities,
		id:    func(e *models.UserEntity) *string { return &e.ID },
		stamp: func(e *models.UserEntity) *int64 { return &e.Timestamp },
		prepare: func(e *models.UserEntity, _ bool) error {
			if err := requireName(e.Name); err != nil {
				return err
			}
			if e.Type == "" {
				return httpx.ErrInvalidRequest("entity type is required")
			}
			return nil
		},
	})
	mountKind(s, r, &kind[models.SentimentPhrase]{
		path: "phrases", plural: "phrases", item: "phrase", scoped: true,
		table: s.phrases,
		id:    func(p *models.SentimentPhrase) *string { return &p.ID },
		stamp: func(p *models.SentimentPhrase) *int64 { return &p.Timestamp },
		prepare: func(p *models.SentimentPhrase, _ bool) error {
			if err := requireName(p.Name); err != nil {
				return err
			}
			if p.Weight < -2 || p.Weight > 2 {
				return httpx.ErrInvalidRequest("phrase weight must be between -2 and 2")
			}
			return nil
		},
	})
	mountKind(s, r, &kind[models.TaxonomyNode]{
		path: "taxonomy", plural: "taxonomies", item: "node", scoped: true,
		table: s.taxonomy,
		id:    func(n *models.TaxonomyNode) *string { return &n.ID },
		stamp: func(n *models.TaxonomyNode) *int64 { return &n.Timestamp },
		prepare: func(n *models.TaxonomyNode, _ bool) error {
			return requireName(n.Name)
		},
	})
}

func requireName(name string) error {
	if strings.TrimSpace(name) == "" {
		return httpx.ErrInvalidRequest("name is required")
	}
	return nil
}

func mountKind[T any](s *Service, r chi.Router, k *kind[T]) {
	pattern := "/" + k.path + ".{format}"
	r.Get(pattern, httpx.WrapHttpRsp(func(r *http.Request) (*httpx.Response, error) {
		return listKind(s, k, r)
	}))
	r.Post(pattern, httpx.WrapHttpRsp(func(r *http.Request) (*httpx.Response, error) {
		return addKind(s, k, r)
	}))
	r.Put(pattern, httpx.WrapHttpRsp(func(r *http.Request) (*httpx.Response, error) {
		return updateKind(s, k, r)
	}))
	r.Delete(pattern, httpx.WrapHttpRsp(func(r *http.Request) (*httpx.Response, error) {
		return deleteKind(s, k, r)
	}))
}

func listKind[T any](s *Service, k *kind[T], r *http.Request) (*httpx.Response, error) {
	ser, err := codec(r)
	if err != nil {
		return nil, err
	}
	scope, err := s.scope(r, k.scoped)
	if err != nil {
		return nil, err
	}
	return respondList(ser, k.plural, k.item, k.table.list(scope))
}

func addKind[T any](s *Service, k *kind[T], r *http.Request) (*httpx.Response, error) {
	ser, err := codec(r)
	if err != nil {
		return nil, err
	}
	scope, err := s.scope(r, k.scoped)
	if err != nil {
		return nil, err
	}
	items, err := decodeList[T](r, ser, k.plural, k.item)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, httpx.ErrInvalidRequest("no items given")
	}
	for i := range items {
		item := &items[i]
		if err := k.prepare(item, true); err != nil {
			return nil, err
		}
		id := k.id(item)
		if *id == "" {
			*id = uuid.New().String()
		} else if _, exists := k.table.find(scope, func(t *T) bool { return k.key(t) == *id }); exists {
			return nil, httpx.ErrInvalidRequest(fmt.Sprintf("%s %q already exists", k.item, *id))
		}
		*k.stamp(item) = s.now().Unix()
	}
	k.table.add(scope, items...)
	return respondList(ser, k.plural, k.item, items)
}

func updateKind[T any](s *Service, k *kind[T], r *http.Request) (*httpx.Response, error) {
	ser, err := codec(r)
	if err != nil {
		return nil, err
	}
	scope, err := s.scope(r, k.scoped)
	if err != nil {
		return nil, err
	}
	items, err := decodeList[T](r, ser, k.plural, k.item)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, httpx.ErrInvalidRequest("no items given")
	}
	for i := range items {
		item := &items[i]
		if k.key(item) == "" {
			return nil, httpx.ErrInvalidRequest("id is required for update")
		}
		if err := k.prepare(item, false); err != nil {
			return nil, err
		}
		*k.stamp(item) = s.now().Unix()
	}
	if missing := k.table.replace(scope, k.key, items); len(missing) > 0 {
		return nil, httpx.ErrNotFound(fmt.Sprintf("unknown %s ids: %s", k.item, strings.Join(missing, ", ")))
	}
	return respondList(ser, k.plural, k.item, items)
}

func deleteKind[T any](s *Service, k *kind[T], r *http.Request) (*httpx.Response, error) {
	ser, err := codec(r)
	if err != nil {
		return nil, err
	}
	scope, err := s.scope(r, k.scoped)
	if err != nil {
		return nil, err
	}
	ids, err := decodeList[string](r, ser, k.plural, k.item)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, httpx.ErrInvalidRequest("no ids given")
	}
	k.table.remove(scope, k.key, ids)
	if !k.scoped {
		for _, id := range ids {
			s.dropScope(id)
		}
	}
	return accepted(), nil
}

// scope resolves the config_id parameter: the given configuration, else the
// primary one, else the account wide scope "".
func (s *Service) scope(r *http.Request, scoped bool) (string, error) {
	if !scoped {
		return "", nil
	}
	cfg, err := s.configuration(r.URL.Query().Get("config_id"))
	if err != nil {
		return "", err
	}
	if cfg == nil {
		return "", nil
	}
	return cfg.ID, nil
}

// configuration returns the configuration id refers to, or the primary one
// when id is empty. It returns nil without error when there is none.
func (s *Service) configuration(id string) (*models.Configuration, error) {
	if id == "" {
		if cfg, ok := s.configs.find("", func(c *models.Configuration) bool { return c.IsPrimary }); ok {
			return &cfg, nil
		}
		return nil, nil
	}
	cfg, ok := s.configs.find("", func(c *models.Configuration) bool { return c.ID == id })
	if !ok {
		return nil, httpx.ErrNotFound(fmt.Sprintf("configuration %q not found", id))
	}
	return &cfg, nil
}

func (s *Service) prepareConfiguration(c *models.Configuration, creating bool) error {
	if creating && c.Template != "" {
		tmpl, ok := s.configs.find("", func(t *models.Configuration) bool { return t.ID == c.Template })
		if !ok {
			return httpx.ErrInvalidRequest(fmt.Sprintf("template %q not found", c.Template))
		}
		clone := tmpl
		clone.ID = c.ID
		clone.Name = c.Name
		clone.IsPrimary = false
		clone.Template = c.Template
		*c = clone
	}
	if err := requireName(c.Name); err != nil {
		return err
	}
	if c.Language == "" {
		c.Language = "English"
	}
	if c.IsPrimary {
		s.configs.mu.Lock()
		for i := range s.configs.items[""] {
			s.configs.items[""][i].IsPrimary = false
		}
		s.configs.mu.Unlock()
	}
	return nil
}

func (s *Service) dropScope(configID string) {
	s.categories.drop(configID)
	s.blacklist.drop(configID)
	s.queries.drop(configID)
	s.entities.drop(configID)
	s.phrases.drop(configID)
	s.taxonomy.drop(configID)
}
