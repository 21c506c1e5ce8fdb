package semantria

import (
	"context"
	"net/http"
	"net/url"

	"github.com/semantria/semantria-go/pkg/semantria/models"
	"github.com/semantria/semantria-go/pkg/semantria/serializer"
)

func configQuery(configID string) url.Values {
	if configID == "" {
		return nil
	}
	return url.Values{"config_id": {configID}}
}

// List fetches every resource of kind k. A 202 result means the account has
// none; a 200 carries the decoded items.
func List[T models.Resource](ctx context.Context, s *Session, k Kind, configID string) (Result[[]T], error) {
	spec, err := k.spec()
	if err != nil {
		return Result[[]T]{}, err
	}
	return do(ctx, s, call{
		kind:   spec.Name,
		method: http.MethodGet,
		path:   spec.Path,
		query:  configQuery(configID),
	}, decodeList[T](spec.Plural, spec.Item))
}

// Add creates items. The service assigns ids and timestamps and returns the
// stored items.
func Add[T models.Resource](ctx context.Context, s *Session, k Kind, items []T, configID string) (Result[[]T], error) {
	return write(ctx, s, k, http.MethodPost, items, configID)
}

// Update replaces items by id. Every item must carry the id the service
// returned when it was created.
func Update[T models.Resource](ctx context.Context, s *Session, k Kind, items []T, configID string) (Result[[]T], error) {
	for i, item := range items {
		if item.ResourceID() == "" {
			return Result[[]T]{}, ErrMissingID.Msgf("%s at index %d has no id", k, i)
		}
	}
	return write(ctx, s, k, http.MethodPut, items, configID)
}

func write[T models.Resource](ctx context.Context, s *Session, k Kind, method string, items []T, configID string) (Result[[]T], error) {
	spec, err := k.spec()
	if err != nil {
		return Result[[]T]{}, err
	}
	if len(items) == 0 {
		return Result[[]T]{}, ErrEmptyInput.Msgf("no %s items given", spec.Name)
	}
	return do(ctx, s, call{
		kind:   spec.Name,
		method: method,
		path:   spec.Path,
		query:  configQuery(configID),
		encode: func(ser serializer.Serializer) any {
			return encodeList(ser, spec.Plural, spec.Item, items)
		},
	}, decodeList[T](spec.Plural, spec.Item))
}

// Delete removes resources by id and returns the response status. The body
// carries only the ids: a plain list in JSON, the kind's envelope in XML.
func Delete(ctx context.Context, s *Session, k Kind, ids []string, configID string) (int, error) {
	spec, err := k.spec()
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, ErrEmptyInput.Msgf("no %s ids given", spec.Name)
	}
	for i, id := range ids {
		if id == "" {
			return 0, ErrMissingID.Msgf("%s id at index %d is empty", spec.Name, i)
		}
	}
	res, err := do[struct{}](ctx, s, call{
		kind:   spec.Name,
		method: http.MethodDelete,
		path:   spec.Path,
		query:  configQuery(configID),
		encode: func(ser serializer.Serializer) any {
			return encodeList(ser, spec.Plural, spec.Item, ids)
		},
	}, nil)
	return res.Status, err
}
