package semantria

import (
	"context"
	"net/http"
	"net/url"

	"github.com/semantria/semantria-go/pkg/semantria/models"
	"github.com/semantria/semantria-go/pkg/semantria/serializer"
)

// QueueCollection submits a collection. Auto response results are returned
// with status 200 and published to the OnCollsAutoResponse observers. A 200
// without results is reported as 202.
func (s *Session) QueueCollection(ctx context.Context, coll models.Collection, configID string) (Result[[]models.CollAnalyticData], error) {
	if err := validate.Struct(coll); err != nil {
		return Result[[]models.CollAnalyticData]{}, ErrInvalidArgument.Err(err)
	}
	res, err := do(ctx, s, call{
		kind:   "collection",
		method: http.MethodPost,
		path:   "collection",
		query:  configQuery(configID),
		encode: func(ser serializer.Serializer) any {
			return encodeOne(ser, "collection", coll)
		},
	}, decodeList[models.CollAnalyticData]("collections", "collection"))
	if err != nil || !res.OK() {
		return res, err
	}
	if len(res.Value) == 0 {
		res.Status = http.StatusAccepted
		return res, nil
	}
	s.obs.fireCollsAuto(res.Value)
	return res, nil
}

// GetCollection returns the analysis of a collection.
func (s *Session) GetCollection(ctx context.Context, id, configID string) (Result[*models.CollAnalyticData], error) {
	if id == "" {
		return Result[*models.CollAnalyticData]{}, ErrMissingID.Msg("collection id is required")
	}
	return do(ctx, s, call{
		kind:   "collection",
		method: http.MethodGet,
		path:   "collection/" + url.PathEscape(id),
		query:  configQuery(configID),
	}, decodeOne[models.CollAnalyticData])
}

// CancelCollection removes a queued collection and returns the status.
func (s *Session) CancelCollection(ctx context.Context, id, configID string) (int, error) {
	if id == "" {
		return 0, ErrMissingID.Msg("collection id is required")
	}
	res, err := do[struct{}](ctx, s, call{
		kind:   "collection",
		method: http.MethodDelete,
		path:   "collection/" + url.PathEscape(id),
		query:  configQuery(configID),
	}, nil)
	return res.Status, err
}

// GetProcessedCollections drains the processed collections of a configuration.
func (s *Session) GetProcessedCollections(ctx context.Context, configID string) (Result[[]models.CollAnalyticData], error) {
	return s.processedCollections(ctx, configQuery(configID))
}

// GetProcessedCollectionsByJobID drains the processed collections of a job.
func (s *Session) GetProcessedCollectionsByJobID(ctx context.Context, jobID string) (Result[[]models.CollAnalyticData], error) {
	if jobID == "" {
		return Result[[]models.CollAnalyticData]{}, ErrInvalidArgument.Msg("job id is required")
	}
	return s.processedCollections(ctx, url.Values{"job_id": {jobID}})
}

func (s *Session) processedCollections(ctx context.Context, query url.Values) (Result[[]models.CollAnalyticData], error) {
	return do(ctx, s, call{
		kind:   "collection",
		method: http.MethodGet,
		path:   "collection/processed",
		query:  query,
	}, decodeList[models.CollAnalyticData]("collections", "collection"))
}
