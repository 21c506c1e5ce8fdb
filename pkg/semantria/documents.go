package semantria

import (
	"context"
	"net/http"
	"net/url"

	"github.com/semantria/semantria-go/pkg/semantria/models"
	"github.com/semantria/semantria-go/pkg/semantria/serializer"
)

// QueueDocument submits one document. The result is 202 when the document
// was queued, or 200 with its analysis when the configuration has auto
// response enabled; a non-empty 200 result is also published to the
// OnDocsAutoResponse observers. A 200 without results is reported as 202.
func (s *Session) QueueDocument(ctx context.Context, doc models.Document, configID string) (Result[[]models.DocAnalyticData], error) {
	if err := validate.Struct(doc); err != nil {
		return Result[[]models.DocAnalyticData]{}, ErrInvalidArgument.Err(err)
	}
	return s.queueDocuments(ctx, "document", configID, func(ser serializer.Serializer) any {
		return encodeOne(ser, "document", doc)
	})
}

// QueueBatchOfDocuments submits several documents in one request.
func (s *Session) QueueBatchOfDocuments(ctx context.Context, docs []models.Document, configID string) (Result[[]models.DocAnalyticData], error) {
	if len(docs) == 0 {
		return Result[[]models.DocAnalyticData]{}, ErrEmptyInput.Msg("no documents given")
	}
	for i := range docs {
		if err := validate.Struct(docs[i]); err != nil {
			return Result[[]models.DocAnalyticData]{}, ErrInvalidArgument.Msgf("document at index %d", i).Err(err)
		}
	}
	return s.queueDocuments(ctx, "document/batch", configID, func(ser serializer.Serializer) any {
		return encodeList(ser, "documents", "document", docs)
	})
}

func (s *Session) queueDocuments(ctx context.Context, path, configID string, encode func(serializer.Serializer) any) (Result[[]models.DocAnalyticData], error) {
	res, err := do(ctx, s, call{
		kind:   "document",
		method: http.MethodPost,
		path:   path,
		query:  configQuery(configID),
		encode: encode,
	}, decodeList[models.DocAnalyticData]("documents", "document"))
	if err != nil || !res.OK() {
		return res, err
	}
	if len(res.Value) == 0 {
		res.Status = http.StatusAccepted
		return res, nil
	}
	s.obs.fireDocsAuto(res.Value)
	return res, nil
}

// GetDocument returns the analysis of a document. A 202 result means it is
// still being processed.
func (s *Session) GetDocument(ctx context.Context, id, configID string) (Result[*models.DocAnalyticData], error) {
	if id == "" {
		return Result[*models.DocAnalyticData]{}, ErrMissingID.Msg("document id is required")
	}
	return do(ctx, s, call{
		kind:   "document",
		method: http.MethodGet,
		path:   "document/" + url.PathEscape(id),
		query:  configQuery(configID),
	}, decodeOne[models.DocAnalyticData])
}

// CancelDocument removes a queued document and returns the response status.
func (s *Session) CancelDocument(ctx context.Context, id, configID string) (int, error) {
	if id == "" {
		return 0, ErrMissingID.Msg("document id is required")
	}
	res, err := do[struct{}](ctx, s, call{
		kind:   "document",
		method: http.MethodDelete,
		path:   "document/" + url.PathEscape(id),
		query:  configQuery(configID),
	}, nil)
	return res.Status, err
}

// GetProcessedDocuments drains the processed documents of a configuration.
func (s *Session) GetProcessedDocuments(ctx context.Context, configID string) (Result[[]models.DocAnalyticData], error) {
	return s.processedDocuments(ctx, configQuery(configID))
}

// GetProcessedDocumentsByJobID drains the processed documents of a job.
func (s *Session) GetProcessedDocumentsByJobID(ctx context.Context, jobID string) (Result[[]models.DocAnalyticData], error) {
	if jobID == "" {
		return Result[[]models.DocAnalyticData]{}, ErrInvalidArgument.Msg("job id is required")
	}
	return s.processedDocuments(ctx, url.Values{"job_id": {jobID}})
}

func (s *Session) processedDocuments(ctx context.Context, query url.Values) (Result[[]models.DocAnalyticData], error) {
	return do(ctx, s, call{
		kind:   "document",
		method: http.MethodGet,
		path:   "document/processed",
		query:  query,
	}, decodeList[models.DocAnalyticData]("documents", "document"))
}
