package semantria

import (
	"context"
	"net/http"
	"net/url"

	"github.com/semantria/semantria-go/pkg/semantria/models"
)

// GetStatus reports the API host's version and health.
func (s *Session) GetStatus(ctx context.Context) (Result[*models.ServiceStatus], error) {
	return do(ctx, s, call{kind: "status", method: http.MethodGet, path: "status"}, decodeOne[models.ServiceStatus])
}

// GetSubscription reports the account's limits and balances.
func (s *Session) GetSubscription(ctx context.Context) (Result[*models.Subscription], error) {
	return do(ctx, s, call{kind: "subscription", method: http.MethodGet, path: "subscription"}, decodeOne[models.Subscription])
}

// GetStatistics returns overall usage for a predefined interval or a
// from/to range. A zero query returns the service default window. The
// service answers with a one element list; an empty list is reported as 202.
func (s *Session) GetStatistics(ctx context.Context, q models.StatsQuery) (Result[*models.Statistics], error) {
	if q.Group != "" {
		return Result[*models.Statistics]{}, ErrInvalidArgument.Msg("grouping requires GetGroupedStatistics")
	}
	query, err := statsQuery(q)
	if err != nil {
		return Result[*models.Statistics]{}, err
	}
	rows, err := do(ctx, s, call{kind: "statistics", method: http.MethodGet, path: "statistics", query: query},
		decodeList[models.Statistics]("statistics", "statistic"))
	res := Result[*models.Statistics]{Status: rows.Status}
	if err != nil {
		return res, err
	}
	switch {
	case len(rows.Value) > 0:
		res.Value = &rows.Value[0]
	case rows.OK():
		res.Status = http.StatusAccepted
	}
	return res, nil
}

// GetGroupedStatistics returns usage grouped by q.Group, "app" when empty.
// Group accepts config_id, config_name, user_id, user_email, language, app
// and time buckets such as "10m", comma separated.
func (s *Session) GetGroupedStatistics(ctx context.Context, q models.StatsQuery) (Result[[]models.GroupedStatistics], error) {
	if q.Group == "" {
		q.Group = "app"
	}
	query, err := statsQuery(q)
	if err != nil {
		return Result[[]models.GroupedStatistics]{}, err
	}
	return do(ctx, s, call{kind: "statistics", method: http.MethodGet, path: "statistics", query: query},
		decodeList[models.GroupedStatistics]("statistics", "statistic"))
}

func statsQuery(q models.StatsQuery) (url.Values, error) {
	if err := validate.Struct(q); err != nil {
		return nil, ErrInvalidArgument.Err(err)
	}
	v := url.Values{}
	ranged := !q.From.IsZero() || !q.To.IsZero()
	switch {
	case ranged && q.Interval != "":
		return nil, ErrInvalidArgument.Msg("interval and from/to are mutually exclusive")
	case ranged:
		if q.From.IsZero() || q.To.IsZero() || !q.From.Before(q.To) {
			return nil, ErrInvalidArgument.Msg("from must be before to")
		}
		v.Set("from", q.From.UTC().Format(models.StatsTimeLayout))
		v.Set("to", q.To.UTC().Format(models.StatsTimeLayout))
	case q.Interval != "":
		v.Set("interval", string(q.Interval))
	}
	if q.Group != "" {
		v.Set("group", q.Group)
	}
	return v, nil
}

// GetSupportedFeatures lists the features per language, optionally for a
// single language.
func (s *Session) GetSupportedFeatures(ctx context.Context, language string) (Result[[]models.FeaturesSet], error) {
	var query url.Values
	if language != "" {
		query = url.Values{"language": {language}}
	}
	return do(ctx, s, call{kind: "features", method: http.MethodGet, path: "features", query: query},
		decodeList[models.FeaturesSet]("features", "feature"))
}
