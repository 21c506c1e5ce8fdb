package semantria

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/semantria/semantria-go/pkg/semantria/models"
	"github.com/semantria/semantria-go/pkg/semantria/serializer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// roundTrip adds item, renames it, lists it and deletes it again.
func roundTrip[T models.Resource](t *testing.T, s *Session, k Kind, configID string, item T, rename func(*T), name func(T) string) {
	t.Helper()
	ctx := context.Background()

	added, err := Add(ctx, s, k, []T{item}, configID)
	require.NoError(t, err)
	require.True(t, added.OK())
	require.Len(t, added.Value, 1)
	id := added.Value[0].ResourceID()
	require.NotEmpty(t, id)

	changed := added.Value[0]
	rename(&changed)
	updated, err := Update(ctx, s, k, []T{changed}, configID)
	require.NoError(t, err)
	require.True(t, updated.OK())

	listed, err := List[T](ctx, s, k, configID)
	require.NoError(t, err)
	require.True(t, listed.OK())
	require.Len(t, listed.Value, 1)
	assert.Equal(t, id, listed.Value[0].ResourceID())
	assert.Equal(t, name(changed), name(listed.Value[0]))

	status, err := Delete(ctx, s, k, []string{id}, configID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusAccepted, status)

	listed, err = List[T](ctx, s, k, configID)
	require.NoError(t, err)
	assert.True(t, listed.Accepted())
	assert.Nil(t, listed.Value)
}

func TestResourceRoundTrips(t *testing.T) {
	for _, f := range []serializer.Format{serializer.FormatJSON, serializer.FormatXML} {
		t.Run(f.String(), func(t *testing.T) {
			env := newTestEnv(t)
			s := env.session(t, testKey, WithFormat(f))

			roundTrip(t, s, KindConfiguration, "",
				models.Configuration{Name: "T1", Language: "English"},
				func(c *models.Configuration) { c.Name = "T1-renamed" },
				func(c models.Configuration) string { return c.Name })

			cfgs, err := s.AddConfigurations(context.Background(), []models.Configuration{{Name: "scope", Language: "English"}})
			require.NoError(t, err)
			scope := cfgs.Value[0].ID

			roundTrip(t, s, KindCategory, scope,
				models.Category{Name: "food", Weight: 0.5, Samples: []string{"pizza", "pasta"}},
				func(c *models.Category) { c.Samples = append(c.Samples, "bread") },
				func(c models.Category) string { return c.Name + "|" + c.Samples[2] })
			roundTrip(t, s, KindBlacklist, scope,
				models.BlacklistItem{Name: "spam"},
				func(b *models.BlacklistItem) { b.Name = "ham" },
				func(b models.BlacklistItem) string { return b.Name })
			roundTrip(t, s, KindQuery, scope,
				models.Query{Name: "q1", Query: "pizza OR pasta"},
				func(q *models.Query) { q.Query = "pizza AND pasta" },
				func(q models.Query) string { return q.Query })
			roundTrip(t, s, KindEntity, scope,
				models.UserEntity{Name: "Semantria", Type: "Company"},
				func(e *models.UserEntity) { e.Label = "vendor" },
				func(e models.UserEntity) string { return e.Label })
			roundTrip(t, s, KindSentimentPhrase, scope,
				models.SentimentPhrase{Name: "meh", Weight: -0.2},
				func(p *models.SentimentPhrase) { p.Weight = 0.3 },
				func(p models.SentimentPhrase) string { return p.Name })
			roundTrip(t, s, KindTaxonomy, scope,
				models.TaxonomyNode{Name: "root", Topics: []models.TaxonomyTopic{{ID: "q1", Type: "query"}},
					Nodes: []models.TaxonomyNode{{Name: "child"}}},
				func(n *models.TaxonomyNode) { n.Nodes[0].Name = "leaf" },
				func(n models.TaxonomyNode) string { return n.Name + "/" + n.Nodes[0].Name })
		})
	}
}

func TestConfigurationScenario(t *testing.T) {
	env := newTestEnv(t)
	s := env.session(t, testKey)
	ctx := context.Background()

	empty, err := s.GetConfigurations(ctx)
	require.NoError(t, err)
	assert.True(t, empty.Accepted())

	added, err := s.AddConfigurations(ctx, []models.Configuration{{Name: "T1", Language: "English"}})
	require.NoError(t, err)
	require.Len(t, added.Value, 1)
	id := added.Value[0].ID
	assert.NotEmpty(t, id)
	assert.Equal(t, "T1", added.Value[0].Name)
	assert.False(t, added.Value[0].IsPrimary)

	clone, err := s.CloneConfiguration(ctx, "T1-copy", id)
	require.NoError(t, err)
	require.Len(t, clone.Value, 1)
	assert.Equal(t, id, clone.Value[0].Template)
	assert.NotEqual(t, id, clone.Value[0].ID)

	renamed := added.Value[0]
	renamed.Name = "T1-renamed"
	_, err = s.UpdateConfigurations(ctx, []models.Configuration{renamed})
	require.NoError(t, err)

	list, err := s.GetConfigurations(ctx)
	require.NoError(t, err)
	require.Len(t, list.Value, 2)
	assert.Equal(t, id, list.Value[0].ID)
	assert.Equal(t, "T1-renamed", list.Value[0].Name)

	status, err := s.RemoveConfigurations(ctx, []string{id, clone.Value[0].ID})
	require.NoError(t, err)
	assert.Equal(t, http.StatusAccepted, status)

	list, err = s.GetConfigurations(ctx)
	require.NoError(t, err)
	assert.True(t, list.Accepted())
}

func TestDispatchRejectsBadInput(t *testing.T) {
	env := newTestEnv(t)
	s := env.session(t, testKey)
	ctx := context.Background()
	var sent int
	s.OnRequest(func(RequestEvent) { sent++ })

	_, err := List[models.Query](ctx, s, Kind(99), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedResource)
	var ue *UnsupportedResourceError
	assert.True(t, errors.As(err, &ue))

	_, err = Delete(ctx, s, Kind(0), []string{"x"}, "")
	assert.ErrorIs(t, err, ErrUnsupportedResource)

	_, err = s.AddQueries(ctx, nil, "")
	assert.ErrorIs(t, err, ErrEmptyInput)
	_, err = s.UpdateQueries(ctx, []models.Query{{Name: "no id", Query: "x"}}, "")
	assert.ErrorIs(t, err, ErrMissingID)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = s.RemoveQueries(ctx, []string{"a", ""}, "")
	assert.ErrorIs(t, err, ErrMissingID)
	_, err = s.RemoveBlacklist(ctx, nil, "")
	assert.ErrorIs(t, err, ErrEmptyInput)

	assert.Zero(t, sent)
}

func TestServiceErrors(t *testing.T) {
	env := newTestEnv(t)
	s := env.session(t, testKey)
	ctx := context.Background()

	_, err := s.UpdateQueries(ctx, []models.Query{{ID: "missing", Name: "q", Query: "x"}}, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrService)
	assert.False(t, IsHandled(err))
	var se *ServiceError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.Status)
	assert.Equal(t, "query", se.Kind)
	assert.Contains(t, se.Message, "missing")

	var events []ErrorEvent
	s.OnError(func(ev ErrorEvent) { events = append(events, ev) })

	res, err := s.GetCategories(ctx, "no-such-config")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, res.Status)
	assert.True(t, IsHandled(err))
	assert.ErrorIs(t, err, ErrService)
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "category", se.Kind)
	require.Len(t, events, 1)
	assert.Equal(t, http.StatusNotFound, events[0].Status)
	assert.Equal(t, se.Message, events[0].Message)
}

func TestKinds(t *testing.T) {
	for _, k := range Kinds() {
		parsed, err := ParseKind(k.Path())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
		parsed, err = ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}
	plural, item := KindTaxonomy.XMLNames()
	assert.Equal(t, "taxonomies", plural)
	assert.Equal(t, "node", item)

	_, err := ParseKind("widgets")
	assert.ErrorIs(t, err, ErrUnsupportedResource)
	assert.Equal(t, "unknown", Kind(42).String())
}

func TestClassify(t *testing.T) {
	assert.Equal(t, OutcomeOK, Classify(200))
	assert.Equal(t, OutcomeAccepted, Classify(202))
	for _, status := range []int{201, 204, 400, 401, 404, 500} {
		assert.Equal(t, OutcomeError, Classify(status), status)
	}
}
