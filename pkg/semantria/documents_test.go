package semantria

import (
	"context"
	"net/http"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/semantria/semantria-go/internal/fakeservice"
	"github.com/semantria/semantria-go/pkg/semantria/models"
	"github.com/semantria/semantria-go/pkg/semantria/serializer"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func autoResponseConfig(t *testing.T, s *Session, auto bool) string {
	t.Helper()
	res, err := s.AddConfigurations(context.Background(), []models.Configuration{{Name: "docs", Language: "English", AutoResponse: auto}})
	require.NoError(t, err)
	return res.Value[0].ID
}

func TestDocumentScenario(t *testing.T) {
	for _, f := range []serializer.Format{serializer.FormatJSON, serializer.FormatXML} {
		t.Run(f.String(), func(t *testing.T) {
			env := newTestEnv(t)
			s := env.session(t, testKey, WithFormat(f))
			ctx := context.Background()
			cfg := autoResponseConfig(t, s, false)

			var fired int
			s.OnDocsAutoResponse(func([]models.DocAnalyticData) { fired++ })

			res, err := s.QueueDocument(ctx, models.Document{ID: "D1", Text: "it works"}, cfg)
			require.NoError(t, err)
			assert.True(t, res.Accepted())
			assert.Nil(t, res.Value)
			assert.Zero(t, fired)

			var got []models.DocAnalyticData
			require.Eventually(t, func() bool {
				res, err := s.GetProcessedDocuments(ctx, cfg)
				if err != nil {
					return false
				}
				got = append(got, res.Value...)
				return len(got) > 0
			}, 2*time.Second, 10*time.Millisecond)
			require.Len(t, got, 1)
			assert.Equal(t, "D1", got[0].ID)
			assert.Equal(t, models.StatusProcessed, got[0].Status)
			assert.Equal(t, cfg, got[0].ConfigID)

			one, err := s.GetDocument(ctx, "D1", cfg)
			require.NoError(t, err)
			require.True(t, one.OK())
			assert.Equal(t, "it works", one.Value.SourceText)
		})
	}
}

func TestDocumentAutoResponse(t *testing.T) {
	env := newTestEnv(t)
	s := env.session(t, testKey)
	ctx := context.Background()
	cfg := autoResponseConfig(t, s, true)

	var mu sync.Mutex
	var batches [][]models.DocAnalyticData
	s.OnDocsAutoResponse(func(docs []models.DocAnalyticData) {
		mu.Lock()
		defer mu.Unlock()
		batches = append(batches, docs)
	})

	res, err := s.QueueDocument(ctx, models.Document{ID: "A1", Text: "great product"}, cfg)
	require.NoError(t, err)
	require.True(t, res.OK())
	require.Len(t, res.Value, 1)
	assert.Equal(t, "A1", res.Value[0].ID)
	assert.Equal(t, "positive", res.Value[0].SentimentPolarity)

	require.Len(t, batches, 1)
	assert.Equal(t, res.Value, batches[0])

	// the same call against a configuration without auto response fires nothing
	plain := autoResponseConfig(t, s, false)
	res, err = s.QueueDocument(ctx, models.Document{ID: "A2", Text: "great product"}, plain)
	require.NoError(t, err)
	assert.True(t, res.Accepted())
	assert.Len(t, batches, 1)
}

func TestQueueWithoutResultsIsAccepted(t *testing.T) {
	ctx := context.Background()
	for _, body := range []string{`[]`, ``} {
		s := cannedSession(t, http.StatusOK, body)
		var fired int
		s.OnDocsAutoResponse(func([]models.DocAnalyticData) { fired++ })
		s.OnCollsAutoResponse(func([]models.CollAnalyticData) { fired++ })

		docs, err := s.QueueDocument(ctx, models.Document{ID: "E1", Text: "empty"}, "")
		require.NoError(t, err)
		assert.True(t, docs.Accepted(), "body %q", body)
		assert.False(t, docs.OK())

		batch, err := s.QueueBatchOfDocuments(ctx, []models.Document{{ID: "E2", Text: "empty"}}, "")
		require.NoError(t, err)
		assert.True(t, batch.Accepted())

		colls, err := s.QueueCollection(ctx, models.Collection{ID: "C1", Documents: []string{"empty"}}, "")
		require.NoError(t, err)
		assert.True(t, colls.Accepted())
		assert.Zero(t, fired)
	}
}

func TestDocumentBatchAndJob(t *testing.T) {
	env := newTestEnv(t)
	s := env.session(t, testKey, WithFormat(serializer.FormatXML))
	ctx := context.Background()

	_, err := s.QueueBatchOfDocuments(ctx, nil, "")
	assert.ErrorIs(t, err, ErrEmptyInput)
	_, err = s.QueueBatchOfDocuments(ctx, []models.Document{{ID: "x"}}, "")
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = s.QueueDocument(ctx, models.Document{ID: "this-id-is-much-longer-than-thirty-six-characters", Text: "t"}, "")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	docs := []models.Document{
		{ID: "B1", Text: "terrible service", JobID: "job-a"},
		{ID: "B2", Text: "nice", JobID: "job-b"},
		{ID: "B3", Text: "not bad", JobID: "job-a"},
	}
	res, err := s.QueueBatchOfDocuments(ctx, docs, "")
	require.NoError(t, err)
	assert.True(t, res.Accepted())

	var got []models.DocAnalyticData
	require.Eventually(t, func() bool {
		res, err := s.GetProcessedDocumentsByJobID(ctx, "job-a")
		if err != nil {
			return false
		}
		got = append(got, res.Value...)
		return len(got) == 2
	}, 2*time.Second, 10*time.Millisecond)
	ids := []string{got[0].ID, got[1].ID}
	slices.Sort(ids)
	assert.Equal(t, []string{"B1", "B3"}, ids)

	_, err = s.GetProcessedDocumentsByJobID(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestDocumentCancel(t *testing.T) {
	env := newTestEnv(t, fakeservice.WithProcessingDelay(time.Hour))
	s := env.session(t, testKey)
	ctx := context.Background()

	_, err := s.QueueDocument(ctx, models.Document{ID: "C1", Text: "pending"}, "")
	require.NoError(t, err)

	pending, err := s.GetDocument(ctx, "C1", "")
	require.NoError(t, err)
	assert.True(t, pending.Accepted())

	status, err := s.CancelDocument(ctx, "C1", "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusAccepted, status)

	status, err = s.CancelDocument(ctx, "C1", "")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, status)

	_, err = s.CancelDocument(ctx, "", "")
	assert.ErrorIs(t, err, ErrMissingID)
	_, err = s.GetDocument(ctx, "", "")
	assert.ErrorIs(t, err, ErrMissingID)
}

func TestCollections(t *testing.T) {
	env := newTestEnv(t)
	s := env.session(t, testKey)
	ctx := context.Background()

	var fired int
	s.OnCollsAutoResponse(func([]models.CollAnalyticData) { fired++ })

	_, err := s.QueueCollection(ctx, models.Collection{ID: "E1"}, "")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	coll := models.Collection{ID: "E1", Documents: []string{"fresh bread", "stale bread"}, JobID: "j"}
	res, err := s.QueueCollection(ctx, coll, "")
	require.NoError(t, err)
	assert.True(t, res.Accepted())
	assert.Zero(t, fired)

	var got []models.CollAnalyticData
	require.Eventually(t, func() bool {
		res, err := s.GetProcessedCollectionsByJobID(ctx, "j")
		if err != nil {
			return false
		}
		got = append(got, res.Value...)
		return len(got) > 0
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "E1", got[0].ID)
	require.NotEmpty(t, got[0].Facets)
	assert.Equal(t, "bread", got[0].Facets[0].Label)

	one, err := s.GetCollection(ctx, "E1", "")
	require.NoError(t, err)
	assert.True(t, one.OK())

	cfg := autoResponseConfig(t, s, true)
	res, err = s.QueueCollection(ctx, models.Collection{ID: "E2", Documents: []string{"x"}}, cfg)
	require.NoError(t, err)
	assert.True(t, res.OK())
	assert.Equal(t, 1, fired)

	processed, err := s.GetProcessedCollections(ctx, cfg)
	require.NoError(t, err)
	assert.True(t, processed.Accepted())

	status, err := s.CancelCollection(ctx, "E2", cfg)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestUserDirectory(t *testing.T) {
	env := newTestEnv(t)
	s := env.session(t, testKey)
	ctx := context.Background()

	_, err := s.AddBlacklist(ctx, []models.BlacklistItem{{Name: "spam"}}, "")
	require.NoError(t, err)

	for path, magic := range map[string][]byte{
		"/out/dir.zip":    {'P', 'K'},
		"/out/dir.tar.gz": {0x1f, 0x8b},
		"/out/dir.tar":    nil,
	} {
		status, err := s.WriteUserDirectoryToFile(ctx, "", path)
		require.NoError(t, err, path)
		assert.Equal(t, http.StatusOK, status)
		data, err := afero.ReadFile(env.fs, path)
		require.NoError(t, err)
		if magic != nil {
			assert.Equal(t, magic, data[:len(magic)], path)
		} else {
			assert.Equal(t, "ustar", string(data[257:262]))
		}
	}

	res, err := s.GetUserDirectory(ctx, "", "rar")
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Nil(t, res.Value)

	_, err = s.WriteUserDirectoryToFile(ctx, "missing-config", "/out/x.zip")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrService)
	exists, _ := afero.Exists(env.fs, "/out/x.zip")
	assert.False(t, exists)
}

func TestArchiveFromPath(t *testing.T) {
	assert.Equal(t, ArchiveZip, ArchiveFromPath("dir.zip"))
	assert.Equal(t, ArchiveZip, ArchiveFromPath("dir"))
	assert.Equal(t, ArchiveTar, ArchiveFromPath("/a/b/DIR.TAR"))
	assert.Equal(t, ArchiveTarGz, ArchiveFromPath("dir.tgz"))
	assert.Equal(t, ArchiveTarGz, ArchiveFromPath("dir.tar.gz"))
}
