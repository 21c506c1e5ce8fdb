package fakeservice

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/semantria/semantria-go/internal/common/apperrors"
	"github.com/semantria/semantria-go/internal/common/httpclient"
	"github.com/semantria/semantria-go/pkg/semantria/auth"
	"github.com/semantria/semantria-go/pkg/semantria/models"
	"github.com/semantria/semantria-go/pkg/semantria/serializer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

var testKeys = httpclient.KeyPair{Key: "test-key", Secret: "test-secret"}

// fakeClock is advanced by tests to move queued work along.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type harness struct {
	svc    *Service
	srv    *httptest.Server
	client *httpclient.Client
	clock  *fakeClock
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	opts = append([]Option{WithProcessingDelay(time.Second), withClock(clock.Now)}, opts...)
	svc := New(opts...)
	svc.AddAPIKey(testKeys.Key, testKeys.Secret)
	srv := httptest.NewServer(svc)
	t.Cleanup(srv.Close)
	return &harness{
		svc:    svc,
		srv:    srv,
		client: httpclient.New(httpclient.Options{APIVersion: "4.2", AppName: "fake-test"}),
		clock:  clock,
	}
}

func (h *harness) do(t *testing.T, method, path string, query url.Values, body []byte, f serializer.Format) *httpclient.Response {
	t.Helper()
	keys := testKeys
	rsp, err := h.client.Do(context.Background(), httpclient.Request{
		Method:      method,
		URL:         h.srv.URL + "/" + path + "." + f.String(),
		Query:       query,
		Body:        body,
		ContentType: f.ContentType(),
		Format:      f.String(),
		Keys:        &keys,
	})
	require.NoError(t, err)
	return rsp
}

func marshalList[T any](t *testing.T, f serializer.Format, plural, item string, items []T) []byte {
	t.Helper()
	ser, err := serializer.New(f)
	require.NoError(t, err)
	var v any = items
	if f == serializer.FormatXML {
		v = serializer.Wrap(plural, item, items)
	}
	b, err := ser.Marshal(v)
	require.NoError(t, err)
	return b
}

func unmarshalList[T any](t *testing.T, f serializer.Format, plural, item string, body []byte) []T {
	t.Helper()
	ser, err := serializer.New(f)
	require.NoError(t, err)
	if f == serializer.FormatXML {
		env := serializer.Wrap[T](plural, item, nil)
		require.NoError(t, ser.Unmarshal(body, env))
		return env.Unwrap()
	}
	var out []T
	require.NoError(t, ser.Unmarshal(body, &out))
	return out
}

func TestSignatureRequired(t *testing.T) {
	h := newHarness(t)

	rsp, err := http.Get(h.srv.URL + "/status.json")
	require.NoError(t, err)
	rsp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, rsp.StatusCode)

	bad := httpclient.KeyPair{Key: testKeys.Key, Secret: "wrong"}
	out, err := h.client.Do(context.Background(), httpclient.Request{
		Method: http.MethodGet, URL: h.srv.URL + "/status.json", Keys: &bad,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, out.Status)
	assert.Equal(t, "signature mismatch", gjson.GetBytes(out.Body, "error_message").String())

	out = h.do(t, http.MethodGet, "status", nil, nil, serializer.FormatJSON)
	assert.Equal(t, http.StatusOK, out.Status)
	assert.Equal(t, "4.2", gjson.GetBytes(out.Body, "api_version").String())
}

func TestAuthEndpoint(t *testing.T) {
	h := newHarness(t)
	h.svc.AddUser("alice@example.com", "pw")
	ac := auth.NewClient(h.client, h.srv.URL+"/auth", auth.AppKey)
	ctx := context.Background()

	_, err := ac.CreateSession(ctx, "alice@example.com", "nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, auth.ErrAuthentication)

	sess, err := ac.CreateSession(ctx, "alice@example.com", "pw")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)
	assert.NotEmpty(t, sess.Keys.Key)

	again, err := ac.ValidateSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.Keys, again.Keys)

	creates, validates := h.svc.AuthCalls()
	assert.Equal(t, int64(2), creates)
	assert.Equal(t, int64(1), validates)

	// keys issued for the session sign API calls until it expires
	rsp, err := h.client.Do(ctx, httpclient.Request{Method: http.MethodGet, URL: h.srv.URL + "/status.json", Keys: &sess.Keys})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rsp.Status)

	h.svc.ExpireSessions()
	_, err = ac.ValidateSession(ctx, sess.ID)
	assert.Error(t, err)
	rsp, err = h.client.Do(ctx, httpclient.Request{Method: http.MethodGet, URL: h.srv.URL + "/status.json", Keys: &sess.Keys})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rsp.Status)
}

func TestWrongAppKey(t *testing.T) {
	h := newHarness(t, WithAppKey("other"))
	ac := auth.NewClient(h.client, h.srv.URL+"/auth", auth.AppKey)
	_, err := ac.CreateSession(context.Background(), "bob", "pw")
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, apperrors.StatusCode(err))
}

func TestResourceLifecycle(t *testing.T) {
	for _, f := range []serializer.Format{serializer.FormatJSON, serializer.FormatXML} {
		t.Run(f.String(), func(t *testing.T) {
			h := newHarness(t)

			rsp := h.do(t, http.MethodGet, "configurations", nil, nil, f)
			assert.Equal(t, http.StatusAccepted, rsp.Status)

			body := marshalList(t, f, "configurations", "configuration", []models.Configuration{{Name: "T1", Language: "English"}})
			rsp = h.do(t, http.MethodPost, "configurations", nil, body, f)
			require.Equal(t, http.StatusOK, rsp.Status, rsp.Text())
			added := unmarshalList[models.Configuration](t, f, "configurations", "configuration", rsp.Body)
			require.Len(t, added, 1)
			id := added[0].ID
			assert.NotEmpty(t, id)
			assert.NotZero(t, added[0].Timestamp)

			added[0].Name = "T1-renamed"
			body = marshalList(t, f, "configurations", "configuration", added)
			rsp = h.do(t, http.MethodPut, "configurations", nil, body, f)
			require.Equal(t, http.StatusOK, rsp.Status, rsp.Text())

			rsp = h.do(t, http.MethodGet, "configurations", nil, nil, f)
			require.Equal(t, http.StatusOK, rsp.Status)
			listed := unmarshalList[models.Configuration](t, f, "configurations", "configuration", rsp.Body)
			require.Len(t, listed, 1)
			assert.Equal(t, id, listed[0].ID)
			assert.Equal(t, "T1-renamed", listed[0].Name)

			// scoped resources follow the configuration
			q := url.Values{"config_id": {id}}
			body = marshalList(t, f, "queries", "query", []models.Query{{Name: "q", Query: "works OR fine"}})
			rsp = h.do(t, http.MethodPost, "queries", q, body, f)
			require.Equal(t, http.StatusOK, rsp.Status, rsp.Text())
			rsp = h.do(t, http.MethodGet, "queries", q, nil, f)
			assert.Len(t, unmarshalList[models.Query](t, f, "queries", "query", rsp.Body), 1)
			rsp = h.do(t, http.MethodGet, "queries", nil, nil, f)
			assert.Equal(t, http.StatusAccepted, rsp.Status)

			body = marshalList(t, f, "configurations", "configuration", []string{id})
			rsp = h.do(t, http.MethodDelete, "configurations", nil, body, f)
			assert.Equal(t, http.StatusAccepted, rsp.Status)

			rsp = h.do(t, http.MethodGet, "configurations", nil, nil, f)
			assert.Equal(t, http.StatusAccepted, rsp.Status)
			rsp = h.do(t, http.MethodGet, "queries", q, nil, f)
			assert.Equal(t, http.StatusNotFound, rsp.Status)
		})
	}
}

func TestResourceErrors(t *testing.T) {
	h := newHarness(t)
	f := serializer.FormatJSON

	rsp := h.do(t, http.MethodPost, "blacklist", nil, []byte(`[{"name":""}]`), f)
	assert.Equal(t, http.StatusBadRequest, rsp.Status)

	rsp = h.do(t, http.MethodPost, "blacklist", nil, []byte(`not json`), f)
	assert.Equal(t, http.StatusBadRequest, rsp.Status)
	assert.Contains(t, gjson.GetBytes(rsp.Body, "error_message").String(), "unable to parse request data: ")

	rsp = h.do(t, http.MethodPost, "document", nil, []byte(`<collection><id>x</id></collection>`), serializer.FormatXML)
	assert.Equal(t, http.StatusBadRequest, rsp.Status)
	assert.Equal(t, "expected <document> element", gjson.GetBytes(rsp.Body, "error_message").String())

	rsp = h.do(t, http.MethodPut, "blacklist", nil, []byte(`[{"id":"missing","name":"x"}]`), f)
	assert.Equal(t, http.StatusNotFound, rsp.Status)

	rsp = h.do(t, http.MethodGet, "categories", url.Values{"config_id": {"nope"}}, nil, f)
	assert.Equal(t, http.StatusNotFound, rsp.Status)
	assert.Contains(t, gjson.GetBytes(rsp.Body, "error_message").String(), "nope")

	rsp = h.do(t, http.MethodPost, "phrases", nil, []byte(`[{"name":"meh","weight":5}]`), f)
	assert.Equal(t, http.StatusBadRequest, rsp.Status)
}

func TestConfigurationTemplate(t *testing.T) {
	h := newHarness(t)
	f := serializer.FormatJSON
	rsp := h.do(t, http.MethodPost, "configurations", nil,
		[]byte(`[{"name":"base","language":"French","auto_response":true,"is_primary":true}]`), f)
	require.Equal(t, http.StatusOK, rsp.Status, rsp.Text())
	base := gjson.GetBytes(rsp.Body, "0.config_id").String()

	rsp = h.do(t, http.MethodPost, "configurations", nil, []byte(`[{"name":"copy","template":"`+base+`"}]`), f)
	require.Equal(t, http.StatusOK, rsp.Status, rsp.Text())
	clone := gjson.GetBytes(rsp.Body, "0")
	assert.Equal(t, "copy", clone.Get("name").String())
	assert.Equal(t, "French", clone.Get("language").String())
	assert.True(t, clone.Get("auto_response").Bool())
	assert.False(t, clone.Get("is_primary").Bool())
	assert.NotEqual(t, base, clone.Get("config_id").String())

	rsp = h.do(t, http.MethodPost, "configurations", nil, []byte(`[{"name":"x","template":"unknown"}]`), f)
	assert.Equal(t, http.StatusBadRequest, rsp.Status)
}

func TestDocumentQueue(t *testing.T) {
	for _, f := range []serializer.Format{serializer.FormatJSON, serializer.FormatXML} {
		t.Run(f.String(), func(t *testing.T) {
			h := newHarness(t)
			ser, err := serializer.New(f)
			require.NoError(t, err)

			body, err := ser.Marshal(&serializer.Element[models.Document]{Name: "document", Value: models.Document{ID: "D1", Text: "it works"}})
			require.NoError(t, err)
			rsp := h.do(t, http.MethodPost, "document", nil, body, f)
			require.Equal(t, http.StatusAccepted, rsp.Status, rsp.Text())

			rsp = h.do(t, http.MethodGet, "document/D1", nil, nil, f)
			assert.Equal(t, http.StatusAccepted, rsp.Status)
			rsp = h.do(t, http.MethodGet, "document/processed", nil, nil, f)
			assert.Equal(t, http.StatusAccepted, rsp.Status)

			h.clock.Advance(2 * time.Second)

			rsp = h.do(t, http.MethodGet, "document/D1", nil, nil, f)
			require.Equal(t, http.StatusOK, rsp.Status)
			var doc models.DocAnalyticData
			require.NoError(t, ser.Unmarshal(rsp.Body, &doc))
			assert.Equal(t, "D1", doc.ID)
			assert.Equal(t, models.StatusProcessed, doc.Status)
			assert.Equal(t, "positive", doc.SentimentPolarity)

			rsp = h.do(t, http.MethodGet, "document/processed", nil, nil, f)
			require.Equal(t, http.StatusOK, rsp.Status)
			docs := unmarshalList[models.DocAnalyticData](t, f, "documents", "document", rsp.Body)
			require.Len(t, docs, 1)
			assert.Equal(t, "D1", docs[0].ID)

			// results are handed out once
			rsp = h.do(t, http.MethodGet, "document/processed", nil, nil, f)
			assert.Equal(t, http.StatusAccepted, rsp.Status)
		})
	}
}

func TestDocumentBatchAndJobs(t *testing.T) {
	h := newHarness(t)
	f := serializer.FormatJSON
	rsp := h.do(t, http.MethodPost, "document/batch", nil, []byte(`[
		{"id":"a","text":"good","job_id":"j1"},
		{"id":"b","text":"bad","job_id":"j2"}]`), f)
	require.Equal(t, http.StatusAccepted, rsp.Status, rsp.Text())

	rsp = h.do(t, http.MethodPost, "document/batch", nil, []byte(`[{"id":"","text":"x"}]`), f)
	assert.Equal(t, http.StatusBadRequest, rsp.Status)

	h.clock.Advance(2 * time.Second)
	rsp = h.do(t, http.MethodGet, "document/processed", url.Values{"job_id": {"j2"}}, nil, f)
	require.Equal(t, http.StatusOK, rsp.Status)
	assert.Equal(t, "b", gjson.GetBytes(rsp.Body, "0.id").String())
	assert.Equal(t, "negative", gjson.GetBytes(rsp.Body, "0.sentiment_polarity").String())
	assert.Equal(t, int64(1), gjson.GetBytes(rsp.Body, "#").Int())

	rsp = h.do(t, http.MethodGet, "statistics", nil, nil, f)
	require.Equal(t, http.StatusOK, rsp.Status)
	assert.Equal(t, int64(1), gjson.GetBytes(rsp.Body, "0.batches_queued").Int())
	assert.Equal(t, int64(2), gjson.GetBytes(rsp.Body, "0.docs_queued").Int())
}

func TestDocumentCancel(t *testing.T) {
	h := newHarness(t)
	f := serializer.FormatJSON
	rsp := h.do(t, http.MethodPost, "document", nil, []byte(`{"id":"c1","text":"hello"}`), f)
	require.Equal(t, http.StatusAccepted, rsp.Status)

	rsp = h.do(t, http.MethodDelete, "document/c1", nil, nil, f)
	assert.Equal(t, http.StatusAccepted, rsp.Status)
	rsp = h.do(t, http.MethodGet, "document/c1", nil, nil, f)
	assert.Equal(t, http.StatusNotFound, rsp.Status)
	rsp = h.do(t, http.MethodDelete, "document/c1", nil, nil, f)
	assert.Equal(t, http.StatusNotFound, rsp.Status)

	rsp = h.do(t, http.MethodPost, "document", nil, []byte(`{"id":"c2","text":"hello"}`), f)
	require.Equal(t, http.StatusAccepted, rsp.Status)
	h.clock.Advance(2 * time.Second)
	rsp = h.do(t, http.MethodDelete, "document/c2", nil, nil, f)
	assert.Equal(t, http.StatusBadRequest, rsp.Status)
}

func TestAutoResponse(t *testing.T) {
	h := newHarness(t)
	f := serializer.FormatJSON
	rsp := h.do(t, http.MethodPost, "configurations", nil, []byte(`[{"name":"auto","auto_response":true}]`), f)
	require.Equal(t, http.StatusOK, rsp.Status)
	id := gjson.GetBytes(rsp.Body, "0.config_id").String()
	q := url.Values{"config_id": {id}}

	rsp = h.do(t, http.MethodPost, "entities", q, []byte(`[{"name":"Semantria","type":"Company"}]`), f)
	require.Equal(t, http.StatusOK, rsp.Status, rsp.Text())

	rsp = h.do(t, http.MethodPost, "document", q, []byte(`{"id":"x","text":"Semantria works great."}`), f)
	require.Equal(t, http.StatusOK, rsp.Status, rsp.Text())
	doc := gjson.GetBytes(rsp.Body, "0")
	assert.Equal(t, "x", doc.Get("id").String())
	assert.Equal(t, id, doc.Get("config_id").String())
	assert.Equal(t, "Company", doc.Get("entities.0.entity_type").String())

	// auto responded documents are not handed out again
	rsp = h.do(t, http.MethodGet, "document/processed", q, nil, f)
	assert.Equal(t, http.StatusAccepted, rsp.Status)

	rsp = h.do(t, http.MethodPost, "collection", q, []byte(`{"id":"c","documents":["good food","good service","bad food"]}`), f)
	require.Equal(t, http.StatusOK, rsp.Status, rsp.Text())
	facets := gjson.GetBytes(rsp.Body, "0.facets").Array()
	require.NotEmpty(t, facets)
	assert.Equal(t, "food", facets[0].Get("label").String())
	assert.Equal(t, int64(2), facets[0].Get("count").Int())
}

func TestInfoEndpoints(t *testing.T) {
	h := newHarness(t)
	f := serializer.FormatXML

	rsp := h.do(t, http.MethodGet, "subscription", nil, nil, f)
	require.Equal(t, http.StatusOK, rsp.Status)
	var sub models.Subscription
	require.NoError(t, serializer.XML().Unmarshal(rsp.Body, &sub))
	assert.Equal(t, "active", sub.Status)
	assert.Positive(t, sub.CallsBalance)

	rsp = h.do(t, http.MethodGet, "features", url.Values{"language": {"german"}}, nil, f)
	require.Equal(t, http.StatusOK, rsp.Status)
	sets := unmarshalList[models.FeaturesSet](t, f, "features", "feature", rsp.Body)
	require.Len(t, sets, 1)
	assert.Equal(t, "German", sets[0].Language)

	rsp = h.do(t, http.MethodGet, "features", url.Values{"language": {"klingon"}}, nil, f)
	assert.Equal(t, http.StatusAccepted, rsp.Status)

	rsp = h.do(t, http.MethodGet, "statistics", url.Values{"group": {"app"}}, nil, f)
	require.Equal(t, http.StatusOK, rsp.Status)
	rows := unmarshalList[models.GroupedStatistics](t, f, "statistics", "statistic", rsp.Body)
	require.Len(t, rows, 1)
	assert.Equal(t, "fake-test/Go/4.2/XML", rows[0].App)
	assert.Equal(t, int64(4), rows[0].TotalAPICalls)

	rsp = h.do(t, http.MethodGet, "statistics", url.Values{"interval": {"week"}}, nil, f)
	require.Equal(t, http.StatusOK, rsp.Status)
	overall := unmarshalList[models.Statistics](t, f, "statistics", "statistic", rsp.Body)
	require.Len(t, overall, 1)
	assert.Positive(t, overall[0].TotalAPICalls)

	rsp = h.do(t, http.MethodGet, "statistics", url.Values{"interval": {"decade"}}, nil, f)
	assert.Equal(t, http.StatusBadRequest, rsp.Status)
	rsp = h.do(t, http.MethodGet, "statistics", url.Values{"interval": {"day"}, "from": {"2025-01-01T00:00:00Z"}}, nil, f)
	assert.Equal(t, http.StatusBadRequest, rsp.Status)
}

func TestUserDirectoryArchives(t *testing.T) {
	h := newHarness(t)
	f := serializer.FormatJSON
	rsp := h.do(t, http.MethodPost, "blacklist", nil, []byte(`[{"name":"spam"}]`), f)
	require.Equal(t, http.StatusOK, rsp.Status)

	magic := map[string][]byte{
		"zip":    {'P', 'K', 3, 4},
		"tar.gz": {0x1f, 0x8b},
	}
	for _, archive := range []string{"zip", "tar", "tar.gz"} {
		t.Run(archive, func(t *testing.T) {
			keys := testKeys
			out, err := h.client.Do(context.Background(), httpclient.Request{
				Method: http.MethodGet,
				URL:    h.srv.URL + "/salience/user-directory." + archive,
				Binary: true,
				Keys:   &keys,
			})
			require.NoError(t, err)
			require.Equal(t, http.StatusOK, out.Status)
			if m, ok := magic[archive]; ok {
				assert.Equal(t, m, out.Body[:len(m)])
			} else {
				assert.Equal(t, "ustar", string(out.Body[257:262]))
			}
		})
	}
}
