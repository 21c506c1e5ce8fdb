package httpclient

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullURL(r *http.Request) string {
	return "http://" + r.Host + r.URL.RequestURI()
}

func TestSignature(t *testing.T) {
	u, err := url.Parse("https://api.semantria.com/configurations.json")
	require.NoError(t, err)

	signed := SignURL(u, url.Values{"config_id": {"c1"}}, KeyPair{Key: "k", Secret: "s"}, 42, 1700000000)
	assert.Equal(t,
		"https://api.semantria.com/configurations.json?config_id=c1&oauth_consumer_key=k&oauth_nonce=42"+
			"&oauth_signature_method=HMAC-SHA1&oauth_timestamp=1700000000&oauth_version=1.0",
		signed)

	sig := Signature(signed, "s")
	assert.NotEmpty(t, sig)
	assert.Equal(t, sig, Signature(signed, "s"))
	assert.NotEqual(t, sig, Signature(signed, "other"))
	assert.True(t, VerifySignature(signed, "s", sig))
	assert.False(t, VerifySignature(signed+"&x=1", "s", sig))
}

func TestSignatureEscaping(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"a b~*é", "a+b%7E*%C3%A9"},
		{"100%*", "100%25*"},
		{"https://h/x.json?a=1&b=2", "https%3A%2F%2Fh%2Fx.json%3Fa%3D1%26b%3D2"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormEscape(tt.in), tt.in)
	}

	u, err := url.Parse("https://api.semantria.com/document/a~b*c.json")
	require.NoError(t, err)
	signed := SignURL(u, nil, KeyPair{Key: "k", Secret: "s"}, 42, 1700000000)
	assert.Equal(t, "rmjL+ahpnZ+U11BUVYno5t1I4CA=", Signature(signed, "s"))
}

func TestAuthorizationHeader(t *testing.T) {
	h := AuthorizationHeader("key1", "ab+/cd==")
	assert.Equal(t, `OAuth,oauth_consumer_key="key1",oauth_signature="ab%2B%2Fcd%3D%3D"`, h)

	key, sig, ok := ParseAuthorization(h)
	require.True(t, ok)
	assert.Equal(t, "key1", key)
	assert.Equal(t, "ab+/cd==", sig)

	_, _, ok = ParseAuthorization("Bearer token")
	assert.False(t, ok)
}

func TestDoSignsRequest(t *testing.T) {
	var seen *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r
		key, sig, ok := ParseAuthorization(r.Header.Get("Authorization"))
		if !ok || key != "k" || !VerifySignature(fullURL(r), "s", sig) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := New(Options{APIVersion: "4.2", AppName: "demo"})
	resp, err := c.Do(context.Background(), Request{
		Method: http.MethodGet,
		URL:    srv.URL + "/queries.json",
		Query:  url.Values{"config_id": {"c 1"}},
		Format: "json",
		Keys:   &KeyPair{Key: "k", Secret: "s"},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "[]", resp.Text())

	require.NotNil(t, seen)
	assert.Equal(t, "c 1", seen.URL.Query().Get("config_id"))
	assert.Equal(t, "HMAC-SHA1", seen.URL.Query().Get(ParamSignatureMethod))
	assert.Equal(t, "demo/Go/4.2/JSON", seen.Header.Get("x-app-name"))
	assert.Equal(t, "4.2", seen.Header.Get("x-api-version"))
}

func TestDoReturnsErrorStatuses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadRequest)
	}))
	defer srv.Close()

	resp, err := New(Options{}).Do(context.Background(), Request{Method: http.MethodGet, URL: srv.URL})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.Status)
	assert.Equal(t, "nope\n", resp.Text())
}

func TestDoCompression(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "gzip", r.Header.Get("Content-Encoding"))
		assert.Contains(t, r.Header.Get("Accept-Encoding"), "gzip")
		zr, err := gzip.NewReader(r.Body)
		if !assert.NoError(t, err) {
			return
		}
		body, err := io.ReadAll(zr)
		assert.NoError(t, err)

		w.Header().Set("Content-Encoding", "gzip")
		zw := gzip.NewWriter(w)
		_, _ = zw.Write(bytes.ToUpper(body))
		_ = zw.Close()
	}))
	defer srv.Close()

	resp, err := New(Options{UseCompression: true}).Do(context.Background(), Request{
		Method:      http.MethodPost,
		URL:         srv.URL,
		Body:        []byte(`{"name":"t1"}`),
		ContentType: "application/json",
	})
	require.NoError(t, err)
	assert.Equal(t, `{"NAME":"T1"}`, resp.Text())
}

func TestDoHooks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	var before []RequestInfo
	var after []*Response
	c := New(Options{
		BeforeRequest: func(ri RequestInfo) { before = append(before, ri) },
		AfterResponse: func(r *Response) { after = append(after, r) },
	})
	_, err := c.Do(context.Background(), Request{Method: http.MethodDelete, URL: srv.URL + "/x.json", Body: []byte(`["1"]`)})
	require.NoError(t, err)

	require.Len(t, before, 1)
	assert.Equal(t, http.MethodDelete, before[0].Method)
	assert.Equal(t, `["1"]`, string(before[0].Body))
	require.Len(t, after, 1)
	assert.Equal(t, http.StatusAccepted, after[0].Status)
}

func TestDoTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := srv.URL
	srv.Close()

	_, err := New(Options{Timeout: time.Second}).Do(context.Background(), Request{Method: http.MethodGet, URL: addr})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)

	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, http.MethodGet, te.Method)
}

func TestDoContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := New(Options{}).Do(ctx, Request{Method: http.MethodGet, URL: srv.URL})
	assert.ErrorIs(t, err, ErrTransport)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestHandlerTransport(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sig, ok := ParseAuthorization(r.Header.Get("Authorization"))
		if !ok || !VerifySignature(fullURL(r), "s", sig) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/zip")
		_, _ = w.Write([]byte("PK\x03\x04"))
	})
	c := New(Options{HTTPClient: NewHandlerClient(h)})
	resp, err := c.Do(context.Background(), Request{
		Method: http.MethodGet,
		URL:    "http://api.test/salience/user-directory.zip",
		Binary: true,
		Keys:   &KeyPair{Key: "k", Secret: "s"},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.True(t, resp.Binary)
	assert.True(t, strings.HasPrefix(resp.Text(), "PK"))
}
