package fakeservice

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/semantria/semantria-go/internal/common/httpclient"
	"github.com/semantria/semantria-go/internal/common/httpx"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

func (s *Service) authRouter(r chi.Router) {
	r.Use(s.checkAppKey)
	r.Post("/session.json", httpx.WrapHttpRsp(s.createSession))
	r.Get("/session/{id}.json", httpx.WrapHttpRsp(s.validateSession))
}

func (s *Service) checkAppKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("appkey") != s.appKey {
			httpx.ErrForbidden("unknown application key").Send(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Service) createSession(r *http.Request) (*httpx.Response, error) {
	s.creates.Add(1)
	body, err := httpx.ReadBody(r)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(body) {
		return nil, httpx.ErrUnableToParseReqData()
	}
	req := gjson.ParseBytes(body)
	user := req.Get("username").String()
	if user == "" {
		user = req.Get("email").String()
	}

	s.mu.Lock()
	password, ok := s.users[user]
	s.mu.Unlock()
	if !ok || password != req.Get("password").String() {
		log.Ctx(r.Context()).Debug().Str("user", user).Msg("login rejected")
		return nil, httpx.ErrUnAuthorized("Invalid credentials")
	}
	id, keys := s.newSession()
	return sessionResponse(id, keys)
}

func (s *Service) validateSession(r *http.Request) (*httpx.Response, error) {
	s.validates.Add(1)
	id := chi.URLParam(r, "id")
	keys, ok := s.session(id)
	if !ok {
		return nil, httpx.ErrNotFound("Session not found")
	}
	return sessionResponse(id, keys)
}

func sessionResponse(id string, keys httpclient.KeyPair) (*httpx.Response, error) {
	body := []byte(`{}`)
	var err error
	for _, kv := range [][2]string{{"id", id}, {"custom_params.key", keys.Key}, {"custom_params.secret", keys.Secret}} {
		if body, err = sjson.SetBytes(body, kv[0], kv[1]); err != nil {
			return nil, httpx.ErrApplicationError(err.Error())
		}
	}
	return &httpx.Response{StatusCode: http.StatusOK, ContentType: "application/json", Body: body}, nil
}

// verifySignature rejects API requests whose OAuth signature does not match
// the secret of their consumer key.
func (s *Service) verifySignature(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key, sig, ok := httpclient.ParseAuthorization(r.Header.Get("Authorization"))
		if !ok {
			httpx.ErrUnAuthorized("missing or malformed authorization header").Send(w)
			return
		}
		q := r.URL.Query()
		if q.Get(httpclient.ParamConsumerKey) != key || q.Get(httpclient.ParamSignatureMethod) != httpclient.SignatureMethod {
			httpx.ErrUnAuthorized("oauth parameters do not match the authorization header").Send(w)
			return
		}
		secret, ok := s.secret(key)
		if !ok {
			httpx.ErrUnAuthorized("unknown consumer key").Send(w)
			return
		}
		if !httpclient.VerifySignature(s.requestURL(r), secret, sig) {
			httpx.ErrUnAuthorized("signature mismatch").Send(w)
			return
		}
		s.stats.record(r)
		next.ServeHTTP(w, r)
	})
}

func (s *Service) requestURL(r *http.Request) string {
	base := s.publicURL
	if base == "" {
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		base = scheme + "://" + r.Host
	}
	return strings.TrimSuffix(base, "/") + r.URL.RequestURI()
}
