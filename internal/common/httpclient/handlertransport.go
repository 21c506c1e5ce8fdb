package httpclient

import (
	"net/http"
	"net/http/httptest"
)

// HandlerTransport is an http.RoundTripper that serves requests with an
// in-process handler through httptest.NewRecorder, so a Client can talk to a
// fake service without opening sockets.
type HandlerTransport struct {
	Handler http.Handler
}

func (t HandlerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	rec := httptest.NewRecorder()
	if req.Host == "" {
		req.Host = req.URL.Host
	}
	if req.RequestURI == "" {
		req.RequestURI = req.URL.RequestURI()
	}
	t.Handler.ServeHTTP(rec, req)
	resp := rec.Result()
	resp.Request = req
	return resp, nil
}

// NewHandlerClient returns an http.Client routed to h.
func NewHandlerClient(h http.Handler) *http.Client {
	return &http.Client{Transport: HandlerTransport{Handler: h}}
}
