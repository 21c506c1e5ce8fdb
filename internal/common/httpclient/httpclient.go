package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/rs/zerolog"
	"github.com/semantria/semantria-go/internal/common/apperrors"
	"github.com/semantria/semantria-go/internal/common/logtrace"
)

const (
	// WrapperName identifies this client library in the x-app-name header.
	WrapperName = "Go"
	// DefaultTimeout bounds every request when Options.Timeout is zero.
	DefaultTimeout = 120 * time.Second
)

// ErrTransport is matched by every TransportError.
var ErrTransport apperrors.Error = apperrors.New("transport error")

// TransportError reports a failure that happened before a status code was
// obtained. It is never retried by this package.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == error(ErrTransport) }

// KeyPair is the consumer key and secret used to sign a request.
type KeyPair struct {
	Key    string
	Secret string
}

// Options configures a Client.
type Options struct {
	Timeout        time.Duration
	UseCompression bool
	APIVersion     string
	AppName        string
	HTTPClient     *http.Client
	// Logger receives debug events. Nil disables logging.
	Logger         *zerolog.Logger

	// BeforeRequest is called once the request is fully built, right before
	// it is sent.
	BeforeRequest func(RequestInfo)
	// AfterResponse is called for every response regardless of status.
	AfterResponse func(*Response)
}

// Request describes one call. URL is absolute and carries no signing
// parameters; Query is merged into it before signing.
type Request struct {
	Method      string
	URL         string
	Query       url.Values
	Body        []byte
	ContentType string
	// Format is the wire format tag reported in x-app-name ("json", "xml").
	Format string
	// Binary marks responses that must be returned as raw bytes.
	Binary bool
	// Keys signs the request when set.
	Keys *KeyPair
}

// RequestInfo is what BeforeRequest observers see. Body is uncompressed.
type RequestInfo struct {
	Method string
	URL    string
	Body   []byte
}

// Response is the normalized outcome of a call that produced a status code.
type Response struct {
	Method string
	URL    string
	Status int
	Header http.Header
	Body   []byte
	Binary bool
}

// Text returns the body as a string. Binary bodies are returned verbatim.
func (r *Response) Text() string { return string(r.Body) }

// Client sends signed requests.
type Client struct {
	opts       Options
	httpClient *http.Client
	logger     zerolog.Logger
}

// New creates a client. The supplied http.Client is used as is; otherwise a
// fresh one with the configured timeout is created.
func New(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	return &Client{
		opts:       opts,
		httpClient: hc,
		logger:     logger.With().Str("component", "httpclient").Logger(),
	}
}

// AppName returns the x-app-name value for the given format.
func (c *Client) AppName(format string) string {
	name := fmt.Sprintf("%s/%s/%s", WrapperName, c.opts.APIVersion, strings.ToUpper(format))
	if c.opts.AppName != "" {
		name = c.opts.AppName + "/" + name
	}
	return name
}

// Do builds, signs and sends req.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	target, err := c.buildURL(req)
	if err != nil {
		return nil, &TransportError{Method: req.Method, URL: req.URL, Err: err}
	}

	body := req.Body
	if c.opts.UseCompression && len(body) > 0 {
		body, err = compress(body)
		if err != nil {
			return nil, &TransportError{Method: req.Method, URL: req.URL, Err: err}
		}
	}

	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, reader)
	if err != nil {
		return nil, &TransportError{Method: req.Method, URL: req.URL, Err: err}
	}
	c.setHeaders(httpReq, req, target)

	if c.opts.BeforeRequest != nil {
		c.opts.BeforeRequest(RequestInfo{Method: req.Method, URL: target, Body: req.Body})
	}

	logger := c.logger.With().Str("method", req.Method).Str("url", req.URL).Logger()
	if id := logtrace.RequestIdFromContext(ctx); id != "" {
		logger = logger.With().Str("request_id", id).Logger()
	}
	start := time.Now()
	logger.Debug().Int("bytes", len(req.Body)).Msg("sending request")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		logger.Debug().Err(err).Msg("request failed")
		return nil, &TransportError{Method: req.Method, URL: req.URL, Err: err}
	}
	defer resp.Body.Close()

	data, err := readBody(resp)
	if err != nil {
		return nil, &TransportError{Method: req.Method, URL: req.URL, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	out := &Response{
		Method: req.Method,
		URL:    req.URL,
		Status: resp.StatusCode,
		Header: resp.Header,
		Body:   data,
		Binary: req.Binary,
	}
	logger.Debug().Int("status", out.Status).Dur("elapsed", time.Since(start)).Msg("received response")

	if c.opts.AfterResponse != nil {
		c.opts.AfterResponse(out)
	}
	return out, nil
}

func (c *Client) buildURL(req Request) (string, error) {
	u, err := url.Parse(req.URL)
	if err != nil {
		return "", fmt.Errorf("invalid url: %w", err)
	}
	q := u.Query()
	for k, vs := range req.Query {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	if req.Keys != nil {
		return SignURL(u, q, *req.Keys, newNonce(), time.Now().Unix()), nil
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (c *Client) setHeaders(httpReq *http.Request, req Request, target string) {
	if req.Keys != nil {
		httpReq.Header.Set("Authorization", AuthorizationHeader(req.Keys.Key, Signature(target, req.Keys.Secret)))
	}
	if len(req.Body) > 0 {
		ct := req.ContentType
		if ct == "" {
			ct = "application/json"
		}
		httpReq.Header.Set("Content-Type", ct)
	}
	if req.Format != "" {
		httpReq.Header.Set("x-app-name", c.AppName(req.Format))
	}
	if c.opts.APIVersion != "" {
		httpReq.Header.Set("x-api-version", c.opts.APIVersion)
	}
	if c.opts.UseCompression {
		httpReq.Header.Set("Accept-Encoding", "gzip, deflate")
		if len(req.Body) > 0 {
			httpReq.Header.Set("Content-Encoding", "gzip")
		}
	}
}

func compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func readBody(resp *http.Response) ([]byte, error) {
	var r io.Reader = resp.Body
	switch strings.ToLower(resp.Header.Get("Content-Encoding")) {
	case "gzip":
		zr, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		r = zr
	case "deflate":
		fr := flate.NewReader(resp.Body)
		defer fr.Close()
		r = fr
	}
	return io.ReadAll(r)
}
