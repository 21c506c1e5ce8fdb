// Package httpx holds the server side helpers used by the mock service:
// handler wrapping with uniform error responses, body decompression and
// negotiated response compression.
package httpx

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/rs/zerolog/log"
	"github.com/semantria/semantria-go/internal/common/apperrors"
)

// MaxBodySize bounds request bodies read by ReadBody.
const MaxBodySize = 8 << 20

// Response is what a RequestHandler returns on success. A nil Body sends
// headers only.
type Response struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// RequestHandler handles a request and returns the response or an error.
type RequestHandler func(r *http.Request) (*Response, error)

// WrapHttpRsp adapts a RequestHandler to http.HandlerFunc. Errors are sent
// with SendError; bodies are gzip encoded when the client accepts it.
func WrapHttpRsp(handler RequestHandler) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rsp, err := handler(r)
		if err != nil {
			SendError(w, err)
			return
		}
		if rsp == nil {
			ErrApplicationError().Send(w)
			return
		}
		Write(w, r, rsp)
	})
}

// Write sends rsp, compressing the body when r accepts gzip.
func Write(w http.ResponseWriter, r *http.Request, rsp *Response) {
	if len(rsp.Body) == 0 {
		w.WriteHeader(rsp.StatusCode)
		return
	}
	if rsp.ContentType != "" {
		w.Header().Set("Content-Type", rsp.ContentType)
	}
	body := rsp.Body
	if strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		if _, err := zw.Write(body); err == nil && zw.Close() == nil {
			body = buf.Bytes()
			w.Header().Set("Content-Encoding", "gzip")
		}
	}
	w.WriteHeader(rsp.StatusCode)
	if _, err := w.Write(body); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("unable to write response")
	}
}

// ReadBody returns the request body, decompressing gzip bodies.
func ReadBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	var reader io.Reader = io.LimitReader(r.Body, MaxBodySize+1)
	if strings.EqualFold(r.Header.Get("Content-Encoding"), "gzip") {
		zr, err := gzip.NewReader(reader)
		if err != nil {
			return nil, ErrUnableToParseReqData()
		}
		defer zr.Close()
		reader = io.LimitReader(zr, MaxBodySize+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, ErrUnableToReadRequest()
	}
	if len(data) > MaxBodySize {
		return nil, ErrRequestTooLarge(MaxBodySize)
	}
	return data, nil
}

// SendError writes err as an error response. apperrors.Error values use
// their status code, anything else is a 500.
func SendError(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	switch e := err.(type) {
	case *Error:
		e.Send(w)
	case apperrors.Error:
		status := e.StatusCode()
		if status == 0 {
			status = http.StatusInternalServerError
		}
		(&Error{StatusCode: status, Description: e.Error()}).Send(w)
	default:
		ErrApplicationError(err.Error()).Send(w)
	}
}
