package fakeservice

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/semantria/semantria-go/internal/common/apperrors"
	"github.com/semantria/semantria-go/internal/common/httpx"
	"github.com/semantria/semantria-go/pkg/semantria/serializer"
)

var (
	errUnsupportedFormat = apperrors.New("unsupported format").SetStatusCode(http.StatusNotFound)
	errBadPayload        = apperrors.New("unable to parse request data").SetStatusCode(http.StatusBadRequest)
	errEncode            = apperrors.New("unable to encode response").SetStatusCode(http.StatusInternalServerError)
)

// codec picks the serializer from the {format} URL parameter.
func codec(r *http.Request) (serializer.Serializer, error) {
	f, err := serializer.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		return nil, errUnsupportedFormat.Msgf("unsupported format %q", chi.URLParam(r, "format"))
	}
	ser, err := serializer.New(f)
	if err != nil {
		return nil, errUnsupportedFormat.Err(err)
	}
	return ser, nil
}

func respond(ser serializer.Serializer, status int, v any) (*httpx.Response, error) {
	body, err := ser.Marshal(v)
	if err != nil {
		return nil, errEncode.Err(err)
	}
	return &httpx.Response{StatusCode: status, ContentType: ser.Type().ContentType(), Body: body}, nil
}

func accepted() *httpx.Response {
	return &httpx.Response{StatusCode: http.StatusAccepted}
}

// respondList sends items with 200, or 202 when there are none.
func respondList[T any](ser serializer.Serializer, plural, item string, items []T) (*httpx.Response, error) {
	if len(items) == 0 {
		return accepted(), nil
	}
	if ser.Type() == serializer.FormatXML {
		return respond(ser, http.StatusOK, serializer.Wrap(plural, item, items))
	}
	return respond(ser, http.StatusOK, items)
}

func decodeList[T any](r *http.Request, ser serializer.Serializer, plural, item string) ([]T, error) {
	body, err := httpx.ReadBody(r)
	if err != nil {
		return nil, err
	}
	if ser.Type() == serializer.FormatXML {
		env := serializer.Wrap[T](plural, item, nil)
		if err := ser.Unmarshal(body, env); err != nil {
			return nil, errBadPayload.Err(err)
		}
		return env.Unwrap(), nil
	}
	var out []T
	if err := ser.Unmarshal(body, &out); err != nil {
		return nil, errBadPayload.Err(err)
	}
	return out, nil
}

func decodeOne[T any](r *http.Request, ser serializer.Serializer, name string) (T, error) {
	var zero T
	body, err := httpx.ReadBody(r)
	if err != nil {
		return zero, err
	}
	if ser.Type() == serializer.FormatXML {
		el := serializer.Element[T]{}
		if err := ser.Unmarshal(body, &el); err != nil {
			return zero, errBadPayload.Err(err)
		}
		if el.Name != name {
			return zero, errBadPayload.Msgf("expected <%s> element", name)
		}
		return el.Value, nil
	}
	var v T
	if err := ser.Unmarshal(body, &v); err != nil {
		return zero, errBadPayload.Err(err)
	}
	return v, nil
}
