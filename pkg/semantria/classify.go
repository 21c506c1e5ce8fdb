package semantria

import (
	"context"
	"net/http"
	"strings"

	"github.com/semantria/semantria-go/internal/common/httpclient"
	"github.com/semantria/semantria-go/pkg/semantria/serializer"
	"github.com/tidwall/gjson"
)

// Outcome is the classification of a response status.
type Outcome int

const (
	OutcomeError Outcome = iota
	OutcomeOK
	OutcomeAccepted
)

// Classify maps a status code to an Outcome.
func Classify(status int) Outcome {
	switch status {
	case http.StatusOK:
		return OutcomeOK
	case http.StatusAccepted:
		return OutcomeAccepted
	}
	return OutcomeError
}

// check turns an error status into a ServiceError delivered through the
// error event.
func (s *Session) check(kind string, resp *httpclient.Response) (Outcome, error) {
	o := Classify(resp.Status)
	if o != OutcomeError {
		return o, nil
	}
	return o, s.raise(&ServiceError{
		Kind:    kind,
		Method:  resp.Method,
		Status:  resp.Status,
		Message: errorMessage(resp),
	})
}

func (s *Session) raise(err *ServiceError) error {
	s.logger.Debug().Str("kind", err.Kind).Int("status", err.Status).Str("message", err.Message).Msg("service error")
	if s.obs.fireError(ErrorEvent{Kind: err.Kind, Status: err.Status, Message: err.Message}) {
		return &handledError{err: err}
	}
	return err
}

func errorMessage(resp *httpclient.Response) string {
	if resp.Binary {
		return http.StatusText(resp.Status)
	}
	if gjson.ValidBytes(resp.Body) {
		for _, field := range []string{"error_message", "message", "error"} {
			if v := gjson.GetBytes(resp.Body, field); v.Exists() && v.String() != "" {
				return v.String()
			}
		}
	}
	if msg := strings.TrimSpace(resp.Text()); msg != "" {
		return msg
	}
	return http.StatusText(resp.Status)
}

// do performs c and decodes a 200 body into a T. decode receives the
// serializer the request was made with.
func do[T any](ctx context.Context, s *Session, c call, decode func(serializer.Serializer, []byte) (T, error)) (Result[T], error) {
	ser := s.serializer()
	resp, err := s.send(ctx, ser, c)
	if err != nil {
		return Result[T]{}, err
	}
	o, err := s.check(c.kind, resp)
	if err != nil {
		return Result[T]{Status: resp.Status}, err
	}
	res := Result[T]{Status: resp.Status}
	if o == OutcomeAccepted || decode == nil || len(resp.Body) == 0 {
		return res, nil
	}
	v, err := decode(ser, resp.Body)
	if err != nil {
		return res, err
	}
	res.Value = v
	return res, nil
}

// decodeOne decodes a single object. XML roots are not checked.
func decodeOne[T any](ser serializer.Serializer, data []byte) (*T, error) {
	v := new(T)
	if err := ser.Unmarshal(data, v); err != nil {
		return nil, err
	}
	return v, nil
}

// decodeList returns a decoder for list payloads. XML lists are unwrapped
// from the plural/item envelope; JSON lists are decoded as is.
func decodeList[T any](plural, item string) func(serializer.Serializer, []byte) ([]T, error) {
	return func(ser serializer.Serializer, data []byte) ([]T, error) {
		if ser.Type() == serializer.FormatXML {
			env := serializer.Wrap[T](plural, item, nil)
			if err := ser.Unmarshal(data, env); err != nil {
				return nil, err
			}
			return env.Unwrap(), nil
		}
		var out []T
		if err := ser.Unmarshal(data, &out); err != nil {
			return nil, err
		}
		return out, nil
	}
}

// encodeList returns the body for a list payload in the serializer's format.
func encodeList[T any](ser serializer.Serializer, plural, item string, items []T) any {
	if ser.Type() == serializer.FormatXML {
		return serializer.Wrap(plural, item, items)
	}
	return items
}

// encodeOne returns the body for a single object.
func encodeOne[T any](ser serializer.Serializer, name string, v T) any {
	if ser.Type() == serializer.FormatXML {
		return &serializer.Element[T]{Name: name, Value: v}
	}
	return v
}
