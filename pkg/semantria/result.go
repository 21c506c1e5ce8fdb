package semantria

import "net/http"

// Result is a successful call outcome. Status is 200 when Value was decoded
// from the response body and 202 when the service accepted the request
// without returning a body.
type Result[T any] struct {
	Status int
	Value  T
}

// Accepted reports a 202 outcome: no result yet. It is distinct from a 200
// carrying an empty list.
func (r Result[T]) Accepted() bool { return r.Status == http.StatusAccepted }

// OK reports a 200 outcome.
func (r Result[T]) OK() bool { return r.Status == http.StatusOK }
