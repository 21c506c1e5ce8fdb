// Package httpclient executes signed requests against the analytics API and
// its authorization endpoint. It builds the request URL, appends the OAuth
// style signature derived from the active key pair, identifies the client,
// optionally compresses bodies and returns a normalized Response. Status
// classification is left to the caller.
package httpclient

import "context"

// Doer is implemented by Client and by anything that can stand in for it in
// tests.
type Doer interface {
	// Do sends req and returns the response for any HTTP status. Only
	// failures that prevent obtaining a status code return an error.
	Do(ctx context.Context, req Request) (*Response, error)
}

var _ Doer = &Client{}
