// Package auth resolves the key pair used to sign API requests. Callers
// either supply the pair directly (APIKey) or log in with a user name and
// password (UserLogin), in which case a session is negotiated with the
// authorization endpoint and its id is cached on disk between runs.
package auth

import (
	"net/mail"
	"strings"
)

// Credentials is one of APIKey or UserLogin.
type Credentials interface {
	mode() Mode
}

// Mode tells how a Provider obtains its keys.
type Mode int

const (
	ModeAPIKey Mode = iota + 1
	ModeSession
)

func (m Mode) String() string {
	switch m {
	case ModeAPIKey:
		return "api-key"
	case ModeSession:
		return "session"
	}
	return "unknown"
}

// APIKey signs requests with a caller supplied consumer key and secret.
type APIKey struct {
	Key    string `validate:"required"`
	Secret string `validate:"required"`
}

func (APIKey) mode() Mode { return ModeAPIKey }

// UserLogin negotiates a session with the authorization endpoint. With
// ReuseSession set a cached session id is validated before a new session is
// created.
type UserLogin struct {
	Username     string `validate:"required"`
	Password     string `validate:"required"`
	ReuseSession bool
}

func (UserLogin) mode() Mode { return ModeSession }

func isEmail(s string) bool {
	if !strings.Contains(s, "@") {
		return false
	}
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}
