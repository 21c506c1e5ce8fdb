package auth

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/semantria/semantria-go/internal/common/httpclient"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const (
	// DefaultAuthHost is the authorization endpoint.
	DefaultAuthHost = "https://semantria.com/auth"
	// AppKey identifies client libraries to the authorization endpoint.
	AppKey = "cd954253-acaf-4dfa-a417-0a8cfb701f12"
)

// Session is what the authorization endpoint returns for a session.
type Session struct {
	ID   string
	Keys httpclient.KeyPair
}

// Client talks to the authorization endpoint.
type Client struct {
	host   string
	appKey string
	doer   httpclient.Doer
}

// NewClient returns a client for the endpoint at host.
func NewClient(doer httpclient.Doer, host, appKey string) *Client {
	if host == "" {
		host = DefaultAuthHost
	}
	if appKey == "" {
		appKey = AppKey
	}
	return &Client{host: strings.TrimSuffix(host, "/"), appKey: appKey, doer: doer}
}

// CreateSession opens a new session for the given user.
func (c *Client) CreateSession(ctx context.Context, username, password string) (*Session, error) {
	body, err := requestBody(username, password)
	if err != nil {
		return nil, &Error{Op: "create session", Err: err}
	}
	resp, err := c.doer.Do(ctx, httpclient.Request{
		Method:      http.MethodPost,
		URL:         c.host + "/session.json",
		Query:       url.Values{"appkey": {c.appKey}},
		Body:        body,
		ContentType: "application/json",
		Format:      "json",
	})
	if err != nil {
		return nil, err
	}
	return parseSession("create session", resp)
}

// ValidateSession refreshes an existing session. Expired sessions answer 404.
func (c *Client) ValidateSession(ctx context.Context, id string) (*Session, error) {
	resp, err := c.doer.Do(ctx, httpclient.Request{
		Method: http.MethodGet,
		URL:    c.host + "/session/" + url.PathEscape(id) + ".json",
		Query:  url.Values{"appkey": {c.appKey}},
		Format: "json",
	})
	if err != nil {
		return nil, err
	}
	return parseSession("validate session", resp)
}

func requestBody(username, password string) ([]byte, error) {
	field := "username"
	if isEmail(username) {
		field = "email"
	}
	body, err := sjson.SetBytes([]byte(`{}`), field, username)
	if err != nil {
		return nil, err
	}
	return sjson.SetBytes(body, "password", password)
}

func parseSession(op string, resp *httpclient.Response) (*Session, error) {
	if resp.Status != http.StatusOK {
		msg := gjson.GetBytes(resp.Body, "error_message").String()
		if msg == "" {
			msg = strings.TrimSpace(resp.Text())
		}
		return nil, &Error{Op: op, Status: resp.Status, Message: msg}
	}
	if !gjson.ValidBytes(resp.Body) {
		return nil, &Error{Op: op, Status: resp.Status, Message: "malformed session response"}
	}
	r := gjson.ParseBytes(resp.Body)
	s := &Session{
		ID: r.Get("id").String(),
		Keys: httpclient.KeyPair{
			Key:    r.Get("custom_params.key").String(),
			Secret: r.Get("custom_params.secret").String(),
		},
	}
	if s.ID == "" || s.Keys.Key == "" || s.Keys.Secret == "" {
		return nil, &Error{Op: op, Status: resp.Status, Message: "session response is missing id or keys"}
	}
	return s, nil
}
