package service

import (
	"net/http"
	"time"
)

// Client talks to the broker's transaction-history REST API. Credentials are
// per account; the client itself only carries the shared endpoint.
type Client struct {
	http    *http.Client
	baseURL string
	token   string
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		http:    &http.Client{Timeout: 30 * time.Second},
		baseURL: baseURL,
		token:   token,
	}
}

// WithToken returns a copy bound to an account-specific token. The shared
// token stays in place when the account has none.
func (c *Client) WithToken(token string) *Client {
	if token == "" {
		return c
	}
	cp := *c
	cp.token = token
	return &cp
}
