// Package identity is a client for the external identity provider's admin
// API. The provider owns the authentication datastore; this package only
// issues the calls the application needs.
package identity

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/carlmjohnson/requests"
)

// Deleter removes a user's authentication record. Deletion is permanent;
// the provider is expected to error on an already-deleted account.
type Deleter interface {
	DeleteUser(ctx context.Context, userID string) error
}

// Config holds identity provider connection settings.
type Config struct {
	BaseURL string
	APIKey  string
}

// Client calls the identity provider's admin API.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewClient returns a new identity provider client.
func NewClient(cfg Config) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		client:  http.DefaultClient,
	}
}

// DeleteUser deletes the user's authentication record. The provider's error
// text is surfaced to the caller on failure.
func (c *Client) DeleteUser(ctx context.Context, userID string) error {
	return requests.URL(c.baseURL).
		Pathf("/v1/accounts/%s", userID).
		Method(http.MethodDelete).
		Header("Authorization", "Bearer "+c.apiKey).
		Client(c.client).
		AddValidator(nil).
		Handle(checkDeleteResponse).
		Fetch(ctx)
}

func checkDeleteResponse(res *http.Response) error {
	if res.StatusCode == http.StatusOK || res.StatusCode == http.StatusNoContent {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = res.Status
	}
	return fmt.Errorf("identity provider: %s", msg)
}
