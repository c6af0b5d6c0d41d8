package jellyfin

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"dbvoir/internal/config"
)

// ErrMissingCredential reports an empty API key. It is detected before any
// network I/O so callers can fail fast with a clear message.
var ErrMissingCredential = errors.New("jellyfin api key is not configured")

// HTTPDoer describes the HTTP client used by the Jellyfin service.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client triggers Jellyfin library rescans over the REST API.
type Client struct {
	baseURL   string
	apiKey    string
	libraryID string
	client    HTTPDoer
}

// NewFromConfig builds a rescan client from application configuration.
func NewFromConfig(cfg *config.Config) *Client {
	if cfg == nil {
		return New("", "", "", nil)
	}
	return New(cfg.Jellyfin.URL, cfg.Jellyfin.APIKey, cfg.Jellyfin.LibraryID, nil)
}

// New constructs a rescan client. A nil doer falls back to
// http.DefaultClient.
func New(baseURL, apiKey, libraryID string, doer HTTPDoer) *Client {
	if doer == nil {
		doer = http.DefaultClient
	}
	return &Client{
		baseURL:   strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiKey:    strings.TrimSpace(apiKey),
		libraryID: strings.TrimSpace(libraryID),
		client:    doer,
	}
}

// Configured reports whether the client has the credentials needed to issue
// a refresh request.
func (c *Client) Configured() bool {
	return c != nil && c.baseURL != "" && c.apiKey != ""
}

// RefreshURL returns the exact URL a refresh request is sent to. The item-id
// filter is appended only when a library id is configured.
func (c *Client) RefreshURL() string {
	refreshURL := fmt.Sprintf("%s/Library/Refresh?Recursive=true&MetadataRefreshMode=Default", c.baseURL)
	if c.libraryID != "" {
		refreshURL += "&ItemIds=" + url.QueryEscape(c.libraryID)
	}
	return refreshURL
}

// Refresh issues one library refresh request. It fails before any I/O when
// the API key is missing, and makes a single attempt with no retry.
func (c *Client) Refresh(ctx context.Context) error {
	if c == nil || c.apiKey == "" {
		return ErrMissingCredential
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.RefreshURL(), nil)
	if err != nil {
		return fmt.Errorf("build jellyfin refresh request: %w", err)
	}
	req.Header.Set("X-Emby-Token", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("refresh jellyfin library: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("jellyfin refresh returned %d", resp.StatusCode)
	}
	return nil
}
