// Package plane provides functionality for interacting with the Plane API.
package plane

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/danielolaszy/orbit/internal/config"
	"github.com/danielolaszy/orbit/internal/logging"
)

// maxErrorBodyBytes caps how much of a failed response body is carried in an
// APIError, so error messages stay readable.
const maxErrorBodyBytes = 512

// APIError describes a non-2xx response from the Plane API.
type APIError struct {
	// StatusCode is the HTTP status returned by the remote
	StatusCode int

	// Body is the response body, truncated to maxErrorBodyBytes
	Body string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("plane api returned status %d: %s", e.StatusCode, e.Body)
}

// Client encapsulates the Plane API client.
type Client struct {
	httpClient *http.Client
	baseURL    string
	workspace  string
	apiKey     string
}

// NewClient creates a new Plane API client using configuration from
// environment variables. Authentication uses the X-API-Key header when an API
// key is configured, or an OAuth bearer token otherwise. It returns the
// configured client or an error if configuration is incomplete.
func NewClient() (*Client, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logging.Info("plane configuration",
		"base_url", cfg.Plane.BaseURL,
		"workspace", cfg.Plane.Workspace,
		"api_key", logging.MaskSensitive(cfg.Plane.APIKey))

	return NewClientWithConfig(cfg), nil
}

// NewClientWithConfig creates a Plane API client from an already-loaded
// configuration. The configuration is assumed to be validated.
func NewClientWithConfig(cfg *config.Config) *Client {
	httpClient := &http.Client{Timeout: 30 * time.Second}

	// Without an API key, authenticate with the OAuth access token via a
	// bearer-token transport.
	if cfg.Plane.APIKey == "" && cfg.Plane.AccessToken != "" {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: cfg.Plane.AccessToken},
		)
		httpClient = oauth2.NewClient(context.Background(), ts)
		httpClient.Timeout = 30 * time.Second
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    cfg.Plane.BaseURL,
		workspace:  cfg.Plane.Workspace,
		apiKey:     cfg.Plane.APIKey,
	}
}

// workspacePath builds a resource path scoped under the workspace slug.
func (c *Client) workspacePath(resource string) string {
	return fmt.Sprintf("/api/v1/workspaces/%s/%s/", c.workspace, resource)
}

// projectPath builds a resource path scoped under the workspace slug and a
// project id.
func (c *Client) projectPath(projectID, resource string) string {
	return fmt.Sprintf("/api/v1/workspaces/%s/projects/%s/%s/", c.workspace, projectID, resource)
}

// do performs a single request against the Plane API and returns the response
// body. Statuses in [200,300) are success; anything else is returned as an
// *APIError carrying the status and a truncated body.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	requestURL := c.baseURL + path
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %v", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %v", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	logging.Debug("plane api request",
		"method", method,
		"path", path,
		"request_id", req.Header.Get("X-Request-ID"))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %v", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %v", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		truncated := string(data)
		if len(truncated) > maxErrorBodyBytes {
			truncated = truncated[:maxErrorBodyBytes]
		}
		logging.Error("plane api request failed",
			"method", method,
			"path", path,
			"status_code", resp.StatusCode)
		return nil, &APIError{StatusCode: resp.StatusCode, Body: truncated}
	}

	return data, nil
}
