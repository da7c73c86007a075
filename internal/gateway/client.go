// Package gateway is the typed HTTP client for the remote App Store API.
// One stateless request/response method per server operation; no retries,
// no caching. List and detail reads degrade to empty/absent results on
// non-success statuses so callers can render an empty state; writes return
// errors and leave local state untouched.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/airwuu/appstore/internal/models"
	"github.com/airwuu/appstore/internal/query"
	"github.com/google/uuid"
)

const (
	defaultTimeout     = 15 * time.Second
	defaultMaxBodySize = 1 << 20 // 1MiB
)

// Config configures the App Store API client.
type Config struct {
	// BaseURL is the base URL of the remote API (e.g. http://localhost:5000/api).
	BaseURL string
	// HTTPClient is used to execute requests. When nil, a default client
	// bounded by Timeout is used.
	HTTPClient *http.Client
	// Timeout bounds each request when HTTPClient is nil. Zero means the
	// default timeout.
	Timeout time.Duration
	// MaxBodyBytes caps response bodies to prevent memory exhaustion.
	MaxBodyBytes int64
}

// Client issues requests against the remote App Store API.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	maxBodyBytes int64
}

// New creates a new App Store API client.
func New(cfg Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("gateway: BaseURL is required")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("gateway: BaseURL must be a valid URL")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("gateway: BaseURL scheme must be http or https")
	}
	if parsed.User != nil {
		return nil, fmt.Errorf("gateway: BaseURL must not include user info")
	}

	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	} else if client.Timeout == 0 {
		client.Timeout = defaultTimeout
	}

	maxBodyBytes := cfg.MaxBodyBytes
	if maxBodyBytes <= 0 {
		maxBodyBytes = defaultMaxBodySize
	}

	return &Client{
		baseURL:      baseURL,
		httpClient:   client,
		maxBodyBytes: maxBodyBytes,
	}, nil
}

// do executes one request with a JSON body (optional) and returns the
// response. Every outbound request carries a fresh X-Request-ID.
func (c *Client) do(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var bodyReader io.Reader = http.NoBody
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("gateway: marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("gateway: create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway: execute request: %w", err)
	}
	return resp, nil
}

// getList fetches path and decodes a JSON array into out. A non-success
// status logs a diagnostic and leaves out untouched (render-empty policy);
// only transport and decode failures surface as errors.
func (c *Client) getList(ctx context.Context, path string, out interface{}) error {
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		drainStatus(resp, path)
		return nil
	}

	dec := json.NewDecoder(io.LimitReader(resp.Body, c.maxBodyBytes))
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("gateway: decode %s response: %w", path, err)
	}
	return nil
}

// mutate executes a write and fails on any non-success status.
func (c *Client) mutate(ctx context.Context, method, path string, body interface{}) error {
	resp, err := c.do(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("gateway: %s %s: %s", method, path, statusMessage(resp))
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, c.maxBodyBytes))
	return nil
}

// statusMessage renders a short error from a non-success response.
func statusMessage(resp *http.Response) string {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	msg := ""
	if err == nil {
		msg = strings.TrimSpace(string(body))
	}
	if msg == "" {
		return resp.Status
	}
	return resp.Status + ": " + msg
}

func drainStatus(resp *http.Response, path string) {
	log.Printf("gateway: GET %s returned %s, rendering empty", path, resp.Status)
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
}

// Search executes one composed listing request. Implements query.Searcher.
func (c *Client) Search(ctx context.Context, req query.Request) ([]models.App, error) {
	var apps []models.App
	if err := c.getList(ctx, req.Encode(), &apps); err != nil {
		return nil, err
	}
	if apps == nil {
		apps = []models.App{}
	}
	return apps, nil
}

// AppDetails fetches the detail payload for one app. Returns (nil, nil) when
// the app does not exist upstream or the read fails with a non-success status.
func (c *Client) AppDetails(ctx context.Context, appID int64) (*models.AppDetails, error) {
	path := fmt.Sprintf("/apps/%d", appID)
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		drainStatus(resp, path)
		return nil, nil
	}

	var details models.AppDetails
	dec := json.NewDecoder(io.LimitReader(resp.Body, c.maxBodyBytes))
	if err := dec.Decode(&details); err != nil {
		return nil, fmt.Errorf("gateway: decode %s response: %w", path, err)
	}
	return &details, nil
}

// Categories lists the store's category reference data.
func (c *Client) Categories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := c.getList(ctx, "/categories", &categories); err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []models.Category{}
	}
	return categories, nil
}

// Users lists all users. The login picker is built from this.
func (c *Client) Users(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.getList(ctx, "/users", &users); err != nil {
		return nil, err
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

// CreateAppInput is the admin app-creation payload.
type CreateAppInput struct {
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Icon        string   `json:"icon"`
	Images      []string `json:"images"`
	DeveloperID int64    `json:"developer_id"`
}

// CreateApp creates a new store listing (admin operation).
func (c *Client) CreateApp(ctx context.Context, in CreateAppInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("gateway: app name is required")
	}
	if in.Price < 0 {
		return fmt.Errorf("gateway: price must be non-negative")
	}
	return c.mutate(ctx, http.MethodPost, "/apps", in)
}

// Install records a download of appID for userID.
func (c *Client) Install(ctx context.Context, appID, userID int64) error {
	if userID <= 0 {
		return fmt.Errorf("gateway: user id is required")
	}
	path := fmt.Sprintf("/apps/%d/download", appID)
	return c.mutate(ctx, http.MethodPost, path, map[string]int64{"user_id": userID})
}

// Uninstall removes the download record of appID for userID.
func (c *Client) Uninstall(ctx context.Context, appID, userID int64) error {
	if userID <= 0 {
		return fmt.Errorf("gateway: user id is required")
	}
	path := fmt.Sprintf("/apps/%d/download", appID)
	return c.mutate(ctx, http.MethodDelete, path, map[string]int64{"user_id": userID})
}

// CommentInput is the review create/edit payload.
type CommentInput struct {
	UserID  int64  `json:"user_id"`
	Stars   int    `json:"stars"`
	Comment string `json:"comment"`
}

func (in CommentInput) validate() error {
	if in.UserID <= 0 {
		return fmt.Errorf("gateway: user id is required")
	}
	if in.Stars < 1 || in.Stars > 5 {
		return fmt.Errorf("gateway: stars must be between 1 and 5")
	}
	if strings.TrimSpace(in.Comment) == "" {
		return fmt.Errorf("gateway: comment text is required")
	}
	return nil
}

// CreateComment posts a new review against an app.
func (c *Client) CreateComment(ctx context.Context, appID int64, in CommentInput) error {
	if err := in.validate(); err != nil {
		return err
	}
	path := fmt.Sprintf("/apps/%d/comments", appID)
	return c.mutate(ctx, http.MethodPost, path, in)
}

// UpdateComment edits an existing review. The remote API is the authority on
// ownership; a mismatched user_id is rejected there.
func (c *Client) UpdateComment(ctx context.Context, commentID int64, in CommentInput) error {
	if err := in.validate(); err != nil {
		return err
	}
	path := fmt.Sprintf("/comments/%d", commentID)
	return c.mutate(ctx, http.MethodPut, path, in)
}

// DeleteComment removes a review on behalf of userID.
func (c *Client) DeleteComment(ctx context.Context, commentID, userID int64) error {
	if userID <= 0 {
		return fmt.Errorf("gateway: user id is required")
	}
	path := fmt.Sprintf("/comments/%d", commentID)
	return c.mutate(ctx, http.MethodDelete, path, map[string]int64{"user_id": userID})
}

// ReportApp files a report against an app. The reason must be non-empty;
// no authentication is required for reports.
func (c *Client) ReportApp(ctx context.Context, appID int64, reason string) error {
	if strings.TrimSpace(reason) == "" {
		return fmt.Errorf("gateway: report reason is required")
	}
	path := fmt.Sprintf("/apps/%d/report", appID)
	return c.mutate(ctx, http.MethodPost, path, map[string]string{"reason": reason})
}
