package client

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
)

// TenantHeader carries the tenant scope of every request.
const TenantHeader = "X-Tenant-ID"

// BatchClient defines the interface for reading the batch management backend.
type BatchClient interface {
	ListBatches(ctx context.Context) ([]BatchRecord, error)
	GetBatch(ctx context.Context, id string) (*BatchRecord, error)
	ListRecipients(ctx context.Context, batchID string) ([]RecipientRecord, error)
	ListReminders(ctx context.Context, batchID string) ([]ReminderRecord, error)
	Ping(ctx context.Context) error
	BaseURL() string
}

// ClientConfig holds configuration for DefaultClient.
type ClientConfig struct {
	BaseURL            string
	Token              string
	TenantID           string
	InsecureSkipVerify bool
	RequestTimeout     time.Duration
}

// DefaultClient implements BatchClient on top of resty.
type DefaultClient struct {
	rest   *resty.Client
	config ClientConfig
}

// NewDefaultClient constructs a DefaultClient from the given config.
// Returns an error if BaseURL is empty.
func NewDefaultClient(cfg ClientConfig) (*DefaultClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("BaseURL is required")
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 10 * time.Second
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	rest := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.RequestTimeout).
		SetHeader("Accept", "application/json").
		SetTLSClientConfig(&tls.Config{
			InsecureSkipVerify: cfg.InsecureSkipVerify, //nolint:gosec
		})
	rest.JSONMarshal = json.Marshal
	rest.JSONUnmarshal = json.Unmarshal

	if cfg.Token != "" {
		rest.SetAuthToken(cfg.Token)
	}
	if cfg.TenantID != "" {
		rest.SetHeader(TenantHeader, cfg.TenantID)
	}

	return &DefaultClient{
		rest:   rest,
		config: cfg,
	}, nil
}

// BaseURL returns the configured base URL of the backend.
func (c *DefaultClient) BaseURL() string {
	return c.config.BaseURL
}

// TenantID returns the tenant the client is scoped to, or "".
func (c *DefaultClient) TenantID() string {
	return c.config.TenantID
}

// doGet performs a GET request to the given path (relative to BaseURL).
// Returns the response body bytes or an error on non-2xx status.
func (c *DefaultClient) doGet(ctx context.Context, path string) ([]byte, error) {
	resp, err := c.rest.R().
		SetContext(ctx).
		Get(path)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}

	body := resp.Body()
	if resp.IsError() || resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode(), truncate(body, 200))
	}
	return body, nil
}

// Ping checks connectivity by listing batches with a 1s timeout.
func (c *DefaultClient) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 1*time.Second)
	defer cancel()

	_, err := c.doGet(pingCtx, endpointBatches)
	return err
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
