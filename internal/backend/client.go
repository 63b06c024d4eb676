// Package backend talks to the deployment backend over HTTP.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Mohsinsiddi/w3deploy/internal/config"
	"github.com/Mohsinsiddi/w3deploy/internal/keystore"
	"github.com/sirupsen/logrus"
)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if len(body) > 200 {
		body = body[:200] + "…"
	}
	if body == "" {
		return fmt.Sprintf("%s %s: HTTP %d", e.Method, e.Path, e.Code)
	}
	return fmt.Sprintf("%s %s: HTTP %d: %s", e.Method, e.Path, e.Code, body)
}

// Client calls the deployment backend.
type Client struct {
	baseURL string
	client  *http.Client
	tokens  keystore.TokenStore
	log     *logrus.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithTokenStore attaches a bearer token from ts to every request, when one is stored.
func WithTokenStore(ts keystore.TokenStore) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithLogger sets the logger. The default discards everything below warn.
func WithLogger(l *logrus.Logger) Option {
	return func(c *Client) { c.log = l }
}

// NewClient creates a Client for baseURL.
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logrus.New()
		c.log.SetLevel(logrus.WarnLevel)
	}
	return c
}

// BaseURL returns the backend base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// RandomAddress asks the backend for a random candidate deployment address.
func (c *Client) RandomAddress(ctx context.Context) (string, error) {
	body, err := c.do(ctx, http.MethodGet, config.RouteRandomAddress, nil)
	if err != nil {
		return "", err
	}

	var resp struct {
		Address string `json:"address"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("parsing random address response: %w", err)
	}
	if resp.Address == "" {
		return "", fmt.Errorf("backend returned no address")
	}
	return resp.Address, nil
}

// CreateContract submits a deployment request. The backend's answer is opaque
// and returned as raw JSON.
func (c *Client) CreateContract(ctx context.Context, req *DeployRequest) (json.RawMessage, error) {
	payload, err := marshalNoEscape(req)
	if err != nil {
		return nil, fmt.Errorf("encoding deploy request: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, config.RouteCreateContract, payload)
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("deploy response is not JSON: %.100q", body)
	}

	c.log.WithFields(logrus.Fields{
		"network":  req.Network,
		"response": string(body),
	}).Info("contract submitted")
	return json.RawMessage(body), nil
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		tok, err := c.tokens.Token()
		switch {
		case err == nil:
			req.Header.Set("Authorization", "Bearer "+tok)
		case !errors.Is(err, keystore.ErrNoToken):
			c.log.WithError(err).Warn("could not read backend token; sending request without it")
		}
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s response: %w", path, err)
	}

	c.log.WithFields(logrus.Fields{
		"method":  method,
		"path":    path,
		"status":  resp.StatusCode,
		"elapsed": time.Since(start).Round(time.Millisecond),
	}).Debug("backend request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Method: method, Path: path, Code: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}
