// Package relay submits contact requests to the web3forms relay API.
package relay

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
)

const (
	// DefaultEndpoint is the public web3forms submit URL.
	DefaultEndpoint = "https://api.web3forms.com/submit"
	defaultTimeout  = 10 * time.Second
)

// ErrRejected is returned when the relay answers with an error status or success=false.
var ErrRejected = errors.New("relay: submission rejected")

// Payload is one contact request.
type Payload struct {
	Name     string
	Email    string
	Service  string
	Message  string
	Subject  string
	FromName string
	// Token is the anti-automation response token.
	Token string
}

// Response mirrors the relay reply.
type Response struct {
	Success bool
	Message string
	// Fake is set when no access key is configured and nothing was sent.
	Fake bool
}

// Submitter is satisfied by *Client and by test doubles.
type Submitter interface {
	Submit(ctx context.Context, p Payload) (Response, error)
}

// Client posts JSON to the relay. A client without an access key sends nothing
// and reports success.
type Client struct {
	endpoint  string
	accessKey string
	http      *http.Client
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// NewClient constructs a relay client. An empty endpoint uses DefaultEndpoint.
func NewClient(endpoint, accessKey string, opts ...Option) *Client {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	c := &Client{
		endpoint:  endpoint,
		accessKey: strings.TrimSpace(accessKey),
		http:      &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Enabled reports whether submissions leave the process.
func (c *Client) Enabled() bool { return c != nil && c.accessKey != "" }

// Submit sends p once. It never retries.
func (c *Client) Submit(ctx context.Context, p Payload) (Response, error) {
	if !c.Enabled() {
		return fakeResponse(), nil
	}

	body := map[string]string{
		"access_key": c.accessKey,
		"name":       strings.TrimSpace(p.Name),
		"email":      strings.TrimSpace(p.Email),
		"service":    strings.TrimSpace(p.Service),
		"message":    strings.TrimSpace(p.Message),
		"subject":    strings.TrimSpace(p.Subject),
	}
	if p.FromName != "" {
		body["from_name"] = p.FromName
	}
	if p.Token != "" {
		body["h-captcha-response"] = p.Token
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return Response{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return Response{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("relay: post: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return Response{}, fmt.Errorf("relay: read body: %w", err)
	}
	var decoded responsePayload
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil && resp.StatusCode < 400 {
			return Response{}, fmt.Errorf("relay: decode: %w", err)
		}
	}
	out := Response{Success: decoded.Success, Message: strings.TrimSpace(decoded.Message)}
	if resp.StatusCode >= 400 {
		return out, fmt.Errorf("%w: status %d: %s", ErrRejected, resp.StatusCode, firstNonEmpty(out.Message, drainText(raw)))
	}
	if !out.Success {
		return out, fmt.Errorf("%w: %s", ErrRejected, firstNonEmpty(out.Message, "success=false"))
	}
	return out, nil
}

type responsePayload struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func drainText(raw []byte) string {
	if len(raw) > 256 {
		raw = raw[:256]
	}
	return strings.TrimSpace(string(raw))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
