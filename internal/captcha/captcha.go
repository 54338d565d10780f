// Package captcha verifies hCaptcha response tokens.
package captcha

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultVerifyURL = "https://api.hcaptcha.com/siteverify"
	defaultTimeout   = 5 * time.Second
)

var (
	// ErrMissingToken is returned for an empty response token.
	ErrMissingToken = errors.New("captcha: missing token")
	// ErrInvalidToken is returned when the provider rejects the token.
	ErrInvalidToken = errors.New("captcha: invalid token")
)

// Verifier checks a response token issued to the widget.
type Verifier interface {
	Verify(ctx context.Context, token, remoteIP string) error
}

// Client talks to the siteverify endpoint. Without a secret it only checks
// that a token is present.
type Client struct {
	siteKey   string
	secret    string
	verifyURL string
	http      *http.Client
}

// NewClient builds a verifier. An empty verifyURL uses DefaultVerifyURL.
func NewClient(siteKey, secret, verifyURL string) *Client {
	verifyURL = strings.TrimSpace(verifyURL)
	if verifyURL == "" {
		verifyURL = DefaultVerifyURL
	}
	return &Client{
		siteKey:   strings.TrimSpace(siteKey),
		secret:    strings.TrimSpace(secret),
		verifyURL: verifyURL,
		http:      &http.Client{Timeout: defaultTimeout},
	}
}

// SiteKey is the public key rendered into the widget.
func (c *Client) SiteKey() string { return c.siteKey }

// Enabled reports whether tokens are verified server-side.
func (c *Client) Enabled() bool { return c.secret != "" }

func (c *Client) Verify(ctx context.Context, token, remoteIP string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrMissingToken
	}
	if !c.Enabled() {
		return nil
	}

	form := url.Values{}
	form.Set("secret", c.secret)
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}
	if c.siteKey != "" {
		form.Set("sitekey", c.siteKey)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("captcha: verify: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("captcha: verify status %d", resp.StatusCode)
	}
	var out verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("captcha: decode: %w", err)
	}
	if !out.Success {
		return fmt.Errorf("%w: %s", ErrInvalidToken, strings.Join(out.ErrorCodes, ","))
	}
	return nil
}

type verifyResponse struct {
	Success    bool     `json:"success"`
	Hostname   string   `json:"hostname"`
	ErrorCodes []string `json:"error-codes"`
}
