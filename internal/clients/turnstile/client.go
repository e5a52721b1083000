// Package turnstile verifies Cloudflare Turnstile widget tokens.
package turnstile

import (
	"baysawaar-server/internal/observability"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultVerifyURL = "https://challenges.cloudflare.com/turnstile/v0/siteverify"
	// siteverify rejects longer tokens outright
	maxTokenLength = 2048
)

var (
	ErrInvalidToken     = errors.New("invalid captcha token")
	ErrVerificationFail = errors.New("captcha verification failed")
)

type siteverifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
	Hostname   string   `json:"hostname"`
	Action     string   `json:"action"`
}

// Client verifies tokens against siteverify. A client without a secret key
// is disabled.
type Client struct {
	secretKey  string
	verifyURL  string
	hostname   string
	httpClient *http.Client
	logger     *observability.Logger
}

type Option func(*Client)

// WithVerifyURL points the client at another siteverify endpoint.
func WithVerifyURL(url string) Option {
	return func(c *Client) { c.verifyURL = url }
}

// WithHostname rejects tokens solved on another site.
func WithHostname(hostname string) Option {
	return func(c *Client) { c.hostname = hostname }
}

func NewClient(secretKey string, logger *observability.Logger, opts ...Option) *Client {
	c := &Client{
		secretKey:  secretKey,
		verifyURL:  defaultVerifyURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Verify checks that token was issued to a visitor of this site. remoteIP
// is optional.
func (c *Client) Verify(ctx context.Context, token, remoteIP string) error {
	if token == "" || len(token) > maxTokenLength {
		return ErrInvalidToken
	}

	form := url.Values{}
	form.Set("secret", c.secretKey)
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build siteverify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error(ctx, "siteverify call failed", err)
		return fmt.Errorf("failed to reach siteverify: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("siteverify returned %d", resp.StatusCode)
	}

	var result siteverifyResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode siteverify response: %w", err)
	}

	if !result.Success {
		c.logger.Info(ctx, "captcha token rejected",
			observability.Field{Key: "error_codes", Value: strings.Join(result.ErrorCodes, ",")},
		)
		return ErrVerificationFail
	}
	if c.hostname != "" && !strings.EqualFold(result.Hostname, c.hostname) {
		c.logger.Warn(ctx, "captcha solved on unexpected host",
			observability.Field{Key: "hostname", Value: result.Hostname},
		)
		return ErrVerificationFail
	}
	return nil
}

func (c *Client) IsEnabled() bool {
	return c != nil && c.secretKey != ""
}
