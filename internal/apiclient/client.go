// Package apiclient talks to the remote storefront store over its fixed REST
// surface. Every call returns a normalized *Error on failure; nothing retries.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

const maxResponseBytes = 1 << 20

// TokenSource supplies the bearer credential when one is present.
type TokenSource interface {
	Token() (string, bool)
}

type Options struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Tokens     TokenSource
	Logger     *zap.Logger
	// BreakerFailures is the number of consecutive transport or server
	// failures that open the breaker. Zero uses the default of 5.
	BreakerFailures uint32
	BreakerCooldown time.Duration
}

type Client struct {
	baseURL *url.URL
	http    *http.Client
	tokens  TokenSource
	logger  *zap.Logger
	breaker *gobreaker.CircuitBreaker[response]
}

type response struct {
	status int
	body   []byte
}

func New(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.BaseURL) == "" {
		return nil, errors.New("base URL is required")
	}
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	failures := opts.BreakerFailures
	if failures == 0 {
		failures = 5
	}
	cooldown := opts.BreakerCooldown
	if cooldown <= 0 {
		cooldown = 15 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker[response](gobreaker.Settings{
		Name:    "store:" + base.Host,
		Timeout: cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			e, ok := AsError(err)
			if !ok {
				return false
			}
			return e.callerDone || (e.Kind != KindTransport && e.Kind != KindServer)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return &Client{
		baseURL: base,
		http:    httpClient,
		tokens:  opts.Tokens,
		logger:  logger,
		breaker: breaker,
	}, nil
}

// do sends in as JSON (when non-nil) and decodes a 2xx body into out (when
// non-nil).
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	resp, err := c.breaker.Execute(func() (response, error) {
		return c.roundTrip(ctx, method, path, in)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return &Error{Message: "store temporarily unavailable", Kind: KindTransport, Err: err}
		}
		if _, ok := AsError(err); !ok {
			return transportError("request failed", err)
		}
		return err
	}
	if out == nil || len(resp.body) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.body, out); err != nil {
		return &Error{Message: "decode response: " + err.Error(), Status: resp.status, Kind: KindServer, Err: err}
	}
	return nil
}

func (c *Client) roundTrip(ctx context.Context, method, path string, in any) (response, error) {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return response{}, &Error{Message: "encode request: " + err.Error(), Kind: KindValidation, Err: err}
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, body)
	if err != nil {
		return response{}, transportError("build request", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token, ok := c.tokens.Token(); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	res, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("store request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return response{}, requestError(ctx, "network error", err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		return response{}, requestError(ctx, "read response", err)
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		apiErr := statusError(res.StatusCode, raw)
		c.logger.Debug("store request rejected",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", res.StatusCode),
			zap.String("kind", apiErr.Kind.String()))
		return response{}, apiErr
	}
	return response{status: res.StatusCode, body: raw}, nil
}
