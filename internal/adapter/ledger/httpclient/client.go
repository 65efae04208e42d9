// Package httpclient talks to the remote ledger store over JSON/HTTP.
//
// Every submission carries its intent id in the Idempotency-Key header and is
// sent exactly once; the remote ledger deduplicates repeats. Reads are
// retried with backoff. All calls go through one circuit breaker that trips
// on transport and server failures only.
package httpclient

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

	"github.com/cenkalti/backoff/v4"
	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/circuitbreaker"
	"github.com/rs/zerolog"

	"github.com/iho/cashdesk/internal/domain"
	"github.com/iho/cashdesk/internal/infrastructure/metrics"
)

const maxBodyBytes = 1 << 20

// Config configures the remote ledger client.
type Config struct {
	BaseURL     string
	APIKey      string
	Timeout     time.Duration
	ReadRetries uint64
	Breaker     BreakerConfig
	HTTPClient  *http.Client
	Metrics     *metrics.Metrics
	Logger      zerolog.Logger
}

// Client implements usecase.RemoteLedger and usecase.PlayerDirectory.
type Client struct {
	baseURL     string
	apiKey      string
	httpClient  *http.Client
	readRetries uint64
	breaker     circuitbreaker.CircuitBreaker[any]
	logger      zerolog.Logger
}

// New creates a remote ledger client.
func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	logger := cfg.Logger.With().Str("component", "ledger_client").Logger()

	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:      cfg.APIKey,
		httpClient:  httpClient,
		readRetries: cfg.ReadRetries,
		breaker:     newBreaker(cfg.Breaker, cfg.Metrics, logger),
		logger:      logger,
	}
}

// request describes one call to the remote ledger.
type request struct {
	op       string
	method   string
	path     string
	intentID string
	body     any
	// notFound is returned for a 404 without a more specific code.
	notFound error
}

// write sends a submission once.
func (c *Client) write(ctx context.Context, req request, out any) error {
	return c.call(ctx, req, out)
}

// read performs a GET, retrying transient failures with exponential backoff.
func (c *Client) read(ctx context.Context, req request, out any) error {
	req.method = http.MethodGet

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxInterval = time.Second
	b.MaxElapsedTime = 5 * time.Second

	attempt := 0
	return backoff.Retry(func() error {
		attempt++
		err := c.call(ctx, req, out)
		if err == nil {
			return nil
		}
		if errors.Is(err, circuitbreaker.ErrOpen) || !errors.Is(err, domain.ErrRemoteUnavailable) {
			return backoff.Permanent(err)
		}

		c.logger.Debug().
			Err(err).
			Str("operation", req.op).
			Int("attempt", attempt).
			Msg("remote ledger read failed, retrying")
		return err
	}, backoff.WithContext(backoff.WithMaxRetries(b, c.readRetries), ctx))
}

func (c *Client) call(ctx context.Context, req request, out any) error {
	_, err := failsafe.With(c.breaker).WithContext(ctx).Get(func() (any, error) {
		return nil, c.roundTrip(ctx, req, out)
	})
	if errors.Is(err, circuitbreaker.ErrOpen) {
		return &domain.RemoteError{Operation: req.op, Err: err}
	}
	return err
}

func (c *Client) roundTrip(ctx context.Context, req request, out any) error {
	var body io.Reader
	if req.body != nil {
		data, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", req.op, err)
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.baseURL+req.path, body)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", req.op, err)
	}

	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	if req.intentID != "" {
		httpReq.Header.Set("Idempotency-Key", req.intentID)
	}
	if id := domain.RequestIDFromContext(ctx); id != "" {
		httpReq.Header.Set("X-Request-ID", id)
	}
	httpReq.Header.Set("X-Operator-ID", domain.OperatorID(ctx))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return &domain.RemoteError{Operation: req.op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &domain.RemoteError{Operation: req.op, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode >= http.StatusMultipleChoices {
		return decodeError(req, resp.StatusCode, data)
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &domain.RemoteError{
			Operation:  req.op,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("decode response: %w", err),
		}
	}
	return nil
}

// decodeError maps a non-2xx response to the domain error taxonomy.
func decodeError(req request, status int, data []byte) error {
	var body errorBody
	_ = json.Unmarshal(data, &body)

	msg := body.Message
	if msg == "" {
		msg = body.Error
	}
	if msg == "" {
		msg = strings.TrimSpace(string(data))
	}
	if msg == "" {
		msg = http.StatusText(status)
	}

	switch {
	case body.Code == codeInsufficientCash || strings.Contains(strings.ToLower(msg), "insufficient cash"):
		e := &domain.InsufficientFloatError{Message: msg}
		if body.RequiredAmount != nil {
			e.RequiredAmount = *body.RequiredAmount
		} else if amount, ok := domain.ParseRequiredAmount(msg); ok {
			e.RequiredAmount = amount
		}
		return e

	case body.Code == codeInsufficientChips:
		e := &domain.InsufficientChipsError{}
		if body.Requested != nil {
			e.Requested = *body.Requested
		}
		if body.Available != nil {
			e.Available = *body.Available
		}
		return e

	case body.Code == codeInsufficientFunds:
		e := &domain.WalletShortfallError{}
		if body.Requested != nil {
			e.Requested = *body.Requested
		}
		if body.Available != nil {
			e.Available = *body.Available
		}
		e.Shortfall = e.Requested.Sub(e.Available)
		return e

	case body.Code == codeAlreadyReversed:
		return fmt.Errorf("%w: %s", domain.ErrTransactionAlreadyReversed, msg)

	case body.Code == codePlayerNotFound:
		return fmt.Errorf("%w: %s", domain.ErrPlayerNotFound, msg)

	case status == http.StatusNotFound && req.notFound != nil:
		return fmt.Errorf("%w: %s", req.notFound, msg)

	case status == http.StatusTooManyRequests || status >= http.StatusInternalServerError:
		return &domain.RemoteError{Operation: req.op, StatusCode: status, Err: errors.New(msg)}

	default:
		return fmt.Errorf("%w: %s (status %d)", domain.ErrRemoteRejected, msg, status)
	}
}
