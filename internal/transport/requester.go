package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/pkg/errors"
	"github.com/robby/mondaypro/internal/logging"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

var (
	// ErrUnknownCredential indicates a request named a credential profile that is not configured.
	ErrUnknownCredential = errors.New("unknown credential profile")
	// ErrInvalidJSON indicates the response body could not be decoded as JSON.
	ErrInvalidJSON = errors.New("response is not valid JSON")
)

// Requester performs one authenticated HTTP round trip.
// It is the only way the monday client reaches the network.
type Requester interface {
	RequestWithAuthentication(ctx context.Context, credential string, opts Options) (json.RawMessage, error)
}

// HTTPError is returned for non-2xx responses.
type HTTPError struct {
	StatusCode int
	Status     string
	Body       []byte
}

func (e *HTTPError) Error() string {
	if len(e.Body) == 0 {
		return fmt.Sprintf("request failed with status %s", e.Status)
	}
	return fmt.Sprintf("request failed with status %s: %s", e.Status, bytes.TrimSpace(e.Body))
}

// Retryable reports whether the status is worth another attempt.
func (e *HTTPError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

// RetryConfig configures retries of failed attempts.
type RetryConfig struct {
	// Attempts is the total number of attempts, including the first. Values below 1 mean 1.
	Attempts uint
	// Delay is the base backoff delay.
	Delay time.Duration
	// MaxDelay caps the backoff delay.
	MaxDelay time.Duration
}

// DefaultRetryConfig returns the retry settings used when none are configured.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		Attempts: 3,
		Delay:    500 * time.Millisecond,
		MaxDelay: 10 * time.Second,
	}
}

// Config holds HTTPRequester dependencies.
type Config struct {
	HTTPClient  *http.Client
	Credentials Credentials
	// RateLimit is the steady request rate. Zero disables limiting.
	RateLimit rate.Limit
	Burst     int
	Retry     RetryConfig
	Metrics   *Metrics
	Logger    logrus.FieldLogger
}

// HTTPRequester is the net/http implementation of Requester.
// It is safe for concurrent use; the limiter is shared by all callers.
type HTTPRequester struct {
	client      *http.Client
	credentials Credentials
	limiter     *rate.Limiter
	retry       RetryConfig
	metrics     *Metrics
	log         logrus.FieldLogger
}

// NewHTTPRequester creates a requester from cfg, filling in defaults.
func NewHTTPRequester(cfg Config) *HTTPRequester {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(cfg.RateLimit, burst)
	}

	retryCfg := cfg.Retry
	if retryCfg.Attempts == 0 {
		retryCfg = DefaultRetryConfig()
	}

	log := cfg.Logger
	if log == nil {
		log = logging.Discard()
	}

	creds := cfg.Credentials
	if creds == nil {
		creds = Credentials{}
	}

	return &HTTPRequester{
		client:      client,
		credentials: creds,
		limiter:     limiter,
		retry:       retryCfg,
		metrics:     cfg.Metrics,
		log:         log,
	}
}

// RequestWithAuthentication signs the request with the named credential and performs it.
// Retryable failures (network errors, 429 and 5xx) are retried with backoff.
func (r *HTTPRequester) RequestWithAuthentication(ctx context.Context, credential string, opts Options) (json.RawMessage, error) {
	cred, ok := r.credentials[credential]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownCredential, "%q", credential)
	}

	payload, err := encodeBody(opts)
	if err != nil {
		return nil, err
	}

	log := r.log.WithField(logging.CredentialKey, credential)

	var result json.RawMessage
	attempt := 0
	err = retry.Do(
		func() error {
			attempt++
			body, err := r.do(ctx, cred, credential, opts, payload, log.WithField(logging.AttemptKey, attempt))
			if err != nil {
				return err
			}
			result = body
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(r.retry.Attempts),
		retry.Delay(r.retry.Delay),
		retry.MaxDelay(r.retry.MaxDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(isRetryable),
		retry.OnRetry(func(n uint, err error) {
			r.metrics.retried(credential)
			log.WithField(logging.AttemptKey, n+1).WithError(err).Warn("retrying monday.com request")
		}),
	)
	if err != nil {
		return nil, err
	}

	if opts.JSON && !json.Valid(result) {
		return nil, errors.Wrapf(ErrInvalidJSON, "%.200s", result)
	}
	return result, nil
}

// do performs a single attempt.
func (r *HTTPRequester) do(ctx context.Context, cred Credential, credential string, opts Options, payload []byte, log logrus.FieldLogger) ([]byte, error) {
	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return nil, errors.Wrap(err, "rate limiter")
		}
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, opts.Method, opts.URL, body)
	if err != nil {
		return nil, retry.Unrecoverable(errors.Wrap(err, "failed to build request"))
	}
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}
	if err := cred.Authenticate(req); err != nil {
		return nil, retry.Unrecoverable(err)
	}

	start := time.Now()
	resp, err := r.client.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		r.metrics.observe(credential, 0, elapsed)
		log.WithError(err).Debug("monday.com request failed")
		return nil, errors.Wrap(err, "request failed")
	}
	defer resp.Body.Close()

	r.metrics.observe(credential, resp.StatusCode, elapsed)
	log.WithFields(logrus.Fields{
		logging.StatusKey:   resp.StatusCode,
		logging.DurationKey: elapsed.Milliseconds(),
	}).Debug("monday.com request completed")

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Status: resp.Status, Body: data}
	}
	return data, nil
}

func encodeBody(opts Options) ([]byte, error) {
	if opts.Body == nil {
		return nil, nil
	}
	switch b := opts.Body.(type) {
	case []byte:
		return b, nil
	case json.RawMessage:
		return b, nil
	case string:
		if !opts.JSON {
			return []byte(b), nil
		}
	}
	if !opts.JSON {
		return nil, errors.Errorf("cannot send body of type %T without JSON encoding", opts.Body)
	}
	data, err := json.Marshal(opts.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode request body")
	}
	return data, nil
}

func isRetryable(err error) bool {
	if !retry.IsRecoverable(err) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Retryable()
	}
	return true
}
