// Package fetch retrieves document bytes from a storage endpoint,
// attaching credentials and exchanging storage paths for signed URLs.
// All failures surface as network errors in the shared taxonomy.
package fetch

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/inkleaf/pageturn/errs"
)

// Signer exchanges a storage path for a time-limited signed URL. It is a
// collaborator owned by the hosting application; pageturn only calls it
// when the document reference is not already an absolute URL.
type Signer interface {
	SignedURL(ctx context.Context, storagePath string) (string, error)
}

// HTTPError reports a non-success status from the storage endpoint.
type HTTPError struct {
	StatusCode int
	URL        string
	RequestID  string
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	return fmt.Sprintf("fetch: status=%d url=%s request_id=%s", e.StatusCode, e.URL, e.RequestID)
}

// Client fetches document bytes over HTTP with bearer-token credentials
// and bounded retry on transient failures.
type Client struct {
	httpClient *http.Client
	token      string
	signer     Signer

	retryMaxAttempts int
	retryBaseDelay   time.Duration
	retryMaxDelay    time.Duration

	maxBytes int64
}

// NewClient creates a fetch client. Zero values select the defaults:
// 30s HTTP timeout, 3 attempts, 500ms base backoff capped at 4s, 256MB
// response limit.
func NewClient(token string, signer Signer, httpTimeout time.Duration, retryMax int, baseDelay, maxDelay time.Duration) *Client {
	if httpTimeout <= 0 {
		httpTimeout = 30 * time.Second
	}
	if retryMax <= 0 {
		retryMax = 3
	}
	if baseDelay <= 0 {
		baseDelay = 500 * time.Millisecond
	}
	if maxDelay <= 0 {
		maxDelay = 4 * time.Second
	}
	return &Client{
		httpClient:       &http.Client{Timeout: httpTimeout},
		token:            token,
		signer:           signer,
		retryMaxAttempts: retryMax,
		retryBaseDelay:   baseDelay,
		retryMaxDelay:    maxDelay,
		maxBytes:         256 << 20,
	}
}

// Default returns a client with default settings and no signer.
func Default() *Client {
	return NewClient("", nil, 0, 0, 0, 0)
}

// Resolve turns a document reference into a fetchable URL. Absolute URLs
// pass through; storage paths go through the signer.
func (c *Client) Resolve(ctx context.Context, ref string) (string, error) {
	if isAbsoluteURL(ref) {
		return ref, nil
	}
	if c.signer == nil {
		return "", errs.Network("fetch.resolve", fmt.Errorf("no signer configured for storage path %q", ref))
	}
	signed, err := c.signer.SignedURL(ctx, ref)
	if err != nil {
		return "", errs.Network("fetch.resolve", fmt.Errorf("signed-URL exchange: %w", err))
	}
	return signed, nil
}

// Fetch retrieves the document bytes for a reference (absolute URL or
// storage path). Transient failures (transport errors, 429, 5xx) are
// retried with exponential backoff and jitter; other statuses fail
// immediately. The context bounds the whole operation, including
// backoff sleeps, so an abandoned viewer cancels its in-flight load.
func (c *Client) Fetch(ctx context.Context, ref string) ([]byte, error) {
	target, err := c.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}

	requestID := uuid.NewString()
	var lastErr error

	for attempt := 0; attempt < c.retryMaxAttempts; attempt++ {
		if attempt > 0 {
			if err := c.backoff(ctx, attempt); err != nil {
				return nil, errs.Network("fetch", err)
			}
		}

		data, retryable, err := c.fetchOnce(ctx, target, requestID)
		if err == nil {
			return data, nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}

	return nil, errs.Network("fetch", lastErr)
}

// fetchOnce performs a single GET. The second return value reports
// whether the failure is worth retrying.
func (c *Client) fetchOnce(ctx context.Context, target, requestID string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, false, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Transport errors (refused, reset, timeout) are retryable
		// unless the context itself was canceled.
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		return nil, true, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		httpErr := &HTTPError{StatusCode: resp.StatusCode, URL: target, RequestID: requestID}
		retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return nil, retryable, httpErr
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return nil, true, err
	}
	if int64(len(data)) > c.maxBytes {
		return nil, false, fmt.Errorf("response exceeds %d byte limit", c.maxBytes)
	}
	return data, false, nil
}

// backoff sleeps for the attempt's jittered exponential delay, or
// returns early when the context is done.
func (c *Client) backoff(ctx context.Context, attempt int) error {
	delay := c.retryBaseDelay << (attempt - 1)
	if delay > c.retryMaxDelay {
		delay = c.retryMaxDelay
	}
	// Add up to 25% jitter so concurrent viewers don't retry in step.
	delay += time.Duration(rand.Int63n(int64(delay)/4 + 1))

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// isAbsoluteURL reports whether ref is already a fetchable URL.
func isAbsoluteURL(ref string) bool {
	if !strings.Contains(ref, "://") {
		return false
	}
	u, err := url.Parse(ref)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
