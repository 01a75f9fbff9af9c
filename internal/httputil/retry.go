// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared by provider clients.
package httputil

import (
	"bytes"
	"context"
	"io"
	"math"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// RetryBaseDelay controls the base duration for exponential backoff on
// HTTP 429 responses. Tests override this to avoid real sleeps.
var RetryBaseDelay = 1 * time.Second

// maxBufferedBody caps how much of a 429 body is kept for the caller.
const maxBufferedBody = 64 << 10

// DoWithRetry executes an HTTP request and, when maxRetries is positive,
// retries on HTTP 429 (Too Many Requests) with exponential backoff starting
// at RetryBaseDelay: 1 s, 2 s, 4 s, ...
//
// When maxRetries is 0 the request is sent exactly once. Each 429 body is
// buffered before sleeping. The last 429 response is returned, body intact,
// when retries are exhausted, when the next backoff would run past the
// context deadline, or when the context ends during a wait. A rate-limited
// call therefore always surfaces as a 429 and never as ctx.Err().
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int, log *zap.Logger) (*http.Response, error) {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if log == nil {
		log = zap.NewNop()
	}

	for attempt := 0; ; attempt++ {
		r := req.Clone(ctx)
		if req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, err
			}
			r.Body = body
		}

		resp, err := client.Do(r)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode != http.StatusTooManyRequests || attempt >= maxRetries {
			return resp, nil
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBufferedBody))
		resp.Body.Close()
		if err != nil {
			return nil, err
		}
		resp.Body = io.NopCloser(bytes.NewReader(body))

		backoff := time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay
		if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) <= backoff {
			log.Warn("rate limited, backoff exceeds deadline",
				zap.String("url", req.URL.Redacted()),
				zap.Duration("backoff", backoff),
				zap.Int("attempt", attempt+1),
			)
			return resp, nil
		}
		log.Warn("rate limited, backing off",
			zap.String("url", req.URL.Redacted()),
			zap.Duration("backoff", backoff),
			zap.Int("attempt", attempt+1),
			zap.Int("max_retries", maxRetries),
		)

		select {
		case <-ctx.Done():
			return resp, nil
		case <-time.After(backoff):
		}
	}
}
