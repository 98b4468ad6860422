package remote

import (
	"bytes"
	"io"
	"net/http"
	"time"
)

const retryBaseBackoff = time.Second

// retryDo executes an HTTP request with exponential backoff retry.
// Retries on network errors, HTTP 429, and HTTP 5xx responses; 4xx client
// errors are returned as-is. For requests with a body, the body is buffered
// and replayed on each attempt. Backoff waits respect the request context.
func retryDo(client *http.Client, req *http.Request, maxAttempts int) (*http.Response, error) {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var bodyBytes []byte
	if req.Body != nil {
		var err error
		bodyBytes, err = io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		req.Body.Close()
	}

	var lastResp *http.Response
	var lastErr error
	backoff := retryBaseBackoff

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-req.Context().Done():
				if lastErr != nil {
					return nil, lastErr
				}
				return nil, req.Context().Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		if bodyBytes != nil {
			req.Body = io.NopCloser(bytes.NewReader(bodyBytes))
			req.ContentLength = int64(len(bodyBytes))
		}

		resp, err := client.Do(req)
		if err != nil {
			lastErr = err
			lastResp = nil
			continue
		}

		if !isRetryableStatus(resp.StatusCode) {
			return resp, nil
		}

		// Retryable: drain and close the body so the connection can be
		// reused by the next attempt.
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		lastResp = resp
		lastErr = nil
	}

	if lastErr != nil {
		return nil, lastErr
	}
	return lastResp, nil
}

// isRetryableStatus reports whether an HTTP status is worth another attempt.
func isRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}
