// Package transport performs the actual remote invocations against the
// managed model endpoint. It exposes the two narrow operations the core
// depends on — single-shot invoke and streaming invoke — behind the
// [Invoker] interface so tests can substitute fakes without a live endpoint.
package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/leofalp/bedrockgate/internal/utils"
)

const (
	// invokePathFormat is the single-shot invocation path for a model ID.
	invokePathFormat = "/model/%s/invoke"

	// invokeStreamPathFormat is the streaming invocation path for a model ID.
	invokeStreamPathFormat = "/model/%s/invoke-with-response-stream"
)

// Invoker is the narrow contract the dispatcher depends on.
//
// Invoke must be synchronous: it returns the complete serialized response
// body. InvokeStream must deliver payloads to onEvent one at a time, in the
// exact order the endpoint produced them, and must return only after a
// terminal signal (clean end or error). A non-nil error from onEvent aborts
// the stream and is returned unchanged.
type Invoker interface {
	Invoke(ctx context.Context, modelID string, body []byte, contentType, accept string) ([]byte, error)
	InvokeStream(ctx context.Context, modelID string, body []byte, contentType, accept string, onEvent func(payload []byte) error) error
}

// HTTPInvoker implements [Invoker] over HTTP against a managed invocation
// endpoint. Streaming responses are read as server-sent events.
type HTTPInvoker struct {
	endpoint string
	client   *http.Client
}

// NewHTTPInvoker returns an HTTPInvoker targeting endpoint (scheme + host,
// no trailing path). A nil client falls back to http.DefaultClient.
func NewHTTPInvoker(endpoint string, client *http.Client) *HTTPInvoker {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPInvoker{endpoint: endpoint, client: client}
}

// Invoke implements [Invoker] for the single-shot path. It POSTs the
// serialized body and returns the full response body, failing on any
// non-2xx status with a preview of the error payload.
func (inv *HTTPInvoker) Invoke(ctx context.Context, modelID string, body []byte, contentType, accept string) ([]byte, error) {
	requestURL := inv.endpoint + fmt.Sprintf(invokePathFormat, url.PathEscape(modelID))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, requestURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", accept)

	requestStart := time.Now()
	res, err := inv.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error sending request: %w", err)
	}
	defer closeWithLog(res.Body, requestURL)

	respBody, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBodySize))
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %w", err)
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, fmt.Errorf("non-2xx status %d: %s", res.StatusCode, utils.TruncateString(string(respBody), 500))
	}

	slog.Debug("invoke completed",
		"model", modelID,
		"status", res.StatusCode,
		"duration", time.Since(requestStart),
		"response_bytes", len(respBody),
	)

	return respBody, nil
}

// InvokeStream implements [Invoker] for the streaming path. The response body
// is read as SSE and each data payload is handed to onEvent in arrival order.
// The body is always closed before returning, so a caller error or context
// cancellation never leaks the connection.
func (inv *HTTPInvoker) InvokeStream(ctx context.Context, modelID string, body []byte, contentType, accept string, onEvent func(payload []byte) error) error {
	requestURL := inv.endpoint + fmt.Sprintf(invokeStreamPathFormat, url.PathEscape(modelID))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, requestURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", accept)

	res, err := inv.client.Do(req)
	if err != nil {
		return fmt.Errorf("error sending stream request: %w", err)
	}
	defer closeWithLog(res.Body, requestURL)

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		errorBody, readErr := io.ReadAll(io.LimitReader(res.Body, maxResponseBodySize))
		if readErr != nil {
			return fmt.Errorf("non-2xx status %d (failed to read body: %v)", res.StatusCode, readErr)
		}
		return fmt.Errorf("non-2xx status %d: %s", res.StatusCode, utils.TruncateString(string(errorBody), 500))
	}

	scanner := NewSSEScanner(res.Body)
	for {
		// Respect context cancellation between reads so an aborted stream
		// surfaces as an explicit error rather than a truncated sequence.
		if ctx.Err() != nil {
			return ctx.Err()
		}

		payload, scanErr := scanner.Next()
		if scanErr == io.EOF {
			return nil
		}
		if scanErr != nil {
			return fmt.Errorf("stream read error: %w", scanErr)
		}

		if err := onEvent([]byte(payload)); err != nil {
			return err
		}
	}
}

// closeWithLog closes body, logging a warning on failure instead of
// overriding the caller's primary error.
func closeWithLog(body io.ReadCloser, requestURL string) {
	if err := body.Close(); err != nil {
		slog.Warn("failed to close response body", "error", err.Error(), "url", requestURL)
	}
}
