package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/securoserv/securovault/internal/logging"
)

// loggingTransport decorates a RoundTripper with structured request logging.
// Bodies are never logged; they may contain credentials or file content.
type loggingTransport struct {
	next http.RoundTripper
	log  logging.Logger
}

func newLoggingTransport(next http.RoundTripper, log logging.Logger) http.RoundTripper {
	return &loggingTransport{next: next, log: log}
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	reqID := uuid.NewString()

	resp, err := t.next.RoundTrip(req)
	elapsed := time.Since(start)

	if err != nil {
		t.log.Warn(req.Context(), "request failed",
			"req_id", reqID,
			"method", req.Method,
			"url", req.URL.String(),
			"duration_ms", elapsed.Milliseconds(),
			"error", err.Error(),
		)
		return nil, err
	}

	t.log.Debug(req.Context(), "request completed",
		"req_id", reqID,
		"method", req.Method,
		"url", req.URL.String(),
		"status", resp.StatusCode,
		"duration_ms", elapsed.Milliseconds(),
	)
	return resp, nil
}
