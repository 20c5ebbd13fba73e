package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/securoserv/securovault/internal/common"
)

// errorBody is the JSON error envelope most endpoints use. Either field may
// carry the human-readable message.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// errorFromResponse builds the error for a non-2xx response: the message is
// extracted from the JSON message/error fields, else from the raw text body,
// else a generic status fallback. 401/403 additionally map to
// common.ErrUnauthorized so callers can match with errors.Is.
func errorFromResponse(status int, body []byte) error {
	msg := messageFromBody(body)
	if msg == "" {
		msg = fmt.Sprintf("request failed (%d)", status)
	}

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%s: %w", msg, common.ErrUnauthorized)
	case http.StatusNotFound:
		return fmt.Errorf("%s: %w", msg, common.ErrNotFound)
	default:
		return fmt.Errorf("%s", msg)
	}
}

func messageFromBody(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return ""
	}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		if eb.Message != "" {
			return eb.Message
		}
		if eb.Error != "" {
			return eb.Error
		}
		return ""
	}
	return trimmed
}

// failureKeywords flag a plain-text 2xx body that is really an error in
// disguise. Matching is case-insensitive.
var failureKeywords = []string{"error", "failed", "unauthorized", "not found", "login"}

// classifyUploadBody applies the defensive success heuristic to an upload
// response that already passed the status check. It returns a non-nil error
// when the body is empty, a plain-text body matches an error keyword, or a
// JSON body carries an explicit error field or a message containing "failed".
func classifyUploadBody(body []byte) error {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return fmt.Errorf("empty response from server")
	}

	if json.Valid(body) {
		var eb errorBody
		if err := json.Unmarshal(body, &eb); err == nil {
			if eb.Error != "" {
				return fmt.Errorf("%s", eb.Error)
			}
			if strings.Contains(strings.ToLower(eb.Message), "failed") {
				return fmt.Errorf("%s", eb.Message)
			}
		}
		// JSON arrays and scalars are confirmations, not errors
		return nil
	}

	lower := strings.ToLower(trimmed)
	for _, kw := range failureKeywords {
		if strings.Contains(lower, kw) {
			return fmt.Errorf("%s", trimmed)
		}
	}
	return nil
}
