package claude

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// ErrReportedFailure is returned when the CLI reports is_error in its result.
var ErrReportedFailure = errors.New("claude: CLI reported an error")

type cliResult struct {
	Type      string `json:"type"`
	Result    string `json:"result"`
	Content   string `json:"content"`
	IsError   bool   `json:"is_error"`
	SessionID string `json:"session_id"`
}

// ParseResponse extracts the generated text and session ID from
// `claude --output-format json` output. Output that is not JSON is returned
// as-is so older CLI builds still work.
func ParseResponse(raw []byte) (string, string, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" {
		return "", "", nil
	}
	if !strings.HasPrefix(trimmed, "{") {
		return trimmed, "", nil
	}

	var res cliResult
	if err := json.Unmarshal([]byte(trimmed), &res); err != nil {
		return "", "", fmt.Errorf("failed to parse claude output: %w", err)
	}
	if res.IsError {
		return "", res.SessionID, fmt.Errorf("%w: %s", ErrReportedFailure, truncate(res.Result, 200))
	}

	text := res.Result
	if text == "" {
		text = res.Content
	}
	return text, res.SessionID, nil
}
