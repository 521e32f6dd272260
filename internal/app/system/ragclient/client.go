// Package ragclient calls the retrieval-augmented legal Q&A service.
package ragclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

var (
	// ErrNotConfigured is returned when no base URL is set.
	ErrNotConfigured = errors.New("ragclient: base URL is not configured")
	// ErrTimeout is returned when the service does not answer in time.
	ErrTimeout = errors.New("ragclient: request timed out")
	// ErrBadResponse is returned for a 2xx reply without a string answer.
	ErrBadResponse = errors.New("ragclient: unexpected response format")
)

// DefaultUpstreamMessage is used when a failed reply carries no message.
const DefaultUpstreamMessage = "RAG service error."

// maxBody bounds how much of a reply is read.
const maxBody = 1 << 20

// UpstreamError is a non-2xx reply from the service.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("ragclient: upstream returned %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// New returns a client for baseURL. Trailing slashes are dropped. The
// timeout bounds each call end to end.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		HTTP:    &http.Client{Timeout: timeout},
	}
}

// Configured reports whether a base URL is set.
func (c *Client) Configured() bool {
	return c != nil && c.BaseURL != ""
}

type askRequest struct {
	Question string `json:"question"`
}

// reply accepts any JSON object; only string fields are used.
type reply map[string]any

func (r reply) str(key string) string {
	s, _ := r[key].(string)
	return s
}

// Ask posts question to {BaseURL}/ask and returns the answer. The service
// may reply with either a "result" or an "answer" field; a non-JSON body
// is taken as the answer text itself.
func (c *Client) Ask(ctx context.Context, question string) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	b, err := json.Marshal(askRequest{Question: question})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/ask", bytes.NewReader(b))
	if err != nil {
		return "", fmt.Errorf("ragclient: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Cache-Control", "no-store")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		if isTimeout(err) {
			return "", errors.Join(ErrTimeout, err)
		}
		return "", fmt.Errorf("ragclient: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		if isTimeout(err) {
			return "", errors.Join(ErrTimeout, err)
		}
		return "", fmt.Errorf("ragclient: read body: %w", err)
	}

	data := reply{}
	if strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(body, &data); err != nil {
			data = reply{}
		}
	} else {
		data = reply{"result": string(body)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := firstNonEmpty(data.str("error"), data.str("result"), data.str("answer"), DefaultUpstreamMessage)
		return "", &UpstreamError{StatusCode: resp.StatusCode, Message: msg}
	}

	answer := firstNonEmpty(data.str("result"), data.str("answer"))
	if answer == "" {
		return "", ErrBadResponse
	}
	return answer, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
