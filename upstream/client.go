// Package upstream talks to the pharmacy backend REST API. Every call returns
// an Envelope: transport and server failures are folded into it instead of
// being returned as errors.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/giygas/pharmly/logging"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"

	defaultServerError = "Server error"
	maxResponseBody    = 10 * 1024 * 1024
)

// Kind tells what produced an error envelope
type Kind string

const (
	KindNone    Kind = ""
	KindNetwork Kind = "network"
	KindServer  Kind = "server"
)

// Envelope is the normalized shape of every upstream reply
type Envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Kind    Kind            `json:"-"`
}

// OK reports a successful call
func (e Envelope) OK() bool {
	return e.Status == StatusSuccess
}

// Decode unmarshals Data into v
func (e Envelope) Decode(v any) error {
	if len(e.Data) == 0 {
		return fmt.Errorf("envelope has no data")
	}
	if err := json.Unmarshal(e.Data, v); err != nil {
		return fmt.Errorf("failed to decode envelope data: %w", err)
	}
	return nil
}

func errorEnvelope(kind Kind, message string) Envelope {
	if message == "" {
		message = defaultServerError
	}
	return Envelope{Status: StatusError, Message: message, Kind: kind}
}

// TokenSource supplies the bearer token for authenticated calls. An empty
// token means the call goes out without an Authorization header.
type TokenSource interface {
	Token() string
}

// Client is the upstream REST client
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

// NewClient creates a client for baseURL. tokens may be nil.
func NewClient(baseURL string, timeout time.Duration, tokens TokenSource) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
	}
}

// BaseURL returns the API root the client targets
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) getJSON(ctx context.Context, path string) Envelope {
	return c.request(ctx, http.MethodGet, path, nil, "")
}

func (c *Client) postJSON(ctx context.Context, path string, payload any) Envelope {
	body, err := json.Marshal(payload)
	if err != nil {
		return errorEnvelope(KindNetwork, fmt.Sprintf("failed to encode request: %v", err))
	}
	return c.request(ctx, http.MethodPost, path, bytes.NewReader(body), "application/json")
}

// request is the single wrapper every endpoint goes through
func (c *Client) request(ctx context.Context, method, path string, body io.Reader, contentType string) Envelope {
	url := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		logging.Error("Failed to build upstream request", "path", path, "error", err)
		return errorEnvelope(KindNetwork, err.Error())
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		logging.Warn("Upstream request failed", "method", method, "path", path, "error", err)
		return errorEnvelope(KindNetwork, err.Error())
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logging.Warn("Failed to close upstream response body", "error", err)
		}
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		logging.Warn("Failed to read upstream response", "path", path, "error", err)
		return errorEnvelope(KindNetwork, err.Error())
	}

	env := normalize(resp.StatusCode, raw)
	logging.Debug("Upstream call",
		"method", method,
		"path", path,
		"status_code", resp.StatusCode,
		"result", env.Status,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return env
}

// normalize folds an HTTP reply into an Envelope. Rows and ids live under
// "data" when the backend wraps them, otherwise the whole body is the data.
func normalize(statusCode int, raw []byte) Envelope {
	var fields map[string]json.RawMessage
	isObject := len(bytes.TrimSpace(raw)) > 0 && json.Unmarshal(raw, &fields) == nil

	message := ""
	if isObject {
		message = stringField(fields, "message")
		if message == "" {
			message = stringField(fields, "error")
		}
	}

	if statusCode < 200 || statusCode > 299 {
		return errorEnvelope(KindServer, message)
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return Envelope{Status: StatusSuccess}
	}
	if !isObject {
		if !json.Valid(trimmed) {
			return errorEnvelope(KindServer, "Invalid response from server")
		}
		return Envelope{Status: StatusSuccess, Data: json.RawMessage(trimmed)}
	}

	if strings.EqualFold(stringField(fields, "status"), StatusError) {
		return errorEnvelope(KindServer, message)
	}

	data := json.RawMessage(trimmed)
	if d, ok := fields["data"]; ok && string(d) != "null" {
		data = d
	}
	return Envelope{Status: StatusSuccess, Message: message, Data: data}
}

func stringField(fields map[string]json.RawMessage, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}
