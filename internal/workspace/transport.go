package workspace

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ai4juris/juriscli/internal/core/domain"
)

const requestIDHeader = "X-Request-Id"

// StatusError carries a non-2xx response together with the server-supplied
// message so view-models can surface it verbatim.
type StatusError struct {
	Operation  string
	StatusCode int
	Status     string
	Message    string
}

func (e *StatusError) Error() string {
	if e == nil {
		return "workspace status error"
	}
	if strings.TrimSpace(e.Message) == "" {
		return fmt.Sprintf("workspace %s status: %s", e.Operation, e.Status)
	}
	return fmt.Sprintf("workspace %s status: %s: %s", e.Operation, e.Status, strings.TrimSpace(e.Message))
}

// UserMessage reports the server-supplied error text for display.
func (e *StatusError) UserMessage() string {
	if e == nil {
		return ""
	}
	return strings.TrimSpace(e.Message)
}

// ServerMessage extracts the server-supplied error text, or "" when the
// error carries none and the caller should fall back to a generic message.
func ServerMessage(err error) string {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return strings.TrimSpace(statusErr.Message)
	}
	return ""
}

var errNoSession = errors.New("no stored session")

type requestSpec struct {
	method      string
	path        string
	body        io.Reader
	contentType string
	operation   string
	public      bool
}

// do performs one API round trip. Authenticated requests refuse immediately,
// without network I/O, when no access credential is held; a 401 response
// clears the session store before surfacing ErrUnauthorized.
func (c *Client) do(ctx context.Context, spec requestSpec, out any) error {
	var bearer string
	if !spec.public {
		tokens, ok := c.session.Get()
		if !ok {
			return domain.WrapError(domain.ErrUnauthorized, spec.operation, errNoSession)
		}
		bearer = tokens.AccessToken
	}

	req, err := http.NewRequestWithContext(ctx, spec.method, c.baseURL+spec.path, spec.body)
	if err != nil {
		return fmt.Errorf("create %s request: %w", spec.operation, err)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	if spec.contentType != "" {
		req.Header.Set("Content-Type", spec.contentType)
	}
	req.Header.Set(requestIDHeader, uuid.NewString())

	start := time.Now()
	done := c.metrics.RequestStarted(serviceName, spec.method, spec.path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		done(0)
		return fmt.Errorf("workspace %s request: %w", spec.operation, err)
	}
	defer resp.Body.Close()
	done(resp.StatusCode)

	c.logger.Debug("api_request",
		"operation", spec.operation,
		"method", spec.method,
		"path", spec.path,
		"status", resp.StatusCode,
		"duration_ms", float64(time.Since(start).Microseconds())/1000.0,
	)

	if resp.StatusCode == http.StatusUnauthorized && !spec.public {
		if err := c.session.Clear(); err != nil {
			c.logger.Warn("session_clear_failed", "error", err)
		}
		return domain.WrapError(domain.ErrUnauthorized, spec.operation, errors.New(resp.Status))
	}
	if resp.StatusCode == http.StatusNotFound {
		return domain.WrapError(domain.ErrNotFound, spec.operation, readStatusError(spec.operation, resp))
	}
	if resp.StatusCode >= 300 {
		return readStatusError(spec.operation, resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", spec.operation, err)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any, operation string) error {
	return c.do(ctx, requestSpec{
		method:    http.MethodGet,
		path:      path,
		operation: operation,
	}, out)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, payload, out any, operation string, public bool) error {
	var body io.Reader
	contentType := ""
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal %s request: %w", operation, err)
		}
		body = bytes.NewReader(encoded)
		contentType = "application/json"
	}
	return c.do(ctx, requestSpec{
		method:      method,
		path:        path,
		body:        body,
		contentType: contentType,
		operation:   operation,
		public:      public,
	}, out)
}

func (c *Client) postJSON(ctx context.Context, path string, payload, out any, operation string) error {
	return c.sendJSON(ctx, http.MethodPost, path, payload, out, operation, false)
}

func (c *Client) postJSONPublic(ctx context.Context, path string, payload, out any, operation string) error {
	return c.sendJSON(ctx, http.MethodPost, path, payload, out, operation, true)
}

func (c *Client) patchJSON(ctx context.Context, path string, payload, out any, operation string) error {
	return c.sendJSON(ctx, http.MethodPatch, path, payload, out, operation, false)
}

func readStatusError(operation string, resp *http.Response) *StatusError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))

	statusErr := &StatusError{
		Operation:  operation,
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
	}

	var payload struct {
		Error   string `json:"error"`
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		switch {
		case payload.Error != "":
			statusErr.Message = payload.Error
		case payload.Detail != "":
			statusErr.Message = payload.Detail
		case payload.Message != "":
			statusErr.Message = payload.Message
		}
	}
	if statusErr.Message == "" {
		statusErr.Message = strings.TrimSpace(string(body))
	}
	return statusErr
}
