// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package transport

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/poiesic/connectors/core"
)

// RequestIDHeader carries a per-request UUID for log correlation.
const RequestIDHeader = "X-Request-Id"

// maxErrorBody bounds how much of a failed response body ends up in errors.
const maxErrorBody = 512

// Option configures a client built by New.
type Option func(*options)

type options struct {
	baseURL string
	headers map[string]string
	logger  *slog.Logger
}

// WithBaseURL sets the URL prepended to relative request paths.
func WithBaseURL(url string) Option {
	return func(o *options) {
		o.baseURL = url
	}
}

// WithHeaders sets headers sent on every request. The map is copied.
func WithHeaders(headers map[string]string) Option {
	return func(o *options) {
		for k, v := range headers {
			o.headers[k] = v
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// New returns a resty client that applies cfg to every request.
func New(cfg Config, opts ...Option) (*resty.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := options{
		headers: make(map[string]string),
		logger:  slog.Default().With("component", "transport"),
	}
	for _, opt := range opts {
		opt(&o)
	}

	client := resty.New().
		SetTransport(roundTripper(cfg)).
		SetTimeout(cfg.Timeout).
		SetLogger(&restyLogger{logger: o.logger}).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeaders(o.headers)

	if o.baseURL != "" {
		client.SetBaseURL(o.baseURL)
	}

	if cfg.RetryCount > 0 {
		client.SetRetryCount(cfg.RetryCount).
			AddRetryCondition(func(r *resty.Response, err error) bool {
				if err != nil {
					return true
				}
				return r.StatusCode() == http.StatusTooManyRequests || r.StatusCode() >= http.StatusInternalServerError
			})
	}

	client.OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
		if r.Header.Get(RequestIDHeader) == "" {
			r.SetHeader(RequestIDHeader, uuid.NewString())
		}
		return nil
	})

	logger := o.logger
	client.OnAfterResponse(func(_ *resty.Client, r *resty.Response) error {
		logger.Debug("request completed",
			"method", r.Request.Method,
			"url", r.Request.URL,
			"status", r.StatusCode(),
			"request_id", r.Request.Header.Get(RequestIDHeader),
			"duration", r.Time())
		return nil
	})

	return client, nil
}

// HTTPClient returns a standard client carrying the timeout and rate limit
// from cfg, for SDKs that accept an *http.Client.
func HTTPClient(cfg Config) (*http.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &http.Client{
		Timeout:   cfg.Timeout,
		Transport: roundTripper(cfg),
	}, nil
}

// CheckResponse maps the outcome of a resty call onto the core error
// taxonomy. A nil return means the call produced a 2xx response.
func CheckResponse(resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("%w: %w", core.ErrTransport, err)
	}
	if resp == nil {
		return fmt.Errorf("%w: no response", core.ErrTransport)
	}
	if resp.IsError() || resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return &StatusError{
			StatusCode: resp.StatusCode(),
			Body:       truncate(resp.String(), maxErrorBody),
		}
	}
	return nil
}

// StatusError reports a non-2xx response. It matches core.ErrUnexpectedStatus
// with errors.Is.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: %d", core.ErrUnexpectedStatus, e.StatusCode)
	}
	return fmt.Sprintf("%s: %d: %s", core.ErrUnexpectedStatus, e.StatusCode, e.Body)
}

func (e *StatusError) Is(target error) bool {
	return target == core.ErrUnexpectedStatus
}

// StatusCode extracts the HTTP status from err, or 0 when err is not a
// StatusError.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}

// statusMarker precedes the status code in errors from clients that do not
// expose it as a value, e.g. "API returned unexpected status code: 401".
const statusMarker = "unexpected status code: "

// StatusFromMessage recovers the HTTP status embedded in err's message.
// It returns false when the message carries no status code.
func StatusFromMessage(err error) (*StatusError, bool) {
	if err == nil {
		return nil, false
	}
	_, rest, found := strings.Cut(err.Error(), statusMarker)
	if !found {
		return nil, false
	}
	end := strings.IndexFunc(rest, func(r rune) bool { return r < '0' || r > '9' })
	if end == -1 {
		end = len(rest)
	}
	code, convErr := strconv.Atoi(rest[:end])
	if convErr != nil {
		return nil, false
	}
	return &StatusError{StatusCode: code}, true
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
