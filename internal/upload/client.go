// Package upload sends a selected file to the analysis server and drives
// the dashboard from the response.
package upload

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yildizm/dashdrop/internal/config"
	"github.com/yildizm/dashdrop/internal/logger"
	"github.com/yildizm/dashdrop/internal/report"
)

// Default transport settings
const (
	DefaultEndpoint  = "/analyze"
	DefaultFieldName = "file"
)

// StatusError is returned when the server answers with a non-2xx status
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("Server Error: %d", e.Code)
}

// Client posts files to the analysis endpoint
type Client struct {
	baseURL   string
	endpoint  string
	fieldName string
	timeout   time.Duration
	http      *http.Client
	decode    report.DecodeOptions
	log       *logger.Logger
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithEndpoint sets the path the file is posted to
func WithEndpoint(endpoint string) ClientOption {
	return func(c *Client) {
		if endpoint != "" {
			c.endpoint = endpoint
		}
	}
}

// WithFieldName sets the multipart field carrying the file
func WithFieldName(name string) ClientOption {
	return func(c *Client) {
		if name != "" {
			c.fieldName = name
		}
	}
}

// WithTimeout bounds each request; zero waits indefinitely
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithDecodeOptions sets how responses are decoded
func WithDecodeOptions(opts report.DecodeOptions) ClientOption {
	return func(c *Client) {
		c.decode = opts
	}
}

// WithClientLogger sets the client's logger
func WithClientLogger(l *logger.Logger) ClientOption {
	return func(c *Client) {
		c.log = l.WithComponent("upload")
	}
}

// NewClient creates a client for the server at baseURL
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		endpoint:  DefaultEndpoint,
		fieldName: DefaultFieldName,
		http:      &http.Client{},
		decode:    report.DefaultDecodeOptions(),
		log:       logger.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewClientFromConfig creates a client from the server and response sections
func NewClientFromConfig(cfg *config.Config, log *logger.Logger) *Client {
	return NewClient(cfg.Server.URL,
		WithEndpoint(cfg.Server.Endpoint),
		WithFieldName(cfg.Server.FieldName),
		WithTimeout(cfg.Server.Timeout),
		WithDecodeOptions(report.DecodeOptions{
			AcceptLegacyKey: cfg.Response.AcceptLegacyKey,
			Strict:          cfg.Response.Strict,
		}),
		WithClientLogger(log),
	)
}

// URL returns the full analysis endpoint
func (c *Client) URL() string {
	return c.baseURL + c.endpoint
}

// Analyze uploads the file at path and decodes the server's answer.
// The body is streamed, so the file is never held in memory.
func (c *Client) Analyze(ctx context.Context, path string) (*report.Report, error) {
	f, err := os.Open(path) // #nosec G304 - path is the file the user selected
	if err != nil {
		return nil, err
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		defer func() { _ = f.Close() }()
		part, err := mw.CreateFormFile(c.fieldName, filepath.Base(path))
		if err == nil {
			_, err = io.Copy(part, f)
		}
		if err == nil {
			err = mw.Close()
		}
		_ = pw.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL(), pr)
	if err != nil {
		_ = pr.CloseWithError(err)
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	c.log.DebugWithFields("analysis response", []logger.Field{
		logger.Path(path),
		logger.Status(resp.StatusCode),
		logger.Duration(time.Since(start)),
	})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{Code: resp.StatusCode}
	}

	rep, err := report.Decode(resp.Body, c.decode)
	if err != nil {
		return nil, err
	}
	for _, w := range rep.Warnings {
		c.log.Warn("%s", w)
	}
	return rep, nil
}
