package analyzer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"path/filepath"
	"strings"
	"time"
)

// Service is the contract of the external analysis service.
// *Client implements it; tests substitute fakes.
type Service interface {
	Health(ctx context.Context) error
	Extract(ctx context.Context, name string, data []byte) (string, error)
	Analyze(ctx context.Context, code string) (Analysis, error)
}

// Ensure Client implements Service at compile time.
var _ Service = (*Client)(nil)

// Client talks to the analysis service over HTTP.
type Client struct {
	baseURL     *url.URL
	http        *http.Client
	userAgent   string
	healthPath  string
	extractPath string
	analyzePath string
}

const (
	// DefaultBaseURL is where the service listens when run locally.
	DefaultBaseURL = "http://localhost:5000"

	defaultUserAgent      = "codelens/0.1"
	defaultRequestTimeout = 60 * time.Second
	defaultHealthPath     = "/health"
	// Extraction and analysis share one endpoint; the form field decides.
	defaultUploadPath = "/upload"

	fieldFile = "file"
	fieldCode = "code"

	maxResponseBytes = 8 << 20
)

// Option customizes a Client.
type Option func(*Client)

// WithTimeout bounds every request made by the client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithPaths overrides the extraction and analysis endpoint paths.
// Empty values keep the shared /upload default.
func WithPaths(extract, analyze string) Option {
	return func(c *Client) {
		if p := strings.TrimSpace(extract); p != "" {
			c.extractPath = p
		}
		if p := strings.TrimSpace(analyze); p != "" {
			c.analyzePath = p
		}
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// NewClient builds a Client for the service at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: defaultRequestTimeout,
		},
		userAgent:   defaultUserAgent,
		healthPath:  defaultHealthPath,
		extractPath: defaultUploadPath,
		analyzePath: defaultUploadPath,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the normalized service address.
func (c *Client) BaseURL() string {
	if c == nil {
		return ""
	}
	return c.baseURL.String()
}

// Health probes GET /health. Any 2xx is healthy.
func (c *Client) Health(ctx context.Context) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	req, err := c.newRequest(ctx, http.MethodGet, c.healthPath, nil, "")
	if err != nil {
		return err
	}
	_, err = c.send(req, "health")
	return err
}

// Extract uploads an image in the "file" field and returns the extracted text.
func (c *Client) Extract(ctx context.Context, name string, data []byte) (string, error) {
	if c == nil {
		return "", fmt.Errorf("client is nil")
	}
	body, contentType, err := imageForm(name, data)
	if err != nil {
		return "", fmt.Errorf("build extract form: %w", err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, c.extractPath, body, contentType)
	if err != nil {
		return "", err
	}
	payload, err := c.send(req, "extract")
	if err != nil {
		return "", err
	}
	extraction, err := decodeExtraction("extract", payload)
	if err != nil {
		return "", err
	}
	return extraction.Text, nil
}

// Analyze submits code text in the "code" field and returns the judgment.
func (c *Client) Analyze(ctx context.Context, code string) (Analysis, error) {
	if c == nil {
		return Analysis{}, fmt.Errorf("client is nil")
	}
	body, contentType, err := codeForm(code)
	if err != nil {
		return Analysis{}, fmt.Errorf("build analyze form: %w", err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, c.analyzePath, body, contentType)
	if err != nil {
		return Analysis{}, err
	}
	payload, err := c.send(req, "analyze")
	if err != nil {
		return Analysis{}, err
	}
	return decodeAnalysis("analyze", payload)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Request, error) {
	reqURL := c.baseURL.ResolveReference(&url.URL{Path: path})
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req, nil
}

// send executes req and returns the body of a 2xx response.
func (c *Client) send(req *http.Request, op string) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, networkError(op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{
			Kind:   KindHTTP,
			Op:     op,
			Status: resp.StatusCode,
			Detail: serviceMessage(payload),
		}
	}
	if err != nil {
		return nil, networkError(op, fmt.Errorf("read response: %w", err))
	}
	return payload, nil
}

func imageForm(name string, data []byte) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	filename := filepath.Base(strings.TrimSpace(name))
	if filename == "." || filename == string(filepath.Separator) {
		filename = "upload"
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name=%q; filename=%q`, fieldFile, filename))
	header.Set("Content-Type", http.DetectContentType(data))

	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func codeForm(code string) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField(fieldCode, code); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api_url %q: missing host", raw)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
