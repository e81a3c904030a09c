package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Client is the gateway to the legacy record backend. It forwards the
// caller's bearer token verbatim; the facade holds no credentials of its own.
type Client struct {
	baseURL *url.URL
	apiPath string
	http    *http.Client
	log     zerolog.Logger
}

func NewClient(rawBaseURL, apiPath string, timeout time.Duration, log zerolog.Logger) (*Client, error) {
	base, err := url.Parse(rawBaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse backend url: %w", err)
	}

	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   20,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &Client{
		baseURL: base,
		apiPath: strings.TrimSuffix(apiPath, "/"),
		http:    &http.Client{Timeout: timeout, Transport: transport},
		log:     log,
	}, nil
}

// API prefixes sub with the backend's API path ("/api" by default). Routes
// outside that prefix (reports, files, users) are passed to the verb methods
// as-is.
func (c *Client) API(sub string) string {
	return c.apiPath + sub
}

func (c *Client) Get(ctx context.Context, path, token string) (interface{}, error) {
	return c.do(ctx, http.MethodGet, path, token, nil)
}

func (c *Client) Post(ctx context.Context, path, token string, body interface{}) (interface{}, error) {
	return c.do(ctx, http.MethodPost, path, token, body)
}

func (c *Client) Put(ctx context.Context, path, token string, body interface{}) (interface{}, error) {
	return c.do(ctx, http.MethodPut, path, token, body)
}

func (c *Client) Delete(ctx context.Context, path, token string) (interface{}, error) {
	return c.do(ctx, http.MethodDelete, path, token, nil)
}

func (c *Client) do(ctx context.Context, method, path, token string, body interface{}) (interface{}, error) {
	if token == "" {
		return nil, AuthenticationError("missing bearer token")
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, InternalError(fmt.Errorf("encode request body: %w", err))
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.resolve(path), reader)
	if err != nil {
		return nil, InternalError(err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.send(req)
}

// PostMultipart forwards one file part named "files" plus flat metadata
// fields, preserving the part's original filename and content type.
func (c *Client) PostMultipart(ctx context.Context, path, token, fileName, contentType string, file io.Reader, fields map[string]string) (interface{}, error) {
	if token == "" {
		return nil, AuthenticationError("missing bearer token")
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files"; filename=%q`, fileName))
	hdr.Set("Content-Type", contentType)
	part, err := w.CreatePart(hdr)
	if err != nil {
		return nil, InternalError(err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, InternalError(fmt.Errorf("buffer upload: %w", err))
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, InternalError(err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, InternalError(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.resolve(path), &buf)
	if err != nil {
		return nil, InternalError(err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	return c.send(req)
}

func (c *Client) send(req *http.Request) (interface{}, error) {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("method", req.Method).Str("url", req.URL.Path).Msg("backend unreachable")
		return nil, InternalError(fmt.Errorf("backend request: %w", err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, InternalError(fmt.Errorf("read backend response: %w", err))
	}

	c.log.Debug().
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("backend call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, Translate(resp.StatusCode, raw)
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	var decoded interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		// Some backend write endpoints answer with a bare id or plain text.
		return strings.TrimSpace(string(raw)), nil
	}
	return decoded, nil
}

func (c *Client) resolve(path string) string {
	u := *c.baseURL
	if i := strings.IndexByte(path, '?'); i >= 0 {
		u.Path = strings.TrimSuffix(u.Path, "/") + path[:i]
		u.RawQuery = path[i+1:]
	} else {
		u.Path = strings.TrimSuffix(u.Path, "/") + path
	}
	return u.String()
}

// WarmUp pings the backend's health endpoint so the first real request does
// not pay the cold-start cost of a sleeping upstream. Failures are logged and
// never surfaced.
func (c *Client) WarmUp(ctx context.Context) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.resolve("/health"), nil)
	if err != nil {
		return
	}
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Msg("backend warm-up failed")
		return
	}
	resp.Body.Close()
	c.log.Info().Int("status", resp.StatusCode).Msg("backend warm-up ping")
}
