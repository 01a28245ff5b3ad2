// Package client talks to the dagfs server over its JSON API.
//
// Request bodies are gzip-compressed and, when a key is configured, signed
// with the HashSHA256 header. Signed responses are verified the same way.
package client

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/Fuonder/dagfs.git/internal/buildinfo"
	"github.com/Fuonder/dagfs.git/internal/logger"
	"github.com/Fuonder/dagfs.git/internal/models"
	"github.com/Fuonder/dagfs.git/internal/server"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

var (
	ErrCouldNotSendRequest = errors.New("could not send request")
	ErrMismatchedHash      = errors.New("response signature mismatch")
)

// APIError is a non-2xx answer of the server.
type APIError struct {
	Status   int
	Response server.ErrorResponse
}

func (e *APIError) Error() string {
	if e.Response.Details != "" {
		return fmt.Sprintf("server returned %d: %s", e.Status, e.Response.Details)
	}
	return fmt.Sprintf("server returned %d: %s", e.Status, http.StatusText(e.Status))
}

type Options struct {
	// HashKey signs requests and verifies responses when not empty.
	HashKey string
	// RealIP is sent in X-Real-IP for servers with a trusted subnet.
	RealIP     string
	RetryCount int
	Timeout    time.Duration
}

type Client struct {
	http    *resty.Client
	hashKey string
}

// New creates a client for the server at baseURL ("http://host:port").
func New(baseURL string, opts Options) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}
	rc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(opts.Timeout).
		SetRetryCount(opts.RetryCount).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(3 * time.Second)
	if opts.RealIP != "" {
		rc.SetHeader("X-Real-IP", opts.RealIP)
	}
	return &Client{http: rc, hashKey: opts.HashKey}
}

func gzipCompress(data []byte) ([]byte, error) {
	var b bytes.Buffer
	w := gzip.NewWriter(&b)
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("failed write data to compress temporary buffer: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed compress data: %w", err)
	}
	return b.Bytes(), nil
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("can not encode request: %w", err)
	}
	cBody, err := gzipCompress(payload)
	if err != nil {
		return fmt.Errorf("failed to compress request body: %w", err)
	}
	req := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Content-Encoding", "gzip").
		SetBody(cBody)
	if c.hashKey != "" {
		req.SetHeader(server.HashHeader, server.CalculateHMAC(payload, c.hashKey))
	}
	resp, err := req.Post(path)
	return c.decode(resp, err, out)
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParamsFromValues(query).
		Get(path)
	return c.decode(resp, err, out)
}

func (c *Client) decode(resp *resty.Response, err error, out any) error {
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCouldNotSendRequest, err)
	}
	body := resp.Body()
	if c.hashKey != "" {
		if sign := resp.Header().Get(server.HashHeader); sign != "" && sign != server.CalculateHMAC(body, c.hashKey) {
			return ErrMismatchedHash
		}
	}
	if resp.IsError() {
		apiErr := &APIError{Status: resp.StatusCode()}
		if jsonErr := json.Unmarshal(body, &apiErr.Response); jsonErr != nil {
			apiErr.Response.Details = string(bytes.TrimSpace(body))
		}
		logger.Log.Debug("request failed",
			zap.String("url", resp.Request.URL),
			zap.Int("status", resp.StatusCode()))
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("can not decode response: %w", err)
	}
	return nil
}

func (c *Client) Chmod(ctx context.Context, req models.ChmodRequest) (models.RootResponse, error) {
	var out models.RootResponse
	err := c.post(ctx, "/files/chmod", req, &out)
	return out, err
}

func (c *Client) Mkdir(ctx context.Context, req models.MkdirRequest) (models.RootResponse, error) {
	var out models.RootResponse
	err := c.post(ctx, "/files/mkdir", req, &out)
	return out, err
}

func (c *Client) Write(ctx context.Context, req models.WriteRequest) (models.RootResponse, error) {
	var out models.RootResponse
	err := c.post(ctx, "/files/write", req, &out)
	return out, err
}

func (c *Client) Touch(ctx context.Context, req models.TouchRequest) (models.RootResponse, error) {
	var out models.RootResponse
	err := c.post(ctx, "/files/touch", req, &out)
	return out, err
}

func (c *Client) Flush(ctx context.Context) (models.RootResponse, error) {
	var out models.RootResponse
	err := c.post(ctx, "/files/flush", struct{}{}, &out)
	return out, err
}

func (c *Client) Stat(ctx context.Context, path string) (models.Stat, error) {
	var out models.Stat
	err := c.get(ctx, "/files/stat", url.Values{"path": {path}}, &out)
	return out, err
}

func (c *Client) Ls(ctx context.Context, path string) ([]models.DirEntry, error) {
	var out []models.DirEntry
	err := c.get(ctx, "/files/ls", url.Values{"path": {path}}, &out)
	return out, err
}

func (c *Client) Read(ctx context.Context, path string) ([]byte, error) {
	var out models.ReadResponse
	err := c.get(ctx, "/files/read", url.Values{"path": {path}}, &out)
	return out.Data, err
}

func (c *Client) StatFS(ctx context.Context) (models.FSStat, error) {
	var out models.FSStat
	err := c.get(ctx, "/statfs", nil, &out)
	return out, err
}

func (c *Client) Version(ctx context.Context) (buildinfo.BuildInfo, error) {
	var out buildinfo.BuildInfo
	err := c.get(ctx, "/version", nil, &out)
	return out, err
}

func (c *Client) Ping(ctx context.Context) error {
	return c.get(ctx, "/ping", nil, nil)
}
