// Copyright 2026 The Memobridge Authors
// SPDX-License-Identifier: Apache-2.0

package memos

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/memobridge/memobridge/lib/netutil"
	"github.com/memobridge/memobridge/lib/secret"
)

// ClientConfig holds configuration for creating a Client.
type ClientConfig struct {
	// Host is the Memos server host (e.g., "localhost:5230"). A host
	// without a scheme gets "http://"; a full URL is used as-is.
	Host string
	// HTTPClient is used for all requests. If nil, http.DefaultClient
	// is used.
	HTTPClient *http.Client
	// Logger is used for structured logging. If nil, slog.Default()
	// is used.
	Logger *slog.Logger
}

// Client is an unauthenticated handle on a Memos server. It holds the
// base URL and HTTP transport, shared across the sessions created from
// it. Sessions are created with SessionFromToken (root credential) or
// DirectSession.SignIn (derived credential).
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new unauthenticated Memos client. The API version
// prefix (/api/v1) is appended here; endpoint paths are relative to it.
func NewClient(config ClientConfig) (*Client, error) {
	if config.Host == "" {
		return nil, fmt.Errorf("memos: Host is required")
	}

	base := config.Host
	if !strings.Contains(base, "://") {
		base = "http://" + base
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("memos: invalid host %q: %w", config.Host, err)
	}
	base = strings.TrimRight(base, "/") + "/api/v1"

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    base,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// SessionFromToken creates a root session from a credential supplied from
// outside (a personal access token). Ownership of the buffer transfers to
// the session; the caller must call Close on the returned session when
// done. The token is not validated here — the first API call fails if it
// is invalid.
func (c *Client) SessionFromToken(token *secret.Buffer) *DirectSession {
	return &DirectSession{
		client: c,
		token:  token,
	}
}

// CloseIdleConnections closes idle HTTP connections in the underlying
// transport's connection pool.
func (c *Client) CloseIdleConnections() {
	c.httpClient.CloseIdleConnections()
}

// doRequest performs an HTTP request against the Memos API and returns
// the response body. The path is relative to the /api/v1 base (resource
// names such as "memos/8VjQzM" are already full paths). On 2xx the body
// is returned; on anything else the result is a *APIError carrying the
// status code and raw body text. query may be omitted for endpoints
// without query parameters.
func (c *Client) doRequest(ctx context.Context, method, path string, token *secret.Buffer, requestBody any, query ...url.Values) ([]byte, error) {
	requestURL := c.baseURL + "/" + path
	if len(query) > 0 && query[0] != nil {
		requestURL += "?" + query[0].Encode()
	}

	var bodyReader io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return nil, fmt.Errorf("memos: failed to encode request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, requestURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("memos: failed to create request: %w", err)
	}

	request.Header.Set("Content-Type", "application/json")
	if token != nil {
		request.Header.Set("Authorization", "Bearer "+token.String())
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("memos: request to %s %s failed: %w", method, path, err)
	}
	defer response.Body.Close()

	responseBody, err := netutil.ReadResponse(response.Body)
	if err != nil {
		return nil, fmt.Errorf("memos: failed to read response body: %w", err)
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		return responseBody, nil
	}

	return nil, &APIError{
		StatusCode: response.StatusCode,
		Body:       string(responseBody),
	}
}
