package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fystack/evm-relayer/pkg/common/logger"
	"github.com/fystack/evm-relayer/pkg/ratelimiter"
)

const maxResponseBytes = 10 << 20

// Client sends JSON-RPC requests to a single endpoint. Each request carries
// the client's timeout.
type Client struct {
	httpClient  *http.Client
	url         string
	label       string
	auth        *AuthConfig
	rateLimiter *ratelimiter.RateLimiter

	rpcID atomic.Int64
}

func NewClient(rawURL string, auth *AuthConfig, timeout time.Duration, rl *ratelimiter.RateLimiter) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		url:         rawURL,
		label:       endpointLabel(rawURL),
		auth:        auth,
		rateLimiter: rl,
	}
}

// Call performs one request. A JSON-RPC error object is returned as
// *RPCError, a null or missing result as ErrEmptyResult.
func (c *Client) Call(ctx context.Context, method string, params any) (json.RawMessage, error) {
	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}
	if params == nil {
		params = []any{}
	}

	req := &RPCRequest{
		ID:      c.rpcID.Add(1),
		JSONRPC: JSONRPCVersion,
		Method:  method,
		Params:  params,
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	c.auth.apply(httpReq)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	logger.Debug("RPC request completed", "endpoint", c.label, "method", method, "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: truncate(string(data), 256)}
	}

	var rpcResp RPCResponse
	if err := json.Unmarshal(data, &rpcResp); err != nil {
		return nil, fmt.Errorf("unmarshal RPC response: %w", err)
	}
	if rpcResp.Error != nil {
		return nil, rpcResp.Error
	}
	if len(rpcResp.Result) == 0 || string(rpcResp.Result) == "null" {
		return nil, ErrEmptyResult
	}
	return rpcResp.Result, nil
}

// URL returns the configured endpoint URL, which may embed credentials.
func (c *Client) URL() string { return c.url }

// Label returns scheme://host of the endpoint, safe for logs and errors.
func (c *Client) Label() string { return c.label }

func endpointLabel(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "invalid-endpoint"
	}
	return u.Scheme + "://" + u.Host
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
