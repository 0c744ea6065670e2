package rpc

import (
	"encoding/json"
	"errors"
	"fmt"
)

const JSONRPCVersion = "2.0"

var (
	// ErrEmptyResult is returned for a missing or null result. Callers of this
	// package always expect a value, so an empty answer counts as a failed
	// attempt and the next endpoint is tried.
	ErrEmptyResult  = errors.New("rpc: empty result")
	ErrNoEndpoints  = errors.New("rpc: no endpoints configured")
	ErrUnknownChain = errors.New("rpc: unknown chain")
)

// RPCRequest represents a JSON-RPC request
type RPCRequest struct {
	ID      int64  `json:"id"`
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
}

// RPCResponse represents a JSON-RPC response
type RPCResponse struct {
	ID      json.RawMessage `json:"id"`
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// RPCError represents a JSON-RPC error object
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("RPC error %d: %s", e.Code, e.Message)
}

// HTTPError is a non-2xx answer from an endpoint.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// ExhaustedError is returned when no endpoint of a chain answered. Attempts
// is lower than Endpoints when the context ended first. It unwraps to the
// error of the last endpoint tried.
type ExhaustedError struct {
	ChainID   uint64
	Method    string
	Attempts  int
	Endpoints int
	Endpoint  string
	Last      error
}

func (e *ExhaustedError) Error() string {
	if e.Attempts < e.Endpoints {
		return fmt.Sprintf("%s on chain %d stopped after %d of %d endpoints, last error from %s: %v",
			e.Method, e.ChainID, e.Attempts, e.Endpoints, e.Endpoint, e.Last)
	}
	return fmt.Sprintf("%s on chain %d failed on all %d endpoints, last error from %s: %v",
		e.Method, e.ChainID, e.Attempts, e.Endpoint, e.Last)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Last
}
