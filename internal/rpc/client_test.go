package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rpcServer(t *testing.T, handler func(req RPCRequest) (int, string)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req RPCRequest
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		status, resp := handler(req)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(resp))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_CallResult(t *testing.T) {
	var got RPCRequest
	srv := rpcServer(t, func(req RPCRequest) (int, string) {
		got = req
		return http.StatusOK, `{"jsonrpc":"2.0","id":1,"result":"0x89"}`
	})

	c := NewClient(srv.URL, nil, time.Second, nil)
	res, err := c.Call(context.Background(), "eth_chainId", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `"0x89"`, string(res))

	assert.Equal(t, "2.0", got.JSONRPC)
	assert.Equal(t, "eth_chainId", got.Method)
	assert.Equal(t, []any{}, got.Params)
}

func TestClient_RequestIDsIncrease(t *testing.T) {
	var ids []int64
	srv := rpcServer(t, func(req RPCRequest) (int, string) {
		ids = append(ids, req.ID)
		return http.StatusOK, `{"jsonrpc":"2.0","id":1,"result":true}`
	})

	c := NewClient(srv.URL, nil, time.Second, nil)
	for i := 0; i < 3; i++ {
		_, err := c.Call(context.Background(), "net_listening", nil)
		require.NoError(t, err)
	}
	assert.Equal(t, []int64{1, 2, 3}, ids)
}

func TestClient_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "null result",
			status: http.StatusOK,
			body:   `{"jsonrpc":"2.0","id":1,"result":null}`,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrEmptyResult)
			},
		},
		{
			name:   "missing result",
			status: http.StatusOK,
			body:   `{"jsonrpc":"2.0","id":1}`,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrEmptyResult)
			},
		},
		{
			name:   "rpc error object",
			status: http.StatusOK,
			body:   `{"jsonrpc":"2.0","id":1,"error":{"code":-32000,"message":"nonce too low"}}`,
			check: func(t *testing.T, err error) {
				var rpcErr *RPCError
				require.True(t, errors.As(err, &rpcErr))
				assert.Equal(t, -32000, rpcErr.Code)
				assert.Equal(t, "nonce too low", rpcErr.Message)
			},
		},
		{
			name:   "http status",
			status: http.StatusTooManyRequests,
			body:   `rate limited`,
			check: func(t *testing.T, err error) {
				var httpErr *HTTPError
				require.True(t, errors.As(err, &httpErr))
				assert.Equal(t, http.StatusTooManyRequests, httpErr.StatusCode)
				assert.Equal(t, "rate limited", httpErr.Body)
			},
		},
		{
			name:   "malformed body",
			status: http.StatusOK,
			body:   `<html>`,
			check: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, "unmarshal RPC response")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := rpcServer(t, func(RPCRequest) (int, string) { return tt.status, tt.body })
			c := NewClient(srv.URL, nil, time.Second, nil)
			_, err := c.Call(context.Background(), "eth_gasPrice", nil)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestClient_Auth(t *testing.T) {
	tests := []struct {
		name   string
		auth   *AuthConfig
		header string
		want   string
	}{
		{"bearer", &AuthConfig{Type: AuthTypeBearer, Value: "tok"}, "Authorization", "Bearer tok"},
		{"header", &AuthConfig{Type: AuthTypeHeader, Key: "X-Api-Key", Value: "k1"}, "X-Api-Key", "k1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.Header.Get(tt.header)
				_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":"0x1"}`))
			}))
			defer srv.Close()

			c := NewClient(srv.URL, tt.auth, time.Second, nil)
			_, err := c.Call(context.Background(), "eth_chainId", nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(500 * time.Millisecond):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil, 50*time.Millisecond, nil)
	_, err := c.Call(context.Background(), "eth_gasPrice", nil)
	require.Error(t, err)
}

func TestEndpointLabel(t *testing.T) {
	assert.Equal(t, "https://polygon-amoy.g.alchemy.com", endpointLabel("https://polygon-amoy.g.alchemy.com/v2/secret"))
	assert.Equal(t, "https://rpc.example.org", endpointLabel("https://rpc.example.org/?apikey=secret"))
	assert.Equal(t, "invalid-endpoint", endpointLabel("not a url"))
}
