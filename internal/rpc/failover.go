package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/fystack/evm-relayer/pkg/common/logger"
)

// Failover relays calls for one chain across an ordered endpoint list.
//
// Every Call bumps the rotation counter once and starts at
// endpoints[counter % N], moving to the next endpoint on any failure until
// all N were tried. The counter may be shared across chains; it only spreads
// load, so lost or duplicated increments under concurrency are harmless.
type Failover struct {
	chainID  uint64
	clients  []*Client
	rotation *atomic.Uint64
	stats    []endpointStats
}

type endpointStats struct {
	requests atomic.Int64
	failures atomic.Int64
}

// EndpointStats is a point-in-time view of one endpoint's counters.
type EndpointStats struct {
	Endpoint string `json:"endpoint"`
	Requests int64  `json:"requests"`
	Failures int64  `json:"failures"`
}

// NewFailover builds a relay over clients. A nil rotation gets a private
// counter.
func NewFailover(chainID uint64, clients []*Client, rotation *atomic.Uint64) (*Failover, error) {
	if len(clients) == 0 {
		return nil, fmt.Errorf("chain %d: %w", chainID, ErrNoEndpoints)
	}
	if rotation == nil {
		rotation = new(atomic.Uint64)
	}
	return &Failover{
		chainID:  chainID,
		clients:  clients,
		rotation: rotation,
		stats:    make([]endpointStats, len(clients)),
	}, nil
}

func (f *Failover) ChainID() uint64 { return f.chainID }

// Call sends method to the endpoints in rotation order and returns the first
// successful result. If all fail, the error is an *ExhaustedError wrapping
// the last endpoint's error.
func (f *Failover) Call(ctx context.Context, method string, params any) (json.RawMessage, error) {
	n := uint64(len(f.clients))
	start := f.rotation.Add(1) - 1

	var (
		lastErr   error
		lastLabel string
		attempts  int
	)
	for i := uint64(0); i < n; i++ {
		idx := (start + i) % n
		client := f.clients[idx]
		attempts++

		f.stats[idx].requests.Add(1)
		result, err := client.Call(ctx, method, params)
		if err == nil {
			if i > 0 {
				logger.Debug("RPC call recovered on fallback endpoint",
					"chain_id", f.chainID, "method", method, "endpoint", client.Label(), "attempt", attempts)
			}
			return result, nil
		}

		f.stats[idx].failures.Add(1)
		lastErr, lastLabel = err, client.Label()
		f.logFailure(method, client.Label(), attempts, err)

		if ctx.Err() != nil {
			break
		}
	}

	return nil, &ExhaustedError{
		ChainID:   f.chainID,
		Method:    method,
		Attempts:  attempts,
		Endpoints: len(f.clients),
		Endpoint:  lastLabel,
		Last:      lastErr,
	}
}

// Stats returns per-endpoint request and failure counts.
func (f *Failover) Stats() []EndpointStats {
	out := make([]EndpointStats, len(f.clients))
	for i, c := range f.clients {
		out[i] = EndpointStats{
			Endpoint: c.Label(),
			Requests: f.stats[i].requests.Load(),
			Failures: f.stats[i].failures.Load(),
		}
	}
	return out
}

func (f *Failover) logFailure(method, endpoint string, attempt int, err error) {
	args := []any{
		"chain_id", f.chainID,
		"method", method,
		"endpoint", endpoint,
		"attempt", attempt,
		"endpoints", len(f.clients),
		"error", err,
	}
	// null results are routine while polling for receipts
	if errors.Is(err, ErrEmptyResult) {
		logger.Debug("RPC endpoint returned empty result", args...)
		return
	}
	logger.Warn("RPC endpoint failed, trying next", args...)
}
