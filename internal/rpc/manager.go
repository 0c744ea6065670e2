package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/samber/lo"

	"github.com/fystack/evm-relayer/pkg/common/config"
	"github.com/fystack/evm-relayer/pkg/common/logger"
	"github.com/fystack/evm-relayer/pkg/ratelimiter"
)

// Manager maps chain ids to their Failover relays. All relays share one
// process-wide rotation counter. Chains are registered before the first Call;
// the map is read-only afterwards.
type Manager struct {
	rotation atomic.Uint64
	chains   map[uint64]*Failover
}

func NewManager() *Manager {
	return &Manager{chains: make(map[uint64]*Failover)}
}

// NewManagerFromConfig registers every configured chain.
func NewManagerFromConfig(chains config.Chains) (*Manager, error) {
	m := NewManager()
	for _, name := range chains.Names() {
		cc := chains[name]
		clients := lo.Map(cc.Nodes, func(n config.NodeConfig, _ int) *Client {
			var rl *ratelimiter.RateLimiter
			if cc.Throttle.RPS > 0 {
				rl = ratelimiter.Shared(n.URL, cc.Throttle.RPS, cc.Throttle.Burst)
			}
			return NewClient(n.URL, AuthFromNode(n), cc.Client.Timeout, rl)
		})
		if err := m.Register(cc.ChainID, clients...); err != nil {
			return nil, fmt.Errorf("chain %s: %w", name, err)
		}
		logger.Info("Registered chain endpoints",
			"chain", cc.Name,
			"chain_id", cc.ChainID,
			"endpoints", lo.Map(clients, func(c *Client, _ int) string { return c.Label() }),
		)
	}
	return m, nil
}

// Register adds a chain. It is not safe to call concurrently with Call.
func (m *Manager) Register(chainID uint64, clients ...*Client) error {
	if _, exists := m.chains[chainID]; exists {
		return fmt.Errorf("chain %d already registered", chainID)
	}
	f, err := NewFailover(chainID, clients, &m.rotation)
	if err != nil {
		return err
	}
	m.chains[chainID] = f
	return nil
}

// Chain returns the relay for chainID.
func (m *Manager) Chain(chainID uint64) (*Failover, error) {
	f, ok := m.chains[chainID]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownChain, chainID)
	}
	return f, nil
}

// Call relays method on chainID with endpoint failover.
func (m *Manager) Call(ctx context.Context, chainID uint64, method string, params any) (json.RawMessage, error) {
	f, err := m.Chain(chainID)
	if err != nil {
		return nil, err
	}
	return f.Call(ctx, method, params)
}

func (m *Manager) ChainIDs() []uint64 {
	ids := lo.Keys(m.chains)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
