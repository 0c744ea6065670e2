package kvstore

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fystack/evm-relayer/pkg/infra"
)

const pendingPrefix = "pending/"

// PendingTx is a submitted transaction whose receipt has not been seen yet,
// either because the wait timed out or because the caller did not wait.
type PendingTx struct {
	ChainID     uint64    `json:"chain_id"`
	TxHash      string    `json:"tx_hash"`
	Operation   string    `json:"operation"`
	From        string    `json:"from"`
	To          string    `json:"to"`
	Nonce       uint64    `json:"nonce"`
	RawTx       string    `json:"raw_tx"`
	SubmittedAt time.Time `json:"submitted_at"`
	LastError   string    `json:"last_error,omitempty"`
	Checks      int       `json:"checks"`
}

// PendingTxStore tracks unconfirmed transactions so they can be re-polled
// later by hash.
type PendingTxStore struct {
	kv infra.KVStore
}

func NewPendingTxStore(kv infra.KVStore) *PendingTxStore {
	return &PendingTxStore{kv: kv}
}

// Put records tx, keeping the check count of an existing entry.
func (s *PendingTxStore) Put(tx PendingTx) error {
	if tx.TxHash == "" {
		return fmt.Errorf("pending tx without hash")
	}
	var existing PendingTx
	found, err := s.kv.GetAny(s.key(tx.ChainID, tx.TxHash), &existing)
	if err != nil {
		return fmt.Errorf("failed to load pending tx: %w", err)
	}
	if found {
		tx.Checks = existing.Checks + 1
	}
	if err := s.kv.SetAny(s.key(tx.ChainID, tx.TxHash), tx); err != nil {
		return fmt.Errorf("failed to store pending tx: %w", err)
	}
	return nil
}

func (s *PendingTxStore) Get(chainID uint64, txHash string) (*PendingTx, error) {
	var tx PendingTx
	found, err := s.kv.GetAny(s.key(chainID, txHash), &tx)
	if err != nil {
		return nil, fmt.Errorf("failed to load pending tx: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &tx, nil
}

// Resolve removes the entry once a receipt (success or revert) was seen.
func (s *PendingTxStore) Resolve(chainID uint64, txHash string) error {
	return s.kv.Delete(s.key(chainID, txHash))
}

// List returns pending transactions of chainID ordered by nonce.
func (s *PendingTxStore) List(chainID uint64) ([]PendingTx, error) {
	pairs, err := s.kv.List(fmt.Sprintf("%s%d/", pendingPrefix, chainID))
	if err != nil {
		return nil, fmt.Errorf("failed to list pending txs: %w", err)
	}

	out := make([]PendingTx, 0, len(pairs))
	for _, p := range pairs {
		var tx PendingTx
		if err := infra.JSON.Unmarshal(p.Value, &tx); err != nil {
			return nil, fmt.Errorf("failed to decode pending tx %s: %w", p.Key, err)
		}
		out = append(out, tx)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nonce < out[j].Nonce })
	return out, nil
}

func (s *PendingTxStore) key(chainID uint64, txHash string) string {
	return fmt.Sprintf("%s%d/%s", pendingPrefix, chainID, strings.ToLower(txHash))
}
