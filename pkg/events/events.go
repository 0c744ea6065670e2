package events

import "time"

type TxStatus string

const (
	TxSubmitted TxStatus = "submitted"
	TxConfirmed TxStatus = "confirmed"
	TxReverted  TxStatus = "reverted"
	TxTimedOut  TxStatus = "timed_out"
	TxFailed    TxStatus = "failed"
)

// TxEvent describes one step of a relayed transaction's lifecycle.
type TxEvent struct {
	Status    TxStatus       `json:"status"`
	ChainID   uint64         `json:"chain_id"`
	Chain     string         `json:"chain"`
	Operation string         `json:"operation"`
	TxHash    string         `json:"tx_hash,omitempty"`
	From      string         `json:"from,omitempty"`
	To        string         `json:"to,omitempty"`
	Nonce     uint64         `json:"nonce,omitempty"`
	Error     string         `json:"error,omitempty"`
	Receipt   map[string]any `json:"receipt,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Subject is the NATS subject the event is published on,
// e.g. "relayer.tx.80002.confirmed".
func (e TxEvent) Subject(prefix string) string {
	return prefix + "." + formatUint(e.ChainID) + "." + string(e.Status)
}
