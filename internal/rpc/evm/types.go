package evm

import (
	"strings"

	"github.com/fystack/evm-relayer/pkg/common/utils"
)

// Receipt is the raw receipt object as returned by the node. Only a few
// fields are interpreted; the rest is passed through untouched.
type Receipt map[string]any

func (r Receipt) field(name string) string {
	s, _ := r[name].(string)
	return s
}

func (r Receipt) Status() string          { return r.field("status") }
func (r Receipt) TransactionHash() string { return r.field("transactionHash") }

func (r Receipt) BlockNumber() (uint64, bool) {
	n, err := utils.ParseHexUint64(r.field("blockNumber"))
	return n, err == nil
}

func (r Receipt) GasUsed() (uint64, bool) {
	n, err := utils.ParseHexUint64(r.field("gasUsed"))
	return n, err == nil
}

// IsReverted reports a zero status ("0x0" or "0x00").
func (r Receipt) IsReverted() bool {
	status := r.Status()
	if status == "" {
		return false
	}
	n, err := utils.ParseHexUint64(status)
	return err == nil && n == 0
}

// IsSuccessful reports whether the receipt does not mark a revert. Receipts
// without a status field (pre-Byzantium style) count as successful.
func (r Receipt) IsSuccessful() bool {
	return !r.IsReverted()
}

func (r Receipt) String() string {
	var sb strings.Builder
	sb.WriteString("receipt{")
	sb.WriteString("tx=" + r.TransactionHash())
	if s := r.Status(); s != "" {
		sb.WriteString(" status=" + s)
	}
	if n, ok := r.BlockNumber(); ok {
		sb.WriteString(" block=")
		sb.WriteString(utils.EncodeUint64(n))
	}
	sb.WriteString("}")
	return sb.String()
}
