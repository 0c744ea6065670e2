package txn

import (
	"errors"
	"fmt"
	"time"

	"github.com/fystack/evm-relayer/internal/rpc/evm"
)

type Stage string

const (
	StageValidate Stage = "validate"
	StageNonce    Stage = "nonce"
	StageGasPrice Stage = "gas_price"
	StageSign     Stage = "sign"
	StageSend     Stage = "send"
	StageReceipt  Stage = "receipt"
)

var (
	ErrReverted     = errors.New("transaction reverted")
	ErrNotConfirmed = errors.New("transaction not confirmed")
	ErrUnprotected  = errors.New("transaction is not EIP-155 protected")
)

// StageError records which step of the submit pipeline failed.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// RevertedError is returned when the receipt status is zero. It matches
// ErrReverted.
type RevertedError struct {
	TxHash  string
	Receipt evm.Receipt
}

func (e *RevertedError) Error() string {
	return fmt.Sprintf("transaction %s reverted", e.TxHash)
}

func (e *RevertedError) Unwrap() error {
	return ErrReverted
}

// TimeoutError is returned when no receipt showed up before the deadline.
// The transaction may still be mined later. It matches ErrNotConfirmed and,
// when set, the last polling error.
type TimeoutError struct {
	TxHash string
	Waited time.Duration
	Last   error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("transaction %s not confirmed after %s", e.TxHash, e.Waited)
}

func (e *TimeoutError) Unwrap() []error {
	if e.Last == nil {
		return []error{ErrNotConfirmed}
	}
	return []error{ErrNotConfirmed, e.Last}
}
