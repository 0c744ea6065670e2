package txn

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fystack/evm-relayer/internal/rpc"
	"github.com/fystack/evm-relayer/internal/rpc/evm"
)

// receiptSource returns ErrEmptyResult for the first `pending` polls, then
// the configured receipt.
type receiptSource struct {
	pending int64
	receipt evm.Receipt
	polls   atomic.Int64
}

func (r *receiptSource) GetTransactionReceipt(ctx context.Context, _ string) (evm.Receipt, error) {
	n := r.polls.Add(1)
	if r.receipt == nil || n <= r.pending {
		return nil, rpc.ErrEmptyResult
	}
	return r.receipt, nil
}

var fastWait = WaitOptions{Interval: 10 * time.Millisecond, Timeout: 150 * time.Millisecond}

func TestWaitForReceipt_Success(t *testing.T) {
	src := &receiptSource{pending: 2, receipt: evm.Receipt{"status": "0x1", "transactionHash": "0xaa"}}

	r, err := WaitForReceipt(context.Background(), src, "0xaa", fastWait)
	require.NoError(t, err)
	assert.True(t, r.IsSuccessful())
	assert.EqualValues(t, 3, src.polls.Load())
}

func TestWaitForReceipt_Reverted(t *testing.T) {
	src := &receiptSource{receipt: evm.Receipt{"status": "0x0", "transactionHash": "0xbb"}}

	r, err := WaitForReceipt(context.Background(), src, "0xbb", fastWait)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrReverted)
	assert.NotErrorIs(t, err, ErrNotConfirmed)

	var reverted *RevertedError
	require.True(t, errors.As(err, &reverted))
	assert.Equal(t, "0xbb", reverted.TxHash)
	assert.Equal(t, "0x0", r.Status())
	assert.EqualValues(t, 1, src.polls.Load(), "a revert is final")
}

func TestWaitForReceipt_Timeout(t *testing.T) {
	src := &receiptSource{}

	start := time.Now()
	_, err := WaitForReceipt(context.Background(), src, "0xcc", fastWait)
	require.Error(t, err)
	assert.GreaterOrEqual(t, time.Since(start), fastWait.Timeout)

	assert.ErrorIs(t, err, ErrNotConfirmed)
	assert.NotErrorIs(t, err, ErrReverted)
	assert.ErrorIs(t, err, rpc.ErrEmptyResult)

	var timeout *TimeoutError
	require.True(t, errors.As(err, &timeout))
	assert.Equal(t, "0xcc", timeout.TxHash)
	assert.Greater(t, src.polls.Load(), int64(1))
}

func TestWaitForReceipt_MissingStatusIsSuccess(t *testing.T) {
	src := &receiptSource{receipt: evm.Receipt{"transactionHash": "0xdd", "root": "0x01"}}

	r, err := WaitForReceipt(context.Background(), src, "0xdd", fastWait)
	require.NoError(t, err)
	assert.Equal(t, "0xdd", r.TransactionHash())
}

func TestWaitForReceipt_CallerCancel(t *testing.T) {
	src := &receiptSource{}
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(30*time.Millisecond, cancel)

	_, err := WaitForReceipt(ctx, src, "0xee", WaitOptions{Interval: 10 * time.Millisecond, Timeout: time.Minute})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrNotConfirmed)
}

func TestWaitOptions_Defaults(t *testing.T) {
	o := WaitOptions{}.withDefaults()
	assert.Equal(t, 2*time.Second, o.Interval)
	assert.Equal(t, 30*time.Second, o.Timeout)
}
