package txn

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fystack/evm-relayer/internal/rpc/evm"
	"github.com/fystack/evm-relayer/pkg/common/logger"
	"github.com/fystack/evm-relayer/pkg/retry"
)

const (
	DefaultReceiptInterval = 2 * time.Second
	DefaultReceiptTimeout  = 30 * time.Second
)

type ReceiptFetcher interface {
	GetTransactionReceipt(ctx context.Context, txHash string) (evm.Receipt, error)
}

type WaitOptions struct {
	Interval time.Duration
	Timeout  time.Duration
}

func (o WaitOptions) withDefaults() WaitOptions {
	if o.Interval <= 0 {
		o.Interval = DefaultReceiptInterval
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultReceiptTimeout
	}
	return o
}

// WaitForReceipt polls for the receipt of txHash every Interval until it
// appears or Timeout elapses. Any fetch error, including a not-yet-mined
// null result, is treated as "not available yet".
//
// A zero status yields *RevertedError, the deadline *TimeoutError. If ctx is
// cancelled first, its error is returned.
func WaitForReceipt(ctx context.Context, client ReceiptFetcher, txHash string, opts WaitOptions) (evm.Receipt, error) {
	opts = opts.withDefaults()

	waitCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	var (
		receipt evm.Receipt
		lastErr error
		polls   int
		start   = time.Now()
	)
	err := retry.Poll(waitCtx, opts.Interval, func() error {
		polls++
		r, err := client.GetTransactionReceipt(waitCtx, txHash)
		if err != nil {
			lastErr = err
			return err
		}
		receipt = r
		if r.IsReverted() {
			return retry.Permanent(&RevertedError{TxHash: txHash, Receipt: r})
		}
		return nil
	}, func(err error, next time.Duration) {
		logger.Debug("Receipt not available yet", "tx_hash", txHash, "poll", polls, "next", next, "error", err)
	})

	if err == nil {
		return receipt, nil
	}
	var reverted *RevertedError
	if errors.As(err, &reverted) {
		return receipt, reverted
	}
	if ctx.Err() != nil {
		return nil, fmt.Errorf("wait for receipt %s: %w", txHash, ctx.Err())
	}
	if waitCtx.Err() != nil {
		return nil, &TimeoutError{TxHash: txHash, Waited: time.Since(start).Round(time.Millisecond), Last: lastErr}
	}
	return nil, err
}
