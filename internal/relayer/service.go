package relayer

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/fystack/evm-relayer/internal/contracts"
	"github.com/fystack/evm-relayer/internal/kvstore"
	"github.com/fystack/evm-relayer/internal/rpc/evm"
	"github.com/fystack/evm-relayer/internal/txn"
	"github.com/fystack/evm-relayer/pkg/common/config"
	"github.com/fystack/evm-relayer/pkg/common/logger"
	"github.com/fystack/evm-relayer/pkg/events"
)

var (
	ErrInvalidAmount = errors.New("amount must be positive")
	ErrReadOnly      = errors.New("relayer has no signing key")
	ErrMissingID     = errors.New("id is required")
)

// Service exposes the contract reads and writes of one chain.
type Service struct {
	chain    config.ChainConfig
	client   evm.EthereumAPI
	sender   *txn.Sender
	registry *contracts.Registry
	emitter  events.Emitter
	pending  *kvstore.PendingTxStore
}

type Option func(*Service)

func WithEmitter(e events.Emitter) Option {
	return func(s *Service) {
		if e != nil {
			s.emitter = e
		}
	}
}

// WithPendingStore records unconfirmed transactions for later re-polling.
func WithPendingStore(p *kvstore.PendingTxStore) Option {
	return func(s *Service) { s.pending = p }
}

func NewService(
	chain config.ChainConfig,
	client evm.EthereumAPI,
	sender *txn.Sender,
	registry *contracts.Registry,
	opts ...Option,
) *Service {
	s := &Service{
		chain:    chain,
		client:   client,
		sender:   sender,
		registry: registry,
		emitter:  events.Noop{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Chain() config.ChainConfig { return s.chain }

func (s *Service) read(ctx context.Context, contract string, calldata []byte, encErr error) ([]byte, error) {
	if encErr != nil {
		return nil, encErr
	}
	addr, err := s.registry.Address(s.chain.ChainID, contract)
	if err != nil {
		return nil, err
	}
	return s.client.Call(ctx, addr, calldata)
}

// write submits calldata to contract and, when wait is set, polls for the
// receipt. The returned Result carries the hash even when waiting fails.
func (s *Service) write(ctx context.Context, op, contract string, calldata []byte, encErr error, wait bool) (*txn.Result, error) {
	if encErr != nil {
		return nil, encErr
	}
	if s.sender == nil {
		return nil, ErrReadOnly
	}
	addr, err := s.registry.Address(s.chain.ChainID, contract)
	if err != nil {
		return nil, err
	}

	res, err := s.sender.Submit(ctx, txn.Request{
		To:       addr,
		Data:     calldata,
		GasLimit: s.chain.GasLimit,
	})
	if err != nil {
		s.emit(ctx, events.TxEvent{Status: events.TxFailed, Operation: op, To: addr.Hex(), Error: err.Error()})
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ev := events.TxEvent{
		Operation: op,
		TxHash:    res.TxHash,
		From:      s.sender.Address().Hex(),
		To:        addr.Hex(),
		Nonce:     res.Tx.Tx.Nonce,
	}
	s.emit(ctx, withStatus(ev, events.TxSubmitted))
	s.track(kvstore.PendingTx{
		ChainID:     s.chain.ChainID,
		TxHash:      res.TxHash,
		Operation:   op,
		From:        ev.From,
		To:          ev.To,
		Nonce:       ev.Nonce,
		RawTx:       res.Tx.RawHex(),
		SubmittedAt: time.Now().UTC(),
	})

	if !wait {
		return res, nil
	}

	res.Receipt, err = s.sender.Wait(ctx, res.TxHash)
	s.settle(ctx, ev, res.Receipt, err)
	if err != nil {
		return res, fmt.Errorf("%s tx %s: %w", op, res.TxHash, err)
	}
	return res, nil
}

// CheckReceipt waits for the receipt of a previously submitted transaction.
func (s *Service) CheckReceipt(ctx context.Context, txHash string) (evm.Receipt, error) {
	ev := events.TxEvent{Operation: "receipt", TxHash: txHash}
	if s.pending != nil {
		if p, err := s.pending.Get(s.chain.ChainID, txHash); err == nil && p != nil {
			ev.Operation, ev.From, ev.To, ev.Nonce = p.Operation, p.From, p.To, p.Nonce
		}
	}

	receipt, err := txn.WaitForReceipt(ctx, s.client, txHash, txn.WaitOptions{
		Interval: s.chain.Receipt.Interval,
		Timeout:  s.chain.Receipt.Timeout,
	})
	s.settle(ctx, ev, receipt, err)
	return receipt, err
}

// Pending lists transactions submitted on this chain without a seen receipt.
func (s *Service) Pending() ([]kvstore.PendingTx, error) {
	if s.pending == nil {
		return nil, nil
	}
	return s.pending.List(s.chain.ChainID)
}

func (s *Service) settle(ctx context.Context, ev events.TxEvent, receipt evm.Receipt, err error) {
	switch {
	case err == nil:
		ev.Receipt = receipt
		s.emit(ctx, withStatus(ev, events.TxConfirmed))
		s.resolve(ev.TxHash)
	case errors.Is(err, txn.ErrReverted):
		ev.Receipt = receipt
		ev.Error = err.Error()
		s.emit(ctx, withStatus(ev, events.TxReverted))
		s.resolve(ev.TxHash)
	case errors.Is(err, txn.ErrNotConfirmed):
		ev.Error = err.Error()
		s.emit(ctx, withStatus(ev, events.TxTimedOut))
		if s.pending != nil {
			if p, getErr := s.pending.Get(s.chain.ChainID, ev.TxHash); getErr == nil && p != nil {
				p.LastError = err.Error()
				s.track(*p)
			}
		}
	}
}

func (s *Service) emit(ctx context.Context, ev events.TxEvent) {
	ev.ChainID = s.chain.ChainID
	ev.Chain = s.chain.Name
	if err := s.emitter.EmitTx(ctx, ev); err != nil {
		logger.Warn("Failed to emit tx event", "status", ev.Status, "tx_hash", ev.TxHash, "error", err)
	}
}

func (s *Service) track(p kvstore.PendingTx) {
	if s.pending == nil {
		return
	}
	if err := s.pending.Put(p); err != nil {
		logger.Warn("Failed to record pending tx", "tx_hash", p.TxHash, "error", err)
	}
}

func (s *Service) resolve(txHash string) {
	if s.pending == nil {
		return
	}
	if err := s.pending.Resolve(s.chain.ChainID, txHash); err != nil {
		logger.Warn("Failed to resolve pending tx", "tx_hash", txHash, "error", err)
	}
}

func withStatus(ev events.TxEvent, status events.TxStatus) events.TxEvent {
	ev.Status = status
	return ev
}

func requirePositive(amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func requireID(id *big.Int) error {
	if id == nil {
		return ErrMissingID
	}
	return nil
}
