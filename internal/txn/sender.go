package txn

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/fystack/evm-relayer/internal/rpc/evm"
	"github.com/fystack/evm-relayer/pkg/common/logger"
	"github.com/fystack/evm-relayer/pkg/ethcrypto"
)

const DefaultGasLimit = 300_000

// Request describes a contract call or transfer to submit.
type Request struct {
	To       ethcrypto.Address
	Value    *big.Int
	Data     []byte
	GasLimit uint64 // 0 uses the sender default
}

// Result of a submission. Receipt is only set after a successful wait.
type Result struct {
	TxHash  string
	Tx      *SignedTx
	Receipt evm.Receipt
}

// Sender runs the write pipeline: fresh nonce and gas price, build, sign,
// broadcast and optionally wait for the receipt.
//
// Nonces are read from the node's pending count on every submission. Two
// concurrent submissions from the same account can pick the same nonce;
// callers that need parallel writes must serialize them per account.
type Sender struct {
	client   evm.EthereumAPI
	signer   *Signer
	gasLimit uint64
	wait     WaitOptions
}

type Option func(*Sender)

func WithDefaultGasLimit(limit uint64) Option {
	return func(s *Sender) {
		if limit > 0 {
			s.gasLimit = limit
		}
	}
}

func WithWaitOptions(opts WaitOptions) Option {
	return func(s *Sender) { s.wait = opts }
}

func NewSender(client evm.EthereumAPI, signer *Signer, opts ...Option) *Sender {
	s := &Sender{client: client, signer: signer, gasLimit: DefaultGasLimit}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Sender) Address() ethcrypto.Address { return s.signer.Address() }
func (s *Sender) ChainID() uint64            { return s.signer.ChainID() }

// Build fetches the pending nonce and gas price concurrently and returns the
// unsigned transaction.
func (s *Sender) Build(ctx context.Context, req Request) (*LegacyTx, error) {
	if req.To.IsZero() {
		return nil, &StageError{Stage: StageValidate, Err: errors.New("missing recipient address")}
	}
	if req.Value != nil && req.Value.Sign() < 0 {
		return nil, &StageError{Stage: StageValidate, Err: errors.New("negative value")}
	}

	var (
		nonce    uint64
		gasPrice *big.Int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.client.GetTransactionCount(gctx, s.signer.Address())
		if err != nil {
			return &StageError{Stage: StageNonce, Err: err}
		}
		nonce = n
		return nil
	})
	g.Go(func() error {
		p, err := s.client.GasPrice(gctx)
		if err != nil {
			return &StageError{Stage: StageGasPrice, Err: err}
		}
		gasPrice = p
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	gasLimit := req.GasLimit
	if gasLimit == 0 {
		gasLimit = s.gasLimit
	}
	value := req.Value
	if value == nil {
		value = new(big.Int)
	}
	return &LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		GasLimit: gasLimit,
		To:       req.To,
		Value:    value,
		Data:     req.Data,
	}, nil
}

// Submit builds, signs and broadcasts req. It does not wait for inclusion.
func (s *Sender) Submit(ctx context.Context, req Request) (*Result, error) {
	tx, err := s.Build(ctx, req)
	if err != nil {
		return nil, err
	}

	signed, err := s.signer.Sign(tx)
	if err != nil {
		return nil, &StageError{Stage: StageSign, Err: err}
	}

	localHash := signed.HashHex()
	nodeHash, err := s.client.SendRawTransaction(ctx, signed.Raw())
	if err != nil {
		return nil, &StageError{Stage: StageSend, Err: err}
	}

	txHash := localHash
	if nodeHash != "" && !strings.EqualFold(nodeHash, localHash) {
		logger.Warn("Node reported a different transaction hash",
			"chain_id", s.ChainID(), "local", localHash, "node", nodeHash)
		txHash = nodeHash
	}

	logger.Info("Transaction submitted",
		"chain_id", s.ChainID(),
		"from", s.Address().Hex(),
		"to", tx.To.Hex(),
		"nonce", tx.Nonce,
		"gas_price", tx.GasPrice.String(),
		"gas_limit", tx.GasLimit,
		"tx_hash", txHash,
	)
	return &Result{TxHash: txHash, Tx: signed}, nil
}

// Wait polls for the receipt of txHash with the sender's wait options.
func (s *Sender) Wait(ctx context.Context, txHash string) (evm.Receipt, error) {
	receipt, err := WaitForReceipt(ctx, s.client, txHash, s.wait)
	if err != nil {
		return receipt, &StageError{Stage: StageReceipt, Err: err}
	}
	logger.Info("Transaction confirmed", "chain_id", s.ChainID(), "tx_hash", txHash, "receipt", receipt.String())
	return receipt, nil
}

// SubmitAndWait submits req and waits for its receipt. On timeout or revert
// the returned Result still carries the hash.
func (s *Sender) SubmitAndWait(ctx context.Context, req Request) (*Result, error) {
	res, err := s.Submit(ctx, req)
	if err != nil {
		return nil, err
	}
	res.Receipt, err = s.Wait(ctx, res.TxHash)
	if err != nil {
		return res, fmt.Errorf("tx %s: %w", res.TxHash, err)
	}
	return res, nil
}
