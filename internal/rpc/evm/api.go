package evm

import (
	"context"
	"math/big"

	"github.com/fystack/evm-relayer/pkg/ethcrypto"
)

// EthereumAPI is the subset of the eth_ namespace the relayer needs.
type EthereumAPI interface {
	ChainID(ctx context.Context) (uint64, error)
	Call(ctx context.Context, to ethcrypto.Address, data []byte) ([]byte, error)
	GetTransactionCount(ctx context.Context, addr ethcrypto.Address) (uint64, error)
	GasPrice(ctx context.Context) (*big.Int, error)
	SendRawTransaction(ctx context.Context, raw []byte) (string, error)
	GetTransactionReceipt(ctx context.Context, txHash string) (Receipt, error)
}

var _ EthereumAPI = (*Client)(nil)
