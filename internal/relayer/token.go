package relayer

import (
	"context"
	"math/big"

	"github.com/fystack/evm-relayer/internal/contracts"
	"github.com/fystack/evm-relayer/internal/txn"
	"github.com/fystack/evm-relayer/pkg/abi"
	"github.com/fystack/evm-relayer/pkg/ethcrypto"
)

// TransferToken sends amount base units of the configured token.
func (s *Service) TransferToken(ctx context.Context, to ethcrypto.Address, amount *big.Int, wait bool) (*txn.Result, error) {
	if err := requirePositive(amount); err != nil {
		return nil, err
	}
	data, err := contracts.TransferCalldata(to, amount)
	return s.write(ctx, "transfer", contracts.Token, data, err, wait)
}

// ApproveToken sets spender's allowance. Zero revokes it.
func (s *Service) ApproveToken(ctx context.Context, spender ethcrypto.Address, amount *big.Int, wait bool) (*txn.Result, error) {
	if amount == nil || amount.Sign() < 0 {
		return nil, ErrInvalidAmount
	}
	data, err := contracts.ApproveCalldata(spender, amount)
	return s.write(ctx, "approve", contracts.Token, data, err, wait)
}

func (s *Service) TokenBalance(ctx context.Context, owner ethcrypto.Address) (*big.Int, error) {
	data, err := contracts.BalanceOfCalldata(owner)
	out, err := s.read(ctx, contracts.Token, data, err)
	if err != nil {
		return nil, err
	}
	return abi.DecodeUint256(out)
}
