package relayer

import (
	"context"
	"math/big"

	"github.com/fystack/evm-relayer/internal/contracts"
	"github.com/fystack/evm-relayer/internal/txn"
	"github.com/fystack/evm-relayer/pkg/abi"
	"github.com/fystack/evm-relayer/pkg/ethcrypto"
)

func (s *Service) SubmitClaim(ctx context.Context, claimant ethcrypto.Address, amount *big.Int, evidenceURI string, wait bool) (*txn.Result, error) {
	if err := requirePositive(amount); err != nil {
		return nil, err
	}
	data, err := contracts.SubmitClaimCalldata(claimant, amount, evidenceURI)
	return s.write(ctx, "submit_claim", contracts.ClaimPool, data, err, wait)
}

func (s *Service) ApproveClaim(ctx context.Context, claimID *big.Int, wait bool) (*txn.Result, error) {
	if err := requireID(claimID); err != nil {
		return nil, err
	}
	data, err := contracts.ApproveClaimCalldata(claimID)
	return s.write(ctx, "approve_claim", contracts.ClaimPool, data, err, wait)
}

func (s *Service) RemainingCoverage(ctx context.Context, member ethcrypto.Address) (*big.Int, error) {
	data, err := contracts.RemainingCoverageCalldata(member)
	out, err := s.read(ctx, contracts.ClaimPool, data, err)
	if err != nil {
		return nil, err
	}
	return abi.DecodeUint256(out)
}

// NetPosition is signed: negative when the member has drawn more than paid in.
func (s *Service) NetPosition(ctx context.Context, member ethcrypto.Address) (*big.Int, error) {
	data, err := contracts.NetPositionCalldata(member)
	out, err := s.read(ctx, contracts.ClaimPool, data, err)
	if err != nil {
		return nil, err
	}
	return abi.DecodeInt256(out)
}
