package relayer

import (
	"context"
	"math/big"

	"github.com/fystack/evm-relayer/internal/contracts"
	"github.com/fystack/evm-relayer/internal/txn"
	"github.com/fystack/evm-relayer/pkg/abi"
	"github.com/fystack/evm-relayer/pkg/ethcrypto"
)

func (s *Service) MintCredential(ctx context.Context, holder ethcrypto.Address, tokenURI string, wait bool) (*txn.Result, error) {
	data, err := contracts.MintCalldata(holder, tokenURI)
	return s.write(ctx, "mint", contracts.CredentialRegistry, data, err, wait)
}

func (s *Service) IssueCredential(ctx context.Context, holder ethcrypto.Address, credentialType, tokenURI string, wait bool) (*txn.Result, error) {
	data, err := contracts.IssueCalldata(holder, credentialType, tokenURI)
	return s.write(ctx, "issue", contracts.CredentialRegistry, data, err, wait)
}

func (s *Service) RevokeCredential(ctx context.Context, tokenID *big.Int, wait bool) (*txn.Result, error) {
	if err := requireID(tokenID); err != nil {
		return nil, err
	}
	data, err := contracts.RevokeCalldata(tokenID)
	return s.write(ctx, "revoke", contracts.CredentialRegistry, data, err, wait)
}

// CredentialBalance returns how many credential tokens owner holds.
func (s *Service) CredentialBalance(ctx context.Context, owner ethcrypto.Address) (*big.Int, error) {
	data, err := contracts.BalanceOfCalldata(owner)
	out, err := s.read(ctx, contracts.CredentialRegistry, data, err)
	if err != nil {
		return nil, err
	}
	return abi.DecodeUint256(out)
}

func (s *Service) IsCredentialValid(ctx context.Context, tokenID *big.Int) (bool, error) {
	data, err := contracts.IsValidCalldata(tokenID)
	out, err := s.read(ctx, contracts.CredentialRegistry, data, err)
	if err != nil {
		return false, err
	}
	return abi.DecodeBool(out)
}

func (s *Service) CredentialURI(ctx context.Context, tokenID *big.Int) (string, error) {
	data, err := contracts.TokenURICalldata(tokenID)
	out, err := s.read(ctx, contracts.CredentialRegistry, data, err)
	if err != nil {
		return "", err
	}
	return abi.DecodeString(out)
}
