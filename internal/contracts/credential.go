package contracts

import (
	"math/big"

	"github.com/fystack/evm-relayer/pkg/abi"
	"github.com/fystack/evm-relayer/pkg/ethcrypto"
)

const (
	SigMint      = "mint(address,string)"
	SigIssue     = "issue(address,string,string)"
	SigRevoke    = "revoke(uint256)"
	SigBalanceOf = "balanceOf(address)"
	SigIsValid   = "isValid(uint256)"
	SigTokenURI  = "tokenURI(uint256)"
)

// MintCalldata mints a credential token with metadata URI to holder.
func MintCalldata(holder ethcrypto.Address, tokenURI string) ([]byte, error) {
	return abi.NewEncoder(SigMint).Address(holder).String(tokenURI).Bytes()
}

// IssueCalldata issues a typed credential to holder.
func IssueCalldata(holder ethcrypto.Address, credentialType, tokenURI string) ([]byte, error) {
	return abi.NewEncoder(SigIssue).Address(holder).String(credentialType).String(tokenURI).Bytes()
}

func RevokeCalldata(tokenID *big.Int) ([]byte, error) {
	return abi.NewEncoder(SigRevoke).Uint256(tokenID).Bytes()
}

// BalanceOfCalldata is shared by the credential registry and ERC20 tokens.
func BalanceOfCalldata(owner ethcrypto.Address) ([]byte, error) {
	return abi.NewEncoder(SigBalanceOf).Address(owner).Bytes()
}

func IsValidCalldata(tokenID *big.Int) ([]byte, error) {
	return abi.NewEncoder(SigIsValid).Uint256(tokenID).Bytes()
}

func TokenURICalldata(tokenID *big.Int) ([]byte, error) {
	return abi.NewEncoder(SigTokenURI).Uint256(tokenID).Bytes()
}
