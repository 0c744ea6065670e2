package contracts

import (
	"math/big"

	"github.com/fystack/evm-relayer/pkg/abi"
	"github.com/fystack/evm-relayer/pkg/ethcrypto"
)

const (
	SigSubmitClaim       = "submitClaim(address,uint256,string)"
	SigApproveClaim      = "approveClaim(uint256)"
	SigRemainingCoverage = "remainingCoverage(address)"
	SigNetPosition       = "netPosition(address)"
)

// SubmitClaimCalldata files a claim of amount for claimant with an evidence
// reference.
func SubmitClaimCalldata(claimant ethcrypto.Address, amount *big.Int, evidenceURI string) ([]byte, error) {
	return abi.NewEncoder(SigSubmitClaim).Address(claimant).Uint256(amount).String(evidenceURI).Bytes()
}

func ApproveClaimCalldata(claimID *big.Int) ([]byte, error) {
	return abi.NewEncoder(SigApproveClaim).Uint256(claimID).Bytes()
}

func RemainingCoverageCalldata(member ethcrypto.Address) ([]byte, error) {
	return abi.NewEncoder(SigRemainingCoverage).Address(member).Bytes()
}

// NetPositionCalldata queries the signed (int256) position of member.
func NetPositionCalldata(member ethcrypto.Address) ([]byte, error) {
	return abi.NewEncoder(SigNetPosition).Address(member).Bytes()
}
