package contracts

import (
	"math/big"

	"github.com/fystack/evm-relayer/pkg/abi"
	"github.com/fystack/evm-relayer/pkg/ethcrypto"
)

const (
	SigTransfer = "transfer(address,uint256)"
	SigApprove  = "approve(address,uint256)"
)

func TransferCalldata(to ethcrypto.Address, amount *big.Int) ([]byte, error) {
	return abi.NewEncoder(SigTransfer).Address(to).Uint256(amount).Bytes()
}

func ApproveCalldata(spender ethcrypto.Address, amount *big.Int) ([]byte, error) {
	return abi.NewEncoder(SigApprove).Address(spender).Uint256(amount).Bytes()
}
