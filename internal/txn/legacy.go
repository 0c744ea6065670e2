package txn

import (
	"math/big"

	"github.com/fystack/evm-relayer/pkg/ethcrypto"
	"github.com/fystack/evm-relayer/pkg/rlp"
)

// LegacyTx is an unsigned pre-EIP-2718 transaction. Nil GasPrice and Value
// encode as zero.
type LegacyTx struct {
	Nonce    uint64
	GasPrice *big.Int
	GasLimit uint64
	To       ethcrypto.Address
	Value    *big.Int
	Data     []byte
}

func (tx *LegacyTx) fields() [][]byte {
	return [][]byte{
		rlp.EncodeUint64(tx.Nonce),
		rlp.EncodeBigInt(orZero(tx.GasPrice)),
		rlp.EncodeUint64(tx.GasLimit),
		rlp.EncodeBytes(tx.To.Bytes()),
		rlp.EncodeBigInt(orZero(tx.Value)),
		rlp.EncodeBytes(tx.Data),
	}
}

// SigningPayload returns the EIP-155 signing preimage
// rlp([nonce, gasPrice, gasLimit, to, value, data, chainID, "", ""]).
func (tx *LegacyTx) SigningPayload(chainID uint64) []byte {
	items := append(tx.fields(),
		rlp.EncodeUint64(chainID),
		rlp.EncodeBytes(nil),
		rlp.EncodeBytes(nil),
	)
	return rlp.EncodeList(items...)
}

func (tx *LegacyTx) SigningHash(chainID uint64) []byte {
	return ethcrypto.Keccak256(tx.SigningPayload(chainID))
}

func orZero(n *big.Int) *big.Int {
	if n == nil {
		return new(big.Int)
	}
	return n
}
