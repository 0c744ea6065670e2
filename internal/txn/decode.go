package txn

import (
	"fmt"
	"math/big"

	"github.com/fystack/evm-relayer/pkg/ethcrypto"
	"github.com/fystack/evm-relayer/pkg/rlp"
)

// DecodeSignedTx parses a raw EIP-155 legacy transaction. The chain id is
// derived from v.
func DecodeSignedTx(raw []byte) (*SignedTx, error) {
	items, err := rlp.DecodeList(raw)
	if err != nil {
		return nil, fmt.Errorf("decode transaction: %w", err)
	}
	if len(items) != 9 {
		return nil, fmt.Errorf("decode transaction: expected 9 fields, got %d", len(items))
	}

	var (
		tx   LegacyTx
		v    *big.Int
		r, s *big.Int
	)
	if tx.Nonce, err = items[0].Uint64(); err != nil {
		return nil, fmt.Errorf("nonce: %w", err)
	}
	if tx.GasPrice, err = items[1].BigInt(); err != nil {
		return nil, fmt.Errorf("gas price: %w", err)
	}
	if tx.GasLimit, err = items[2].Uint64(); err != nil {
		return nil, fmt.Errorf("gas limit: %w", err)
	}
	if items[3].IsList || len(items[3].Bytes) != ethcrypto.AddressLength {
		return nil, fmt.Errorf("to: expected %d-byte address", ethcrypto.AddressLength)
	}
	tx.To = ethcrypto.BytesToAddress(items[3].Bytes)
	if tx.Value, err = items[4].BigInt(); err != nil {
		return nil, fmt.Errorf("value: %w", err)
	}
	if items[5].IsList {
		return nil, fmt.Errorf("data: %w", rlp.ErrExpectedBytes)
	}
	tx.Data = items[5].Bytes
	if v, err = items[6].BigInt(); err != nil {
		return nil, fmt.Errorf("v: %w", err)
	}
	if r, err = items[7].BigInt(); err != nil {
		return nil, fmt.Errorf("r: %w", err)
	}
	if s, err = items[8].BigInt(); err != nil {
		return nil, fmt.Errorf("s: %w", err)
	}

	if v.Cmp(big.NewInt(35)) < 0 {
		return nil, ErrUnprotected
	}
	chainID := new(big.Int).Sub(v, big.NewInt(35))
	chainID.Rsh(chainID, 1)
	if !chainID.IsUint64() {
		return nil, fmt.Errorf("chain id out of range")
	}

	return &SignedTx{Tx: tx, ChainID: chainID.Uint64(), V: v, R: r, S: s}, nil
}
