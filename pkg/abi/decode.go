package abi

import (
	"fmt"
	"math/big"

	"github.com/fystack/evm-relayer/pkg/ethcrypto"
)

// WordAt returns the i-th 32-byte word of data.
func WordAt(data []byte, i int) ([]byte, error) {
	start := i * WordSize
	if i < 0 || len(data) < start+WordSize {
		return nil, fmt.Errorf("%w: need word %d, have %d bytes", ErrShortData, i, len(data))
	}
	return data[start : start+WordSize], nil
}

// DecodeUint256 reads the first word as an unsigned integer.
func DecodeUint256(data []byte) (*big.Int, error) {
	w, err := WordAt(data, 0)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(w), nil
}

// DecodeBool treats any non-zero first word as true.
func DecodeBool(data []byte) (bool, error) {
	n, err := DecodeUint256(data)
	if err != nil {
		return false, err
	}
	return n.Sign() != 0, nil
}

// DecodeInt256 reads the first word as a two's-complement signed integer.
func DecodeInt256(data []byte) (*big.Int, error) {
	n, err := DecodeUint256(data)
	if err != nil {
		return nil, err
	}
	if n.Cmp(twoTo255) >= 0 {
		n.Sub(n, twoTo256)
	}
	return n, nil
}

// DecodeAddress reads the low 20 bytes of the first word.
func DecodeAddress(data []byte) (ethcrypto.Address, error) {
	w, err := WordAt(data, 0)
	if err != nil {
		return ethcrypto.Address{}, err
	}
	return ethcrypto.BytesToAddress(w), nil
}

// DecodeString reads a single string return value: offset word, then length
// word and payload at that offset.
func DecodeString(data []byte) (string, error) {
	off, err := DecodeUint256(data)
	if err != nil {
		return "", err
	}
	if !off.IsInt64() || off.Int64() > int64(len(data)) {
		return "", fmt.Errorf("%w: string offset %s out of range", ErrShortData, off)
	}
	start := int(off.Int64())
	size, err := DecodeUint256(data[start:])
	if err != nil {
		return "", err
	}
	body := data[start+WordSize:]
	if !size.IsInt64() || size.Int64() > int64(len(body)) {
		return "", fmt.Errorf("%w: string length %s exceeds payload", ErrShortData, size)
	}
	return string(body[:size.Int64()]), nil
}
