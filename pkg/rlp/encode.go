// Package rlp implements the recursive length prefix encoding used by
// Ethereum for transactions.
package rlp

import (
	"math/big"
)

const (
	offsetShortString = 0x80
	offsetLongString  = 0xb7
	offsetShortList   = 0xc0
	offsetLongList    = 0xf7

	// payloads up to this size take a single prefix byte
	maxShortPayload = 55
)

// EncodeBytes encodes a byte string. A single byte below 0x80 is its own
// encoding; everything else carries a length prefix.
func EncodeBytes(b []byte) []byte {
	if len(b) == 1 && b[0] < offsetShortString {
		return []byte{b[0]}
	}
	return withPrefix(offsetShortString, offsetLongString, b)
}

// EncodeList wraps already-encoded items in a list header.
func EncodeList(items ...[]byte) []byte {
	size := 0
	for _, it := range items {
		size += len(it)
	}
	payload := make([]byte, 0, size)
	for _, it := range items {
		payload = append(payload, it...)
	}
	return withPrefix(offsetShortList, offsetLongList, payload)
}

// EncodeUint64 encodes n as a minimal big-endian byte string; zero is the
// empty string (0x80).
func EncodeUint64(n uint64) []byte {
	return EncodeBytes(uint64Bytes(n))
}

// EncodeBigInt encodes a non-negative integer as a minimal big-endian byte
// string. nil is treated as zero. Negative values panic since they have no
// RLP representation; callers validate amounts before encoding.
func EncodeBigInt(n *big.Int) []byte {
	return EncodeBytes(MinimalBytes(n))
}

// MinimalBytes returns the big-endian bytes of n with no leading zeros.
// Zero yields an empty slice.
func MinimalBytes(n *big.Int) []byte {
	if n == nil || n.Sign() == 0 {
		return []byte{}
	}
	if n.Sign() < 0 {
		panic("rlp: cannot encode negative integer")
	}
	return n.Bytes()
}

func withPrefix(shortOffset, longOffset byte, payload []byte) []byte {
	if len(payload) <= maxShortPayload {
		out := make([]byte, 0, 1+len(payload))
		out = append(out, shortOffset+byte(len(payload)))
		return append(out, payload...)
	}
	lenBytes := uint64Bytes(uint64(len(payload)))
	out := make([]byte, 0, 1+len(lenBytes)+len(payload))
	out = append(out, longOffset+byte(len(lenBytes)))
	out = append(out, lenBytes...)
	return append(out, payload...)
}

func uint64Bytes(n uint64) []byte {
	var buf [8]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte(n)
		n >>= 8
	}
	return append([]byte{}, buf[i:]...)
}
