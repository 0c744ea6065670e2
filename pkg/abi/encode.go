// Package abi builds and reads Solidity ABI calldata for the static word
// types and strings the relayer calls. It is not a general tuple codec.
package abi

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"

	"github.com/fystack/evm-relayer/pkg/ethcrypto"
)

const WordSize = 32

var (
	ErrOverflow  = errors.New("abi: value does not fit in 256 bits")
	ErrNegative  = errors.New("abi: negative value for unsigned type")
	ErrShortData = errors.New("abi: data too short")
	ErrNil       = errors.New("abi: nil integer")
)

var (
	maxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
	twoTo255   = new(big.Int).Lsh(big.NewInt(1), 255)
	twoTo256   = new(big.Int).Lsh(big.NewInt(1), 256)
)

// EncodeUint256 returns n as a 32-byte big-endian word.
func EncodeUint256(n *big.Int) ([]byte, error) {
	if n == nil {
		return nil, ErrNil
	}
	if n.Sign() < 0 {
		return nil, fmt.Errorf("%w: %s", ErrNegative, n)
	}
	if n.Cmp(maxUint256) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrOverflow, n)
	}
	return n.FillBytes(make([]byte, WordSize)), nil
}

func EncodeUint64(n uint64) []byte {
	w, _ := EncodeUint256(new(big.Int).SetUint64(n))
	return w
}

// EncodeAddress left-pads the 20 address bytes to a word.
func EncodeAddress(a ethcrypto.Address) []byte {
	w := make([]byte, WordSize)
	copy(w[WordSize-ethcrypto.AddressLength:], a[:])
	return w
}

func EncodeBool(v bool) []byte {
	w := make([]byte, WordSize)
	if v {
		w[WordSize-1] = 1
	}
	return w
}

// EncodeStringTail returns the dynamic part of a string argument: a length
// word followed by the UTF-8 bytes right-padded to a multiple of 32.
func EncodeStringTail(s string) []byte {
	out := make([]byte, WordSize+PaddedLength(len(s)))
	copy(out, EncodeUint64(uint64(len(s))))
	copy(out[WordSize:], s)
	return out
}

// PaddedLength rounds n up to a whole number of words.
func PaddedLength(n int) int {
	return (n + WordSize - 1) / WordSize * WordSize
}

// Hex renders calldata as a 0x-prefixed lowercase hex string.
func Hex(b []byte) string {
	return "0x" + hex.EncodeToString(b)
}

type headWord struct {
	word []byte
	tail int // index into Encoder.tails, -1 for static words
}

// Encoder accumulates the arguments of one call in declaration order. Static
// arguments occupy one head word each; each string takes an offset word in
// the head and places its payload after all head words. The first error is
// kept and returned by Bytes.
type Encoder struct {
	selector [ethcrypto.SelectorLength]byte
	heads    []headWord
	tails    [][]byte
	err      error
}

// NewEncoder starts calldata for the canonical signature, e.g. "mint(address,string)".
func NewEncoder(signature string) *Encoder {
	return &Encoder{selector: ethcrypto.FunctionSelector(signature)}
}

func (e *Encoder) Address(a ethcrypto.Address) *Encoder {
	return e.static(EncodeAddress(a))
}

func (e *Encoder) Uint256(n *big.Int) *Encoder {
	w, err := EncodeUint256(n)
	if err != nil {
		e.setErr(err)
		return e
	}
	return e.static(w)
}

func (e *Encoder) Uint64(n uint64) *Encoder {
	return e.static(EncodeUint64(n))
}

func (e *Encoder) Bool(v bool) *Encoder {
	return e.static(EncodeBool(v))
}

func (e *Encoder) String(s string) *Encoder {
	e.heads = append(e.heads, headWord{tail: len(e.tails)})
	e.tails = append(e.tails, EncodeStringTail(s))
	return e
}

// Bytes returns selector || head words || tails.
func (e *Encoder) Bytes() ([]byte, error) {
	if e.err != nil {
		return nil, e.err
	}

	headSize := WordSize * len(e.heads)
	offsets := make([]int, len(e.tails))
	next := headSize
	for i, t := range e.tails {
		offsets[i] = next
		next += len(t)
	}

	out := make([]byte, 0, ethcrypto.SelectorLength+next)
	out = append(out, e.selector[:]...)
	for _, h := range e.heads {
		if h.tail < 0 {
			out = append(out, h.word...)
			continue
		}
		out = append(out, EncodeUint64(uint64(offsets[h.tail]))...)
	}
	for _, t := range e.tails {
		out = append(out, t...)
	}
	return out, nil
}

func (e *Encoder) static(w []byte) *Encoder {
	e.heads = append(e.heads, headWord{word: w, tail: -1})
	return e
}

func (e *Encoder) setErr(err error) {
	if e.err == nil {
		e.err = err
	}
}
