package ethcrypto

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

const PrivateKeyLength = 32

var ErrInvalidPrivateKey = errors.New("invalid private key")

// PrivateKey is a secp256k1 signing key.
type PrivateKey struct {
	key *secp256k1.PrivateKey
}

// PrivateKeyFromBytes accepts exactly 32 big-endian bytes in [1, N-1].
func PrivateKeyFromBytes(b []byte) (*PrivateKey, error) {
	if len(b) != PrivateKeyLength {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidPrivateKey, PrivateKeyLength, len(b))
	}
	var scalar secp256k1.ModNScalar
	if overflow := scalar.SetByteSlice(b); overflow {
		return nil, fmt.Errorf("%w: not below curve order", ErrInvalidPrivateKey)
	}
	if scalar.IsZero() {
		return nil, fmt.Errorf("%w: zero key", ErrInvalidPrivateKey)
	}
	return &PrivateKey{key: secp256k1.NewPrivateKey(&scalar)}, nil
}

// ParsePrivateKey decodes a hex private key with or without 0x prefix.
func ParsePrivateKey(s string) (*PrivateKey, error) {
	h := strings.TrimSpace(s)
	h = strings.TrimPrefix(strings.TrimPrefix(h, "0x"), "0X")
	b, err := hex.DecodeString(h)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPrivateKey, err)
	}
	defer zero(b)
	return PrivateKeyFromBytes(b)
}

// PublicKey returns the 65-byte uncompressed public key (0x04 || X || Y).
func (k *PrivateKey) PublicKey() []byte {
	return k.key.PubKey().SerializeUncompressed()
}

func (k *PrivateKey) Address() Address {
	return DeriveAddress(k)
}

// Zero wipes the key material.
func (k *PrivateKey) Zero() {
	k.key.Zero()
}

// DeriveAddress hashes the uncompressed public key without its prefix byte
// and keeps the last 20 bytes.
func DeriveAddress(k *PrivateKey) Address {
	addr, _ := PubkeyToAddress(k.PublicKey())
	return addr
}

// PubkeyToAddress converts a 65-byte uncompressed secp256k1 public key.
func PubkeyToAddress(pub []byte) (Address, error) {
	if len(pub) != 65 || pub[0] != 0x04 {
		return Address{}, fmt.Errorf("invalid uncompressed public key (len=%d)", len(pub))
	}
	return BytesToAddress(Keccak256(pub[1:])[12:]), nil
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
