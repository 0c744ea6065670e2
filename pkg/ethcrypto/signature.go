package ethcrypto

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

const compactSigMagicOffset = 27

var ErrInvalidSignature = errors.New("invalid signature")

// Signature is an (r, s, recovery id) triple over secp256k1.
type Signature struct {
	R          *big.Int
	S          *big.Int
	RecoveryID byte
}

// Sign produces a deterministic (RFC 6979), low-S signature over a 32-byte hash.
func Sign(hash []byte, k *PrivateKey) (Signature, error) {
	if len(hash) != HashLength {
		return Signature{}, fmt.Errorf("sign: hash must be %d bytes, got %d", HashLength, len(hash))
	}
	if k == nil || k.key == nil {
		return Signature{}, fmt.Errorf("sign: %w: nil key", ErrInvalidPrivateKey)
	}

	// compact layout: [27 + recid] || R || S
	compact := ecdsa.SignCompact(k.key, hash, false)
	if len(compact) != 65 {
		return Signature{}, fmt.Errorf("sign: unexpected compact signature length %d", len(compact))
	}
	return Signature{
		R:          new(big.Int).SetBytes(compact[1:33]),
		S:          new(big.Int).SetBytes(compact[33:65]),
		RecoveryID: compact[0] - compactSigMagicOffset,
	}, nil
}

// RecoverAddress returns the address whose key produced sig over hash.
func RecoverAddress(hash []byte, sig Signature) (Address, error) {
	if len(hash) != HashLength {
		return Address{}, fmt.Errorf("%w: hash must be %d bytes", ErrInvalidSignature, HashLength)
	}
	if sig.R == nil || sig.S == nil || sig.R.Sign() <= 0 || sig.S.Sign() <= 0 ||
		sig.R.BitLen() > 256 || sig.S.BitLen() > 256 {
		return Address{}, fmt.Errorf("%w: r/s out of range", ErrInvalidSignature)
	}
	if sig.RecoveryID > 3 {
		return Address{}, fmt.Errorf("%w: recovery id %d", ErrInvalidSignature, sig.RecoveryID)
	}

	compact := make([]byte, 65)
	compact[0] = compactSigMagicOffset + sig.RecoveryID
	sig.R.FillBytes(compact[1:33])
	sig.S.FillBytes(compact[33:65])

	pub, _, err := ecdsa.RecoverCompact(compact, hash)
	if err != nil {
		return Address{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return PubkeyToAddress(pub.SerializeUncompressed())
}
