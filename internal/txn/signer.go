package txn

import (
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/fystack/evm-relayer/pkg/ethcrypto"
	"github.com/fystack/evm-relayer/pkg/rlp"
)

// Signer signs legacy transactions for one chain with one key.
type Signer struct {
	key     *ethcrypto.PrivateKey
	chainID uint64
	address ethcrypto.Address
}

func NewSigner(key *ethcrypto.PrivateKey, chainID uint64) *Signer {
	return &Signer{key: key, chainID: chainID, address: key.Address()}
}

func (s *Signer) Address() ethcrypto.Address { return s.address }
func (s *Signer) ChainID() uint64            { return s.chainID }

// Sign hashes the EIP-155 payload of tx and signs it.
func (s *Signer) Sign(tx *LegacyTx) (*SignedTx, error) {
	if tx.GasPrice != nil && tx.GasPrice.Sign() < 0 {
		return nil, fmt.Errorf("negative gas price")
	}
	if tx.Value != nil && tx.Value.Sign() < 0 {
		return nil, fmt.Errorf("negative value")
	}

	sig, err := ethcrypto.Sign(tx.SigningHash(s.chainID), s.key)
	if err != nil {
		return nil, fmt.Errorf("sign transaction: %w", err)
	}
	return &SignedTx{
		Tx:      *tx,
		ChainID: s.chainID,
		V:       EIP155V(sig.RecoveryID, s.chainID),
		R:       sig.R,
		S:       sig.S,
	}, nil
}

// EIP155V returns recid + chainID*2 + 35.
func EIP155V(recid byte, chainID uint64) *big.Int {
	v := new(big.Int).SetUint64(chainID)
	v.Lsh(v, 1)
	return v.Add(v, big.NewInt(35+int64(recid)))
}

// SignedTx is a legacy transaction with its EIP-155 signature.
type SignedTx struct {
	Tx      LegacyTx
	ChainID uint64
	V, R, S *big.Int
}

// Raw returns rlp([nonce, gasPrice, gasLimit, to, value, data, v, r, s]),
// the bytes passed to eth_sendRawTransaction.
func (t *SignedTx) Raw() []byte {
	items := append(t.Tx.fields(),
		rlp.EncodeBigInt(t.V),
		rlp.EncodeBigInt(t.R),
		rlp.EncodeBigInt(t.S),
	)
	return rlp.EncodeList(items...)
}

func (t *SignedTx) RawHex() string {
	return "0x" + hex.EncodeToString(t.Raw())
}

// Hash is the transaction hash as the network computes it.
func (t *SignedTx) Hash() []byte {
	return ethcrypto.Keccak256(t.Raw())
}

func (t *SignedTx) HashHex() string {
	return "0x" + hex.EncodeToString(t.Hash())
}

// RecoveryID extracts the recovery id from V.
func (t *SignedTx) RecoveryID() (byte, error) {
	base := EIP155V(0, t.ChainID)
	id := new(big.Int).Sub(t.V, base)
	if id.Sign() < 0 || id.Cmp(big.NewInt(1)) > 0 {
		return 0, fmt.Errorf("v %s does not match chain %d", t.V, t.ChainID)
	}
	return byte(id.Uint64()), nil
}

// Sender recovers the signing address.
func (t *SignedTx) Sender() (ethcrypto.Address, error) {
	recid, err := t.RecoveryID()
	if err != nil {
		return ethcrypto.Address{}, err
	}
	return ethcrypto.RecoverAddress(t.Tx.SigningHash(t.ChainID), ethcrypto.Signature{
		R:          t.R,
		S:          t.S,
		RecoveryID: recid,
	})
}
