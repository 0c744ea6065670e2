package ethcrypto

import "golang.org/x/crypto/sha3"

const (
	HashLength     = 32
	SelectorLength = 4
)

// Keccak256 hashes the concatenation of data with the original Keccak-256
// padding. This is not FIPS-202 SHA3-256.
func Keccak256(data ...[]byte) []byte {
	h := sha3.NewLegacyKeccak256()
	for _, b := range data {
		h.Write(b)
	}
	return h.Sum(nil)
}

// FunctionSelector returns the first four bytes of the hash of a canonical
// function signature such as "transfer(address,uint256)".
func FunctionSelector(signature string) [SelectorLength]byte {
	var sel [SelectorLength]byte
	copy(sel[:], Keccak256([]byte(signature)))
	return sel
}
