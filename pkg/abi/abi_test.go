package abi

import (
	"encoding/hex"
	"math/big"
	"strings"
	"testing"

	gethabi "github.com/ethereum/go-ethereum/accounts/abi"
	gethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fystack/evm-relayer/pkg/ethcrypto"
)

func word(hexSuffix string) string {
	return strings.Repeat("0", 64-len(hexSuffix)) + hexSuffix
}

func TestEncodeAddress(t *testing.T) {
	addr := ethcrypto.MustParseAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	got := hex.EncodeToString(EncodeAddress(addr))
	assert.Len(t, got, 64)
	assert.Equal(t, strings.Repeat("0", 24)+"f39fd6e51aad88f6f4ce6ab8827279cfffb92266", got)
}

func TestEncodeUint256(t *testing.T) {
	got, err := EncodeUint256(maxUint256)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("f", 64), hex.EncodeToString(got))

	got, err = EncodeUint256(big.NewInt(1))
	require.NoError(t, err)
	assert.Equal(t, word("1"), hex.EncodeToString(got))

	_, err = EncodeUint256(nil)
	assert.ErrorIs(t, err, ErrNil)

	_, err = EncodeUint256(new(big.Int).Add(maxUint256, big.NewInt(1)))
	assert.ErrorIs(t, err, ErrOverflow)

	_, err = EncodeUint256(big.NewInt(-1))
	assert.ErrorIs(t, err, ErrNegative)
}

func TestEncodeStringTail(t *testing.T) {
	tests := []struct {
		length    int
		wantBytes int
	}{
		{0, 32},
		{1, 64},
		{32, 64},
		{33, 96}, // length word + two payload words
	}
	for _, tt := range tests {
		got := EncodeStringTail(strings.Repeat("x", tt.length))
		assert.Len(t, got, tt.wantBytes, "length %d", tt.length)
		n, err := DecodeUint256(got)
		require.NoError(t, err)
		assert.Equal(t, int64(tt.length), n.Int64())
	}
	assert.Equal(t, 64, PaddedLength(33))
}

func TestEncoder_TransferKnownSample(t *testing.T) {
	data, err := NewEncoder("transfer(address,uint256)").
		Address(ethcrypto.MustParseAddress("0x0000000000000000000000000000000000000001")).
		Uint256(big.NewInt(1)).
		Bytes()
	require.NoError(t, err)
	assert.Equal(t, "0xa9059cbb"+word("1")+word("1"), Hex(data))
}

func TestEncoder_SingleStringLayout(t *testing.T) {
	to := ethcrypto.MustParseAddress("0x0000000000000000000000000000000000000002")
	data, err := NewEncoder("mint(address,string)").Address(to).String("hello").Bytes()
	require.NoError(t, err)

	sel := ethcrypto.FunctionSelector("mint(address,string)")
	want := hex.EncodeToString(sel[:]) +
		word("2") +
		word("40") +
		word("5") +
		hex.EncodeToString([]byte("hello")) + strings.Repeat("0", 64-10)
	assert.Equal(t, "0x"+want, Hex(data))
	assert.Equal(t, 0, (len(Hex(data))-2-8)%64)
}

func TestEncoder_MatchesReference(t *testing.T) {
	const abiJSON = `[
		{"type":"function","name":"issue","inputs":[{"name":"to","type":"address"},{"name":"uri","type":"string"},{"name":"meta","type":"string"}]},
		{"type":"function","name":"submitClaim","inputs":[{"name":"holder","type":"address"},{"name":"amount","type":"uint256"},{"name":"evidence","type":"string"}]},
		{"type":"function","name":"setActive","inputs":[{"name":"id","type":"uint256"},{"name":"active","type":"bool"}]}
	]`
	ref, err := gethabi.JSON(strings.NewReader(abiJSON))
	require.NoError(t, err)

	holder := "0x9d8A62f656a8d1615C1294fd71e9CFb3E4855A4F"
	long := strings.Repeat("ipfs://bafy", 7) // 77 bytes, spans three words

	got, err := NewEncoder("issue(address,string,string)").
		Address(ethcrypto.MustParseAddress(holder)).String(long).String("").Bytes()
	require.NoError(t, err)
	want, err := ref.Pack("issue", gethcommon.HexToAddress(holder), long, "")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	amount, _ := new(big.Int).SetString("123456789000000000000", 10)
	got, err = NewEncoder("submitClaim(address,uint256,string)").
		Address(ethcrypto.MustParseAddress(holder)).Uint256(amount).String("receipt #42").Bytes()
	require.NoError(t, err)
	want, err = ref.Pack("submitClaim", gethcommon.HexToAddress(holder), amount, "receipt #42")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	got, err = NewEncoder("setActive(uint256,bool)").Uint64(7).Bool(true).Bytes()
	require.NoError(t, err)
	want, err = ref.Pack("setActive", big.NewInt(7), true)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestEncoder_KeepsFirstError(t *testing.T) {
	_, err := NewEncoder("f(uint256,uint256)").
		Uint256(big.NewInt(-5)).
		Uint256(new(big.Int).Lsh(big.NewInt(1), 300)).
		Bytes()
	assert.ErrorIs(t, err, ErrNegative)
}

func TestDecodeUint256AndBool(t *testing.T) {
	data, err := hex.DecodeString(word("2a"))
	require.NoError(t, err)

	n, err := DecodeUint256(data)
	require.NoError(t, err)
	assert.Equal(t, int64(42), n.Int64())

	ok, err := DecodeBool(data)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = DecodeBool(make([]byte, 32))
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = DecodeUint256([]byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrShortData)

	_, err = DecodeBool(nil)
	assert.ErrorIs(t, err, ErrShortData)
}

func TestDecodeInt256(t *testing.T) {
	tests := []struct {
		name string
		hex  string
		want string
	}{
		{"minus one", strings.Repeat("f", 64), "-1"},
		{"plus one", word("1"), "1"},
		{"max int256", "7" + strings.Repeat("f", 63), new(big.Int).Sub(twoTo255, big.NewInt(1)).String()},
		{"min int256", "8" + strings.Repeat("0", 63), new(big.Int).Neg(twoTo255).String()},
		{"minus 1000", strings.Repeat("f", 61) + "c18", "-1000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := hex.DecodeString(tt.hex)
			require.NoError(t, err)
			n, err := DecodeInt256(data)
			require.NoError(t, err)
			assert.Equal(t, tt.want, n.String())
		})
	}
}

func TestDecodeAddress(t *testing.T) {
	want := ethcrypto.MustParseAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	got, err := DecodeAddress(EncodeAddress(want))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDecodeString(t *testing.T) {
	for _, s := range []string{"", "a", strings.Repeat("z", 33), "ipfs://bafybeigdyrzt5sfp7udm7hu76uh7y26nf3efuylqabf3oclgtqy55fbzdi"} {
		data := append(EncodeUint64(32), EncodeStringTail(s)...)
		got, err := DecodeString(data)
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	bad := append(EncodeUint64(32), EncodeUint64(100)...)
	_, err := DecodeString(bad)
	assert.ErrorIs(t, err, ErrShortData)

	_, err = DecodeString(EncodeUint64(4096))
	assert.ErrorIs(t, err, ErrShortData)
}

func TestEncoder_NilUint256(t *testing.T) {
	_, err := NewEncoder("revoke(uint256)").Uint256(nil).Bytes()
	assert.ErrorIs(t, err, ErrNil)
}
