package rlp

import (
	"bytes"
	"encoding/hex"
	"math/big"
	"testing"

	gethrlp "github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func TestEncodeBytes_Vectors(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  string
	}{
		{"empty", []byte{}, "80"},
		{"zero byte", []byte{0x00}, "00"},
		{"single low byte", []byte{0x0f}, "0f"},
		{"single 0x7f", []byte{0x7f}, "7f"},
		{"single 0x80", []byte{0x80}, "8180"},
		{"dog", []byte("dog"), "83646f67"},
		{"two bytes", []byte{0x04, 0x00}, "820400"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, hex.EncodeToString(EncodeBytes(tt.input)))
		})
	}
}

func TestEncodeBytes_LengthBoundaries(t *testing.T) {
	tests := []struct {
		size   int
		prefix []byte
	}{
		{0, []byte{0x80}},
		{1, nil}, // 'a' < 0x80 encodes as itself
		{54, []byte{0x80 + 54}},
		{55, []byte{0xb7}},
		{56, []byte{0xb8, 56}},
		{255, []byte{0xb8, 0xff}},
		{256, []byte{0xb9, 0x01, 0x00}},
		{1000, []byte{0xb9, 0x03, 0xe8}},
	}
	for _, tt := range tests {
		payload := bytes.Repeat([]byte{'a'}, tt.size)
		got := EncodeBytes(payload)
		want := append(append([]byte{}, tt.prefix...), payload...)
		assert.Equal(t, want, got, "size %d", tt.size)

		ref, err := gethrlp.EncodeToBytes(payload)
		require.NoError(t, err)
		assert.Equal(t, ref, got, "size %d vs reference", tt.size)
	}
}

func TestEncodeBytes_LoremIpsum(t *testing.T) {
	s := "Lorem ipsum dolor sit amet, consectetur adipisicing elit"
	require.Len(t, s, 56)
	want := "b838" + hex.EncodeToString([]byte(s))
	assert.Equal(t, want, hex.EncodeToString(EncodeBytes([]byte(s))))
}

func TestEncodeList_Vectors(t *testing.T) {
	assert.Equal(t, "c0", hex.EncodeToString(EncodeList()))
	assert.Equal(t, "c88363617483646f67",
		hex.EncodeToString(EncodeList(EncodeBytes([]byte("cat")), EncodeBytes([]byte("dog")))))

	// set-theoretic representation of three: [ [], [[]], [ [], [[]] ] ]
	empty := EncodeList()
	one := EncodeList(empty)
	three := EncodeList(empty, one, EncodeList(empty, one))
	assert.Equal(t, "c7c0c1c0c3c0c1c0", hex.EncodeToString(three))
}

func TestEncodeList_MatchesReference(t *testing.T) {
	for _, size := range []int{0, 1, 53, 54, 55, 56, 1000} {
		child := bytes.Repeat([]byte{0xaa}, size)
		got := EncodeList(EncodeBytes(child))

		ref, err := gethrlp.EncodeToBytes([][]byte{child})
		require.NoError(t, err)
		assert.Equal(t, ref, got, "child of %d bytes", size)
	}
}

func TestEncodeList_BoundaryPrefix(t *testing.T) {
	// 55 one-byte items → 55 byte payload → short form
	items := make([][]byte, 55)
	for i := range items {
		items[i] = EncodeBytes([]byte{0x01})
	}
	got := EncodeList(items...)
	assert.Equal(t, byte(0xc0+55), got[0])
	assert.Len(t, got, 56)

	// 56 → long form
	items = append(items, EncodeBytes([]byte{0x01}))
	got = EncodeList(items...)
	assert.Equal(t, []byte{0xf8, 56}, got[:2])
	assert.Len(t, got, 58)
}

func TestMinimalIntegers(t *testing.T) {
	assert.Equal(t, []byte{}, MinimalBytes(big.NewInt(0)))
	assert.Equal(t, []byte{}, MinimalBytes(nil))
	assert.Equal(t, []byte{0x01}, MinimalBytes(big.NewInt(1)))
	assert.Equal(t, []byte{0x01, 0x00}, MinimalBytes(big.NewInt(256)))

	assert.Equal(t, "80", hex.EncodeToString(EncodeUint64(0)))
	assert.Equal(t, "01", hex.EncodeToString(EncodeUint64(1)))
	assert.Equal(t, "7f", hex.EncodeToString(EncodeUint64(127)))
	assert.Equal(t, "8180", hex.EncodeToString(EncodeUint64(128)))
	assert.Equal(t, "820400", hex.EncodeToString(EncodeUint64(1024)))
	assert.Equal(t, "88ffffffffffffffff", hex.EncodeToString(EncodeUint64(^uint64(0))))
	assert.Equal(t, "80", hex.EncodeToString(EncodeBigInt(nil)))

	for _, n := range []uint64{1, 255, 256, 65535, 1 << 40, 30000000000} {
		b := MinimalBytes(new(big.Int).SetUint64(n))
		require.NotEmpty(t, b)
		assert.NotEqual(t, byte(0), b[0], "leading zero for %d", n)
		assert.Equal(t, EncodeUint64(n), EncodeBigInt(new(big.Int).SetUint64(n)))
	}
}

func TestMinimalBytes_NegativePanics(t *testing.T) {
	assert.Panics(t, func() { MinimalBytes(big.NewInt(-1)) })
}

func TestDecode_RoundTrip(t *testing.T) {
	inner := EncodeList(EncodeBytes([]byte("cat")), EncodeUint64(1024))
	encoded := EncodeList(
		EncodeUint64(0),
		EncodeBytes(bytes.Repeat([]byte{0x11}, 1000)),
		inner,
	)

	list, err := DecodeList(encoded)
	require.NoError(t, err)
	require.Len(t, list, 3)

	n, err := list[0].Uint64()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), n)
	assert.Len(t, list[1].Bytes, 1000)
	require.True(t, list[2].IsList)
	assert.Equal(t, []byte("cat"), list[2].List[0].Bytes)

	v, err := list[2].List[1].BigInt()
	require.NoError(t, err)
	assert.Equal(t, int64(1024), v.Int64())
}

func TestDecode_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"empty", "", ErrUnexpectedEOF},
		{"short string truncated", "83646f", ErrUnexpectedEOF},
		{"single byte wrapped", "8105", ErrNonCanonical},
		{"long form for short string", "b803646f67", ErrNonCanonical},
		{"trailing", "83646f6700", ErrTrailingBytes},
		{"list truncated", "c883636174", ErrUnexpectedEOF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(mustHex(t, tt.input))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDecodeList_RequiresList(t *testing.T) {
	_, err := DecodeList(EncodeBytes([]byte("dog")))
	assert.ErrorIs(t, err, ErrExpectedList)
}

func TestItem_IntegerLeadingZero(t *testing.T) {
	_, err := Item{Bytes: []byte{0x00, 0x01}}.Uint64()
	assert.ErrorIs(t, err, ErrNonCanonical)
}
