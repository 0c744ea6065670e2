package rlp

import (
	"errors"
	"fmt"
	"math/big"
)

var (
	ErrUnexpectedEOF = errors.New("rlp: unexpected end of input")
	ErrTrailingBytes = errors.New("rlp: trailing bytes after value")
	ErrNonCanonical  = errors.New("rlp: non-canonical encoding")
	ErrExpectedList  = errors.New("rlp: expected list")
	ErrExpectedBytes = errors.New("rlp: expected byte string")
)

// Item is a decoded RLP value: either a byte string or a list.
type Item struct {
	IsList bool
	Bytes  []byte
	List   []Item
}

// Decode parses exactly one canonical RLP value from b.
func Decode(b []byte) (Item, error) {
	item, rest, err := decodeItem(b)
	if err != nil {
		return Item{}, err
	}
	if len(rest) != 0 {
		return Item{}, ErrTrailingBytes
	}
	return item, nil
}

// DecodeList decodes b and requires it to be a list.
func DecodeList(b []byte) ([]Item, error) {
	item, err := Decode(b)
	if err != nil {
		return nil, err
	}
	if !item.IsList {
		return nil, ErrExpectedList
	}
	return item.List, nil
}

// Uint64 interprets a byte string item as a minimal big-endian integer.
func (it Item) Uint64() (uint64, error) {
	if it.IsList {
		return 0, ErrExpectedBytes
	}
	if len(it.Bytes) > 8 {
		return 0, fmt.Errorf("rlp: integer of %d bytes overflows uint64", len(it.Bytes))
	}
	if len(it.Bytes) > 0 && it.Bytes[0] == 0 {
		return 0, ErrNonCanonical
	}
	var n uint64
	for _, c := range it.Bytes {
		n = n<<8 | uint64(c)
	}
	return n, nil
}

// BigInt interprets a byte string item as a minimal big-endian integer.
func (it Item) BigInt() (*big.Int, error) {
	if it.IsList {
		return nil, ErrExpectedBytes
	}
	if len(it.Bytes) > 0 && it.Bytes[0] == 0 {
		return nil, ErrNonCanonical
	}
	return new(big.Int).SetBytes(it.Bytes), nil
}

func decodeItem(b []byte) (Item, []byte, error) {
	if len(b) == 0 {
		return Item{}, nil, ErrUnexpectedEOF
	}
	prefix := b[0]
	switch {
	case prefix < offsetShortString:
		return Item{Bytes: []byte{prefix}}, b[1:], nil

	case prefix <= offsetLongString:
		size := int(prefix - offsetShortString)
		payload, rest, err := take(b[1:], size)
		if err != nil {
			return Item{}, nil, err
		}
		if size == 1 && payload[0] < offsetShortString {
			return Item{}, nil, ErrNonCanonical
		}
		return Item{Bytes: payload}, rest, nil

	case prefix < offsetShortList:
		size, body, err := longSize(b[1:], int(prefix-offsetLongString))
		if err != nil {
			return Item{}, nil, err
		}
		payload, rest, err := take(body, size)
		if err != nil {
			return Item{}, nil, err
		}
		return Item{Bytes: payload}, rest, nil

	case prefix <= offsetLongList:
		payload, rest, err := take(b[1:], int(prefix-offsetShortList))
		if err != nil {
			return Item{}, nil, err
		}
		list, err := decodeListPayload(payload)
		return list, rest, err

	default:
		size, body, err := longSize(b[1:], int(prefix-offsetLongList))
		if err != nil {
			return Item{}, nil, err
		}
		payload, rest, err := take(body, size)
		if err != nil {
			return Item{}, nil, err
		}
		list, err := decodeListPayload(payload)
		return list, rest, err
	}
}

func decodeListPayload(payload []byte) (Item, error) {
	items := []Item{}
	for len(payload) > 0 {
		it, rest, err := decodeItem(payload)
		if err != nil {
			return Item{}, err
		}
		items = append(items, it)
		payload = rest
	}
	return Item{IsList: true, List: items}, nil
}

// longSize reads a big-endian length of lenOfLen bytes and enforces that the
// long form was actually required.
func longSize(b []byte, lenOfLen int) (int, []byte, error) {
	raw, rest, err := take(b, lenOfLen)
	if err != nil {
		return 0, nil, err
	}
	if raw[0] == 0 || lenOfLen > 8 {
		return 0, nil, ErrNonCanonical
	}
	var size uint64
	for _, c := range raw {
		size = size<<8 | uint64(c)
	}
	if size <= maxShortPayload {
		return 0, nil, ErrNonCanonical
	}
	if size > uint64(len(rest)) {
		return 0, nil, ErrUnexpectedEOF
	}
	return int(size), rest, nil
}

func take(b []byte, n int) ([]byte, []byte, error) {
	if n > len(b) {
		return nil, nil, ErrUnexpectedEOF
	}
	return b[:n], b[n:], nil
}
