package evm

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// DecodeHexData decodes a 0x-prefixed DATA value. "0x" decodes to an empty
// slice.
func DecodeHexData(s string) ([]byte, error) {
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		return nil, fmt.Errorf("missing 0x prefix: %q", s)
	}
	raw := s[2:]
	if len(raw)%2 == 1 {
		raw = "0" + raw
	}
	return hex.DecodeString(raw)
}
