package create2

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/trebuchet-org/treb-create2/internal/domain"
)

// PadSalt left-pads b with zeros to 32 bytes, matching bytes32(uint256(x)).
func PadSalt(b []byte) ([32]byte, error) {
	var salt [32]byte
	if len(b) > SaltLength {
		return salt, &domain.InvalidInputLengthError{Field: "salt", Got: len(b), Want: "at most 32"}
	}
	copy(salt[SaltLength-len(b):], b)
	return salt, nil
}

// ParseSalt accepts a 0x-prefixed hex string or a decimal integer.
// An empty string is the zero salt.
func ParseSalt(s string) ([32]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return [32]byte{}, nil
	}

	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		digits := s[2:]
		if len(digits)%2 == 1 {
			digits = "0" + digits
		}
		b, err := hexutil.Decode("0x" + digits)
		if err != nil {
			return [32]byte{}, fmt.Errorf("invalid hex salt %q: %w", s, err)
		}
		return PadSalt(b)
	}

	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return [32]byte{}, fmt.Errorf("invalid salt %q: expected 0x-prefixed hex or a decimal integer", s)
	}
	if n.Sign() < 0 {
		return [32]byte{}, fmt.Errorf("invalid salt %q: must not be negative", s)
	}
	return PadSalt(n.Bytes())
}
