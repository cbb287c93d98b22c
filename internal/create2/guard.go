package create2

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/trebuchet-org/treb-create2/internal/domain"
)

// Redeploy protection flag stored in byte 20 of a CreateX salt.
const (
	flagNoProtection byte = 0x00
	flagProtected    byte = 0x01
)

// GuardSalt derives the salt CreateX feeds to CREATE2 when sender calls
// deployCreate2(salt, initCode) on chainID.
//
// The first 20 bytes of salt select sender protection (sender address or zero
// address), byte 20 selects cross-chain redeploy protection. A zero sender
// means the caller is unknown; a zero prefix never matches it, since
// msg.sender is never the zero address.
func GuardSalt(salt [32]byte, sender common.Address, chainID uint64) ([32]byte, error) {
	prefix := common.BytesToAddress(salt[:common.AddressLength])
	flag := salt[common.AddressLength]
	zeroPrefix := prefix == (common.Address{})
	senderPrefix := !zeroPrefix && prefix == sender

	switch {
	case senderPrefix && flag == flagProtected:
		return keccak(
			common.LeftPadBytes(sender.Bytes(), 32),
			common.LeftPadBytes(new(big.Int).SetUint64(chainID).Bytes(), 32),
			salt[:],
		), nil
	case senderPrefix && flag == flagNoProtection:
		return keccak(common.LeftPadBytes(sender.Bytes(), 32), salt[:]), nil
	case senderPrefix:
		return [32]byte{}, fmt.Errorf("%w: redeploy protection flag 0x%02x for sender-protected salt", domain.ErrInvalidSalt, flag)
	case zeroPrefix && flag == flagProtected:
		return keccak(common.LeftPadBytes(new(big.Int).SetUint64(chainID).Bytes(), 32), salt[:]), nil
	case zeroPrefix && flag != flagNoProtection:
		return [32]byte{}, fmt.Errorf("%w: redeploy protection flag 0x%02x for zero-address salt", domain.ErrInvalidSalt, flag)
	default:
		return keccak(salt[:]), nil
	}
}

func keccak(parts ...[]byte) [32]byte {
	return crypto.Keccak256Hash(parts...)
}
