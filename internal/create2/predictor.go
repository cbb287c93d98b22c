// Package create2 computes deterministic CREATE2 deployment addresses.
package create2

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// SaltLength is the size of a CREATE2 salt
const SaltLength = 32

// preimage layout: 0xff ++ factory(20) ++ salt(32) ++ keccak256(initCode)(32)
const preimageLength = 1 + common.AddressLength + SaltLength + common.HashLength

// Predict returns keccak256(0xff ++ factory ++ salt ++ keccak256(initCode))[12:].
// salt may be shorter than 32 bytes, in which case it is left zero-padded.
func Predict(factory common.Address, salt []byte, initCode []byte) (common.Address, error) {
	padded, err := PadSalt(salt)
	if err != nil {
		return common.Address{}, err
	}
	return PredictFromHash(factory, padded, InitCodeHash(initCode)), nil
}

// PredictFromHash is Predict for callers that already hold the init code hash.
func PredictFromHash(factory common.Address, salt [32]byte, initCodeHash common.Hash) common.Address {
	data := make([]byte, 0, preimageLength)
	data = append(data, 0xff)
	data = append(data, factory.Bytes()...)
	data = append(data, salt[:]...)
	data = append(data, initCodeHash.Bytes()...)

	hash := crypto.Keccak256(data)
	return common.BytesToAddress(hash[12:])
}

// InitCodeHash hashes the full deployment bytecode including constructor arguments.
func InitCodeHash(initCode []byte) common.Hash {
	return crypto.Keccak256Hash(initCode)
}

// InitCode concatenates creation bytecode and ABI-encoded constructor arguments.
func InitCode(bytecode, encodedArgs []byte) []byte {
	out := make([]byte, 0, len(bytecode)+len(encodedArgs))
	out = append(out, bytecode...)
	return append(out, encodedArgs...)
}
