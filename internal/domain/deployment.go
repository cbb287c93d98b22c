package domain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// DeploymentSpec describes one deterministic deployment. It is immutable once
// built; InitCode is always Bytecode followed by ConstructorArgs.
type DeploymentSpec struct {
	ChainID         uint64
	RPCEndpoint     string
	ABI             abi.ABI
	Bytecode        []byte
	ConstructorArgs []byte
	InitCode        []byte
	Salt            [32]byte
	Value           *big.Int
}

// NewDeploymentSpec builds a spec from bytecode and already encoded constructor arguments.
func NewDeploymentSpec(chainID uint64, rpcEndpoint string, contractABI abi.ABI, bytecode, constructorArgs []byte, salt [32]byte) *DeploymentSpec {
	initCode := make([]byte, 0, len(bytecode)+len(constructorArgs))
	initCode = append(initCode, bytecode...)
	initCode = append(initCode, constructorArgs...)

	return &DeploymentSpec{
		ChainID:         chainID,
		RPCEndpoint:     rpcEndpoint,
		ABI:             contractABI,
		Bytecode:        common.CopyBytes(bytecode),
		ConstructorArgs: common.CopyBytes(constructorArgs),
		InitCode:        initCode,
		Salt:            salt,
		Value:           new(big.Int),
	}
}

// WithValue returns a copy of the spec that forwards value to the constructor.
func (s *DeploymentSpec) WithValue(value *big.Int) *DeploymentSpec {
	cp := *s
	cp.Value = new(big.Int)
	if value != nil {
		cp.Value.Set(value)
	}
	return &cp
}

type ReceiptStatus string

const (
	ReceiptStatusSuccess  ReceiptStatus = "success"
	ReceiptStatusReverted ReceiptStatus = "reverted"
)

// Receipt is the confirmation record of a submitted transaction.
type Receipt struct {
	Status          ReceiptStatus   `json:"status"`
	ContractAddress *common.Address `json:"contractAddress,omitempty"`
	TxHash          common.Hash     `json:"transactionHash"`
	BlockNumber     uint64          `json:"blockNumber"`
	GasUsed         uint64          `json:"gasUsed"`
	Logs            []*types.Log    `json:"logs"`
}

func (r *Receipt) Succeeded() bool {
	return r != nil && r.Status == ReceiptStatusSuccess
}

// ReceiptFromTypes converts a go-ethereum receipt.
func ReceiptFromTypes(r *types.Receipt) *Receipt {
	status := ReceiptStatusReverted
	if r.Status == types.ReceiptStatusSuccessful {
		status = ReceiptStatusSuccess
	}

	receipt := &Receipt{
		Status:  status,
		TxHash:  r.TxHash,
		GasUsed: r.GasUsed,
		Logs:    r.Logs,
	}
	if r.BlockNumber != nil {
		receipt.BlockNumber = r.BlockNumber.Uint64()
	}
	if r.ContractAddress != (common.Address{}) {
		addr := r.ContractAddress
		receipt.ContractAddress = &addr
	}
	return receipt
}

// DeployResult is returned by a deployment. Receipt is nil when code was
// already present at Address and no transaction was sent.
type DeployResult struct {
	Address common.Address `json:"address"`
	Receipt *Receipt       `json:"receipt"`
}

func (r *DeployResult) Skipped() bool {
	return r.Receipt == nil
}

// Artifact is the part of a Foundry compilation artifact needed for deployment.
type Artifact struct {
	Name     string
	Path     string
	ABI      abi.ABI
	Bytecode []byte
}

// DecodedEvent is a receipt log decoded against the emitter's ABI. Name is
// empty when no matching event was found.
type DecodedEvent struct {
	Address   common.Address `json:"address"`
	Name      string         `json:"name,omitempty"`
	Signature string         `json:"signature,omitempty"`
	Topic     common.Hash    `json:"topic"`
	Params    []EventParam   `json:"params,omitempty"`
}

// EventParam is one decoded event argument, formatted for display
type EventParam struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value string `json:"value"`
}
