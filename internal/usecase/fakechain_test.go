package usecase

import (
	"bytes"
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/trebuchet-org/treb-create2/internal/domain"
)

const storageABIJSON = `[
	{"type":"constructor","inputs":[],"stateMutability":"nonpayable"},
	{"type":"function","name":"x","inputs":[],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"view"},
	{"type":"function","name":"setX","inputs":[{"name":"v","type":"uint256"}],"outputs":[],"stateMutability":"nonpayable"},
	{"type":"function","name":"deposit","inputs":[],"outputs":[],"stateMutability":"payable"},
	{"type":"function","name":"add","inputs":[{"name":"a","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"pure"},
	{"type":"function","name":"add","inputs":[{"name":"a","type":"uint256"},{"name":"b","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"pure"},
	{"type":"function","name":"fail","inputs":[],"outputs":[],"stateMutability":"nonpayable"}
]`

// storageBytecode is init code deploying a contract that returns slot 0 for
// short calldata and stores calldata[4:36] otherwise.
var storageBytecode = common.FromHex("0x793660041060125760005460005260206000f35b60043560005500600052601a6006f3")

var (
	testFactoryAddress = common.HexToAddress("0x4e59b44847b379578588920cA78FbF26c0B4956C")
	senderA            = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	senderB            = common.HexToAddress("0x00000000000000000000000000000000000000b2")

	selectorX       = crypto.Keccak256([]byte("x()"))[:4]
	selectorSetX    = crypto.Keccak256([]byte("setX(uint256)"))[:4]
	selectorDeposit = crypto.Keccak256([]byte("deposit()"))[:4]
	selectorFail    = crypto.Keccak256([]byte("fail()"))[:4]
)

func mustStorageABI() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(storageABIJSON))
	if err != nil {
		panic(err)
	}
	return parsed
}

// testFactory has the calldata layout of the deterministic deployment proxy
type testFactory struct{}

func (testFactory) Name() string            { return "test" }
func (testFactory) Address() common.Address { return testFactoryAddress }

func (testFactory) EffectiveSalt(salt [32]byte, _ common.Address, _ uint64) ([32]byte, error) {
	return salt, nil
}

func (testFactory) DeployCalldata(salt [32]byte, initCode []byte) ([]byte, error) {
	return append(salt[:], initCode...), nil
}

// fakeChain executes factory deployments and storage contract calls
// synchronously. Every deployed contract behaves like the storage contract.
type fakeChain struct {
	mu       sync.Mutex
	code     map[common.Address][]byte
	slots    map[common.Address]*big.Int
	balances map[common.Address]*big.Int
	receipts map[common.Hash]*domain.Receipt
	txCount  uint64
	block    uint64

	codeAtCalls int
	sendCalls   int
	codeAtErr   error
	dropTxs     bool
	rejectSends error

	barrier     *sync.WaitGroup
	barrierLeft int
}

func newFakeChain() *fakeChain {
	return &fakeChain{
		code:     make(map[common.Address][]byte),
		slots:    make(map[common.Address]*big.Int),
		balances: make(map[common.Address]*big.Int),
		receipts: make(map[common.Hash]*domain.Receipt),
	}
}

// holdCodeChecks makes the first n CodeAt calls wait for each other
func (c *fakeChain) holdCodeChecks(n int) {
	c.barrier = &sync.WaitGroup{}
	c.barrier.Add(n)
	c.barrierLeft = n
}

func (c *fakeChain) CodeAt(_ context.Context, address common.Address) ([]byte, error) {
	c.mu.Lock()
	wait := c.barrierLeft > 0
	if wait {
		c.barrierLeft--
	}
	barrier := c.barrier
	c.mu.Unlock()
	if wait {
		barrier.Done()
		barrier.Wait()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.codeAtCalls++
	if c.codeAtErr != nil {
		return nil, &domain.RPCError{Op: "eth_getCode", Err: c.codeAtErr}
	}
	return common.CopyBytes(c.code[address]), nil
}

func (c *fakeChain) BalanceAt(_ context.Context, address common.Address) (*big.Int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if b, ok := c.balances[address]; ok {
		return new(big.Int).Set(b), nil
	}
	return new(big.Int), nil
}

func (c *fakeChain) Call(_ context.Context, msg ethereum.CallMsg) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out, _, err := c.execute(msg.From, *msg.To, msg.Data, msg.Value, false)
	return out, err
}

func (c *fakeChain) codeCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.code)
}

func (c *fakeChain) execute(from, to common.Address, data []byte, value *big.Int, commit bool) ([]byte, bool, error) {
	if to == testFactoryAddress {
		if len(data) < 32 {
			return nil, false, &domain.TransactionRevertedError{Data: common.CopyBytes(data)}
		}
		address := crypto.CreateAddress2(to, [32]byte(data[:32]), crypto.Keccak256(data[32:]))
		if len(c.code[address]) > 0 {
			return nil, false, &domain.TransactionRevertedError{}
		}
		if commit {
			c.code[address] = common.CopyBytes(data[32:])
			c.slots[address] = new(big.Int)
		}
		return address.Bytes(), true, nil
	}

	if len(c.code[to]) == 0 {
		return nil, true, nil
	}
	switch {
	case len(data) >= 4 && bytes.Equal(data[:4], selectorFail):
		return nil, false, &domain.TransactionRevertedError{Reason: "always fails"}
	case len(data) >= 4 && bytes.Equal(data[:4], selectorDeposit):
		return nil, true, nil
	case len(data) >= 36 && bytes.Equal(data[:4], selectorSetX):
		if commit {
			c.slots[to] = new(big.Int).SetBytes(data[4:36])
		}
		return nil, true, nil
	case len(data) == 4 && bytes.Equal(data[:4], selectorX):
		return common.LeftPadBytes(c.slots[to].Bytes(), 32), true, nil
	}
	return nil, false, &domain.TransactionRevertedError{Reason: fmt.Sprintf("unknown selector %x", data)}
}

type fakeSigner struct {
	chain   *fakeChain
	address common.Address
}

func (c *fakeChain) signer(address common.Address) *fakeSigner {
	return &fakeSigner{chain: c, address: address}
}

func (s *fakeSigner) Address() common.Address { return s.address }

func (s *fakeSigner) SignAndSend(_ context.Context, to common.Address, data []byte, value *big.Int) (common.Hash, error) {
	c := s.chain
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sendCalls++
	if c.rejectSends != nil {
		return common.Hash{}, c.rejectSends
	}

	if value != nil && value.Sign() > 0 {
		balance := c.balances[s.address]
		if balance == nil || balance.Cmp(value) < 0 {
			return common.Hash{}, &domain.InsufficientFundsError{Account: s.address, Balance: "0", Required: value.String()}
		}
		balance.Sub(balance, value)
	}

	c.txCount++
	c.block++
	txHash := crypto.Keccak256Hash(s.address.Bytes(), new(big.Int).SetUint64(c.txCount).Bytes())

	_, ok, _ := c.execute(s.address, to, data, value, true)
	status := domain.ReceiptStatusSuccess
	if !ok {
		status = domain.ReceiptStatusReverted
	}
	c.receipts[txHash] = &domain.Receipt{Status: status, TxHash: txHash, BlockNumber: c.block, GasUsed: 21000}
	return txHash, nil
}

func (s *fakeSigner) WaitForReceipt(_ context.Context, txHash common.Hash) (*domain.Receipt, error) {
	c := s.chain
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dropTxs {
		return nil, fmt.Errorf("%s: %w", txHash.Hex(), domain.ErrTransactionDropped)
	}
	receipt, ok := c.receipts[txHash]
	if !ok {
		return nil, fmt.Errorf("%s: %w", txHash.Hex(), domain.ErrTransactionDropped)
	}
	cp := *receipt
	return &cp, nil
}

type fakeDialer struct {
	chain   *fakeChain
	dialed  []string
	dialErr error
}

func (d *fakeDialer) Dial(_ context.Context, rpcEndpoint string, _ uint64) (ChainClient, error) {
	d.dialed = append(d.dialed, rpcEndpoint)
	if d.dialErr != nil {
		return nil, d.dialErr
	}
	return d.chain, nil
}

type recordingSink struct {
	mu     sync.Mutex
	stages []string
}

func (s *recordingSink) OnProgress(_ context.Context, event ProgressEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stages = append(s.stages, event.Stage)
}

func (s *recordingSink) Info(string)  {}
func (s *recordingSink) Error(string) {}
