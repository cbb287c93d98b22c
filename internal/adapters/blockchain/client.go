package blockchain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/trebuchet-org/treb-create2/internal/domain"
	"github.com/trebuchet-org/treb-create2/internal/usecase"
)

// Backend is the part of the go-ethereum client API the adapters use.
// *ethclient.Client and simulated.Client both satisfy it.
type Backend interface {
	ethereum.ChainReader
	ethereum.ChainStateReader
	ethereum.ContractCaller
	ethereum.GasEstimator
	ethereum.GasPricer1559
	ethereum.PendingStateReader
	ethereum.TransactionReader
	ethereum.TransactionSender
	ethereum.ChainIDReader
}

// Client implements usecase.ChainClient on top of a Backend
type Client struct {
	backend Backend
	chainID uint64
	closer  func()
}

// NewClient wraps backend, which is known to serve chainID
func NewClient(backend Backend, chainID uint64) *Client {
	return &Client{backend: backend, chainID: chainID}
}

// ChainID returns the verified chain ID of the connection
func (c *Client) ChainID() uint64 {
	return c.chainID
}

// Backend returns the underlying go-ethereum client
func (c *Client) Backend() Backend {
	return c.backend
}

// CodeAt returns the runtime code at address on the latest block
func (c *Client) CodeAt(ctx context.Context, address common.Address) ([]byte, error) {
	code, err := c.backend.CodeAt(ctx, address, nil)
	if err != nil {
		return nil, classifyError("eth_getCode", err)
	}
	return code, nil
}

// BalanceAt returns the balance of address on the latest block
func (c *Client) BalanceAt(ctx context.Context, address common.Address) (*big.Int, error) {
	balance, err := c.backend.BalanceAt(ctx, address, nil)
	if err != nil {
		return nil, classifyError("eth_getBalance", err)
	}
	return balance, nil
}

// Call executes msg as an eth_call on the latest block
func (c *Client) Call(ctx context.Context, msg ethereum.CallMsg) ([]byte, error) {
	out, err := c.backend.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, classifyError("eth_call", err)
	}
	return out, nil
}

// Close releases the underlying connection
func (c *Client) Close() {
	if c.closer != nil {
		c.closer()
	}
}

// classifyError maps go-ethereum client errors onto the domain taxonomy:
// reverts become TransactionRevertedError, transport failures RPCError.
// Context errors pass through untouched.
func classifyError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	if reason, data, ok := revertReason(err); ok {
		return &domain.TransactionRevertedError{Method: op, Reason: reason, Data: data}
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "insufficient funds") {
		return fmt.Errorf("%s: %w: %v", op, domain.ErrInsufficientFunds, err)
	}

	// The node answered with a JSON-RPC error; the connection itself is fine.
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		return fmt.Errorf("%s: %w", op, err)
	}
	if errors.Is(err, ethereum.NotFound) {
		return err
	}

	return &domain.RPCError{Op: op, Err: err}
}

// revertReason extracts the revert reason and raw revert data from an
// execution error. ok is false when err is not a revert.
func revertReason(err error) (string, []byte, bool) {
	var dataErr rpc.DataError
	if errors.As(err, &dataErr) {
		if data, ok := revertData(dataErr.ErrorData()); ok {
			return decodeRevert(data), data, true
		}
	}

	msg := err.Error()
	lower := strings.ToLower(msg)
	idx := strings.Index(lower, "execution reverted")
	if idx < 0 {
		return "", nil, false
	}
	reason := strings.TrimSpace(msg[idx+len("execution reverted"):])
	reason = strings.TrimSpace(strings.TrimPrefix(reason, ":"))
	return reason, nil, true
}

func revertData(data interface{}) ([]byte, bool) {
	switch v := data.(type) {
	case string:
		b, err := hexutil.Decode(v)
		if err != nil {
			return nil, false
		}
		return b, true
	case []byte:
		return v, true
	default:
		return nil, false
	}
}

// decodeRevert renders revert data as Error(string)/Panic(uint256) text, or
// the raw selector for custom errors.
func decodeRevert(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	if reason, err := abi.UnpackRevert(data); err == nil {
		return reason
	}
	if len(data) >= 4 {
		return "custom error " + hexutil.Encode(data[:4])
	}
	return hexutil.Encode(data)
}

// Ensure the adapter implements the interface
var _ usecase.ChainClient = (*Client)(nil)
