package evm

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/fystack/evm-relayer/pkg/common/utils"
	"github.com/fystack/evm-relayer/pkg/ethcrypto"
)

const (
	BlockLatest  = "latest"
	BlockPending = "pending"
)

// Caller sends one JSON-RPC method. *rpc.Failover and *rpc.Client both
// satisfy it.
type Caller interface {
	Call(ctx context.Context, method string, params any) (json.RawMessage, error)
}

type Client struct {
	rpc Caller
}

func NewClient(c Caller) *Client {
	return &Client{rpc: c}
}

type callMsg struct {
	To   string `json:"to"`
	Data string `json:"data"`
}

// ChainID returns the chain id reported by the endpoint
func (c *Client) ChainID(ctx context.Context) (uint64, error) {
	var hexID string
	if err := c.call(ctx, &hexID, "eth_chainId"); err != nil {
		return 0, err
	}
	id, err := utils.ParseHexUint64(hexID)
	if err != nil {
		return 0, fmt.Errorf("failed to parse chain id: %w", err)
	}
	return id, nil
}

// Call executes a read-only call against the latest block and returns the
// raw return data.
func (c *Client) Call(ctx context.Context, to ethcrypto.Address, data []byte) ([]byte, error) {
	msg := callMsg{To: to.Hex(), Data: "0x" + hex.EncodeToString(data)}

	var out string
	if err := c.call(ctx, &out, "eth_call", msg, BlockLatest); err != nil {
		return nil, err
	}
	ret, err := DecodeHexData(out)
	if err != nil {
		return nil, fmt.Errorf("failed to decode eth_call result: %w", err)
	}
	return ret, nil
}

// GetTransactionCount returns the pending nonce of addr.
func (c *Client) GetTransactionCount(ctx context.Context, addr ethcrypto.Address) (uint64, error) {
	var hexNonce string
	if err := c.call(ctx, &hexNonce, "eth_getTransactionCount", addr.Hex(), BlockPending); err != nil {
		return 0, err
	}
	nonce, err := utils.ParseHexUint64(hexNonce)
	if err != nil {
		return 0, fmt.Errorf("failed to parse nonce: %w", err)
	}
	return nonce, nil
}

// GasPrice returns the node's suggested legacy gas price in wei
func (c *Client) GasPrice(ctx context.Context) (*big.Int, error) {
	var hexPrice string
	if err := c.call(ctx, &hexPrice, "eth_gasPrice"); err != nil {
		return nil, err
	}
	price, err := utils.ParseHexBigInt(hexPrice)
	if err != nil {
		return nil, fmt.Errorf("failed to parse gas price: %w", err)
	}
	return price, nil
}

// SendRawTransaction broadcasts a signed transaction and returns the hash
// reported by the node.
func (c *Client) SendRawTransaction(ctx context.Context, raw []byte) (string, error) {
	var txHash string
	if err := c.call(ctx, &txHash, "eth_sendRawTransaction", "0x"+hex.EncodeToString(raw)); err != nil {
		return "", err
	}
	return txHash, nil
}

// GetTransactionReceipt fetches the receipt of txHash. An unknown or
// still-pending transaction surfaces as rpc.ErrEmptyResult.
func (c *Client) GetTransactionReceipt(ctx context.Context, txHash string) (Receipt, error) {
	var receipt Receipt
	if err := c.call(ctx, &receipt, "eth_getTransactionReceipt", txHash); err != nil {
		return nil, err
	}
	return receipt, nil
}

func (c *Client) call(ctx context.Context, out any, method string, params ...any) error {
	if params == nil {
		params = []any{}
	}
	res, err := c.rpc.Call(ctx, method, params)
	if err != nil {
		return fmt.Errorf("%s failed: %w", method, err)
	}
	if err := json.Unmarshal(res, out); err != nil {
		return fmt.Errorf("failed to unmarshal %s result: %w", method, err)
	}
	return nil
}
