package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/fystack/evm-relayer/internal/relayer"
	"github.com/fystack/evm-relayer/internal/txn"
	"github.com/fystack/evm-relayer/pkg/common/utils"
	"github.com/fystack/evm-relayer/pkg/ethcrypto"
)

type AddressCmd struct{}

func (c *AddressCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	app, err := relayer.NewApp(context.Background(), cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	key, err := app.SignerKey()
	if err != nil {
		return err
	}
	defer key.Zero()
	fmt.Println(key.Address().Hex())
	return nil
}

type ChainsCmd struct{}

func (c *ChainsCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	for _, name := range cfg.Chains.Names() {
		cc := cfg.Chains[name]
		fmt.Printf("%s\tchain_id=%d\tendpoints=%d\n", cc.Name, cc.ChainID, len(cc.Nodes))
		for contract, addr := range cc.Contracts {
			fmt.Printf("  %s: %s\n", contract, addr)
		}
	}
	return nil
}

// --- reads --- //

type ReadCmd struct {
	CredentialBalance ReadAddressCmd `cmd:"" name:"credential-balance" help:"Credential tokens held by --address."`
	TokenBalance      ReadAddressCmd `cmd:"" name:"token-balance" help:"ERC20 balance of --address."`
	Coverage          ReadAddressCmd `cmd:"" name:"coverage" help:"Remaining claim coverage of --address."`
	NetPosition       ReadAddressCmd `cmd:"" name:"net-position" help:"Signed net position of --address in the claim pool."`
	Valid             ReadTokenCmd   `cmd:"" name:"valid" help:"Whether credential --id is valid."`
	TokenURI          ReadTokenCmd   `cmd:"" name:"token-uri" help:"Metadata URI of credential --id."`
}

type ReadAddressCmd struct {
	Address  string `help:"Account address." required:""`
	Decimals int32  `help:"Format the result with this many decimals." default:"0"`
}

func (c *ReadAddressCmd) Run(g *Globals, kctx *kong.Context) error {
	addr, err := ethcrypto.ParseAddress(c.Address)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	app, svc, err := g.open(ctx, false)
	if err != nil {
		return err
	}
	defer app.Close()

	var value *big.Int
	switch kctx.Command() {
	case "read credential-balance":
		value, err = svc.CredentialBalance(ctx, addr)
	case "read token-balance":
		value, err = svc.TokenBalance(ctx, addr)
	case "read coverage":
		value, err = svc.RemainingCoverage(ctx, addr)
	case "read net-position":
		value, err = svc.NetPosition(ctx, addr)
	default:
		return fmt.Errorf("unknown read command %q", kctx.Command())
	}
	if err != nil {
		return err
	}
	fmt.Println(utils.FormatUnits(value, c.Decimals))
	return nil
}

type ReadTokenCmd struct {
	ID string `help:"Credential token id (decimal or 0x hex)." required:"" name:"id"`
}

func (c *ReadTokenCmd) Run(g *Globals, kctx *kong.Context) error {
	id, err := parseBig(c.ID)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	app, svc, err := g.open(ctx, false)
	if err != nil {
		return err
	}
	defer app.Close()

	switch kctx.Command() {
	case "read valid":
		valid, err := svc.IsCredentialValid(ctx, id)
		if err != nil {
			return err
		}
		fmt.Println(valid)
	case "read token-uri":
		uri, err := svc.CredentialURI(ctx, id)
		if err != nil {
			return err
		}
		fmt.Println(uri)
	default:
		return fmt.Errorf("unknown read command %q", kctx.Command())
	}
	return nil
}

// --- writes --- //

type WriteFlags struct {
	Wait bool `help:"Wait for the receipt." negatable:"" default:"true"`
}

type WriteCmd struct {
	Mint         MintCmd         `cmd:"" help:"Mint a credential to --to."`
	Issue        IssueCmd        `cmd:"" help:"Issue a typed credential to --to."`
	Revoke       RevokeCmd       `cmd:"" help:"Revoke credential --id."`
	SubmitClaim  SubmitClaimCmd  `cmd:"" name:"submit-claim" help:"Submit a claim to the claim pool."`
	ApproveClaim ApproveClaimCmd `cmd:"" name:"approve-claim" help:"Approve claim --id."`
	Transfer     TransferCmd     `cmd:"" help:"Transfer ERC20 tokens."`
	Approve      ApproveCmd      `cmd:"" help:"Set an ERC20 allowance."`
}

type MintCmd struct {
	WriteFlags
	To  string `help:"Credential holder." required:""`
	URI string `help:"Token metadata URI." required:"" name:"uri"`
}

func (c *MintCmd) Run(g *Globals) error {
	to, err := ethcrypto.ParseAddress(c.To)
	if err != nil {
		return err
	}
	return runWrite(g, func(ctx context.Context, svc *relayer.Service) (*txn.Result, error) {
		return svc.MintCredential(ctx, to, c.URI, c.Wait)
	})
}

type IssueCmd struct {
	WriteFlags
	To   string `help:"Credential holder." required:""`
	Kind string `help:"Credential type." required:""`
	URI  string `help:"Token metadata URI." required:"" name:"uri"`
}

func (c *IssueCmd) Run(g *Globals) error {
	to, err := ethcrypto.ParseAddress(c.To)
	if err != nil {
		return err
	}
	return runWrite(g, func(ctx context.Context, svc *relayer.Service) (*txn.Result, error) {
		return svc.IssueCredential(ctx, to, c.Kind, c.URI, c.Wait)
	})
}

type RevokeCmd struct {
	WriteFlags
	ID string `help:"Credential token id." required:"" name:"id"`
}

func (c *RevokeCmd) Run(g *Globals) error {
	id, err := parseBig(c.ID)
	if err != nil {
		return err
	}
	return runWrite(g, func(ctx context.Context, svc *relayer.Service) (*txn.Result, error) {
		return svc.RevokeCredential(ctx, id, c.Wait)
	})
}

type SubmitClaimCmd struct {
	WriteFlags
	Claimant string `help:"Claimant address." required:""`
	Amount   string `help:"Claim amount." required:""`
	Decimals int32  `help:"Decimals of --amount." default:"0"`
	Evidence string `help:"Evidence reference." required:""`
}

func (c *SubmitClaimCmd) Run(g *Globals) error {
	claimant, err := ethcrypto.ParseAddress(c.Claimant)
	if err != nil {
		return err
	}
	amount, err := utils.ParseUnits(c.Amount, c.Decimals)
	if err != nil {
		return err
	}
	return runWrite(g, func(ctx context.Context, svc *relayer.Service) (*txn.Result, error) {
		return svc.SubmitClaim(ctx, claimant, amount, c.Evidence, c.Wait)
	})
}

type ApproveClaimCmd struct {
	WriteFlags
	ID string `help:"Claim id." required:"" name:"id"`
}

func (c *ApproveClaimCmd) Run(g *Globals) error {
	id, err := parseBig(c.ID)
	if err != nil {
		return err
	}
	return runWrite(g, func(ctx context.Context, svc *relayer.Service) (*txn.Result, error) {
		return svc.ApproveClaim(ctx, id, c.Wait)
	})
}

type TransferCmd struct {
	WriteFlags
	To       string `help:"Recipient." required:""`
	Amount   string `help:"Amount." required:""`
	Decimals int32  `help:"Token decimals used to parse --amount." default:"18"`
}

func (c *TransferCmd) Run(g *Globals) error {
	to, err := ethcrypto.ParseAddress(c.To)
	if err != nil {
		return err
	}
	amount, err := utils.ParseUnits(c.Amount, c.Decimals)
	if err != nil {
		return err
	}
	return runWrite(g, func(ctx context.Context, svc *relayer.Service) (*txn.Result, error) {
		return svc.TransferToken(ctx, to, amount, c.Wait)
	})
}

type ApproveCmd struct {
	WriteFlags
	Spender  string `help:"Spender address." required:""`
	Amount   string `help:"Allowance." required:""`
	Decimals int32  `help:"Token decimals used to parse --amount." default:"18"`
}

func (c *ApproveCmd) Run(g *Globals) error {
	spender, err := ethcrypto.ParseAddress(c.Spender)
	if err != nil {
		return err
	}
	amount, err := utils.ParseUnits(c.Amount, c.Decimals)
	if err != nil {
		return err
	}
	return runWrite(g, func(ctx context.Context, svc *relayer.Service) (*txn.Result, error) {
		return svc.ApproveToken(ctx, spender, amount, c.Wait)
	})
}

func runWrite(g *Globals, fn func(context.Context, *relayer.Service) (*txn.Result, error)) error {
	ctx, cancel := signalContext()
	defer cancel()

	app, svc, err := g.open(ctx, true)
	if err != nil {
		return err
	}
	defer app.Close()

	res, err := fn(ctx, svc)
	if res != nil {
		printResult(res)
	}
	return err
}

// --- tracking --- //

type ReceiptCmd struct {
	Hash string `help:"Transaction hash." required:""`
}

func (c *ReceiptCmd) Run(g *Globals) error {
	ctx, cancel := signalContext()
	defer cancel()

	app, svc, err := g.open(ctx, false)
	if err != nil {
		return err
	}
	defer app.Close()

	receipt, err := svc.CheckReceipt(ctx, c.Hash)
	if receipt != nil {
		printJSON(receipt)
	}
	return err
}

type PendingCmd struct{}

func (c *PendingCmd) Run(g *Globals) error {
	ctx, cancel := signalContext()
	defer cancel()

	app, svc, err := g.open(ctx, false)
	if err != nil {
		return err
	}
	defer app.Close()

	list, err := svc.Pending()
	if err != nil {
		return err
	}
	for _, p := range list {
		fmt.Printf("%s\tnonce=%d\t%s\tsubmitted=%s\tchecks=%d\n",
			p.TxHash, p.Nonce, p.Operation, p.SubmittedAt.Format("2006-01-02T15:04:05Z"), p.Checks)
	}
	return nil
}

func printResult(res *txn.Result) {
	out := map[string]any{
		"tx_hash": res.TxHash,
	}
	if res.Tx != nil {
		out["nonce"] = res.Tx.Tx.Nonce
		out["gas_price"] = res.Tx.Tx.GasPrice.String()
		out["chain_id"] = res.Tx.ChainID
	}
	if res.Receipt != nil {
		out["status"] = res.Receipt.Status()
	}
	printJSON(out)
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func parseBig(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return utils.ParseHexBigInt(s)
	}
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("invalid integer %q", s)
	}
	return n, nil
}
