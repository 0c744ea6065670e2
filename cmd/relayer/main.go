package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/fystack/evm-relayer/internal/relayer"
	"github.com/fystack/evm-relayer/pkg/common/config"
	"github.com/fystack/evm-relayer/pkg/common/logger"
)

type Globals struct {
	ConfigPath string `help:"Path to config file." default:"configs/config.yaml" name:"config" type:"path"`
	Chain      string `help:"Chain name or chain id from the config. May be omitted when only one chain is configured." name:"chain" short:"c" env:"RELAYER_CHAIN"`
	Debug      bool   `help:"Enable debug logs." name:"debug"`
}

type CLI struct {
	Globals

	Address AddressCmd `cmd:"" help:"Print the signer address."`
	Chains  ChainsCmd  `cmd:"" help:"List configured chains and endpoints."`
	Read    ReadCmd    `cmd:"" help:"Query contract state with eth_call."`
	Write   WriteCmd   `cmd:"" help:"Sign and submit a contract transaction."`
	Receipt ReceiptCmd `cmd:"" help:"Wait for the receipt of a submitted transaction."`
	Pending PendingCmd `cmd:"" help:"List transactions without a seen receipt."`
	Events  EventsCmd  `cmd:"" help:"Print transaction lifecycle events from NATS."`
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("relayer"),
		kong.Description("Sign, submit and track EVM contract transactions."),
		kong.UsageOnError(),
		kong.Bind(&cli.Globals),
	)
	err := kctx.Run()
	kctx.FatalIfErrorf(err)
}

func (g *Globals) initLogger() {
	level := slog.LevelInfo
	if g.Debug {
		level = slog.LevelDebug
	}
	logger.Init(&logger.Options{Level: level})
}

func (g *Globals) loadConfig() (*config.Config, error) {
	g.initLogger()
	cfg, err := config.Load(g.ConfigPath)
	if err != nil {
		return nil, err
	}
	logger.Debug("Config loaded", "path", g.ConfigPath, "chains", cfg.Chains.Names())
	return cfg, nil
}

// open loads the config and builds the app plus the service for --chain.
// withKey controls whether the signer key is required.
func (g *Globals) open(ctx context.Context, withKey bool) (*relayer.App, *relayer.Service, error) {
	cfg, err := g.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	app, err := relayer.NewApp(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	key, err := app.SignerKey()
	if err != nil {
		if withKey {
			app.Close()
			return nil, nil, err
		}
		key = nil
	}
	svc, err := app.Service(ctx, g.Chain, key)
	if err != nil {
		app.Close()
		return nil, nil, err
	}
	return app, svc, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
