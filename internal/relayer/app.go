package relayer

import (
	"context"
	"fmt"
	"os"

	"github.com/nats-io/nats.go"

	"github.com/fystack/evm-relayer/internal/contracts"
	"github.com/fystack/evm-relayer/internal/kvstore"
	"github.com/fystack/evm-relayer/internal/rpc"
	"github.com/fystack/evm-relayer/internal/rpc/evm"
	"github.com/fystack/evm-relayer/internal/txn"
	"github.com/fystack/evm-relayer/pkg/common/config"
	"github.com/fystack/evm-relayer/pkg/common/logger"
	"github.com/fystack/evm-relayer/pkg/ethcrypto"
	"github.com/fystack/evm-relayer/pkg/events"
	"github.com/fystack/evm-relayer/pkg/infra"
	badgerkv "github.com/fystack/evm-relayer/pkg/kvstore"
)

// App holds the process-wide pieces shared by every chain service.
type App struct {
	cfg      *config.Config
	manager  *rpc.Manager
	registry *contracts.Registry
	emitter  events.Emitter
	pending  *kvstore.PendingTxStore

	nc    *nats.Conn
	store infra.KVStore
}

// NewApp builds the RPC manager and contract registry, and connects the
// optional event and pending-tx backends enabled in cfg.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	manager, err := rpc.NewManagerFromConfig(cfg.Chains)
	if err != nil {
		return nil, fmt.Errorf("rpc manager: %w", err)
	}
	registry, err := contracts.RegistryFromConfig(cfg.Chains)
	if err != nil {
		return nil, fmt.Errorf("contract registry: %w", err)
	}

	app := &App{
		cfg:      cfg,
		manager:  manager,
		registry: registry,
		emitter:  events.Noop{},
	}

	if cfg.Services.Events.Enabled {
		nc, err := infra.GetNATSConnection(cfg.Services.Nats, cfg.Environment)
		if err != nil {
			return nil, fmt.Errorf("connect NATS: %w", err)
		}
		prefix := cfg.Services.Nats.SubjectPrefix
		if prefix == "" {
			prefix = events.DefaultSubjectPrefix
		}
		queue, err := infra.NewJetStreamQueue(ctx, nc, infra.DefaultStreamName, []string{prefix + ".>"})
		if err != nil {
			nc.Close()
			return nil, err
		}
		app.nc = nc
		app.emitter = events.NewEmitter(queue, prefix)
		logger.Info("Transaction events enabled", "subject_prefix", prefix)
	}

	if cfg.Services.KVStore.Enabled {
		store, err := badgerkv.NewFromConfig(cfg.Services.KVStore)
		if err != nil {
			app.Close()
			return nil, err
		}
		app.store = store
		app.pending = kvstore.NewPendingTxStore(store)
		logger.Info("Pending transaction store enabled", "directory", cfg.Services.KVStore.Badger.Directory)
	}

	return app, nil
}

func (a *App) Manager() *rpc.Manager { return a.manager }

// SignerKey reads the hex private key from the environment variable named
// in the config.
func (a *App) SignerKey() (*ethcrypto.PrivateKey, error) {
	name := a.cfg.Signer.PrivateKeyEnv
	raw := os.Getenv(name)
	if raw == "" {
		return nil, fmt.Errorf("signer key: environment variable %s is not set", name)
	}
	return ethcrypto.ParsePrivateKey(raw)
}

// Service returns the relayer for the chain selected by a config name or a numeric
// chain id. When key is nil only reads are possible; writes return ErrReadOnly.
func (a *App) Service(ctx context.Context, selector string, key *ethcrypto.PrivateKey) (*Service, error) {
	chain, err := a.cfg.Chains.Resolve(selector)
	if err != nil {
		return nil, err
	}
	relay, err := a.manager.Chain(chain.ChainID)
	if err != nil {
		return nil, err
	}
	client := evm.NewClient(relay)

	if err := verifyChainID(ctx, client, chain); err != nil {
		return nil, err
	}

	var sender *txn.Sender
	if key != nil {
		sender = txn.NewSender(client, txn.NewSigner(key, chain.ChainID),
			txn.WithDefaultGasLimit(chain.GasLimit),
			txn.WithWaitOptions(txn.WaitOptions{
				Interval: chain.Receipt.Interval,
				Timeout:  chain.Receipt.Timeout,
			}),
		)
	}

	return NewService(chain, client, sender, a.registry,
		WithEmitter(a.emitter),
		WithPendingStore(a.pending),
	), nil
}

func (a *App) Close() {
	if a.emitter != nil {
		a.emitter.Close()
	}
	if a.nc != nil {
		a.nc.Close()
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			logger.Warn("Failed to close kvstore", "error", err)
		}
	}
}

// verifyChainID refuses to sign for a chain whose endpoints report another
// id. An unreachable endpoint only logs; the first real call will fail.
func verifyChainID(ctx context.Context, client evm.EthereumAPI, chain config.ChainConfig) error {
	id, err := client.ChainID(ctx)
	if err != nil {
		logger.Warn("Could not verify chain id", "chain", chain.Name, "error", err)
		return nil
	}
	if id != chain.ChainID {
		return fmt.Errorf("chain %s: endpoints report chain id %d, configured %d", chain.Name, id, chain.ChainID)
	}
	return nil
}
