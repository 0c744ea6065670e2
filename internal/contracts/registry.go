package contracts

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fystack/evm-relayer/pkg/common/config"
	"github.com/fystack/evm-relayer/pkg/ethcrypto"
)

// Contract names as used under chains.<name>.contracts in the config.
const (
	CredentialRegistry = "credential_registry"
	ClaimPool          = "claim_pool"
	Token              = "token"
)

var (
	ErrNotDeployed     = errors.New("contract not deployed")
	ErrUnknownContract = errors.New("unknown contract")
)

var knownContracts = map[string]bool{
	CredentialRegistry: true,
	ClaimPool:          true,
	Token:              true,
}

// Registry maps chain id -> contract name -> deployed address. It is built
// once at startup and read-only afterwards.
type Registry struct {
	byChain map[uint64]map[string]ethcrypto.Address
}

func NewRegistry() *Registry {
	return &Registry{byChain: make(map[uint64]map[string]ethcrypto.Address)}
}

// RegistryFromConfig reads the contracts table of every chain. Unknown names
// and malformed addresses are rejected; zero addresses are kept and refused
// at lookup time.
func RegistryFromConfig(chains config.Chains) (*Registry, error) {
	r := NewRegistry()
	for _, name := range chains.Names() {
		cc := chains[name]
		for contract, hexAddr := range cc.Contracts {
			contract = strings.ToLower(contract)
			if !knownContracts[contract] {
				return nil, fmt.Errorf("chain %s: %w %q", name, ErrUnknownContract, contract)
			}
			addr, err := ethcrypto.ParseAddress(hexAddr)
			if err != nil {
				return nil, fmt.Errorf("chain %s contract %s: %w", name, contract, err)
			}
			r.Set(cc.ChainID, contract, addr)
		}
	}
	return r, nil
}

func (r *Registry) Set(chainID uint64, name string, addr ethcrypto.Address) {
	m, ok := r.byChain[chainID]
	if !ok {
		m = make(map[string]ethcrypto.Address)
		r.byChain[chainID] = m
	}
	m[name] = addr
}

// Address returns the deployment of name on chainID. Missing entries and the
// zero address both yield ErrNotDeployed.
func (r *Registry) Address(chainID uint64, name string) (ethcrypto.Address, error) {
	addr, ok := r.byChain[chainID][name]
	if !ok || addr.IsZero() {
		return ethcrypto.Address{}, fmt.Errorf("%w: %s on chain %d", ErrNotDeployed, name, chainID)
	}
	return addr, nil
}
