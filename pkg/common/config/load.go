package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"
	"github.com/imdario/mergo"
	"github.com/samber/lo"
)

var validate = validator.New()

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// apply defaults
	if err := cfg.Chains.ApplyDefaults(cfg.Defaults); err != nil {
		return nil, err
	}

	if err := cfg.Chains.finalizeNodes(); err != nil {
		return nil, err
	}

	// validate
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("struct validation failed: %w", err)
	}

	seen := make(map[uint64]string, len(cfg.Chains))
	for name, chain := range cfg.Chains {
		chain.Name = strings.ToUpper(name)
		if err := validate.Struct(chain); err != nil {
			return nil, fmt.Errorf("chain %s validation failed: %w", name, err)
		}
		if other, dup := seen[chain.ChainID]; dup {
			return nil, fmt.Errorf("chain %s: chain_id %d already used by %s", name, chain.ChainID, other)
		}
		seen[chain.ChainID] = name
		cfg.Chains[name] = chain
	}

	return &cfg, nil
}

// ApplyDefaults fills zero-valued chain settings from the defaults block,
// then from the built-in defaults.
func (c Chains) ApplyDefaults(d Defaults) error {
	builtin := ChainConfig{
		Client:   ClientConfig{Timeout: DefaultClientTimeout},
		Receipt:  ReceiptConfig{Interval: DefaultReceiptInterval, Timeout: DefaultReceiptTimeout},
		GasLimit: DefaultGasLimit,
	}
	fromFile := ChainConfig{
		Client:   d.Client,
		Throttle: d.Throttle,
		Receipt:  d.Receipt,
		GasLimit: d.GasLimit,
	}
	for name, chain := range c {
		if err := mergo.Merge(&chain, fromFile); err != nil {
			return fmt.Errorf("chain %s: merge defaults: %w", name, err)
		}
		if err := mergo.Merge(&chain, builtin); err != nil {
			return fmt.Errorf("chain %s: merge builtin defaults: %w", name, err)
		}
		c[name] = chain
	}
	return nil
}

var ErrChainRequired = errors.New("chain is required")

// Get looks a chain up by its config key (case-insensitive).
func (c Chains) Get(name string) (ChainConfig, error) {
	if cc, ok := c[strings.ToLower(name)]; ok {
		return cc, nil
	}
	if cc, ok := c[name]; ok {
		return cc, nil
	}
	return ChainConfig{}, fmt.Errorf("chain %s not found", name)
}

// ByChainID looks a chain up by its numeric id.
func (c Chains) ByChainID(id uint64) (ChainConfig, error) {
	cc, ok := lo.Find(lo.Values(c), func(cc ChainConfig) bool { return cc.ChainID == id })
	if !ok {
		return ChainConfig{}, fmt.Errorf("chain id %d not configured", id)
	}
	return cc, nil
}

func (c Chains) Names() []string {
	names := lo.Keys(c)
	sort.Strings(names)
	return names
}

// Resolve accepts a config key or a decimal chain id. An empty selector
// picks the only configured chain.
func (c Chains) Resolve(selector string) (ChainConfig, error) {
	if selector == "" {
		if len(c) == 1 {
			return lo.Values(c)[0], nil
		}
		return ChainConfig{}, fmt.Errorf("%w: choose one of %s", ErrChainRequired, strings.Join(c.Names(), ", "))
	}
	if cc, err := c.Get(selector); err == nil {
		return cc, nil
	}
	if id, err := strconv.ParseUint(selector, 10, 64); err == nil {
		return c.ByChainID(id)
	}
	return ChainConfig{}, fmt.Errorf("chain %s not found", selector)
}
