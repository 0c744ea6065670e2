package config

import (
	"time"
)

type Env string

const (
	DevEnv  Env = "dev"
	ProdEnv Env = "prod"
)

const (
	DefaultClientTimeout   = 15 * time.Second
	DefaultReceiptInterval = 2 * time.Second
	DefaultReceiptTimeout  = 30 * time.Second
	DefaultGasLimit        = 300_000
)

type Config struct {
	Environment Env          `yaml:"env"      validate:"required,oneof=dev prod"`
	Defaults    Defaults     `yaml:"defaults"`
	Chains      Chains       `yaml:"chains"   validate:"required,min=1"`
	Signer      SignerConfig `yaml:"signer"   validate:"required"`
	Services    Services     `yaml:"services"`
}

type Defaults struct {
	Client   ClientConfig  `yaml:"client"`
	Throttle Throttle      `yaml:"throttle"`
	Receipt  ReceiptConfig `yaml:"receipt"`
	GasLimit uint64        `yaml:"gas_limit"`
}

type Chains map[string]ChainConfig

type ChainConfig struct {
	Name      string            `yaml:"name"`
	ChainID   uint64            `yaml:"chain_id"  validate:"required,gt=0"`
	Client    ClientConfig      `yaml:"client"`
	Throttle  Throttle          `yaml:"throttle"`
	Receipt   ReceiptConfig     `yaml:"receipt"`
	GasLimit  uint64            `yaml:"gas_limit"`
	Nodes     []NodeConfig      `yaml:"nodes"     validate:"required,min=1,dive"`
	Contracts map[string]string `yaml:"contracts"`
}

type ClientConfig struct {
	Timeout time.Duration `yaml:"timeout"`
}

type Throttle struct {
	RPS   int `yaml:"rps"   validate:"min=0"`
	Burst int `yaml:"burst" validate:"min=0"`
}

type ReceiptConfig struct {
	Interval time.Duration `yaml:"interval"`
	Timeout  time.Duration `yaml:"timeout"`
}

type NodeConfig struct {
	URL  string     `yaml:"url"  validate:"required,url"`
	Auth AuthConfig `yaml:"auth"`
}

type AuthConfig struct {
	Type  string `yaml:"type"  validate:"omitempty,oneof=header query bearer"`
	Key   string `yaml:"key"`
	Value string `yaml:"value"`
}

// SignerConfig names the environment variable holding the hex signing key.
// The key itself never lives in the YAML file.
type SignerConfig struct {
	PrivateKeyEnv string `yaml:"private_key_env" validate:"required"`
}
