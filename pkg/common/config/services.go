package config

type Services struct {
	Nats    NatsConfig    `yaml:"nats"`
	KVStore KVStoreConfig `yaml:"kvstore"`
	Events  EventsConfig  `yaml:"events"`
}

type NatsConfig struct {
	URL           string        `yaml:"url"`
	SubjectPrefix string        `yaml:"subject_prefix"`
	Username      string        `yaml:"username"`
	Password      string        `yaml:"password"`
	TLS           NatsTLSConfig `yaml:"tls"`
}

type NatsTLSConfig struct {
	ClientCert string `yaml:"client_cert"`
	ClientKey  string `yaml:"client_key"`
	CACert     string `yaml:"ca_cert"`
}

type KVStoreConfig struct {
	Enabled bool         `yaml:"enabled"`
	Badger  BadgerConfig `yaml:"badger"`
}

type BadgerConfig struct {
	Directory string `yaml:"directory"`
	Prefix    string `yaml:"prefix"`
}

type EventsConfig struct {
	Enabled bool `yaml:"enabled"`
}
