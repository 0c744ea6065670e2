package rpc

import (
	"net/http"

	"github.com/fystack/evm-relayer/pkg/common/config"
)

type AuthType string

const (
	AuthTypeHeader AuthType = "header"
	AuthTypeBearer AuthType = "bearer"
)

// AuthConfig holds per-endpoint authentication. Query-string keys are
// folded into the URL when the config is loaded.
type AuthConfig struct {
	Type  AuthType `json:"type"  yaml:"type"`
	Key   string   `json:"key"   yaml:"key"`
	Value string   `json:"value" yaml:"value"`
}

// AuthFromNode converts a node's auth block; nil means no auth.
func AuthFromNode(n config.NodeConfig) *AuthConfig {
	switch AuthType(n.Auth.Type) {
	case AuthTypeHeader, AuthTypeBearer:
		return &AuthConfig{Type: AuthType(n.Auth.Type), Key: n.Auth.Key, Value: n.Auth.Value}
	default:
		return nil
	}
}

func (a *AuthConfig) apply(req *http.Request) {
	if a == nil {
		return
	}
	switch a.Type {
	case AuthTypeBearer:
		req.Header.Set("Authorization", "Bearer "+a.Value)
	case AuthTypeHeader:
		req.Header.Set(a.Key, a.Value)
	}
}
