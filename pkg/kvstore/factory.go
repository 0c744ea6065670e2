package kvstore

import (
	"fmt"

	"github.com/fystack/evm-relayer/pkg/common/config"
	"github.com/fystack/evm-relayer/pkg/infra"
)

// NewFromConfig opens the configured local store.
func NewFromConfig(cfg config.KVStoreConfig) (infra.KVStore, error) {
	if cfg.Badger.Directory == "" {
		return nil, fmt.Errorf("kvstore: badger directory is required")
	}
	return NewBadgerStore(cfg.Badger.Directory, cfg.Badger.Prefix, infra.JSON)
}
