package devcert

import (
	"context"

	"github.com/Killavus/devcert/certstore"
)

// OpenStore opens and locks the store of the configured profile. The
// returned func releases the lock.
func OpenStore(ctx context.Context, cfg *Config) (*certstore.Store, func() error, error) {
	rootDir, err := cfg.RootDirPath()
	if err != nil {
		return nil, nil, err
	}

	store, err := certstore.Open(rootDir, cfg.Profile)
	if err != nil {
		return nil, nil, err
	}
	store.Logger = LoggerFromContext(ctx)

	unlock, err := store.Lock(ctx)
	if err != nil {
		return nil, nil, err
	}
	return store, unlock, nil
}
