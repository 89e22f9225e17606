package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/tiger-clip/internal/store"
)

// openStore opens the run ledger and applies migrations.
func openStore(ctx context.Context) (*store.Store, error) {
	st, err := store.New(cfg.Store.Path)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}
	return st, nil
}
