package main

import (
	"context"
	"fmt"
	"os"

	"github.com/cognicore/dxcore/internal/llm"
	"github.com/cognicore/dxcore/pkg/dxcore"
	"github.com/cognicore/dxcore/pkg/dxcore/config"
	"github.com/cognicore/dxcore/pkg/dxcore/guidance/generative"
	"github.com/cognicore/dxcore/pkg/dxcore/guidance/template"
	"github.com/cognicore/dxcore/pkg/dxcore/store"
	"github.com/cognicore/dxcore/pkg/dxcore/store/postgres"
	"github.com/cognicore/dxcore/pkg/dxcore/store/sqlite"
)

// loadComponents resolves the rule tables: an explicit directory wins,
// then DXCORE_TABLES, then the builtins.
func loadComponents(dir string) (*config.Components, error) {
	if dir == "" {
		dir = os.Getenv("DXCORE_TABLES")
	}
	if dir == "" {
		return config.Default(), nil
	}
	comp, err := config.NewDirLoader(dir).Load()
	if err != nil {
		return nil, fmt.Errorf("load tables from %s: %w", dir, err)
	}
	return comp, nil
}

// newEngine builds an engine over the given tables, wiring the
// generative guidance provider when the LLM environment is set.
func newEngine(comp *config.Components) *dxcore.Engine {
	opts := dxcore.Options{Components: comp}
	if client := llm.FromEnv(); client != nil {
		opts.Generative = generative.New(client, template.New())
	}
	return dxcore.New(opts)
}

// openStore picks the history backend: DATABASE_URL selects Postgres,
// a path (flag or DXCORE_DB) selects SQLite, neither means no history.
func openStore(ctx context.Context, path string) (store.Store, error) {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return postgres.Open(ctx, dsn)
	}
	if path == "" {
		path = os.Getenv("DXCORE_DB")
	}
	if path == "" {
		return nil, nil
	}
	return sqlite.Open(ctx, path)
}

// requireStore is openStore for commands that cannot run without one.
func requireStore(ctx context.Context, path string) (store.Store, error) {
	st, err := openStore(ctx, path)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, fmt.Errorf("no history store configured: set --store, DXCORE_DB or DATABASE_URL")
	}
	return st, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
