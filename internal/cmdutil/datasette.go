package cmdutil

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/viper"

	"github.com/lepinkainen/mixdl/internal/datastore"
)

// newSQLiteStore and newDatasetteClient are swapped in tests.
var (
	newSQLiteStore = func(path string) datastore.Store {
		return datastore.NewSQLiteStore(path)
	}
	newDatasetteClient = func(url, token string) datastore.Store {
		return datastore.NewDatasetteClient(url, token)
	}
)

// WriteToDatastore writes records to the configured history store.
// It is a no-op when history.enabled is false.
func WriteToDatastore[T any](ctx context.Context, records []T, schema, table, description string, toMap func(T) map[string]any) error {
	if !viper.GetBool("history.enabled") || len(records) == 0 {
		return nil
	}

	var store datastore.Store
	mode := viper.GetString("history.mode")
	switch mode {
	case "", "local":
		store = newSQLiteStore(viper.GetString("history.dbfile"))
	case "remote":
		store = newDatasetteClient(viper.GetString("history.remote_url"), viper.GetString("history.api_token"))
	default:
		return fmt.Errorf("invalid history.mode %q (want local or remote)", mode)
	}

	if err := store.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to history store: %w", err)
	}
	defer func() { _ = store.Close() }()

	if err := store.CreateTable(ctx, schema); err != nil {
		return err
	}

	rows := make([]map[string]any, len(records))
	for i, record := range records {
		rows[i] = toMap(record)
	}

	if err := store.BatchInsert(ctx, datastore.HistoryDatabase, table, rows); err != nil {
		return fmt.Errorf("failed to write %s: %w", description, err)
	}
	slog.Info("Wrote history", "what", description, "count", len(rows), "mode", mode)
	return nil
}
