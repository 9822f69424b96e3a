package main

import (
	"context"
	"fmt"

	"github.com/Veraticus/spice-rules/internal/classifier"
	"github.com/Veraticus/spice-rules/internal/common"
	"github.com/Veraticus/spice-rules/internal/config"
	"github.com/Veraticus/spice-rules/internal/rules"
	"github.com/Veraticus/spice-rules/internal/storage"
	"github.com/spf13/viper"
)

// loadRuleSet builds the configured rule set. A bad rule is fatal unless
// rules.skip_invalid is set.
func loadRuleSet() (*rules.RuleSet, error) {
	rs, err := rules.LoadFromViper(viper.GetViper())
	if err != nil {
		return nil, common.NewUserError("invalid rule configuration", err)
	}
	return rs, nil
}

// loadClassifier builds a classifier over the configured rule set.
func loadClassifier() (*classifier.Classifier, error) {
	rs, err := loadRuleSet()
	if err != nil {
		return nil, err
	}
	return classifier.New(rs), nil
}

// initStorage opens and migrates the configured database.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := config.DatabasePath(viper.GetViper())

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// closeStorage closes store and logs any error.
func closeStorage(store *storage.SQLiteStorage) {
	if err := store.Close(); err != nil {
		common.LogError(err, "Failed to close database", common.Fields{"path": store.Path()})
	}
}
