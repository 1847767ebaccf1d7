package main

import (
	"os"

	"github.com/carson-networks/budget-ledger/internal/config"
	"github.com/carson-networks/budget-ledger/internal/logging"
	"github.com/carson-networks/budget-ledger/internal/storage"
)

// Applies the embedded schema migrations. The first argument, if any, is a
// YAML config path.
func main() {
	logger := logging.SetupLogging()

	var path string
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	cfg, err := config.Load(path)
	if err != nil {
		logger.WithError(err).Fatal("config.Load")
		return
	}

	store, err := storage.NewStorage(cfg.Postgres)
	if err != nil {
		logger.WithError(err).Fatal("storage.NewStorage")
		return
	}
	defer store.Close()

	if err := storage.Migrate(store.DB, logger); err != nil {
		logger.WithError(err).Fatal("storage.Migrate")
	}
}
