// Package ledgersource picks the transaction feed the credit scorer reads.
package ledgersource

import (
	"fmt"
	"loan-engine/internal/config"
	"loan-engine/internal/domain/ledger"
	"loan-engine/internal/infrastructure/database/postgres"
	"loan-engine/internal/infrastructure/ledgerfile"
	"log/slog"
	"strings"
)

const (
	SourceFile     = "file"
	SourcePostgres = "postgres"
)

// New returns the configured ledger source wrapped in a Scanner. db is only
// used by the postgres source.
func New(cfg config.LedgerConfig, db postgres.DBPool, logger *slog.Logger) (*ledger.Scanner, error) {
	var source ledger.Source
	switch strings.ToLower(cfg.Source) {
	case "", SourceFile:
		if cfg.FilePath == "" {
			return nil, fmt.Errorf("ledger file path is empty in configuration")
		}
		logger.Info("Using flat-file ledger source", "path", cfg.FilePath)
		source = ledgerfile.NewSource(cfg.FilePath, logger)
	case SourcePostgres:
		if db == nil {
			return nil, fmt.Errorf("postgres ledger source requires a database pool")
		}
		logger.Info("Using PostgreSQL ledger source")
		source = postgres.NewLedgerSource(db, logger)
	default:
		return nil, fmt.Errorf("unknown ledger source %q", cfg.Source)
	}
	return ledger.NewScanner(source, cfg.ScanTimeout, logger), nil
}
