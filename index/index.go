// Package index implements the clouddrop metadata index on SQLite.
//
// The index is the listable side of the bucket: one row per stored
// object, keyed by the object key, queried with keyset pagination so
// listings stay bounded regardless of bucket size.
package index

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"

	_ "modernc.org/sqlite" // SQLite driver
)

// Config holds the configuration for opening the metadata index.
type Config struct {
	// DSN is the SQLite data source name (file path or ":memory:").
	DSN string `mapstructure:"dsn"`
	// Table is the name of the metadata table.
	Table string `mapstructure:"table"`
}

var validTableNameRegex = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// IsValidTableName checks if a table name is valid (lowercase,
// alphanumeric with underscores, max 63 chars).
func IsValidTableName(name string) bool {
	return validTableNameRegex.MatchString(name) && len(name) <= 63
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.DSN == "" {
		return errors.New("validate index config: dsn cannot be empty")
	}

	if c.Table == "" {
		return errors.New("validate index config: table name cannot be empty")
	}

	if !IsValidTableName(c.Table) {
		return fmt.Errorf("validate index config: invalid table name: %s (must match ^[a-z_][a-z0-9_]*$ and be <= 63 chars)", c.Table)
	}

	return nil
}

// Index is a SQLite-backed implementation of clouddrop.MetadataIndex.
type Index struct {
	db    *sql.DB
	table string
}

// Open connects to the configured SQLite database, runs migrations and
// validates the schema. The caller closes the returned Index.
func Open(ctx context.Context, cfg Config) (*Index, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	if err = migrate(ctx, db, cfg.Table); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}

	if err = validateSchema(ctx, db, cfg.Table); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("validate sqlite schema: %w", err)
	}

	return &Index{db: db, table: cfg.Table}, nil
}

// Close closes the underlying database handle.
func (ix *Index) Close() error {
	return ix.db.Close()
}
