package index

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// quoteIdentifier safely quotes a SQLite identifier
func quoteIdentifier(name string) string {
	return `"` + name + `"`
}

func migrate(ctx context.Context, db *sql.DB, table string) error {
	// Every query keys or orders on the primary key, so no secondary
	// index is needed.
	createTableSQL := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			key TEXT NOT NULL PRIMARY KEY,
			size INTEGER NOT NULL,
			etag TEXT NOT NULL,
			content_type TEXT NOT NULL,
			uploaded_at TEXT NOT NULL
		)
	`, quoteIdentifier(table))

	if _, err := db.ExecContext(ctx, createTableSQL); err != nil {
		return fmt.Errorf("create table: %w", err)
	}

	return nil
}

// DropTable removes the metadata table. Used by tests and resets.
func DropTable(ctx context.Context, db *sql.DB, table string) error {
	if !IsValidTableName(table) {
		return fmt.Errorf("drop table: invalid table name: %s", table)
	}

	dropSQL := fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteIdentifier(table))
	_, err := db.ExecContext(ctx, dropSQL)
	return err
}

type columnInfo struct {
	name       string
	dataType   string
	isNullable bool
}

var objectTableSchema = map[string]columnInfo{
	"key":          {"key", "text", false},
	"size":         {"size", "integer", false},
	"etag":         {"etag", "text", false},
	"content_type": {"content_type", "text", false},
	"uploaded_at":  {"uploaded_at", "text", false},
}

func validateSchema(ctx context.Context, db *sql.DB, table string) error {
	exists, err := tableExists(ctx, db, table)
	if err != nil {
		return fmt.Errorf("validate table schema: %w", err)
	}

	if !exists {
		return fmt.Errorf("validate table schema: table %s does not exist", table)
	}

	query := fmt.Sprintf(`PRAGMA table_info(%s)`, quoteIdentifier(table))

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("validate table schema: query columns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	actualColumns := make(map[string]columnInfo)
	for rows.Next() {
		var cid int
		var name, dataType string
		var notNull int
		var dfltValue sql.NullString
		var pk int

		if err := rows.Scan(&cid, &name, &dataType, &notNull, &dfltValue, &pk); err != nil {
			return fmt.Errorf("validate table schema: scan column: %w", err)
		}
		actualColumns[name] = columnInfo{
			name:       name,
			dataType:   strings.ToLower(dataType),
			isNullable: notNull == 0,
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("validate table schema: rows error: %w", err)
	}

	var missingColumns []string
	var mismatchedColumns []string

	for colName, expected := range objectTableSchema {
		actual, exists := actualColumns[colName]
		if !exists {
			missingColumns = append(missingColumns, colName)
			continue
		}

		if actual.dataType != expected.dataType {
			mismatchedColumns = append(mismatchedColumns,
				fmt.Sprintf("%s: expected %s, got %s", colName, expected.dataType, actual.dataType))
		}

		if actual.isNullable != expected.isNullable {
			mismatchedColumns = append(mismatchedColumns,
				fmt.Sprintf("%s: expected nullable=%v, got nullable=%v", colName, expected.isNullable, actual.isNullable))
		}
	}

	if len(missingColumns) > 0 || len(mismatchedColumns) > 0 {
		var errMsg strings.Builder
		fmt.Fprintf(&errMsg, "table %s schema validation failed:\n", table)

		if len(missingColumns) > 0 {
			fmt.Fprintf(&errMsg, "  missing columns: %s\n", strings.Join(missingColumns, ", "))
		}

		if len(mismatchedColumns) > 0 {
			fmt.Fprintf(&errMsg, "  mismatched columns:\n")
			for _, msg := range mismatchedColumns {
				fmt.Fprintf(&errMsg, "    - %s\n", msg)
			}
		}

		return errors.New(errMsg.String())
	}

	return nil
}

func tableExists(ctx context.Context, db *sql.DB, table string) (bool, error) {
	var name string
	query := `SELECT name FROM sqlite_master WHERE type='table' AND name=?`
	err := db.QueryRowContext(ctx, query, table).Scan(&name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check table exists: %w", err)
	}
	return true, nil
}
