package database

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/library-seat-api/pkg/database/migrations"
)

const migrationTable = "schema_migrations"

// prepareStep runs inside a migration's transaction before its SQL.
type prepareStep func(ctx context.Context, tx *sqlx.Tx, logger *zap.Logger) error

// prepareSteps is keyed by migration file name.
var prepareSteps = map[string]prepareStep{
	"003_booking_slot_unique.sql": dropDuplicateSlots,
}

// Migrate applies the embedded schema for the connection's dialect. Each file
// runs at most once; DDL that already took effect on a legacy database is
// tolerated so the run stays idempotent on boot.
func Migrate(ctx context.Context, db *sqlx.DB, logger *zap.Logger) error {
	return ApplyMigrations(ctx, db, migrations.FS, Dialect(db), logger)
}

// ApplyMigrations executes the .sql files under root in lexical order.
func ApplyMigrations(ctx context.Context, db *sqlx.DB, migrationFS fs.FS, root string, logger *zap.Logger) error {
	if db == nil {
		return fmt.Errorf("sql db is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if strings.TrimSpace(root) == "" {
		root = "."
	}

	entries, err := fs.ReadDir(migrationFS, root)
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}
	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	createSQL := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
    name TEXT PRIMARY KEY,
    applied_at BIGINT NOT NULL
)`, migrationTable)
	if _, err := db.ExecContext(ctx, createSQL); err != nil {
		return fmt.Errorf("ensure migration table: %w", err)
	}

	for _, file := range files {
		key := path.Join(root, file)
		applied, err := isApplied(ctx, db, key)
		if err != nil {
			return fmt.Errorf("check migration %s: %w", file, err)
		}
		if applied {
			continue
		}

		content, err := fs.ReadFile(migrationFS, key)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", file, err)
		}
		upSQL := ExtractUpMigration(string(content))
		if strings.TrimSpace(upSQL) == "" {
			continue
		}

		if err := applyOne(ctx, db, key, upSQL, prepareSteps[file], logger); err != nil {
			return err
		}
		logger.Info("migration applied", zap.String("name", key))
	}

	return nil
}

func applyOne(ctx context.Context, db *sqlx.DB, key, upSQL string, prepare prepareStep, logger *zap.Logger) (err error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration transaction %s: %w", key, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if prepare != nil {
		if err = prepare(ctx, tx, logger); err != nil {
			return fmt.Errorf("prepare migration %s: %w", key, err)
		}
	}

	if _, err = tx.ExecContext(ctx, upSQL); err != nil {
		if !IsAlreadyExistsError(err) {
			return fmt.Errorf("exec migration %s: %w", key, err)
		}
		err = nil
	}

	record := db.Rebind(fmt.Sprintf("INSERT INTO %s (name, applied_at) VALUES (?, ?)", migrationTable))
	if _, err = tx.ExecContext(ctx, record, key, time.Now().UTC().UnixMilli()); err != nil {
		return fmt.Errorf("record migration %s: %w", key, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit migration %s: %w", key, err)
	}
	return nil
}

// dropDuplicateSlots removes bookings that repeat an earlier booking's
// (seat, shift, date) so the slot index can be built on a legacy store. The
// lowest id in each slot is kept.
func dropDuplicateSlots(ctx context.Context, tx *sqlx.Tx, logger *zap.Logger) error {
	const query = `SELECT b.id FROM bookings b
WHERE EXISTS (
    SELECT 1 FROM bookings o
    WHERE o.seat_id = b.seat_id AND o.shift_id = b.shift_id
      AND o.booking_date = b.booking_date AND o.id < b.id
)
ORDER BY b.id`
	var ids []int64
	if err := tx.SelectContext(ctx, &ids, query); err != nil {
		return fmt.Errorf("find duplicate booking slots: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}

	del, args, err := sqlx.In(`DELETE FROM bookings WHERE id IN (?)`, ids)
	if err != nil {
		return fmt.Errorf("build duplicate booking delete: %w", err)
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(del), args...); err != nil {
		return fmt.Errorf("delete duplicate bookings: %w", err)
	}
	logger.Warn("removed bookings that duplicated an earlier slot",
		zap.Int64s("booking_ids", ids), zap.Int("count", len(ids)))
	return nil
}

// ExtractUpMigration returns the SQL in the -- +migrate Up section.
func ExtractUpMigration(content string) string {
	upIdx := strings.Index(content, "-- +migrate Up")
	if upIdx == -1 {
		return content
	}
	downIdx := strings.Index(content, "-- +migrate Down")
	if downIdx == -1 {
		return content[upIdx+len("-- +migrate Up"):]
	}
	return content[upIdx+len("-- +migrate Up") : downIdx]
}

// IsAlreadyExistsError reports whether this error indicates idempotent DDL success.
func IsAlreadyExistsError(err error) bool {
	value := strings.ToLower(err.Error())
	return strings.Contains(value, "already exists") || strings.Contains(value, "duplicate column name")
}

func isApplied(ctx context.Context, db *sqlx.DB, name string) (bool, error) {
	var found int
	query := db.Rebind("SELECT 1 FROM " + migrationTable + " WHERE name = ?")
	if err := db.GetContext(ctx, &found, query, name); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
