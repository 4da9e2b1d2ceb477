// Package sqlite provides the SQLite-backed snapshot store.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/habagat/typhoon.garden/internal/platform/storage/sqlitemigrate"
	"github.com/habagat/typhoon.garden/internal/services/game/domain/player"
	"github.com/habagat/typhoon.garden/internal/services/game/domain/storm"
	"github.com/habagat/typhoon.garden/internal/services/game/storage/sqlite/migrations"
)

// Store persists full player snapshots in a SQLite database.
type Store struct {
	sqlDB *sql.DB
}

// Open opens the snapshot store and applies migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &Store{sqlDB: sqlDB}
	if err := sqlitemigrate.Apply(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return store, nil
}

// Close releases the SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Save replaces the stored snapshot with the given records in one
// transaction.
func (s *Store) Save(ctx context.Context, records map[string]player.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot transaction: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM players"); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("clear snapshot: %w", err)
	}

	for _, rec := range records {
		if err := rec.Validate(); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("validate record %s: %w", rec.UserID, err)
		}
		if err := insertRecord(ctx, tx, rec); err != nil {
			_ = tx.Rollback()
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

// Load reads the complete snapshot. An empty table yields an empty map.
func (s *Store) Load(ctx context.Context) (map[string]player.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT
	user_id,
	balance,
	channel_ref,
	spawn_cooldown_at,
	tax_due_at,
	tax_liability,
	tax_notified_at,
	storm_id,
	storm_stage,
	storm_wind_speed,
	storm_pressure,
	storm_diameter,
	storm_next_check_at,
	storm_created_at,
	storm_last_check_at
FROM players
`)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	defer rows.Close()

	records := make(map[string]player.Record)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records[rec.UserID] = rec
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshot rows: %w", err)
	}
	return records, nil
}

func insertRecord(ctx context.Context, tx *sql.Tx, rec player.Record) error {
	var (
		stormID, stormStage                      any
		windSpeed, pressure, diameter            any
		nextCheckAt, stormCreatedAt, lastCheckAt any
	)
	if rec.Storm != nil {
		stormID = rec.Storm.ID
		stormStage = rec.Storm.Stage.String()
		windSpeed = rec.Storm.WindSpeed
		pressure = rec.Storm.Pressure
		diameter = rec.Storm.Diameter
		nextCheckAt = unixMilliOrNil(rec.Storm.NextCheckAt)
		stormCreatedAt = unixMilliOrNil(rec.Storm.CreatedAt)
		lastCheckAt = unixMilliOrNil(rec.Storm.LastCheckAt)
	}

	_, err := tx.ExecContext(ctx, `
INSERT INTO players (
	user_id,
	balance,
	channel_ref,
	spawn_cooldown_at,
	tax_due_at,
	tax_liability,
	tax_notified_at,
	storm_id,
	storm_stage,
	storm_wind_speed,
	storm_pressure,
	storm_diameter,
	storm_next_check_at,
	storm_created_at,
	storm_last_check_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`,
		rec.UserID,
		rec.Balance,
		rec.ChannelRef,
		unixMilliOrNil(rec.SpawnCooldownAt),
		unixMilliOrNil(rec.TaxDueAt),
		rec.TaxLiability,
		unixMilliOrNil(rec.TaxNotifiedAt),
		stormID,
		stormStage,
		windSpeed,
		pressure,
		diameter,
		nextCheckAt,
		stormCreatedAt,
		lastCheckAt,
	)
	if err != nil {
		return fmt.Errorf("insert record %s: %w", rec.UserID, err)
	}
	return nil
}

func scanRecord(rows *sql.Rows) (player.Record, error) {
	var (
		rec                            player.Record
		spawnCooldownAt, taxDueAt      sql.NullInt64
		taxNotifiedAt                  sql.NullInt64
		stormID, stormStage            sql.NullString
		windSpeed, pressure, diameter  sql.NullInt64
		nextCheckAt, createdAt, lastAt sql.NullInt64
	)
	if err := rows.Scan(
		&rec.UserID,
		&rec.Balance,
		&rec.ChannelRef,
		&spawnCooldownAt,
		&taxDueAt,
		&rec.TaxLiability,
		&taxNotifiedAt,
		&stormID,
		&stormStage,
		&windSpeed,
		&pressure,
		&diameter,
		&nextCheckAt,
		&createdAt,
		&lastAt,
	); err != nil {
		return player.Record{}, fmt.Errorf("scan snapshot row: %w", err)
	}

	rec.SpawnCooldownAt = timeFromNull(spawnCooldownAt)
	rec.TaxDueAt = timeFromNull(taxDueAt)
	rec.TaxNotifiedAt = timeFromNull(taxNotifiedAt)

	if stormID.Valid {
		stage, err := storm.ParseStage(stormStage.String)
		if err != nil {
			return player.Record{}, fmt.Errorf("record %s: %w", rec.UserID, err)
		}
		rec.Storm = &storm.Storm{
			ID:          stormID.String,
			Stage:       stage,
			WindSpeed:   int(windSpeed.Int64),
			Pressure:    int(pressure.Int64),
			Diameter:    int(diameter.Int64),
			NextCheckAt: timeFromNull(nextCheckAt),
			CreatedAt:   timeFromNull(createdAt),
			LastCheckAt: timeFromNull(lastAt),
		}
	}
	return rec, nil
}

func unixMilliOrNil(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().UnixMilli()
}

func timeFromNull(v sql.NullInt64) time.Time {
	if !v.Valid {
		return time.Time{}
	}
	return time.UnixMilli(v.Int64).UTC()
}
