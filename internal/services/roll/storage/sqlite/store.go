package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/louisbranch/rolldice/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/rolldice/internal/services/roll/storage"
	"github.com/louisbranch/rolldice/internal/services/roll/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// maxListLimit caps a single history page.
const maxListLimit = 200

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Store provides SQLite-backed persistence for roll history.
type Store struct {
	sqlDB *sql.DB
}

var _ storage.HistoryStore = (*Store)(nil)

// Open opens a SQLite store at the provided path and applies migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := "file:" + cleanPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(context.Background(), sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// PutRoll inserts one roll record.
func (s *Store) PutRoll(ctx context.Context, record storage.RollRecord) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}
	expression := strings.TrimSpace(record.Expression)
	if expression == "" {
		return 0, fmt.Errorf("expression is required")
	}
	if record.CreatedAt.IsZero() {
		return 0, fmt.Errorf("created at is required")
	}

	res, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO rolls (
	expression, report, total, total_bonus, seed, seed_source, created_at
) VALUES (?, ?, ?, ?, ?, ?, ?)
`,
		expression,
		record.Report,
		record.Sum,
		record.TotalBonus,
		record.Seed,
		strings.TrimSpace(record.SeedSource),
		toMillis(record.CreatedAt),
	)
	if err != nil {
		return 0, fmt.Errorf("put roll: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("put roll id: %w", err)
	}
	return id, nil
}

// ListRecentRolls returns up to limit rolls, newest first.
func (s *Store) ListRecentRolls(ctx context.Context, limit int) ([]storage.RollRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than zero")
	}
	limit = min(limit, maxListLimit)

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, expression, report, total, total_bonus, seed, seed_source, created_at
FROM rolls
ORDER BY created_at DESC, id DESC
LIMIT ?
`, limit)
	if err != nil {
		return nil, fmt.Errorf("list rolls: %w", err)
	}
	defer rows.Close()

	records := make([]storage.RollRecord, 0, limit)
	for rows.Next() {
		var (
			rec       storage.RollRecord
			createdAt int64
		)
		if err := rows.Scan(
			&rec.ID,
			&rec.Expression,
			&rec.Report,
			&rec.Sum,
			&rec.TotalBonus,
			&rec.Seed,
			&rec.SeedSource,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan roll: %w", err)
		}
		rec.CreatedAt = fromMillis(createdAt)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rolls: %w", err)
	}
	return records, nil
}
