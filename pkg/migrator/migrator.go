package migrator

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	migrationLockKey  = int64(52039117)
	migrationTableDDL = `
CREATE TABLE IF NOT EXISTS schema_migrations (
    version BIGINT PRIMARY KEY,
    name TEXT NOT NULL,
    applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`
)

var migrationFilePattern = regexp.MustCompile(`^(\d+)_([a-zA-Z0-9_]+)\.(up|down)\.sql$`)

// ErrNoMigrations возвращается, если в файловой системе нет ни одной миграции
var ErrNoMigrations = errors.New("migrator: no migration files found")

// Migration пара up/down скриптов одной версии
type Migration struct {
	Version int64
	Name    string
	UpSQL   string
	DownSQL string
}

// Migrator применяет встроенные SQL миграции
type Migrator struct {
	db   *sql.DB
	fsys fs.FS
	dir  string
}

// New создает мигратор; dir: каталог миграций внутри fsys ("." для корня)
func New(db *sql.DB, fsys fs.FS, dir string) *Migrator {
	if dir == "" {
		dir = "."
	}
	return &Migrator{db: db, fsys: fsys, dir: dir}
}

// Up применяет все неприменённые миграции по возрастанию версии.
// Возвращает количество применённых миграций.
func (m *Migrator) Up(ctx context.Context) (int, error) {
	migrations, err := Load(m.fsys, m.dir)
	if err != nil {
		return 0, err
	}

	conn, err := m.db.Conn(ctx)
	if err != nil {
		return 0, fmt.Errorf("acquire db connection: %w", err)
	}
	defer conn.Close()

	// Advisory lock защищает от параллельного запуска нескольких инстансов
	lockCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if _, err := conn.ExecContext(lockCtx, "SELECT pg_advisory_lock($1)", migrationLockKey); err != nil {
		return 0, fmt.Errorf("acquire migration lock: %w", err)
	}
	defer func() {
		_, _ = conn.ExecContext(context.Background(), "SELECT pg_advisory_unlock($1)", migrationLockKey)
	}()

	if _, err := conn.ExecContext(ctx, migrationTableDDL); err != nil {
		return 0, fmt.Errorf("ensure migration table: %w", err)
	}

	applied, err := loadAppliedVersions(ctx, conn)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, mg := range migrations {
		if applied[mg.Version] {
			continue
		}
		if err := applyOne(ctx, conn, mg); err != nil {
			return count, err
		}
		count++
	}

	return count, nil
}

// Status возвращает текущую версию схемы и количество применённых миграций
func (m *Migrator) Status(ctx context.Context) (int64, int, error) {
	if _, err := m.db.ExecContext(ctx, migrationTableDDL); err != nil {
		return 0, 0, fmt.Errorf("ensure migration table: %w", err)
	}

	var (
		version int64
		count   int
	)
	err := m.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0), COUNT(*) FROM schema_migrations`).
		Scan(&version, &count)
	if err != nil {
		return 0, 0, fmt.Errorf("query migration status: %w", err)
	}

	return version, count, nil
}

func applyOne(ctx context.Context, conn *sql.Conn, mg Migration) error {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration tx %d: %w", mg.Version, err)
	}

	if _, err := tx.ExecContext(ctx, mg.UpSQL); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("execute migration %d_%s: %w", mg.Version, mg.Name, err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO schema_migrations (version, name, applied_at) VALUES ($1, $2, NOW())`,
		mg.Version, mg.Name,
	); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("record migration %d_%s: %w", mg.Version, mg.Name, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration %d_%s: %w", mg.Version, mg.Name, err)
	}

	return nil
}

func loadAppliedVersions(ctx context.Context, conn *sql.Conn) (map[int64]bool, error) {
	rows, err := conn.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("query applied migrations: %w", err)
	}
	defer rows.Close()

	result := make(map[int64]bool)
	for rows.Next() {
		var version int64
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("scan applied migration version: %w", err)
		}
		result[version] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate applied migrations: %w", err)
	}

	return result, nil
}

// Load читает миграции из fsys и сортирует их по версии.
// Каждая версия обязана иметь и up, и down файл.
func Load(fsys fs.FS, dir string) ([]Migration, error) {
	files, err := fs.Glob(fsys, path.Join(dir, "*.sql"))
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}
	if len(files) == 0 {
		return nil, ErrNoMigrations
	}

	byVersion := make(map[int64]*Migration)
	for _, file := range files {
		base := path.Base(file)
		matches := migrationFilePattern.FindStringSubmatch(base)
		if len(matches) != 4 {
			return nil, fmt.Errorf("invalid migration file name: %s", base)
		}

		version, err := strconv.ParseInt(matches[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse migration version from %s: %w", base, err)
		}

		raw, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("read migration file %s: %w", file, err)
		}
		body := strings.TrimSpace(string(raw))
		if body == "" {
			return nil, fmt.Errorf("migration file is empty: %s", base)
		}

		mg, ok := byVersion[version]
		if !ok {
			mg = &Migration{Version: version, Name: matches[2]}
			byVersion[version] = mg
		} else if mg.Name != matches[2] {
			return nil, fmt.Errorf("migration name mismatch for version %d: %s vs %s", version, mg.Name, matches[2])
		}

		if matches[3] == "up" {
			mg.UpSQL = body
		} else {
			mg.DownSQL = body
		}
	}

	result := make([]Migration, 0, len(byVersion))
	for _, mg := range byVersion {
		if mg.UpSQL == "" || mg.DownSQL == "" {
			return nil, fmt.Errorf("migration %d_%s must have both up and down files", mg.Version, mg.Name)
		}
		result = append(result, *mg)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Version < result[j].Version })

	return result, nil
}
