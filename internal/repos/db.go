package repos

import (
	"context"
	"embed"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"

	applog "autopecas/internal/log"
)

//go:embed migrations/*.sql
var migrations embed.FS

// OpenDB connects to sqlite or postgres and applies the embedded migrations.
func OpenDB(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	var sqlDriver, dialect string
	switch driver {
	case "sqlite":
		sqlDriver, dialect = "sqlite", "sqlite3"
	case "postgres":
		sqlDriver, dialect = "postgres", "postgres"
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}

	db, err := sqlx.Open(sqlDriver, dsn)
	if err != nil {
		return nil, err
	}
	if sqlDriver == "sqlite" {
		// one connection: keeps ":memory:" databases alive and serializes writers
		db.SetMaxOpenConns(1)
	}
	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := migrate(ctx, db, dialect); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrate(ctx context.Context, db *sqlx.DB, dialect string) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db.DB, "migrations"); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

type SeedUser struct {
	ID, Email, Name, Role, Password string
}

// DefaultSeedUsers are the demo accounts for AUTH_MODE=password.
var DefaultSeedUsers = []SeedUser{
	{ID: "usr-admin", Email: "admin@autopecas.ao", Name: "Admin", Role: "admin", Password: "Passw0rd!"},
	{ID: "usr-joao", Email: "joao@autopecas.ao", Name: "João Manuel", Role: "customer", Password: "Passw0rd!"},
	{ID: "usr-ana", Email: "ana@autopecas.ao", Name: "Ana Costa", Role: "customer", Password: "Passw0rd!"},
}

// SeedUsers inserts the given accounts (idempotent; existing emails are kept).
func SeedUsers(ctx context.Context, db *sqlx.DB, users []SeedUser) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, u := range users {
		h, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(`
			INSERT INTO users(id,email,name,password_hash,role,created_at)
			VALUES(?,?,?,?,?,CURRENT_TIMESTAMP)
			ON CONFLICT(email) DO NOTHING
		`), u.ID, strings.ToLower(u.Email), u.Name, string(h), u.Role); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	applog.Info(nil, "db.seed.users", map[string]any{"count": len(users)})
	return nil
}
