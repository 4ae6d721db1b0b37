package repos

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

// KVRepo stores slots as rows of the kv table.
type KVRepo struct{ db *sqlx.DB }

func NewKVRepo(db *sqlx.DB) *KVRepo { return &KVRepo{db: db} }

func (r *KVRepo) Load(ctx context.Context, key string) ([]byte, bool, error) {
	var v string
	err := r.db.GetContext(ctx, &v, r.db.Rebind(`SELECT value FROM kv WHERE slot = ?`), key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(v), true, nil
}

func (r *KVRepo) Save(ctx context.Context, key string, value []byte) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO kv(slot, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(slot) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`), key, string(value), time.Now().UTC().Format(time.RFC3339))
	return err
}

func (r *KVRepo) Clear(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM kv WHERE slot = ?`), key)
	return err
}
