package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"mercado-libre-api/internal/domain"

	"github.com/Masterminds/squirrel"
)

const (
	snapshotTable = "catalog_snapshots"
	snapshotRowID = 1
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// PostgresBackend keeps the snapshot as one JSONB row. The table is created by
// the goose migrations in internal/database.
type PostgresBackend struct {
	db *sql.DB
}

func NewPostgresBackend(db *sql.DB) *PostgresBackend {
	return &PostgresBackend{db: db}
}

func (b *PostgresBackend) Name() string { return "postgres" }

func (b *PostgresBackend) Load(ctx context.Context) ([]domain.Product, error) {
	var document string

	err := psql.Select("document").
		From(snapshotTable).
		Where(squirrel.Eq{"id": snapshotRowID}).
		RunWith(b.db).
		QueryRowContext(ctx).
		Scan(&document)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("storage/postgres: select snapshot: %w", err)
	}

	products, err := Decode([]byte(document))
	if err != nil {
		return nil, fmt.Errorf("storage/postgres: %w", err)
	}
	return products, nil
}

func (b *PostgresBackend) SaveAll(ctx context.Context, products []domain.Product) error {
	data, err := Encode(products)
	if err != nil {
		return err
	}

	_, err = psql.Insert(snapshotTable).
		SetMap(map[string]interface{}{
			"id":         snapshotRowID,
			"document":   string(data),
			"updated_at": time.Now().UTC(),
		}).
		Suffix("ON CONFLICT (id) DO UPDATE SET document = EXCLUDED.document, updated_at = EXCLUDED.updated_at").
		RunWith(b.db).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("storage/postgres: upsert snapshot: %w", err)
	}
	return nil
}

func (b *PostgresBackend) Close() error {
	if b.db == nil {
		return nil
	}
	return b.db.Close()
}
