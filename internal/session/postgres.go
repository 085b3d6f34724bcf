package session

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"time"

	"anaviz/domain/table"
	"anaviz/internal/errors"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const createDatasetsTable = `
	CREATE TABLE IF NOT EXISTS anaviz_datasets (
		id UUID PRIMARY KEY,
		filename TEXT NOT NULL,
		header_row JSONB NOT NULL,
		data_rows JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`

// PostgresStore persists datasets in PostgreSQL, the table encoded as JSONB
type PostgresStore struct {
	db  *sqlx.DB
	now func() time.Time
}

type datasetRow struct {
	ID        string    `db:"id"`
	Filename  string    `db:"filename"`
	HeaderRow []byte    `db:"header_row"`
	DataRows  []byte    `db:"data_rows"`
	CreatedAt time.Time `db:"created_at"`
}

// NewPostgresStore wraps an open connection
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db, now: time.Now}
}

// OpenPostgresStore connects to url and makes sure the schema exists
func OpenPostgresStore(ctx context.Context, url string) (*PostgresStore, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", url)
	if err != nil {
		return nil, errors.DatabaseError("failed to connect to database", err)
	}

	store := NewPostgresStore(db)
	if err := store.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// EnsureSchema creates the datasets table if it does not exist
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createDatasetsTable); err != nil {
		return errors.DatabaseError("failed to create datasets table", err)
	}
	return nil
}

// Close releases the connection pool
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) Save(ctx context.Context, ds Dataset) (ID, error) {
	ds = prepare(ds, s.now())

	headers, err := json.Marshal(ds.Table.Headers())
	if err != nil {
		return "", errors.Wrap(err, "failed to encode headers")
	}
	rows, err := json.Marshal(ds.Table.Records()[1:])
	if err != nil {
		return "", errors.Wrap(err, "failed to encode rows")
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO anaviz_datasets (id, filename, header_row, data_rows, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, ds.ID.String(), ds.Filename, headers, rows, ds.CreatedAt)
	if err != nil {
		return "", errors.DatabaseError("failed to save dataset", err)
	}

	return ds.ID, nil
}

func (s *PostgresStore) Get(ctx context.Context, id ID) (*Dataset, error) {
	var row datasetRow
	err := s.db.GetContext(ctx, &row, `
		SELECT id, filename, header_row, data_rows, created_at
		FROM anaviz_datasets
		WHERE id = $1
	`, id.String())
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NotFound("dataset " + id.String())
	}
	if err != nil {
		return nil, errors.DatabaseError("failed to load dataset", err)
	}

	var headers []string
	if err := json.Unmarshal(row.HeaderRow, &headers); err != nil {
		return nil, errors.Wrap(err, "failed to decode headers")
	}
	var rows [][]string
	if err := json.Unmarshal(row.DataRows, &rows); err != nil {
		return nil, errors.Wrap(err, "failed to decode rows")
	}

	return &Dataset{
		ID:        ID(row.ID),
		Filename:  row.Filename,
		Table:     table.New(headers, rows),
		CreatedAt: row.CreatedAt,
	}, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id ID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM anaviz_datasets WHERE id = $1`, id.String())
	if err != nil {
		return errors.DatabaseError("failed to delete dataset", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return errors.DatabaseError("failed to delete dataset", err)
	}
	if affected == 0 {
		return errors.NotFound("dataset " + id.String())
	}
	return nil
}

func (s *PostgresStore) Sweep(ctx context.Context, olderThan time.Duration) (int, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM anaviz_datasets WHERE created_at < $1`, s.now().Add(-olderThan))
	if err != nil {
		return 0, errors.DatabaseError("failed to sweep datasets", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, errors.DatabaseError("failed to sweep datasets", err)
	}
	return int(affected), nil
}
