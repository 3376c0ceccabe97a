// Package repository reads and writes centroid records in PostgreSQL.
package repository

import (
	"context"
	"log/slog"

	"github.com/UnknownOlympus/labelmap/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Database is the subset of pgxpool.Pool the repository uses.
type Database interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

type Repository struct {
	db  Database
	log *slog.Logger
}

// Interface lists the record operations used by the pipeline and the backfill.
type Interface interface {
	Migrate(ctx context.Context) error
	BaseRecords(ctx context.Context) ([]models.CentroidRecord, error)
	OverrideRecords(ctx context.Context) ([]models.CentroidRecord, error)
	UpsertBaseRecord(ctx context.Context, record models.CentroidRecord) error
}

var _ Interface = (*Repository)(nil)

// NewRepository creates a new instance of Repository with the provided Database.
func NewRepository(db Database, log *slog.Logger) *Repository {
	return &Repository{db: db, log: log}
}
