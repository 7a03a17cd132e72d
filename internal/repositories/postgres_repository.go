package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ps-vitor/landscraper/internal/domain"
)

// OpenPostgres connects to dsn and verifies the connection.
func OpenPostgres(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect postgres: %w", err)
	}

	return pool, nil
}

// PostgresRepository mirrors one source's rows into the scraped_listings
// table. Column values are kept as a JSONB object keyed by CSV header.
type PostgresRepository struct {
	pool   *pgxpool.Pool
	source string
}

func NewPostgresRepository(pool *pgxpool.Pool, source string) *PostgresRepository {
	return &PostgresRepository{pool: pool, source: source}
}

func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	sql := `
	CREATE TABLE IF NOT EXISTS scraped_listings (
		id BIGSERIAL PRIMARY KEY,
		source TEXT NOT NULL,
		link TEXT NOT NULL,
		date_added DATE NOT NULL,
		fields JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_scraped_listings_source ON scraped_listings(source, date_added);
	`

	if _, err := r.pool.Exec(ctx, sql); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Save(ctx context.Context, records []domain.Record) error {
	if len(records) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	batch := &pgx.Batch{}
	insertSQL := `
	INSERT INTO scraped_listings (source, link, date_added, fields)
	VALUES ($1, $2, $3, $4);
	`

	for _, rec := range records {
		row := domain.ToRow(rec)
		added, err := time.Parse(domain.DateLayout, row["Date Added"])
		if err != nil {
			return fmt.Errorf("bad Date Added %q: %w", row["Date Added"], err)
		}
		batch.Queue(insertSQL, r.source, row["Link"], added, map[string]string(row))
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("batch insert failed at row %d: %w", i, err)
		}
	}
	return nil
}

func (r *PostgresRepository) FindAll(ctx context.Context) ([]domain.Row, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT fields FROM scraped_listings WHERE source = $1 ORDER BY id`, r.source)
	if err != nil {
		return nil, fmt.Errorf("querying %s listings: %w", r.source, err)
	}
	defer rows.Close()

	var out []domain.Row
	for rows.Next() {
		var fields map[string]string
		if err := rows.Scan(&fields); err != nil {
			return nil, fmt.Errorf("scanning %s listing: %w", r.source, err)
		}
		out = append(out, domain.Row(fields))
	}
	return out, rows.Err()
}
