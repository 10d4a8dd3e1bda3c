package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	pgx "github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/capitalsapp/capitals/internal/capitals/domain"
	"github.com/capitalsapp/capitals/internal/observability/metrics"
)

var ErrCapitalNotFound = errors.New("capital not found")

type Repository interface {
	List(ctx context.Context) ([]domain.Capital, error)
	FindByID(ctx context.Context, id int64) (domain.Capital, error)
	Create(ctx context.Context, country, capital string) (domain.Capital, error)
	Update(ctx context.Context, id int64, country, capital string) (domain.Capital, error)
	Delete(ctx context.Context, id int64) (domain.Capital, error)
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) List(ctx context.Context) ([]domain.Capital, error) {
	defer observe("list_capitals", time.Now())

	rows, err := r.pool.Query(
		ctx,
		`SELECT id, country, capital FROM capitals ORDER BY id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list capitals: %w", err)
	}
	defer rows.Close()

	capitals := make([]domain.Capital, 0)
	for rows.Next() {
		var c domain.Capital
		if err := rows.Scan(&c.ID, &c.Country, &c.Capital); err != nil {
			return nil, fmt.Errorf("failed to scan capital: %w", err)
		}
		capitals = append(capitals, c)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("rows iteration error: %w", rows.Err())
	}

	return capitals, nil
}

func (r *PgRepository) FindByID(ctx context.Context, id int64) (domain.Capital, error) {
	defer observe("find_capital", time.Now())

	row := r.pool.QueryRow(
		ctx,
		`SELECT id, country, capital FROM capitals WHERE id = $1`,
		id,
	)
	return scanCapital(row, "find capital")
}

func (r *PgRepository) Create(ctx context.Context, country, capital string) (domain.Capital, error) {
	defer observe("create_capital", time.Now())

	row := r.pool.QueryRow(
		ctx,
		`INSERT INTO capitals (country, capital)
		 VALUES ($1, $2)
		 RETURNING id, country, capital`,
		country,
		capital,
	)

	var c domain.Capital
	if err := row.Scan(&c.ID, &c.Country, &c.Capital); err != nil {
		return domain.Capital{}, fmt.Errorf("failed to create capital: %w", err)
	}
	return c, nil
}

func (r *PgRepository) Update(ctx context.Context, id int64, country, capital string) (domain.Capital, error) {
	defer observe("update_capital", time.Now())

	row := r.pool.QueryRow(
		ctx,
		`UPDATE capitals SET country = $1, capital = $2
		 WHERE id = $3
		 RETURNING id, country, capital`,
		country,
		capital,
		id,
	)
	return scanCapital(row, "update capital")
}

func (r *PgRepository) Delete(ctx context.Context, id int64) (domain.Capital, error) {
	defer observe("delete_capital", time.Now())

	row := r.pool.QueryRow(
		ctx,
		`DELETE FROM capitals WHERE id = $1
		 RETURNING id, country, capital`,
		id,
	)
	return scanCapital(row, "delete capital")
}

func scanCapital(row pgx.Row, operation string) (domain.Capital, error) {
	var c domain.Capital
	err := row.Scan(&c.ID, &c.Country, &c.Capital)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Capital{}, ErrCapitalNotFound
		}
		return domain.Capital{}, fmt.Errorf("failed to %s: %w", operation, err)
	}
	return c, nil
}

func observe(operation string, start time.Time) {
	metrics.DBQueryDurationSeconds.
		WithLabelValues(operation, "capitals").
		Observe(time.Since(start).Seconds())
}
