package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"renewable_simulator/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS simulation_runs (
	id          UUID PRIMARY KEY,
	technology  TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL,
	request     JSONB NOT NULL,
	result      JSONB NOT NULL
)`

// PostgresRuns stores runs in PostgreSQL.
type PostgresRuns struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// OpenPostgres connects to url and ensures the runs table exists.
func OpenPostgres(ctx context.Context, url string) (*PostgresRuns, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &PostgresRuns{pool: pool, now: time.Now}, nil
}

// Close releases the pool.
func (p *PostgresRuns) Close() {
	p.pool.Close()
}

func (p *PostgresRuns) Save(ctx context.Context, run Run) (Run, error) {
	run = prepare(run, p.now)
	result, err := json.Marshal(run.Result)
	if err != nil {
		return Run{}, fmt.Errorf("encoding result: %w", err)
	}
	request := run.Request
	if len(request) == 0 {
		request = json.RawMessage("{}")
	}

	_, err = p.pool.Exec(ctx, `
		INSERT INTO simulation_runs (id, technology, created_at, request, result)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			technology = EXCLUDED.technology,
			request = EXCLUDED.request,
			result = EXCLUDED.result`,
		run.ID, string(run.Technology), run.CreatedAt, []byte(request), result)
	if err != nil {
		return Run{}, fmt.Errorf("saving run: %w", err)
	}
	return run, nil
}

func (p *PostgresRuns) Get(ctx context.Context, id string) (Run, error) {
	row := p.pool.QueryRow(ctx, `
		SELECT id::text, technology, created_at, request, result
		FROM simulation_runs WHERE id = $1`, id)
	run, err := scanRun(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Run{}, fmt.Errorf("run %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("loading run: %w", err)
	}
	return run, nil
}

func (p *PostgresRuns) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := p.pool.Query(ctx, `
		SELECT id::text, technology, created_at, request, result
		FROM simulation_runs ORDER BY created_at DESC, id LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

func scanRun(row pgx.Row) (Run, error) {
	var (
		run        Run
		technology string
		request    []byte
		result     []byte
	)
	if err := row.Scan(&run.ID, &technology, &run.CreatedAt, &request, &result); err != nil {
		return Run{}, err
	}
	run.Technology = model.Technology(technology)
	run.Request = json.RawMessage(request)
	if err := json.Unmarshal(result, &run.Result); err != nil {
		return Run{}, fmt.Errorf("decoding result: %w", err)
	}
	return run, nil
}
