package db

import (
	"context"
	"fmt"

	"deal-notifier-go/pkg/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// SaveRun stores a finished run and the items it found in one transaction
func (db *DB) SaveRun(ctx context.Context, run models.RunRecord, found []models.Item) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO runs (id, phase, outcome, processed, total, item_count, started_at, finished_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		run.ID, run.Phase, run.Outcome, run.Processed, run.Total, run.ItemCount,
		run.StartedAt, run.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	if len(found) > 0 {
		_, err = tx.CopyFrom(ctx,
			pgx.Identifier{"run_items"},
			[]string{"run_id", "position", "title", "url", "image_url", "is_free", "discounted_price"},
			pgx.CopyFromSlice(len(found), func(i int) ([]any, error) {
				it := found[i]
				return []any{run.ID, i, it.Title, it.URL, it.ImageURL, it.IsFree, it.DiscountedPrice.String()}, nil
			}),
		)
		if err != nil {
			return fmt.Errorf("failed to insert run items: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// ListRuns retrieves the most recent runs, newest first
func (db *DB) ListRuns(ctx context.Context, limit int) ([]models.RunRecord, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, phase, outcome, processed, total, item_count, started_at, finished_at
		 FROM runs
		 ORDER BY started_at DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []models.RunRecord
	for rows.Next() {
		var run models.RunRecord
		err := rows.Scan(
			&run.ID,
			&run.Phase,
			&run.Outcome,
			&run.Processed,
			&run.Total,
			&run.ItemCount,
			&run.StartedAt,
			&run.FinishedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return runs, nil
}

// ListRunItems retrieves the items of one run in the order they were found
func (db *DB) ListRunItems(ctx context.Context, runID uuid.UUID) ([]models.ArchivedItem, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT run_id, position, title, url, image_url, is_free, discounted_price
		 FROM run_items
		 WHERE run_id = $1
		 ORDER BY position`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query run items: %w", err)
	}
	defer rows.Close()

	var items []models.ArchivedItem
	for rows.Next() {
		var item models.ArchivedItem
		var price string
		err := rows.Scan(
			&item.RunID,
			&item.Position,
			&item.Title,
			&item.URL,
			&item.ImageURL,
			&item.IsFree,
			&price,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run item: %w", err)
		}
		item.DiscountedPrice = models.Price(price)
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating run items: %w", err)
	}

	return items, nil
}

// GetRun retrieves a single run by ID
func (db *DB) GetRun(ctx context.Context, runID uuid.UUID) (*models.RunRecord, error) {
	var run models.RunRecord
	err := db.Pool.QueryRow(ctx,
		`SELECT id, phase, outcome, processed, total, item_count, started_at, finished_at
		 FROM runs WHERE id = $1`,
		runID,
	).Scan(
		&run.ID,
		&run.Phase,
		&run.Outcome,
		&run.Processed,
		&run.Total,
		&run.ItemCount,
		&run.StartedAt,
		&run.FinishedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("run not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	return &run, nil
}
