/*
This file implements the Postgres snapshot of the city list, letting restarts
skip the Wikipedia scrape. The snapshot stores only the immutable directory,
never game state.
*/
package cities

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LoadSnapshot reads the city list previously saved with SaveSnapshot.
func LoadSnapshot(ctx context.Context, pool *pgxpool.Pool) ([]Entry, error) {
	rows, err := pool.Query(ctx, `SELECT name, article_url FROM cities ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query cities snapshot: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		if err := rows.Scan(&entry.Name, &entry.URL); err != nil {
			return nil, fmt.Errorf("scan city row: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read cities snapshot: %w", err)
	}

	if len(entries) == 0 {
		return nil, ErrEmptyDirectory
	}

	return entries, nil
}

// SaveSnapshot atomically replaces the stored city list with entries.
func SaveSnapshot(ctx context.Context, pool *pgxpool.Pool, entries []Entry) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin snapshot transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `TRUNCATE cities`); err != nil {
		return fmt.Errorf("truncate cities snapshot: %w", err)
	}

	rows := make([][]any, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, []any{entry.Name, entry.URL})
	}

	if _, err := tx.CopyFrom(ctx, pgx.Identifier{"cities"}, []string{"name", "article_url"}, pgx.CopyFromRows(rows)); err != nil {
		return fmt.Errorf("copy cities snapshot: %w", err)
	}

	return tx.Commit(ctx)
}
