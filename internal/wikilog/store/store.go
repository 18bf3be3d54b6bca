package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/vaibhaw-/wikilog/internal/wikilog/event"
	"github.com/vaibhaw-/wikilog/internal/wikilog/logger"
)

// Store is the sink classified events are loaded into.
type Store interface {
	InsertEvents(ctx context.Context, events []*event.Event) (int, error)
	Count(ctx context.Context) (int64, error)
	Close() error
}

// SQLStore is a Store over database/sql.
type SQLStore struct {
	conn    *sql.DB
	dialect Dialect
}

// Open connects to the database and creates the wiki_actions table if needed.
// For sqlite dsn is a file path; for postgres, pgx and mysql it is the
// driver's connection string.
func Open(ctx context.Context, driver, dsn string) (*SQLStore, error) {
	d, err := DialectFor(driver)
	if err != nil {
		return nil, err
	}

	conn, err := sql.Open(d.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if _, err := conn.ExecContext(ctx, d.CreateTableSQL()); err != nil {
		conn.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.L().Debugw("opened store", "driver", d.DriverName())
	return &SQLStore{conn: conn, dialect: d}, nil
}

// InsertEvents inserts events in a single transaction and returns how many were written.
func (s *SQLStore) InsertEvents(ctx context.Context, events []*event.Event) (int, error) {
	if len(events) == 0 {
		return 0, nil
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, InsertEventSQL(s.dialect))
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range events {
		if _, err := stmt.ExecContext(ctx, eventArgs(e)...); err != nil {
			return 0, fmt.Errorf("insert event %s (batch row %d): %w", e.EventID, i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return len(events), nil
}

// eventArgs returns the values for InsertEventSQL, in columns order.
func eventArgs(e *event.Event) []any {
	return []any{
		e.EventID, e.DateTime, e.Timestamp, e.UserID, e.IPAddress, e.BaseURL, e.RelativeURL,
		e.ActionType, e.UserAction, e.UserSubAction, e.ActionName,
		e.PageID, e.SpaceKey, e.Title, e.QueryString, e.UnknownActionURL, e.QueryTimeMs,
	}
}

// Count returns the number of rows in wiki_actions.
func (s *SQLStore) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+tableName).Scan(&n)
	return n, err
}

// Close closes the database connection.
func (s *SQLStore) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}
