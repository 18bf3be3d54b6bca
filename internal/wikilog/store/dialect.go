package store

import (
	"fmt"
	"strings"
)

// tableName is the table classified access events are loaded into.
const tableName = "wiki_actions"

// columns lists the wiki_actions columns in insert order.
var columns = []string{
	"event_id", "logged_at", "ts", "user_id", "ip_address", "base_url", "relative_url",
	"action_type", "user_action", "user_sub_action", "action_name",
	"page_id", "space_key", "title", "query_string", "unknown_action_url", "query_time_ms",
}

// Dialect abstracts the SQL that differs between database backends.
type Dialect interface {
	// DriverName returns the database/sql driver name.
	DriverName() string

	// Placeholder returns the parameter placeholder for the given 1-based index.
	Placeholder(index int) string

	// CreateTableSQL returns the DDL for the wiki_actions table.
	CreateTableSQL() string
}

// DialectFor returns the dialect for a driver name.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case "sqlite", "sqlite3":
		return &SQLiteDialect{}, nil
	case "postgres", "postgresql":
		return &PostgresDialect{driver: "postgres"}, nil
	case "pgx":
		return &PostgresDialect{driver: "pgx"}, nil
	case "mysql":
		return &MySQLDialect{}, nil
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}
}

// InsertEventSQL builds the parameterized INSERT for one event.
func InsertEventSQL(d Dialect) string {
	ph := make([]string, len(columns))
	for i := range columns {
		ph[i] = d.Placeholder(i + 1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		tableName, strings.Join(columns, ", "), strings.Join(ph, ", "))
}

// SQLiteDialect implements Dialect for modernc.org/sqlite.
type SQLiteDialect struct{}

func (d *SQLiteDialect) DriverName() string           { return "sqlite" }
func (d *SQLiteDialect) Placeholder(index int) string { return "?" }

func (d *SQLiteDialect) CreateTableSQL() string {
	return `CREATE TABLE IF NOT EXISTS wiki_actions (
		event_id TEXT PRIMARY KEY, logged_at DATETIME, ts TEXT,
		user_id TEXT, ip_address TEXT, base_url TEXT, relative_url TEXT,
		action_type TEXT, user_action TEXT, user_sub_action TEXT, action_name TEXT,
		page_id TEXT, space_key TEXT, title TEXT, query_string TEXT,
		unknown_action_url TEXT, query_time_ms TEXT
	)`
}

// PostgresDialect implements Dialect for both lib/pq ("postgres") and
// pgx's database/sql driver ("pgx").
type PostgresDialect struct {
	driver string
}

func (d *PostgresDialect) DriverName() string           { return d.driver }
func (d *PostgresDialect) Placeholder(index int) string { return fmt.Sprintf("$%d", index) }

func (d *PostgresDialect) CreateTableSQL() string {
	return `CREATE TABLE IF NOT EXISTS wiki_actions (
		event_id TEXT PRIMARY KEY, logged_at TEXT, ts TEXT,
		user_id TEXT, ip_address TEXT, base_url TEXT, relative_url TEXT,
		action_type TEXT, user_action TEXT, user_sub_action TEXT, action_name TEXT,
		page_id TEXT, space_key TEXT, title TEXT, query_string TEXT,
		unknown_action_url TEXT, query_time_ms TEXT
	)`
}

// MySQLDialect implements Dialect for go-sql-driver/mysql.
type MySQLDialect struct{}

func (d *MySQLDialect) DriverName() string           { return "mysql" }
func (d *MySQLDialect) Placeholder(index int) string { return "?" }

func (d *MySQLDialect) CreateTableSQL() string {
	return `CREATE TABLE IF NOT EXISTS wiki_actions (
		event_id VARCHAR(36) PRIMARY KEY, logged_at VARCHAR(19), ts VARCHAR(32),
		user_id VARCHAR(255), ip_address VARCHAR(64), base_url VARCHAR(255), relative_url TEXT,
		action_type VARCHAR(32), user_action VARCHAR(64), user_sub_action VARCHAR(64),
		action_name VARCHAR(255), page_id VARCHAR(64), space_key VARCHAR(255), title TEXT,
		query_string TEXT, unknown_action_url TEXT, query_time_ms VARCHAR(32)
	)`
}
