package db

import (
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

//go:embed schema.sql
var schemaSQL string

//go:embed drop.sql
var dropSQL string

func Connect(connStr string) (*sql.DB, error) {
	if connStr == "" {
		return nil, fmt.Errorf("database connection string is empty")
	}

	conn, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(25)
	conn.SetConnMaxLifetime(5 * time.Minute)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return conn, nil
}

// EnsureSchema creates all tables and uniqueness constraints if they do not
// exist. The constraints are the pipeline's only dedup mechanism, so this
// must run before any poller or worker.
func EnsureSchema(conn *sql.DB) error {
	if _, err := conn.Exec(schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Reset drops every table and recreates the schema. This is the explicit
// full-reset operation and the only way stored facts are ever deleted.
func Reset(conn *sql.DB) error {
	if _, err := conn.Exec(dropSQL); err != nil {
		return fmt.Errorf("drop schema: %w", err)
	}
	return EnsureSchema(conn)
}
