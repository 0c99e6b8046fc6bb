// Package datalog records greenhouse readings in a SQLite database.
package datalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/BeatGlow/matrix/internal/greenhouse"
)

// DefaultPath of the database.
const DefaultPath = "ghdata.db"

// Log is the readings table.
type Log struct {
	db *sql.DB
}

// Open the database at file, creating the table if needed.
func Open(file string) (*Log, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS readings (id INTEGER PRIMARY KEY NOT NULL, time INTEGER NOT NULL, temperature REAL, humidity REAL, pressure REAL)"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("datalog: create table: %w", err)
	}

	if _, err = db.Exec("CREATE INDEX IF NOT EXISTS readings_time ON readings (time)"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("datalog: create index: %w", err)
	}

	return &Log{
		db: db,
	}, nil
}

// Close the database.
func (l *Log) Close() error {
	return l.db.Close()
}

// Append stores one reading.
func (l *Log) Append(ctx context.Context, r greenhouse.Reading) error {
	if _, err := l.db.ExecContext(ctx, "INSERT INTO readings (time, temperature, humidity, pressure) VALUES (?, ?, ?, ?)",
		r.Time.UnixNano(), r.Temperature, r.Humidity, r.Pressure); err != nil {
		return fmt.Errorf("datalog: append: %w", err)
	}
	return nil
}

// Recent returns up to n readings, newest first.
func (l *Log) Recent(ctx context.Context, n int) ([]greenhouse.Reading, error) {
	rows, err := l.db.QueryContext(ctx, "SELECT time, temperature, humidity, pressure FROM readings ORDER BY time DESC, id DESC LIMIT ?", n)
	if err != nil {
		return nil, fmt.Errorf("datalog: recent: %w", err)
	}
	defer rows.Close()

	var readings []greenhouse.Reading
	for rows.Next() {
		var (
			ts int64
			r  greenhouse.Reading
		)
		if err = rows.Scan(&ts, &r.Temperature, &r.Humidity, &r.Pressure); err != nil {
			return nil, fmt.Errorf("datalog: recent: %w", err)
		}
		r.Time = time.Unix(0, ts)
		readings = append(readings, r)
	}
	return readings, rows.Err()
}

// Count returns the number of stored readings.
func (l *Log) Count(ctx context.Context) (int, error) {
	var n int
	if err := l.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM readings").Scan(&n); err != nil {
		return 0, fmt.Errorf("datalog: count: %w", err)
	}
	return n, nil
}
