package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/go-sql-driver/mysql"

	"psr/internal/config"
	"psr/internal/domain"
)

// Recorder keeps an append-only history of runs outside the ledger
type Recorder interface {
	Record(ctx context.Context, result domain.ScenarioResult) error
	Close() error
}

// NopRecorder is used when no history database is configured
type NopRecorder struct{}

func (NopRecorder) Record(context.Context, domain.ScenarioResult) error { return nil }
func (NopRecorder) Close() error                                        { return nil }

// HistoryDB mirrors every finished run into a MySQL table
type HistoryDB struct {
	db *sql.DB
}

const createRunsTable = "CREATE TABLE IF NOT EXISTS scenario_runs (" +
	"id BIGINT AUTO_INCREMENT PRIMARY KEY," +
	"product VARCHAR(64) NOT NULL," +
	"scenario_id INT NOT NULL," +
	"title VARCHAR(255) NOT NULL," +
	"status VARCHAR(16) NOT NULL," +
	"duration_ms BIGINT NOT NULL," +
	"started_at DATETIME(3) NULL," +
	"ended_at DATETIME(3) NULL," +
	"steps JSON NOT NULL," +
	"created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP," +
	"INDEX idx_product_scenario (product, scenario_id))"

const insertRun = "INSERT INTO scenario_runs " +
	"(product, scenario_id, title, status, duration_ms, started_at, ended_at, steps) " +
	"VALUES (?, ?, ?, ?, ?, ?, ?, ?)"

// NewRecorder opens the history database when one is configured
func NewRecorder(ctx context.Context, cfg config.DBConfig) (Recorder, error) {
	if !cfg.Enabled() {
		return NopRecorder{}, nil
	}
	return OpenHistoryDB(ctx, cfg)
}

// OpenHistoryDB creates the database and table if they do not exist
func OpenHistoryDB(ctx context.Context, cfg config.DBConfig) (*HistoryDB, error) {
	if !isValidDatabaseName(cfg.Name) {
		return nil, fmt.Errorf("invalid database name: %s", cfg.Name)
	}

	server, err := sql.Open("mysql", cfg.ServerDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database server: %w", err)
	}
	defer server.Close()

	if err := server.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database server: %w", err)
	}
	if _, err := server.ExecContext(ctx, fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s`", cfg.Name)); err != nil {
		return nil, fmt.Errorf("failed to create database %s: %w", cfg.Name, err)
	}

	db, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", cfg.Name, err)
	}
	if _, err := db.ExecContext(ctx, createRunsTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create scenario_runs: %w", err)
	}
	return &HistoryDB{db: db}, nil
}

// Record inserts one run
func (h *HistoryDB) Record(ctx context.Context, result domain.ScenarioResult) error {
	steps, err := json.Marshal(result.Steps)
	if err != nil {
		return fmt.Errorf("marshal steps: %w", err)
	}
	_, err = h.db.ExecContext(ctx, insertRun,
		result.Product,
		result.ScenarioID,
		result.Title,
		string(result.OverallStatus),
		result.DurationMs,
		nullTime(result),
		nullEnd(result),
		string(steps),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// Close closes the connection pool
func (h *HistoryDB) Close() error {
	return h.db.Close()
}

func nullTime(r domain.ScenarioResult) sql.NullTime {
	return sql.NullTime{Time: r.StartTime, Valid: !r.StartTime.IsZero()}
}

func nullEnd(r domain.ScenarioResult) sql.NullTime {
	return sql.NullTime{Time: r.EndTime, Valid: !r.EndTime.IsZero()}
}

// isValidDatabaseName only allows names that are safe to quote with backticks
func isValidDatabaseName(name string) bool {
	if len(name) == 0 || len(name) > 64 {
		return false
	}
	for _, r := range name {
		if !(r == '_' || r == '$' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			return false
		}
	}
	return true
}
