// Package store provides transcript persistence for the HealthGuide client.
//
// This file implements the PostgreSQL-backed store.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	_ "embed"

	"github.com/bytebender77/healthguide/internal/models"
	_ "github.com/lib/pq"
)

// Database connection pool configuration constants
const (
	// DefaultMaxOpenConns is the default maximum number of open connections to the database
	DefaultMaxOpenConns = 25
	// DefaultMaxIdleConns is the default maximum number of idle connections in the pool
	DefaultMaxIdleConns = 25
	// DefaultConnMaxLifetime is the default maximum amount of time a connection may be reused
	DefaultConnMaxLifetime = 5 * time.Minute
)

//go:embed migrations_postgres.sql
var postgresMigrations string

type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new Postgres store based on provided options.
func NewPostgresStore(opts ...Option) (*PostgresStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("PostgresStore.NewPostgresStore: creating Postgres store", "DSN_set", cfg.DSN != "")

	dsn := cfg.DSN
	if dsn == "" {
		slog.Error("PostgresStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		slog.Error("Failed to open Postgres connection", "error", err)
		return nil, err
	}

	db.SetMaxOpenConns(DefaultMaxOpenConns)
	db.SetMaxIdleConns(DefaultMaxIdleConns)
	db.SetConnMaxLifetime(DefaultConnMaxLifetime)

	if err := db.Ping(); err != nil {
		slog.Error("Postgres ping failed", "error", err)
		return nil, err
	}

	slog.Debug("Running Postgres migrations")
	if _, err := db.Exec(postgresMigrations); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// SaveConversation inserts or updates the transcript for a session. The original
// created_at is preserved across updates.
func (s *PostgresStore) SaveConversation(rec ConversationRecord) error {
	messagesJSON, err := json.Marshal(rec.Messages)
	if err != nil {
		slog.Error("PostgresStore SaveConversation marshal failed", "error", err, "sessionID", rec.SessionID)
		return fmt.Errorf("failed to marshal messages for %s: %w", rec.SessionID, err)
	}

	query := `
		INSERT INTO conversations (session_id, messages, triage_level, summary, red_flag, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (session_id) DO UPDATE SET
			messages = EXCLUDED.messages,
			triage_level = EXCLUDED.triage_level,
			summary = EXCLUDED.summary,
			red_flag = EXCLUDED.red_flag,
			updated_at = EXCLUDED.updated_at`

	_, err = s.db.Exec(query, rec.SessionID, string(messagesJSON),
		nilIfEmpty(rec.TriageLevel), nilIfEmpty(rec.Summary), nilIfEmpty(rec.RedFlag),
		rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		slog.Error("PostgresStore SaveConversation failed", "error", err, "sessionID", rec.SessionID)
		return fmt.Errorf("failed to save conversation %s: %w", rec.SessionID, err)
	}
	slog.Debug("PostgresStore SaveConversation succeeded", "sessionID", rec.SessionID, "messages", len(rec.Messages))
	return nil
}

// GetConversation retrieves a transcript by session id. Returns nil when not found.
func (s *PostgresStore) GetConversation(sessionID string) (*ConversationRecord, error) {
	query := `SELECT session_id, messages, triage_level, summary, red_flag, created_at, updated_at
			  FROM conversations WHERE session_id = $1`

	var rec ConversationRecord
	var messagesJSON string
	var triageLevel, summary, redFlag sql.NullString

	err := s.db.QueryRow(query, sessionID).Scan(
		&rec.SessionID, &messagesJSON, &triageLevel, &summary, &redFlag,
		&rec.CreatedAt, &rec.UpdatedAt)
	if err == sql.ErrNoRows {
		slog.Debug("PostgresStore GetConversation not found", "sessionID", sessionID)
		return nil, nil
	}
	if err != nil {
		slog.Error("PostgresStore GetConversation failed", "error", err, "sessionID", sessionID)
		return nil, err
	}

	rec.TriageLevel = triageLevel.String
	rec.Summary = summary.String
	rec.RedFlag = redFlag.String
	if messagesJSON != "" {
		if err := json.Unmarshal([]byte(messagesJSON), &rec.Messages); err != nil {
			slog.Error("PostgresStore GetConversation unmarshal failed", "error", err, "sessionID", sessionID)
			return nil, fmt.Errorf("failed to unmarshal messages for %s: %w", sessionID, err)
		}
	}

	slog.Debug("PostgresStore GetConversation found", "sessionID", sessionID, "messages", len(rec.Messages))
	return &rec, nil
}

// AddTemperature appends a temperature reading for a session.
func (s *PostgresStore) AddTemperature(reading models.TemperatureReading) error {
	_, err := s.db.Exec(
		`INSERT INTO temperature_logs (session_id, temperature, unit, recorded_at, notes) VALUES ($1, $2, $3, $4, $5)`,
		reading.SessionID, reading.Temperature, reading.Unit, reading.RecordedAt, nilIfEmpty(reading.Notes))
	if err != nil {
		slog.Error("PostgresStore AddTemperature failed", "error", err, "sessionID", reading.SessionID)
		return fmt.Errorf("failed to insert temperature for %s: %w", reading.SessionID, err)
	}
	slog.Debug("PostgresStore AddTemperature succeeded", "sessionID", reading.SessionID, "temperature", reading.Temperature)
	return nil
}

// GetTemperatureHistory returns readings for a session, newest first.
func (s *PostgresStore) GetTemperatureHistory(sessionID string, limit int) ([]models.TemperatureReading, error) {
	query := `SELECT id, session_id, temperature, unit, recorded_at, notes
			  FROM temperature_logs WHERE session_id = $1 ORDER BY recorded_at DESC`
	args := []interface{}{sessionID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		slog.Error("PostgresStore GetTemperatureHistory query failed", "error", err, "sessionID", sessionID)
		return nil, fmt.Errorf("failed to query temperature logs: %w", err)
	}
	defer rows.Close()

	var readings []models.TemperatureReading
	for rows.Next() {
		r, err := scanTemperature(rows)
		if err != nil {
			slog.Error("PostgresStore GetTemperatureHistory scan failed", "error", err)
			return nil, err
		}
		readings = append(readings, r)
	}
	if err := rows.Err(); err != nil {
		slog.Error("PostgresStore GetTemperatureHistory rows iteration failed", "error", err)
		return nil, fmt.Errorf("failed to iterate temperature rows: %w", err)
	}
	slog.Debug("PostgresStore GetTemperatureHistory succeeded", "sessionID", sessionID, "count", len(readings))
	return readings, nil
}

// Close closes the Postgres database connection.
func (s *PostgresStore) Close() error {
	slog.Debug("Closing Postgres database connection")
	err := s.db.Close()
	if err != nil {
		slog.Error("Failed to close Postgres database", "error", err)
	}
	return err
}
