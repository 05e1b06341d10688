// Package store provides transcript persistence for the HealthGuide client.
//
// This file implements the SQLite-backed store.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "embed"

	"github.com/bytebender77/healthguide/internal/models"
	_ "github.com/mattn/go-sqlite3"
)

// Constants for SQLite store configuration
const (
	// DefaultDirPermissions defines the default permissions for database directories
	DefaultDirPermissions = 0755
)

//go:embed migrations_sqlite.sql
var sqliteMigrations string

type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store with the given DSN.
// The DSN should be a file path to the SQLite database file.
// If the directory doesn't exist, it will be created.
func NewSQLiteStore(opts ...Option) (*SQLiteStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("NewSQLiteStore invoked", "DSN_set", cfg.DSN != "")

	dsn := cfg.DSN
	if dsn == "" {
		slog.Error("SQLiteStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}

	dir := filepath.Dir(dsn)
	if err := os.MkdirAll(dir, DefaultDirPermissions); err != nil {
		slog.Error("Failed to create database directory", "error", err, "dir", dir)
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		slog.Error("Failed to open SQLite connection", "error", err)
		return nil, err
	}

	if err := db.Ping(); err != nil {
		slog.Error("SQLite ping failed", "error", err)
		return nil, err
	}

	slog.Debug("Running SQLite migrations")
	if _, err := db.Exec(sqliteMigrations); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// SaveConversation inserts or updates the transcript for a session. The original
// created_at is preserved across updates.
func (s *SQLiteStore) SaveConversation(rec ConversationRecord) error {
	messagesJSON, err := json.Marshal(rec.Messages)
	if err != nil {
		slog.Error("SQLiteStore SaveConversation marshal failed", "error", err, "sessionID", rec.SessionID)
		return fmt.Errorf("failed to marshal messages for %s: %w", rec.SessionID, err)
	}

	query := `
		INSERT INTO conversations (session_id, messages, triage_level, summary, red_flag, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			messages = excluded.messages,
			triage_level = excluded.triage_level,
			summary = excluded.summary,
			red_flag = excluded.red_flag,
			updated_at = excluded.updated_at`

	_, err = s.db.Exec(query, rec.SessionID, string(messagesJSON),
		nilIfEmpty(rec.TriageLevel), nilIfEmpty(rec.Summary), nilIfEmpty(rec.RedFlag),
		rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		slog.Error("SQLiteStore SaveConversation failed", "error", err, "sessionID", rec.SessionID)
		return fmt.Errorf("failed to save conversation %s: %w", rec.SessionID, err)
	}
	slog.Debug("SQLiteStore SaveConversation succeeded", "sessionID", rec.SessionID, "messages", len(rec.Messages))
	return nil
}

// GetConversation retrieves a transcript by session id. Returns nil when not found.
func (s *SQLiteStore) GetConversation(sessionID string) (*ConversationRecord, error) {
	query := `SELECT session_id, messages, triage_level, summary, red_flag, created_at, updated_at
			  FROM conversations WHERE session_id = ?`

	var rec ConversationRecord
	var messagesJSON string
	var triageLevel, summary, redFlag sql.NullString

	err := s.db.QueryRow(query, sessionID).Scan(
		&rec.SessionID, &messagesJSON, &triageLevel, &summary, &redFlag,
		&rec.CreatedAt, &rec.UpdatedAt)
	if err == sql.ErrNoRows {
		slog.Debug("SQLiteStore GetConversation not found", "sessionID", sessionID)
		return nil, nil
	}
	if err != nil {
		slog.Error("SQLiteStore GetConversation failed", "error", err, "sessionID", sessionID)
		return nil, err
	}

	rec.TriageLevel = triageLevel.String
	rec.Summary = summary.String
	rec.RedFlag = redFlag.String
	if messagesJSON != "" {
		if err := json.Unmarshal([]byte(messagesJSON), &rec.Messages); err != nil {
			slog.Error("SQLiteStore GetConversation unmarshal failed", "error", err, "sessionID", sessionID)
			return nil, fmt.Errorf("failed to unmarshal messages for %s: %w", sessionID, err)
		}
	}

	slog.Debug("SQLiteStore GetConversation found", "sessionID", sessionID, "messages", len(rec.Messages))
	return &rec, nil
}

// AddTemperature appends a temperature reading for a session.
func (s *SQLiteStore) AddTemperature(reading models.TemperatureReading) error {
	_, err := s.db.Exec(
		`INSERT INTO temperature_logs (session_id, temperature, unit, recorded_at, notes) VALUES (?, ?, ?, ?, ?)`,
		reading.SessionID, reading.Temperature, reading.Unit, reading.RecordedAt, nilIfEmpty(reading.Notes))
	if err != nil {
		slog.Error("SQLiteStore AddTemperature failed", "error", err, "sessionID", reading.SessionID)
		return fmt.Errorf("failed to insert temperature for %s: %w", reading.SessionID, err)
	}
	slog.Debug("SQLiteStore AddTemperature succeeded", "sessionID", reading.SessionID, "temperature", reading.Temperature)
	return nil
}

// GetTemperatureHistory returns readings for a session, newest first.
func (s *SQLiteStore) GetTemperatureHistory(sessionID string, limit int) ([]models.TemperatureReading, error) {
	query := `SELECT id, session_id, temperature, unit, recorded_at, notes
			  FROM temperature_logs WHERE session_id = ? ORDER BY recorded_at DESC`
	args := []interface{}{sessionID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		slog.Error("SQLiteStore GetTemperatureHistory query failed", "error", err, "sessionID", sessionID)
		return nil, fmt.Errorf("failed to query temperature logs: %w", err)
	}
	defer rows.Close()

	var readings []models.TemperatureReading
	for rows.Next() {
		r, err := scanTemperature(rows)
		if err != nil {
			slog.Error("SQLiteStore GetTemperatureHistory scan failed", "error", err)
			return nil, err
		}
		readings = append(readings, r)
	}
	if err := rows.Err(); err != nil {
		slog.Error("SQLiteStore GetTemperatureHistory rows iteration failed", "error", err)
		return nil, fmt.Errorf("failed to iterate temperature rows: %w", err)
	}
	slog.Debug("SQLiteStore GetTemperatureHistory succeeded", "sessionID", sessionID, "count", len(readings))
	return readings, nil
}

// Close closes the SQLite database connection.
func (s *SQLiteStore) Close() error {
	slog.Debug("Closing SQLite database connection")
	err := s.db.Close()
	if err != nil {
		slog.Error("Failed to close SQLite database", "error", err)
	}
	return err
}
