// Package store persists per-frame telemetry to SQLite for later analysis.
package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/banshee-data/tyre.report/internal/telemetry"
	"github.com/banshee-data/tyre.report/internal/thermal"
)

// Store wraps the SQLite database holding recording sessions and their
// frames.
type Store struct {
	*sql.DB
}

// Open opens (or creates) the database at path and ensures the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS sessions (
			session_id TEXT PRIMARY KEY,
			started_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			notes TEXT
		);
		CREATE TABLE IF NOT EXISTS frames (
			session_id TEXT NOT NULL,
			frame_number INTEGER NOT NULL,
			method TEXT,
			span_start INTEGER,
			span_end INTEGER,
			width INTEGER,
			confidence DOUBLE,
			left_avg DOUBLE,
			centre_avg DOUBLE,
			right_avg DOUBLE,
			lateral_gradient DOUBLE,
			warnings_count INTEGER,
			payload TEXT,
			recorded_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (session_id, frame_number),
			FOREIGN KEY (session_id) REFERENCES sessions(session_id)
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db}, nil
}

// StartSession registers a new recording session and returns its id.
func (s *Store) StartSession(notes string) (string, error) {
	id := uuid.NewString()
	_, err := s.Exec("INSERT INTO sessions (session_id, started_at, notes) VALUES (?, ?, ?)",
		id, time.Now().UTC(), notes)
	if err != nil {
		return "", fmt.Errorf("starting session: %w", err)
	}
	return id, nil
}

// RecordFrame stores one frame result under the session: summary columns for
// querying plus the full JSON payload.
func (s *Store) RecordFrame(sessionID string, r *thermal.FrameResult) error {
	payload, err := telemetry.EncodeJSON(r)
	if err != nil {
		return fmt.Errorf("encoding frame %d: %w", r.FrameNumber, err)
	}

	_, err = s.Exec(`
		INSERT INTO frames (
			session_id, frame_number, method, span_start, span_end, width,
			confidence, left_avg, centre_avg, right_avg, lateral_gradient,
			warnings_count, payload
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sessionID,
		r.FrameNumber,
		r.Detection.Method,
		r.Detection.SpanStart,
		r.Detection.SpanEnd,
		r.Detection.Width,
		r.Detection.Confidence,
		r.Analysis.Left.Avg,
		r.Analysis.Centre.Avg,
		r.Analysis.Right.Avg,
		r.Analysis.LateralGradient,
		len(r.Warnings),
		string(payload),
	)
	if err != nil {
		return fmt.Errorf("recording frame %d: %w", r.FrameNumber, err)
	}
	return nil
}

// FrameCount returns the number of frames recorded for a session.
func (s *Store) FrameCount(sessionID string) (int, error) {
	var n int
	err := s.QueryRow("SELECT COUNT(*) FROM frames WHERE session_id = ?", sessionID).Scan(&n)
	return n, err
}

// LoadFrame reads one recorded frame back from its JSON payload.
func (s *Store) LoadFrame(sessionID string, frameNumber int) (*thermal.FrameResult, error) {
	var payload string
	err := s.QueryRow("SELECT payload FROM frames WHERE session_id = ? AND frame_number = ?",
		sessionID, frameNumber).Scan(&payload)
	if err != nil {
		return nil, err
	}
	return telemetry.DecodeJSON([]byte(payload))
}
