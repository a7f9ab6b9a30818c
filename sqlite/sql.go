package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hoshinonyaruko/snake-gesture/structs"
	_ "github.com/mattn/go-sqlite3"
)

const createHighScoreTableSQL = `
CREATE TABLE IF NOT EXISTS HighScore (
    ID INTEGER PRIMARY KEY CHECK (ID = 1),
    Score INTEGER NOT NULL
);
`

const createSessionsTableSQL = `
CREATE TABLE IF NOT EXISTS Sessions (
    SessionID TEXT PRIMARY KEY,
    Score INTEGER,
    Length INTEGER,
    Ticks INTEGER,
    Won INTEGER,
    Cause TEXT,
    EndedAt INTEGER
);
`

const createSessionsIndexSQL = `
CREATE INDEX IF NOT EXISTS idx_sessions_score ON Sessions (Score DESC);
`

// Store keeps the high score and the finished sessions.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database file and its tables.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	// sqlite 单写者
	db.SetMaxOpenConns(1)
	if err := InitializeDatabase(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func executeSQL(db *sql.DB, sqlStatement string) error {
	if _, err := db.Exec(sqlStatement); err != nil {
		return fmt.Errorf("error executing SQL statement: %s: %w", sqlStatement, err)
	}
	return nil
}

func InitializeDatabase(db *sql.DB) error {
	for _, stmt := range []string{createHighScoreTableSQL, createSessionsTableSQL, createSessionsIndexSQL} {
		if err := executeSQL(db, stmt); err != nil {
			return err
		}
	}
	return nil
}

// LoadHighScore 没有记录时返回0
func (s *Store) LoadHighScore() (int, error) {
	var score int
	err := s.db.QueryRow("SELECT Score FROM HighScore WHERE ID = 1").Scan(&score)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return score, nil
}

func (s *Store) SaveHighScore(score int) error {
	_, err := s.db.Exec("INSERT OR REPLACE INTO HighScore (ID, Score) VALUES (1, ?)", score)
	return err
}

// RecordSession 保存一局结果，ID为空时生成uuid
func (s *Store) RecordSession(rec structs.SessionRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	_, err := s.db.Exec("INSERT INTO Sessions (SessionID, Score, Length, Ticks, Won, Cause, EndedAt) VALUES (?, ?, ?, ?, ?, ?, ?)",
		rec.ID, rec.Score, rec.Length, rec.Ticks, rec.Won, rec.Cause, rec.EndedAt)
	return err
}

// TopSessions returns the best finished sessions, highest score first.
func (s *Store) TopSessions(limit int) ([]structs.SessionRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query("SELECT SessionID, Score, Length, Ticks, Won, Cause, EndedAt FROM Sessions ORDER BY Score DESC, EndedAt ASC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := []structs.SessionRecord{}
	for rows.Next() {
		var rec structs.SessionRecord
		var ticks int64
		if err := rows.Scan(&rec.ID, &rec.Score, &rec.Length, &ticks, &rec.Won, &rec.Cause, &rec.EndedAt); err != nil {
			return nil, err
		}
		rec.Ticks = uint64(ticks)
		sessions = append(sessions, rec)
	}
	return sessions, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}
