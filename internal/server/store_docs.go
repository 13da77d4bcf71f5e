package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/playperu/apihunt/internal/hunt"
)

// sessionDoc is the JSON document stored in sessions.data.
type sessionDoc struct {
	ID        string        `json:"id"`
	Progress  hunt.Progress `json:"progress"`
	CreatedAt string        `json:"createdAt"`
}

// DocStore implements Store on the sessions table, one JSONB document per
// session. The schema comes from the migrations package.
type DocStore struct {
	db *sql.DB
}

func NewDocStore(db *sql.DB) *DocStore {
	return &DocStore{db: db}
}

func toDoc(s Session) sessionDoc {
	return sessionDoc{
		ID:        s.ID,
		Progress:  s.Progress,
		CreatedAt: s.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func fromDoc(d sessionDoc) (Session, error) {
	created, err := time.Parse(time.RFC3339Nano, d.CreatedAt)
	if err != nil {
		return Session{}, fmt.Errorf("session %s: parsing createdAt: %w", d.ID, err)
	}
	if d.Progress.CompletedClues == nil {
		d.Progress.CompletedClues = []string{}
	}
	return Session{ID: d.ID, Progress: d.Progress, CreatedAt: created}, nil
}

func completedAt(p hunt.Progress) sql.NullString {
	if p.EndTime == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: p.EndTime.UTC().Format(time.RFC3339Nano), Valid: true}
}

func (s *DocStore) CreateSession(ctx context.Context, tokenHash string, sess Session) error {
	doc := toDoc(sess)
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, token_hash, created_at, completed_at, data) VALUES (?, ?, ?, ?, jsonb(?))`,
		doc.ID, tokenHash, doc.CreatedAt, completedAt(sess.Progress), string(data),
	)
	if err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}
	return nil
}

func (s *DocStore) SessionByToken(ctx context.Context, tokenHash string) (Session, error) {
	return s.get(ctx, "token_hash", tokenHash)
}

func (s *DocStore) SessionByID(ctx context.Context, id string) (Session, error) {
	return s.get(ctx, "id", id)
}

// get loads one session by an indexed column.
func (s *DocStore) get(ctx context.Context, column, value string) (Session, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT json(data) FROM sessions WHERE %s = ?`, column), value,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, err
	}

	var doc sessionDoc
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return Session{}, err
	}
	return fromDoc(doc)
}

func (s *DocStore) SaveSession(ctx context.Context, sess Session) error {
	doc := toDoc(sess)
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	result, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET completed_at = ?, data = jsonb(?) WHERE id = ?`,
		completedAt(sess.Progress), string(data), doc.ID,
	)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *DocStore) DeleteSession(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *DocStore) CountSessions(ctx context.Context) (SessionCounts, error) {
	var c SessionCounts
	err := s.db.QueryRowContext(ctx, `
		SELECT
			coalesce(sum(CASE WHEN completed_at IS NULL THEN 1 ELSE 0 END), 0),
			coalesce(sum(CASE WHEN completed_at IS NOT NULL THEN 1 ELSE 0 END), 0)
		FROM sessions
	`).Scan(&c.Active, &c.Completed)
	return c, err
}
