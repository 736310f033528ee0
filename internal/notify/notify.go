// Package notify materializes queue events into per-user notifications.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Event kinds produced by the collaboration workflow.
const (
	KindRequestCreated = "request.created"
	KindRequestDecided = "request.decided"
)

// Event is the wire shape published on the queue.
type Event struct {
	Kind        string `json:"kind"`
	RequestID   string `json:"request_id"`
	RecipientID string `json:"recipient_id"`
	Body        string `json:"body"`
}

// Encode serializes the event for the queue.
func (e Event) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// DecodeEvent parses a queue message body.
func DecodeEvent(data []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return Event{}, fmt.Errorf("decode event: %w", err)
	}
	return e, nil
}

// Notification is a stored, user-addressed message.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Kind      string    `json:"kind"`
	RequestID string    `json:"request_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// Repository persists notifications in Postgres.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a repo.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Insert stores a notification built from an event.
func (r *Repository) Insert(ctx context.Context, evt Event) (Notification, error) {
	n := Notification{
		ID:        uuid.NewString(),
		UserID:    evt.RecipientID,
		Kind:      evt.Kind,
		RequestID: evt.RequestID,
		Body:      evt.Body,
		CreatedAt: time.Now().UTC(),
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO notifications (id, user_id, kind, request_id, body, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, n.ID, n.UserID, n.Kind, n.RequestID, n.Body, n.CreatedAt)
	if err != nil {
		return Notification{}, fmt.Errorf("insert notification: %w", err)
	}
	return n, nil
}

// ListForUser returns a user's notifications, newest first.
func (r *Repository) ListForUser(ctx context.Context, userID string, limit int) ([]Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, kind, request_id, body, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Kind, &n.RequestID, &n.Body, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}
