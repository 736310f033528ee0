package collab

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"collabdir/internal/apperr"
)

// Repository persists collaboration requests in Postgres.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a repo.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const requestColumns = `id, student_id, faculty_id, message, research_topic, status, created_at, updated_at`

// Insert writes a new pending request and returns it with id and timestamps set.
func (r *Repository) Insert(ctx context.Context, req Request) (Request, error) {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.Status == "" {
		req.Status = StatusPending
	}
	now := time.Now().UTC()
	req.CreatedAt = now
	req.UpdatedAt = now
	_, err := r.db.Exec(ctx, `
		INSERT INTO collaboration_requests (id, student_id, faculty_id, message, research_topic, status, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, req.ID, req.StudentID, req.FacultyID, req.Message, req.ResearchTopic, req.Status, req.CreatedAt, req.UpdatedAt)
	if err != nil {
		return Request{}, fmt.Errorf("insert request: %w", err)
	}
	return req, nil
}

// FindByID returns a request by id.
func (r *Repository) FindByID(ctx context.Context, id string) (*Request, error) {
	row := r.db.QueryRow(ctx, `SELECT `+requestColumns+` FROM collaboration_requests WHERE id = $1`, id)
	var req Request
	err := row.Scan(&req.ID, &req.StudentID, &req.FacultyID, &req.Message, &req.ResearchTopic,
		&req.Status, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFoundf("request %s", id)
		}
		return nil, fmt.Errorf("find request: %w", err)
	}
	return &req, nil
}

// ListByStudent returns all requests created by a student, newest first.
func (r *Repository) ListByStudent(ctx context.Context, studentID string) ([]Request, error) {
	return r.list(ctx, "student_id", studentID)
}

// ListByFaculty returns all requests addressed to a faculty member, newest first.
func (r *Repository) ListByFaculty(ctx context.Context, facultyID string) ([]Request, error) {
	return r.list(ctx, "faculty_id", facultyID)
}

func (r *Repository) list(ctx context.Context, column, id string) ([]Request, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+requestColumns+` FROM collaboration_requests
		WHERE `+column+` = $1
		ORDER BY created_at DESC, id
	`, id)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	defer rows.Close()

	var reqs []Request
	for rows.Next() {
		var req Request
		if err := rows.Scan(&req.ID, &req.StudentID, &req.FacultyID, &req.Message, &req.ResearchTopic,
			&req.Status, &req.CreatedAt, &req.UpdatedAt); err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}
	return reqs, rows.Err()
}

// DecideIfPending sets the status of a request in a single compare-and-set
// against rows still in the pending state, refreshing updated_at. Returns
// the new updated_at; a zero time means the request was missing or no
// longer pending when the write landed.
func (r *Repository) DecideIfPending(ctx context.Context, id, status string) (time.Time, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE collaboration_requests
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = $3
		RETURNING updated_at
	`, id, status, StatusPending)
	var updatedAt time.Time
	if err := row.Scan(&updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("update request status: %w", err)
	}
	return updatedAt, nil
}
