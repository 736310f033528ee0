// Package collab implements the collaboration-request lifecycle: a student
// proposes working with a faculty member, who then accepts or rejects it.
package collab

import "time"

// Request statuses. Pending is the only state with outgoing transitions.
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

// ValidStatus reports whether s is a known status value.
func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusAccepted || s == StatusRejected
}

// Request is a student-initiated collaboration proposal.
type Request struct {
	ID            string    `json:"id"`
	StudentID     string    `json:"student_id"`
	FacultyID     string    `json:"faculty_id"`
	Message       string    `json:"message"`
	ResearchTopic string    `json:"research_topic,omitempty"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// FacultySnapshot is the read-time view of a request's faculty member,
// recomputed per listing so it reflects current profile data.
type FacultySnapshot struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Position   string `json:"position"`
}

// StudentSnapshot is the read-time view of a request's student.
type StudentSnapshot struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Program    string `json:"program"`
}

// StudentView is a request enriched for the owning student.
type StudentView struct {
	Request
	Faculty *FacultySnapshot `json:"faculty,omitempty"`
}

// FacultyView is a request enriched for the owning faculty member.
type FacultyView struct {
	Request
	Student *StudentSnapshot `json:"student,omitempty"`
}

// Actor identifies the authenticated caller of an operation.
type Actor struct {
	ID       string
	UserType string
}
