package collab

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"collabdir/internal/apperr"
	"collabdir/internal/directory"
	"collabdir/internal/metrics"
	"collabdir/internal/notify"
	"collabdir/internal/queue"
	"collabdir/internal/sanitize"
)

// Store is the persistence surface the service needs.
type Store interface {
	Insert(ctx context.Context, req Request) (Request, error)
	FindByID(ctx context.Context, id string) (*Request, error)
	ListByStudent(ctx context.Context, studentID string) ([]Request, error)
	ListByFaculty(ctx context.Context, facultyID string) ([]Request, error)
	DecideIfPending(ctx context.Context, id, status string) (time.Time, error)
}

// Directory resolves user references on requests.
type Directory interface {
	FindByID(ctx context.Context, id string) (*directory.User, error)
}

// Publisher enqueues notification events. Publish failures are logged, not
// surfaced: a request outcome never depends on the notification pipeline.
type Publisher interface {
	Publish(ctx context.Context, msg queue.Message) error
}

// Service enforces who may create, view, and decide collaboration requests.
type Service struct {
	store Store
	dir   Directory
	pub   Publisher
}

// NewService creates the lifecycle service. pub may be nil when no
// notification pipeline is wired (tests, one-off tools).
func NewService(store Store, dir Directory, pub Publisher) *Service {
	return &Service{store: store, dir: dir, pub: pub}
}

// Create records a new pending request from a student to a faculty member.
// The faculty reference must resolve to an existing faculty user.
func (s *Service) Create(ctx context.Context, actor Actor, facultyID, message, researchTopic string) (Request, error) {
	if actor.UserType != directory.TypeStudent {
		return Request{}, apperr.Unauthorizedf("only students can create collaboration requests")
	}
	message = sanitize.Strip(message)
	if facultyID == "" || message == "" {
		return Request{}, apperr.Validationf("faculty_id and message are required")
	}

	faculty, err := s.dir.FindByID(ctx, facultyID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return Request{}, apperr.NotFoundf("faculty %s", facultyID)
		}
		return Request{}, err
	}
	if faculty.UserType != directory.TypeFaculty {
		return Request{}, apperr.Validationf("faculty_id does not reference a faculty user")
	}

	req, err := s.store.Insert(ctx, Request{
		StudentID:     actor.ID,
		FacultyID:     facultyID,
		Message:       message,
		ResearchTopic: sanitize.Strip(researchTopic),
		Status:        StatusPending,
	})
	if err != nil {
		return Request{}, err
	}

	metrics.CollabRequestsCreated.Inc()
	s.publish(ctx, notify.Event{
		Kind:        notify.KindRequestCreated,
		RequestID:   req.ID,
		RecipientID: req.FacultyID,
		Body:        fmt.Sprintf("New collaboration request from %s", actor.ID),
	})
	return req, nil
}

// ListForStudent returns the student's own requests enriched with a current
// snapshot of each faculty member.
func (s *Service) ListForStudent(ctx context.Context, actor Actor) ([]StudentView, error) {
	if actor.UserType != directory.TypeStudent {
		return nil, apperr.Unauthorizedf("student access required")
	}
	reqs, err := s.store.ListByStudent(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	views := make([]StudentView, 0, len(reqs))
	for _, req := range reqs {
		view := StudentView{Request: req}
		faculty, err := s.dir.FindByID(ctx, req.FacultyID)
		if err != nil && !errors.Is(err, apperr.ErrNotFound) {
			return nil, err
		}
		if faculty != nil {
			view.Faculty = &FacultySnapshot{
				ID:         faculty.ID,
				Name:       faculty.Name,
				Department: faculty.Department,
				Position:   faculty.Position,
			}
		}
		views = append(views, view)
	}
	return views, nil
}

// ListForFaculty returns the faculty member's own requests enriched with a
// current snapshot of each student.
func (s *Service) ListForFaculty(ctx context.Context, actor Actor) ([]FacultyView, error) {
	if actor.UserType != directory.TypeFaculty {
		return nil, apperr.Unauthorizedf("faculty access required")
	}
	reqs, err := s.store.ListByFaculty(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	views := make([]FacultyView, 0, len(reqs))
	for _, req := range reqs {
		view := FacultyView{Request: req}
		student, err := s.dir.FindByID(ctx, req.StudentID)
		if err != nil && !errors.Is(err, apperr.ErrNotFound) {
			return nil, err
		}
		if student != nil {
			view.Student = &StudentSnapshot{
				ID:         student.ID,
				Name:       student.Name,
				Department: student.Department,
				Program:    student.Program,
			}
		}
		views = append(views, view)
	}
	return views, nil
}

// UpdateStatus transitions a pending request. Only the faculty member the
// request is addressed to may decide it, and a decided request stays decided:
// the write is a compare-and-set against the pending state, so concurrent
// decisions cannot both land. Re-asserting pending on a pending request is a
// no-op success.
func (s *Service) UpdateStatus(ctx context.Context, actor Actor, requestID, newStatus string) (Request, error) {
	if actor.UserType != directory.TypeFaculty {
		return Request{}, apperr.Unauthorizedf("faculty access required")
	}
	if !ValidStatus(newStatus) {
		return Request{}, apperr.Validationf("invalid status %q", newStatus)
	}

	req, err := s.store.FindByID(ctx, requestID)
	if err != nil {
		return Request{}, err
	}
	if req.FacultyID != actor.ID {
		return Request{}, apperr.Unauthorizedf("request belongs to another faculty member")
	}
	if req.Status != StatusPending {
		return Request{}, apperr.Conflictf("request already %s", req.Status)
	}

	decidedAt, err := s.store.DecideIfPending(ctx, requestID, newStatus)
	if err != nil {
		return Request{}, err
	}
	if decidedAt.IsZero() {
		// Lost the race against another decision.
		return Request{}, apperr.Conflictf("request no longer pending")
	}
	req.Status = newStatus
	req.UpdatedAt = decidedAt

	if newStatus != StatusPending {
		metrics.CollabDecisions.WithLabelValues(newStatus).Inc()
		s.publish(ctx, notify.Event{
			Kind:        notify.KindRequestDecided,
			RequestID:   req.ID,
			RecipientID: req.StudentID,
			Body:        fmt.Sprintf("Your collaboration request was %s", newStatus),
		})
	}
	return *req, nil
}

func (s *Service) publish(ctx context.Context, evt notify.Event) {
	if s.pub == nil {
		return
	}
	body, err := evt.Encode()
	if err != nil {
		log.Printf("encode notification event: %v", err)
		return
	}
	if err := s.pub.Publish(ctx, queue.Message{Type: queue.TypeNotification, Body: body}); err != nil {
		log.Printf("queue publish failed: %v", err)
	}
}
