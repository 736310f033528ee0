package collab

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"collabdir/internal/apperr"
	"collabdir/internal/directory"
	"collabdir/internal/metrics"
	"collabdir/internal/notify"
	"collabdir/internal/queue"
)

type fakeStore struct {
	requests map[string]*Request

	insertErr   error
	decideErr   error
	decideNoRow bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{requests: make(map[string]*Request)}
}

func (f *fakeStore) Insert(ctx context.Context, req Request) (Request, error) {
	if f.insertErr != nil {
		return Request{}, f.insertErr
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	req.CreatedAt = now
	req.UpdatedAt = now
	stored := req
	f.requests[req.ID] = &stored
	return req, nil
}

func (f *fakeStore) FindByID(ctx context.Context, id string) (*Request, error) {
	req, ok := f.requests[id]
	if !ok {
		return nil, apperr.NotFoundf("request %s", id)
	}
	cp := *req
	return &cp, nil
}

func (f *fakeStore) ListByStudent(ctx context.Context, studentID string) ([]Request, error) {
	var out []Request
	for _, req := range f.requests {
		if req.StudentID == studentID {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (f *fakeStore) ListByFaculty(ctx context.Context, facultyID string) ([]Request, error) {
	var out []Request
	for _, req := range f.requests {
		if req.FacultyID == facultyID {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (f *fakeStore) DecideIfPending(ctx context.Context, id, status string) (time.Time, error) {
	if f.decideErr != nil {
		return time.Time{}, f.decideErr
	}
	if f.decideNoRow {
		return time.Time{}, nil
	}
	req, ok := f.requests[id]
	if !ok || req.Status != StatusPending {
		return time.Time{}, nil
	}
	req.Status = status
	req.UpdatedAt = req.UpdatedAt.Add(time.Second)
	return req.UpdatedAt, nil
}

type fakeDir struct {
	users map[string]*directory.User
	err   error
}

func (f *fakeDir) FindByID(ctx context.Context, id string) (*directory.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, apperr.NotFoundf("user %s", id)
	}
	return u, nil
}

type fakePublisher struct {
	messages []queue.Message
	err      error
}

func (f *fakePublisher) Publish(ctx context.Context, msg queue.Message) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msg)
	return nil
}

func (f *fakePublisher) lastEvent(t *testing.T) notify.Event {
	t.Helper()
	require.NotEmpty(t, f.messages)
	evt, err := notify.DecodeEvent(f.messages[len(f.messages)-1].Body)
	require.NoError(t, err)
	return evt
}

var (
	studentActor = Actor{ID: "s1", UserType: directory.TypeStudent}
	facultyActor = Actor{ID: "f1", UserType: directory.TypeFaculty}
)

// pub is the interface, not *fakePublisher: a nil argument must reach
// NewService as a nil interface, not a typed nil the publish guard misses.
func newTestService(store *fakeStore, pub Publisher) *Service {
	dir := &fakeDir{users: map[string]*directory.User{
		"s1": {ID: "s1", Name: "Sam", UserType: directory.TypeStudent, Department: "CS", Program: "MSc"},
		"s2": {ID: "s2", Name: "Sue", UserType: directory.TypeStudent},
		"f1": {ID: "f1", Name: "Dr. Fox", UserType: directory.TypeFaculty, Department: "CS", Position: "Professor"},
		"f2": {ID: "f2", Name: "Dr. Two", UserType: directory.TypeFaculty},
	}}
	return NewService(store, dir, pub)
}

func TestCreate_StudentOnly(t *testing.T) {
	s := newTestService(newFakeStore(), nil)

	_, err := s.Create(context.Background(), facultyActor, "f1", "hello", "")
	require.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestCreate_RequiredFields(t *testing.T) {
	s := newTestService(newFakeStore(), nil)

	_, err := s.Create(context.Background(), studentActor, "", "hello", "")
	require.ErrorIs(t, err, apperr.ErrValidation)

	_, err = s.Create(context.Background(), studentActor, "f1", "", "")
	require.ErrorIs(t, err, apperr.ErrValidation)

	// markup-only message sanitizes to empty
	_, err = s.Create(context.Background(), studentActor, "f1", "<b></b>", "")
	require.ErrorIs(t, err, apperr.ErrValidation)
}

func TestCreate_FacultyMustResolve(t *testing.T) {
	s := newTestService(newFakeStore(), nil)

	_, err := s.Create(context.Background(), studentActor, "ghost", "hello", "")
	require.ErrorIs(t, err, apperr.ErrNotFound)

	// referencing a student is a validation failure, not a not-found
	_, err = s.Create(context.Background(), studentActor, "s2", "hello", "")
	require.ErrorIs(t, err, apperr.ErrValidation)
}

func TestCreate_Success(t *testing.T) {
	store := newFakeStore()
	pub := &fakePublisher{}
	s := newTestService(store, pub)

	req, err := s.Create(context.Background(), studentActor, "f1", "Interested in your lab", "nlp")
	require.NoError(t, err)

	assert.NotEmpty(t, req.ID)
	assert.Equal(t, StatusPending, req.Status)
	assert.Equal(t, "s1", req.StudentID)
	assert.Equal(t, "f1", req.FacultyID)
	assert.True(t, req.CreatedAt.Equal(req.UpdatedAt))

	evt := pub.lastEvent(t)
	assert.Equal(t, notify.KindRequestCreated, evt.Kind)
	assert.Equal(t, "f1", evt.RecipientID)
	assert.Equal(t, req.ID, evt.RequestID)
}

func TestCreate_SanitizesMessage(t *testing.T) {
	store := newFakeStore()
	s := newTestService(store, nil)

	req, err := s.Create(context.Background(), studentActor, "f1", `<script>alert(1)</script>hi <b>there</b>`, "")
	require.NoError(t, err)
	assert.Equal(t, "hi there", req.Message)
}

func TestCreate_WithoutPublisher(t *testing.T) {
	store := newFakeStore()
	s := newTestService(store, nil)

	// creation reaches the notification step with no publisher wired and
	// must complete without one
	req, err := s.Create(context.Background(), studentActor, "f1", "hello", "")
	require.NoError(t, err)
	assert.Equal(t, StatusPending, req.Status)
}

func TestCreate_PublishFailureDoesNotFailRequest(t *testing.T) {
	store := newFakeStore()
	pub := &fakePublisher{err: errors.New("redis down")}
	s := newTestService(store, pub)

	req, err := s.Create(context.Background(), studentActor, "f1", "hello", "")
	require.NoError(t, err)
	assert.Equal(t, StatusPending, req.Status)
}

func seedRequest(t *testing.T, store *fakeStore, status string) Request {
	t.Helper()
	req, err := store.Insert(context.Background(), Request{
		StudentID: "s1", FacultyID: "f1", Message: "hello", Status: status,
	})
	require.NoError(t, err)
	return req
}

func TestUpdateStatus_FacultyOwnerOnly(t *testing.T) {
	store := newFakeStore()
	s := newTestService(store, nil)
	req := seedRequest(t, store, StatusPending)

	_, err := s.UpdateStatus(context.Background(), studentActor, req.ID, StatusAccepted)
	require.ErrorIs(t, err, apperr.ErrUnauthorized)

	// wrong faculty member
	_, err = s.UpdateStatus(context.Background(), Actor{ID: "f2", UserType: directory.TypeFaculty}, req.ID, StatusAccepted)
	require.ErrorIs(t, err, apperr.ErrUnauthorized)

	// no mutation happened
	stored, err := store.FindByID(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, stored.Status)
}

func TestUpdateStatus_Validation(t *testing.T) {
	store := newFakeStore()
	s := newTestService(store, nil)
	req := seedRequest(t, store, StatusPending)

	_, err := s.UpdateStatus(context.Background(), facultyActor, req.ID, "approved")
	require.ErrorIs(t, err, apperr.ErrValidation)

	_, err = s.UpdateStatus(context.Background(), facultyActor, "missing", StatusAccepted)
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUpdateStatus_AcceptPending(t *testing.T) {
	store := newFakeStore()
	pub := &fakePublisher{}
	s := newTestService(store, pub)
	req := seedRequest(t, store, StatusPending)

	updated, err := s.UpdateStatus(context.Background(), facultyActor, req.ID, StatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, updated.Status)

	stored, err := store.FindByID(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, stored.Status)
	assert.True(t, stored.UpdatedAt.After(stored.CreatedAt))

	// the returned request carries the refreshed timestamp, not the
	// pre-decision one
	assert.True(t, updated.UpdatedAt.Equal(stored.UpdatedAt))
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))

	evt := pub.lastEvent(t)
	assert.Equal(t, notify.KindRequestDecided, evt.Kind)
	assert.Equal(t, "s1", evt.RecipientID)
}

func TestUpdateStatus_TerminalStatesStay(t *testing.T) {
	store := newFakeStore()
	s := newTestService(store, nil)
	req := seedRequest(t, store, StatusAccepted)

	// flipping a decided request is rejected, including re-asserting the
	// same terminal status
	_, err := s.UpdateStatus(context.Background(), facultyActor, req.ID, StatusRejected)
	require.ErrorIs(t, err, apperr.ErrConflict)

	_, err = s.UpdateStatus(context.Background(), facultyActor, req.ID, StatusAccepted)
	require.ErrorIs(t, err, apperr.ErrConflict)

	stored, err := store.FindByID(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, stored.Status)
}

func TestUpdateStatus_PendingToPendingIsNoOpSuccess(t *testing.T) {
	store := newFakeStore()
	pub := &fakePublisher{}
	s := newTestService(store, pub)
	req := seedRequest(t, store, StatusPending)

	before := testutil.ToFloat64(metrics.CollabDecisions.WithLabelValues(StatusPending))

	updated, err := s.UpdateStatus(context.Background(), facultyActor, req.ID, StatusPending)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, updated.Status)
	assert.Empty(t, pub.messages, "no decision notification for a no-op")

	// a no-op is not a decision
	assert.Equal(t, before, testutil.ToFloat64(metrics.CollabDecisions.WithLabelValues(StatusPending)))
}

func TestUpdateStatus_LostRaceIsConflict(t *testing.T) {
	store := newFakeStore()
	s := newTestService(store, nil)
	req := seedRequest(t, store, StatusPending)

	// the read sees pending but another decision lands before the
	// compare-and-set, so the write changes zero rows
	store.decideNoRow = true

	_, err := s.UpdateStatus(context.Background(), facultyActor, req.ID, StatusAccepted)
	require.ErrorIs(t, err, apperr.ErrConflict)
}

func TestUpdateStatus_StoreErrorIsNotBusinessOutcome(t *testing.T) {
	store := newFakeStore()
	store.decideErr = errors.New("connection reset")
	s := newTestService(store, nil)
	req := seedRequest(t, store, StatusPending)

	_, err := s.UpdateStatus(context.Background(), facultyActor, req.ID, StatusAccepted)
	require.Error(t, err)
	assert.False(t, apperr.IsBusiness(err))
}

func TestListForStudent_EnrichesFaculty(t *testing.T) {
	store := newFakeStore()
	s := newTestService(store, nil)
	seedRequest(t, store, StatusPending)

	views, err := s.ListForStudent(context.Background(), studentActor)
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.NotNil(t, views[0].Faculty)
	assert.Equal(t, "Dr. Fox", views[0].Faculty.Name)
	assert.Equal(t, "Professor", views[0].Faculty.Position)
	assert.Equal(t, "CS", views[0].Faculty.Department)

	_, err = s.ListForStudent(context.Background(), facultyActor)
	require.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestListForFaculty_EnrichesStudent(t *testing.T) {
	store := newFakeStore()
	s := newTestService(store, nil)
	seedRequest(t, store, StatusPending)

	views, err := s.ListForFaculty(context.Background(), facultyActor)
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.NotNil(t, views[0].Student)
	assert.Equal(t, "Sam", views[0].Student.Name)
	assert.Equal(t, "MSc", views[0].Student.Program)

	_, err = s.ListForFaculty(context.Background(), studentActor)
	require.ErrorIs(t, err, apperr.ErrUnauthorized)
}
