package sessions

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeRepo struct {
	sessions   map[int64]*Session
	attendance map[int64]map[int64]bool
	nextID     int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		sessions:   make(map[int64]*Session),
		attendance: make(map[int64]map[int64]bool),
		nextID:     1,
	}
}

func (f *fakeRepo) Create(_ context.Context, session *Session) error {
	session.ID = f.nextID
	f.nextID++
	session.CreatedAt = time.Now()
	stored := *session
	f.sessions[session.ID] = &stored
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*Session, error) {
	session, ok := f.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	copied := *session
	return &copied, nil
}

func (f *fakeRepo) List(_ context.Context, _ string) ([]*Session, error) {
	return nil, nil
}

func (f *fakeRepo) ListCreatedBy(_ context.Context, _ int64) ([]*Session, error) {
	return nil, nil
}

func (f *fakeRepo) ListJoinedBy(_ context.Context, _ int64) ([]*Session, error) {
	return nil, nil
}

func (f *fakeRepo) AddAttendance(_ context.Context, sessionID, userID int64) error {
	if f.attendance[sessionID] == nil {
		f.attendance[sessionID] = make(map[int64]bool)
	}
	f.attendance[sessionID][userID] = true
	return nil
}

func (f *fakeRepo) IsAttending(_ context.Context, sessionID, userID int64) (bool, error) {
	return f.attendance[sessionID][userID], nil
}

func (f *fakeRepo) ListAttendees(_ context.Context, sessionID int64) ([]*Attendee, error) {
	var out []*Attendee
	for userID := range f.attendance[sessionID] {
		out = append(out, &Attendee{UserID: userID})
	}
	return out, nil
}

func newTestService(repo Repository, now time.Time) Service {
	svc := NewService(repo).(*service)
	svc.now = func() time.Time { return now }
	return svc
}

func validRequest() *CreateSessionRequest {
	return &CreateSessionRequest{
		Title:       "Intro to Go",
		Description: "A hands-on walkthrough of goroutines and channels.",
		Date:        "2026-10-01",
		Time:        "18:30",
		Location:    "Bengaluru",
	}
}

func TestCreateSession(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(newFakeRepo(), now)

	session, err := svc.Create(context.Background(), 1, validRequest())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if session.CreatedBy != 1 {
		t.Errorf("created_by = %d, want 1", session.CreatedBy)
	}
	if session.Date.Format("2006-01-02") != "2026-10-01" {
		t.Errorf("date = %s, want 2026-10-01", session.Date.Format("2006-01-02"))
	}
}

func TestCreateSessionValidation(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(newFakeRepo(), now)
	ctx := context.Background()

	tests := []struct {
		name    string
		mutate  func(*CreateSessionRequest)
		wantErr error
	}{
		{
			name:    "past date",
			mutate:  func(r *CreateSessionRequest) { r.Date = "2026-08-31" },
			wantErr: ErrDateInPast,
		},
		{
			name:    "malformed date",
			mutate:  func(r *CreateSessionRequest) { r.Date = "01-10-2026" },
			wantErr: ErrBadDate,
		},
		{
			name:    "malformed time",
			mutate:  func(r *CreateSessionRequest) { r.Time = "6pm" },
			wantErr: ErrBadTime,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)
			if _, err := svc.Create(ctx, 1, req); !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreateSessionTodayAllowed(t *testing.T) {
	now := time.Date(2026, 9, 1, 23, 0, 0, 0, time.UTC)
	svc := newTestService(newFakeRepo(), now)

	req := validRequest()
	req.Date = "2026-09-01"
	if _, err := svc.Create(context.Background(), 1, req); err != nil {
		t.Errorf("same-day session: %v", err)
	}
}

func TestJoinIdempotent(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	repo := newFakeRepo()
	svc := newTestService(repo, now)

	session, err := svc.Create(ctx, 1, validRequest())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.Join(ctx, session.ID, 2); err != nil {
		t.Fatalf("first join: %v", err)
	}
	if err := svc.Join(ctx, session.ID, 2); err != nil {
		t.Fatalf("second join: %v", err)
	}

	attendees, err := svc.Attendees(ctx, session.ID)
	if err != nil {
		t.Fatalf("Attendees: %v", err)
	}
	if len(attendees) != 1 {
		t.Errorf("attendees = %d, want 1", len(attendees))
	}
}

func TestJoinUnknownSession(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(newFakeRepo(), now)

	if err := svc.Join(context.Background(), 99, 2); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestEnsureAccess(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(newFakeRepo(), now)

	session, err := svc.Create(ctx, 1, validRequest())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.EnsureAccess(ctx, session.ID, 1); err != nil {
		t.Errorf("creator: %v", err)
	}
	if err := svc.EnsureAccess(ctx, session.ID, 2); !errors.Is(err, ErrNoAccess) {
		t.Errorf("outsider: err = %v, want ErrNoAccess", err)
	}

	if err := svc.Join(ctx, session.ID, 2); err != nil {
		t.Fatalf("Join: %v", err)
	}
	if err := svc.EnsureAccess(ctx, session.ID, 2); err != nil {
		t.Errorf("attendee: %v", err)
	}
}
