package connections

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeRepo struct {
	users  map[int64]bool
	conns  map[int64]*Connection
	nextID int64
}

func newFakeRepo(userIDs ...int64) *fakeRepo {
	users := make(map[int64]bool, len(userIDs))
	for _, id := range userIDs {
		users[id] = true
	}
	return &fakeRepo{
		users:  users,
		conns:  make(map[int64]*Connection),
		nextID: 1,
	}
}

func (f *fakeRepo) Create(_ context.Context, conn *Connection) error {
	conn.ID = f.nextID
	f.nextID++
	conn.CreatedAt = time.Now()
	conn.UpdatedAt = conn.CreatedAt
	stored := *conn
	f.conns[conn.ID] = &stored
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*Connection, error) {
	conn, ok := f.conns[id]
	if !ok {
		return nil, ErrConnectionNotFound
	}
	copied := *conn
	return &copied, nil
}

func (f *fakeRepo) GetBetween(_ context.Context, userA, userB int64) (*Connection, error) {
	var latest *Connection
	for _, conn := range f.conns {
		match := (conn.SenderID == userA && conn.ReceiverID == userB) ||
			(conn.SenderID == userB && conn.ReceiverID == userA)
		if match && (latest == nil || conn.CreatedAt.After(latest.CreatedAt)) {
			latest = conn
		}
	}
	if latest == nil {
		return nil, ErrConnectionNotFound
	}
	copied := *latest
	return &copied, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id int64, status string) error {
	conn, ok := f.conns[id]
	if !ok {
		return ErrConnectionNotFound
	}
	conn.Status = status
	conn.UpdatedAt = time.Now()
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id int64) error {
	delete(f.conns, id)
	return nil
}

func (f *fakeRepo) ListPendingForReceiver(_ context.Context, receiverID int64) ([]*Connection, error) {
	var out []*Connection
	for _, conn := range f.conns {
		if conn.ReceiverID == receiverID && conn.Status == StatusPending {
			copied := *conn
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListAccepted(_ context.Context, userID int64) ([]*Connection, error) {
	var out []*Connection
	for _, conn := range f.conns {
		if (conn.SenderID == userID || conn.ReceiverID == userID) && conn.Status == StatusAccepted {
			copied := *conn
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeRepo) UserExists(_ context.Context, userID int64) (bool, error) {
	return f.users[userID], nil
}

func TestCreateRequest(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeRepo(1, 2))

	conn, err := svc.CreateRequest(ctx, 1, 2)
	if err != nil {
		t.Fatalf("CreateRequest: %v", err)
	}
	if conn.Status != StatusPending {
		t.Errorf("status = %q, want %q", conn.Status, StatusPending)
	}
	if conn.SenderID != 1 || conn.ReceiverID != 2 {
		t.Errorf("participants = (%d, %d), want (1, 2)", conn.SenderID, conn.ReceiverID)
	}
}

func TestCreateRequestRejectsSelf(t *testing.T) {
	svc := NewService(newFakeRepo(1))

	if _, err := svc.CreateRequest(context.Background(), 1, 1); !errors.Is(err, ErrSelfConnection) {
		t.Errorf("err = %v, want ErrSelfConnection", err)
	}
}

func TestCreateRequestUnknownReceiver(t *testing.T) {
	svc := NewService(newFakeRepo(1))

	if _, err := svc.CreateRequest(context.Background(), 1, 42); !errors.Is(err, ErrReceiverNotFound) {
		t.Errorf("err = %v, want ErrReceiverNotFound", err)
	}
}

func TestCreateRequestDuplicate(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeRepo(1, 2))

	if _, err := svc.CreateRequest(ctx, 1, 2); err != nil {
		t.Fatalf("first CreateRequest: %v", err)
	}

	// The same pair cannot hold two live requests, in either direction.
	if _, err := svc.CreateRequest(ctx, 1, 2); !errors.Is(err, ErrRequestPending) {
		t.Errorf("same direction: err = %v, want ErrRequestPending", err)
	}
	if _, err := svc.CreateRequest(ctx, 2, 1); !errors.Is(err, ErrRequestPending) {
		t.Errorf("reverse direction: err = %v, want ErrRequestPending", err)
	}
}

func TestCreateRequestAlreadyAccepted(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeRepo(1, 2))

	conn, err := svc.CreateRequest(ctx, 1, 2)
	if err != nil {
		t.Fatalf("CreateRequest: %v", err)
	}
	if _, err := svc.Accept(ctx, conn.ID, 2); err != nil {
		t.Fatalf("Accept: %v", err)
	}

	if _, err := svc.CreateRequest(ctx, 1, 2); !errors.Is(err, ErrAlreadyConnected) {
		t.Errorf("err = %v, want ErrAlreadyConnected", err)
	}
}

func TestAcceptReceiverOnly(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeRepo(1, 2))

	conn, err := svc.CreateRequest(ctx, 1, 2)
	if err != nil {
		t.Fatalf("CreateRequest: %v", err)
	}

	if _, err := svc.Accept(ctx, conn.ID, 1); !errors.Is(err, ErrNotReceiver) {
		t.Errorf("sender accept: err = %v, want ErrNotReceiver", err)
	}

	accepted, err := svc.Accept(ctx, conn.ID, 2)
	if err != nil {
		t.Fatalf("receiver accept: %v", err)
	}
	if accepted.Status != StatusAccepted {
		t.Errorf("status = %q, want %q", accepted.Status, StatusAccepted)
	}

	// Accepting twice is idempotent.
	again, err := svc.Accept(ctx, conn.ID, 2)
	if err != nil {
		t.Fatalf("second accept: %v", err)
	}
	if again.Status != StatusAccepted {
		t.Errorf("second accept status = %q, want %q", again.Status, StatusAccepted)
	}
}

func TestRejectDeletesPending(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo(1, 2)
	svc := NewService(repo)

	conn, err := svc.CreateRequest(ctx, 1, 2)
	if err != nil {
		t.Fatalf("CreateRequest: %v", err)
	}

	if err := svc.Reject(ctx, conn.ID, 1); !errors.Is(err, ErrNotReceiver) {
		t.Errorf("sender reject: err = %v, want ErrNotReceiver", err)
	}

	if err := svc.Reject(ctx, conn.ID, 2); err != nil {
		t.Fatalf("receiver reject: %v", err)
	}
	if _, err := repo.GetByID(ctx, conn.ID); !errors.Is(err, ErrConnectionNotFound) {
		t.Errorf("connection still present after reject")
	}

	// A fresh request is allowed after a rejection.
	if _, err := svc.CreateRequest(ctx, 1, 2); err != nil {
		t.Errorf("re-request after reject: %v", err)
	}
}

func TestRejectAcceptedFails(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeRepo(1, 2))

	conn, err := svc.CreateRequest(ctx, 1, 2)
	if err != nil {
		t.Fatalf("CreateRequest: %v", err)
	}
	if _, err := svc.Accept(ctx, conn.ID, 2); err != nil {
		t.Fatalf("Accept: %v", err)
	}

	if err := svc.Reject(ctx, conn.ID, 2); !errors.Is(err, ErrNotPending) {
		t.Errorf("err = %v, want ErrNotPending", err)
	}
}

func TestEnsureParticipant(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeRepo(1, 2, 3))

	conn, err := svc.CreateRequest(ctx, 1, 2)
	if err != nil {
		t.Fatalf("CreateRequest: %v", err)
	}

	// Pending connections do not grant room access.
	if err := svc.EnsureParticipant(ctx, conn.ID, 1); !errors.Is(err, ErrNotParticipant) {
		t.Errorf("pending: err = %v, want ErrNotParticipant", err)
	}

	if _, err := svc.Accept(ctx, conn.ID, 2); err != nil {
		t.Fatalf("Accept: %v", err)
	}

	if err := svc.EnsureParticipant(ctx, conn.ID, 1); err != nil {
		t.Errorf("sender: %v", err)
	}
	if err := svc.EnsureParticipant(ctx, conn.ID, 2); err != nil {
		t.Errorf("receiver: %v", err)
	}
	if err := svc.EnsureParticipant(ctx, conn.ID, 3); !errors.Is(err, ErrNotParticipant) {
		t.Errorf("outsider: err = %v, want ErrNotParticipant", err)
	}
	if err := svc.EnsureParticipant(ctx, 999, 1); !errors.Is(err, ErrConnectionNotFound) {
		t.Errorf("missing: err = %v, want ErrConnectionNotFound", err)
	}
}
