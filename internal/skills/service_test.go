package skills

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type fakeRepo struct {
	skills map[int64]*Skill
	nextID int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{skills: make(map[int64]*Skill), nextID: 1}
}

func (f *fakeRepo) Create(_ context.Context, skill *Skill) error {
	skill.ID = f.nextID
	f.nextID++
	skill.CreatedAt = time.Now()
	stored := *skill
	f.skills[skill.ID] = &stored
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*Skill, error) {
	skill, ok := f.skills[id]
	if !ok {
		return nil, ErrSkillNotFound
	}
	copied := *skill
	return &copied, nil
}

func (f *fakeRepo) ListByUser(_ context.Context, userID int64) ([]*Skill, error) {
	var out []*Skill
	for _, skill := range f.skills {
		if skill.UserID == userID {
			copied := *skill
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeRepo) ExistsForUser(_ context.Context, userID int64, name string) (bool, error) {
	for _, skill := range f.skills {
		if skill.UserID == userID && strings.EqualFold(skill.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) Delete(_ context.Context, id int64) error {
	delete(f.skills, id)
	return nil
}

func TestAddSkillKeepsCasing(t *testing.T) {
	svc := NewService(newFakeRepo())

	skill, err := svc.Add(context.Background(), 1, &AddSkillRequest{Name: "  GoLang  "})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if skill.Name != "GoLang" {
		t.Errorf("name = %q, want %q", skill.Name, "GoLang")
	}
}

func TestAddSkillDuplicateCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeRepo())

	if _, err := svc.Add(ctx, 1, &AddSkillRequest{Name: "Python"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := svc.Add(ctx, 1, &AddSkillRequest{Name: "python"}); !errors.Is(err, ErrSkillExists) {
		t.Errorf("err = %v, want ErrSkillExists", err)
	}

	// Another user may hold the same skill name.
	if _, err := svc.Add(ctx, 2, &AddSkillRequest{Name: "python"}); err != nil {
		t.Errorf("other user: %v", err)
	}
}

func TestAddSkillTooShort(t *testing.T) {
	svc := NewService(newFakeRepo())

	// Whitespace does not count toward the minimum length.
	if _, err := svc.Add(context.Background(), 1, &AddSkillRequest{Name: " x "}); !errors.Is(err, ErrSkillTooShort) {
		t.Errorf("err = %v, want ErrSkillTooShort", err)
	}
}

func TestRemoveSkillOwnership(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := NewService(repo)

	skill, err := svc.Add(ctx, 1, &AddSkillRequest{Name: "SQL"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	if err := svc.Remove(ctx, 2, skill.ID); !errors.Is(err, ErrNotOwner) {
		t.Errorf("other user: err = %v, want ErrNotOwner", err)
	}
	if err := svc.Remove(ctx, 1, skill.ID); err != nil {
		t.Fatalf("owner: %v", err)
	}
	if err := svc.Remove(ctx, 1, skill.ID); !errors.Is(err, ErrSkillNotFound) {
		t.Errorf("removed twice: err = %v, want ErrSkillNotFound", err)
	}
}
