package board

import (
	"context"
	"errors"
	"testing"
)

type fakePrimary struct {
	members []Member
	err     error
	inserts int
}

func (f *fakePrimary) ListByGroup(ctx context.Context, group Group) ([]Member, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []Member
	for _, m := range f.members {
		if m.Group == group {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakePrimary) FindByIdentity(ctx context.Context, group Group, name, position string) (*Member, error) {
	if f.err != nil {
		return nil, f.err
	}
	probe := &Member{Group: group, Name: name, Position: position}
	for i := range f.members {
		if sameIdentity(&f.members[i], probe) {
			return &f.members[i], nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakePrimary) Insert(ctx context.Context, m *Member) error {
	if f.err != nil {
		return f.err
	}
	f.inserts++
	f.members = append(f.members, *m)
	return nil
}

type fakeFallback struct {
	members []Member
	err     error
}

func (f *fakeFallback) ReadAll(ctx context.Context) ([]Member, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.members, nil
}

func (f *fakeFallback) Append(ctx context.Context, m *Member) (*Member, error) {
	if f.err != nil {
		return nil, f.err
	}
	probe := *m
	for i := range f.members {
		if sameIdentity(&f.members[i], &probe) {
			return &f.members[i], nil
		}
	}
	f.members = append(f.members, *m)
	return m, nil
}

func TestListByGroupPrimaryWinsWhenNonEmpty(t *testing.T) {
	primary := &fakePrimary{members: []Member{
		{ID: "p1", Name: "Ayşe Kaya", Position: "Başkan", Group: GroupYonetim},
	}}
	fallback := &fakeFallback{members: []Member{
		{ID: "f1", Name: "Eski Üye", Position: "Üye", Group: GroupYonetim},
	}}
	rec, err := NewReconciler(primary, fallback, nil)
	if err != nil {
		t.Fatalf("NewReconciler: %v", err)
	}

	got, err := rec.ListByGroup(context.Background(), GroupYonetim)
	if err != nil {
		t.Fatalf("ListByGroup: %v", err)
	}
	if len(got) != 1 || got[0].ID != "p1" {
		t.Fatalf("canonical data must suppress the legacy source entirely: %+v", got)
	}
}

func TestListByGroupFallsBackWhenPrimaryEmpty(t *testing.T) {
	primary := &fakePrimary{}
	fallback := &fakeFallback{members: []Member{
		{ID: "f1", Name: "Eski Üye", Position: "Üye", Group: GroupGenel},
		{ID: "f2", Name: "Başka Grup", Position: "Üye", Group: GroupDenetim},
	}}
	rec, _ := NewReconciler(primary, fallback, nil)

	got, err := rec.ListByGroup(context.Background(), GroupGenel)
	if err != nil {
		t.Fatalf("ListByGroup: %v", err)
	}
	if len(got) != 1 || got[0].ID != "f1" {
		t.Fatalf("fallback must be filtered by group: %+v", got)
	}
}

func TestListByGroupMissingFallbackYieldsEmptyList(t *testing.T) {
	rec, _ := NewReconciler(&fakePrimary{}, nil, nil)
	got, err := rec.ListByGroup(context.Background(), GroupDisiplin)
	if err != nil {
		t.Fatalf("ListByGroup: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty list, got %+v", got)
	}
}

func TestListByGroupPrimaryErrorDoesNotFallBack(t *testing.T) {
	primary := &fakePrimary{err: errors.New("connection refused")}
	fallback := &fakeFallback{members: []Member{
		{ID: "f1", Name: "Eski Üye", Position: "Üye", Group: GroupYonetim},
	}}
	rec, _ := NewReconciler(primary, fallback, nil)

	if _, err := rec.ListByGroup(context.Background(), GroupYonetim); err == nil {
		t.Fatalf("primary outage must propagate, not silently serve legacy data")
	}
}

func TestListByGroupRejectsUnknownGroup(t *testing.T) {
	rec, _ := NewReconciler(&fakePrimary{}, nil, nil)
	if _, err := rec.ListByGroup(context.Background(), Group("kongre")); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCreateIsIdempotentOnIdentity(t *testing.T) {
	primary := &fakePrimary{}
	rec, _ := NewReconciler(primary, nil, nil)
	ctx := context.Background()

	first, err := rec.Create(ctx, GroupYonetim, Member{Name: "Ayşe Kaya", Position: "Başkan"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	second, err := rec.Create(ctx, GroupYonetim, Member{Name: "Ayşe Kaya", Position: "Başkan"})
	if err != nil {
		t.Fatalf("Create (repeat): %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("repeat create must return the same record: %s vs %s", first.ID, second.ID)
	}
	if primary.inserts != 1 {
		t.Fatalf("store must contain exactly one matching document, inserts=%d", primary.inserts)
	}
}

func TestCreateSameNameDifferentPositionIsNotIdempotent(t *testing.T) {
	primary := &fakePrimary{}
	rec, _ := NewReconciler(primary, nil, nil)
	ctx := context.Background()

	a, _ := rec.Create(ctx, GroupYonetim, Member{Name: "Ayşe Kaya", Position: "Başkan"})
	b, err := rec.Create(ctx, GroupYonetim, Member{Name: "Ayşe Kaya", Position: "Sekreter"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if a.ID == b.ID {
		t.Fatalf("different identity tuple must create a distinct record")
	}
}

func TestCreateRoutesByWritePolicy(t *testing.T) {
	primary := &fakePrimary{}
	fallback := &fakeFallback{}
	rec, _ := NewReconciler(primary, fallback, LegacyWritePolicy())
	ctx := context.Background()

	if _, err := rec.Create(ctx, GroupGenel, Member{Name: "Delege Bir", Position: "Üye"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if primary.inserts != 0 {
		t.Fatalf("genel group under legacy policy must not write to primary")
	}
	if len(fallback.members) != 1 {
		t.Fatalf("expected flat-file write, got %d records", len(fallback.members))
	}

	if _, err := rec.Create(ctx, GroupYonetim, Member{Name: "Ayşe Kaya", Position: "Başkan"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if primary.inserts != 1 {
		t.Fatalf("non-legacy groups must write to primary")
	}
}

func TestCreateValidatesDraft(t *testing.T) {
	rec, _ := NewReconciler(&fakePrimary{}, nil, nil)
	if _, err := rec.Create(context.Background(), GroupYonetim, Member{Name: "  ", Position: "Başkan"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
