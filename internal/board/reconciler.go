package board

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"birlik.org/internal/ids"
)

// PrimaryStore is the document store, the canonical source whenever it
// holds any record for the requested group.
type PrimaryStore interface {
	ListByGroup(ctx context.Context, group Group) ([]Member, error)
	FindByIdentity(ctx context.Context, group Group, name, position string) (*Member, error)
	Insert(ctx context.Context, m *Member) error
}

// FallbackStore is the legacy flat file. A missing file reads as an
// empty roster, never as an error.
type FallbackStore interface {
	ReadAll(ctx context.Context) ([]Member, error)
	Append(ctx context.Context, m *Member) (*Member, error)
}

// WriteTarget selects where creates for a group land.
type WriteTarget int

const (
	WritePrimary WriteTarget = iota
	WriteFallback
)

// WritePolicy routes writes per group. Reads are unaffected; the
// primary-wins-if-nonempty precedence holds regardless of policy.
type WritePolicy map[Group]WriteTarget

// DefaultWritePolicy sends every group's writes to the document store.
// This is the migration direction for the roster data.
func DefaultWritePolicy() WritePolicy {
	p := make(WritePolicy, len(Groups()))
	for _, g := range Groups() {
		p[g] = WritePrimary
	}
	return p
}

// LegacyWritePolicy keeps the general board on the flat file for
// deployments that still publish that file directly. Operator
// configurable until the migration question is settled with product.
func LegacyWritePolicy() WritePolicy {
	p := DefaultWritePolicy()
	p[GroupGenel] = WriteFallback
	return p
}

// Reconciler resolves the two divergent backends for board members
// under a single precedence rule: the document store is canonical when
// it has any record for the group, otherwise the flat file is a
// read-through fallback. The two sources are never merged
// record-by-record.
type Reconciler struct {
	primary  PrimaryStore
	fallback FallbackStore
	policy   WritePolicy
}

// NewReconciler wires the two backends. fallback may be nil when no
// legacy file exists; policy defaults to primary-only writes.
func NewReconciler(primary PrimaryStore, fallback FallbackStore, policy WritePolicy) (*Reconciler, error) {
	if primary == nil {
		return nil, errors.New("board: primary store is required")
	}
	if policy == nil {
		policy = DefaultWritePolicy()
	}
	return &Reconciler{primary: primary, fallback: fallback, policy: policy}, nil
}

// ListByGroup returns the canonical set for the group. A primary read
// error propagates as-is: falling back on connectivity failure would
// silently serve stale legacy data, so resilience is the caller's
// choice, not the reconciler's.
func (r *Reconciler) ListByGroup(ctx context.Context, group Group) ([]Member, error) {
	if _, err := ParseGroup(string(group)); err != nil {
		return nil, err
	}
	members, err := r.primary.ListByGroup(ctx, group)
	if err != nil {
		return nil, err
	}
	if len(members) > 0 {
		return members, nil
	}
	return r.listFallback(ctx, group)
}

func (r *Reconciler) listFallback(ctx context.Context, group Group) ([]Member, error) {
	if r.fallback == nil {
		return []Member{}, nil
	}
	all, err := r.fallback.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	filtered := make([]Member, 0, len(all))
	for _, m := range all {
		if m.Group == group {
			filtered = append(filtered, m)
		}
	}
	return filtered, nil
}

// Create adds a roster entry, idempotently on (group, name, position):
// an identical identity returns the existing record instead of erroring
// or duplicating. The write lands where the group's policy points.
func (r *Reconciler) Create(ctx context.Context, group Group, draft Member) (*Member, error) {
	if _, err := ParseGroup(string(group)); err != nil {
		return nil, err
	}
	draft.Name = strings.TrimSpace(draft.Name)
	draft.Position = strings.TrimSpace(draft.Position)
	if draft.Name == "" || draft.Position == "" {
		return nil, fmt.Errorf("%w: name and position are required", ErrInvalidInput)
	}
	draft.Group = group

	if r.policy[group] == WriteFallback {
		if r.fallback == nil {
			return nil, errors.New("board: fallback store is not configured")
		}
		draft.ID = ids.New()
		draft.CreatedAt = time.Now().UTC()
		return r.fallback.Append(ctx, &draft)
	}

	existing, err := r.primary.FindByIdentity(ctx, group, draft.Name, draft.Position)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	draft.ID = ids.New()
	draft.CreatedAt = time.Now().UTC()
	if err := r.primary.Insert(ctx, &draft); err != nil {
		return nil, err
	}
	return &draft, nil
}
