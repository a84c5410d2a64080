package content

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"birlik.org/internal/ids"
	"birlik.org/internal/slug"
)

// Service validates, sanitizes and slugs content before it reaches the
// store. Bodies arrive as HTML from the admin panel editor and pass
// through a UGC sanitizer.
type Service struct {
	store     Store
	sanitizer *bluemonday.Policy
}

// NewService wires the content store.
func NewService(store Store) (*Service, error) {
	if store == nil {
		return nil, errors.New("content store is required")
	}
	return &Service{store: store, sanitizer: bluemonday.UGCPolicy()}, nil
}

// allocateSlug derives a unique slug for the kind's namespace,
// excluding the record being edited.
func (s *Service) allocateSlug(ctx context.Context, kind Kind, title, excludeID string) (string, error) {
	candidate := slug.Make(title)
	var lookupErr error
	allocated := slug.Unique(candidate, func(probe string) bool {
		if lookupErr != nil {
			return false
		}
		exists, err := s.store.SlugExists(ctx, kind, probe, excludeID)
		if err != nil {
			lookupErr = err
			return false
		}
		return exists
	})
	if lookupErr != nil {
		return "", lookupErr
	}
	return allocated, nil
}

// CreateAnnouncement publishes a new announcement.
func (s *Service) CreateAnnouncement(ctx context.Context, title, summary, body string, publishedAt *time.Time) (*Announcement, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	allocated, err := s.allocateSlug(ctx, KindAnnouncement, title, "")
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	a := &Announcement{
		ID:          ids.New(),
		Slug:        allocated,
		Title:       title,
		Summary:     strings.TrimSpace(summary),
		Body:        s.sanitizer.Sanitize(body),
		PublishedAt: publishedAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.InsertAnnouncement(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// UpdateAnnouncement edits an existing announcement. A title change
// re-allocates the slug, excluding the record itself from the
// collision check.
func (s *Service) UpdateAnnouncement(ctx context.Context, slugOrID string, title, summary, body string, publishedAt *time.Time) (*Announcement, error) {
	existing, err := s.store.FindAnnouncementBySlug(ctx, slugOrID)
	if err != nil {
		return nil, err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if title != existing.Title {
		allocated, err := s.allocateSlug(ctx, KindAnnouncement, title, existing.ID)
		if err != nil {
			return nil, err
		}
		existing.Slug = allocated
	}
	existing.Title = title
	existing.Summary = strings.TrimSpace(summary)
	existing.Body = s.sanitizer.Sanitize(body)
	existing.PublishedAt = publishedAt
	existing.UpdatedAt = time.Now().UTC()
	if err := s.store.UpdateAnnouncement(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// ListAnnouncements returns the newest announcements.
func (s *Service) ListAnnouncements(ctx context.Context, limit int) ([]Announcement, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.store.ListAnnouncements(ctx, limit)
}

// GetAnnouncement looks up by slug.
func (s *Service) GetAnnouncement(ctx context.Context, slugged string) (*Announcement, error) {
	slugged = strings.TrimSpace(slugged)
	if slugged == "" {
		return nil, fmt.Errorf("%w: slug is required", ErrInvalidInput)
	}
	return s.store.FindAnnouncementBySlug(ctx, slugged)
}

// DeleteAnnouncement removes by id.
func (s *Service) DeleteAnnouncement(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidInput)
	}
	return s.store.DeleteAnnouncement(ctx, id)
}

// CreateEvent publishes a new calendar entry.
func (s *Service) CreateEvent(ctx context.Context, title, body, location string, startsAt time.Time, endsAt *time.Time) (*Event, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if startsAt.IsZero() {
		return nil, fmt.Errorf("%w: starts_at is required", ErrInvalidInput)
	}
	if endsAt != nil && endsAt.Before(startsAt) {
		return nil, fmt.Errorf("%w: ends_at precedes starts_at", ErrInvalidInput)
	}
	allocated, err := s.allocateSlug(ctx, KindEvent, title, "")
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	e := &Event{
		ID:        ids.New(),
		Slug:      allocated,
		Title:     title,
		Body:      s.sanitizer.Sanitize(body),
		Location:  strings.TrimSpace(location),
		StartsAt:  startsAt.UTC(),
		EndsAt:    endsAt,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.InsertEvent(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// UpdateEvent edits an existing event under the same slug rules as
// announcements.
func (s *Service) UpdateEvent(ctx context.Context, slugOrID string, title, body, location string, startsAt time.Time, endsAt *time.Time) (*Event, error) {
	existing, err := s.store.FindEventBySlug(ctx, slugOrID)
	if err != nil {
		return nil, err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if startsAt.IsZero() {
		return nil, fmt.Errorf("%w: starts_at is required", ErrInvalidInput)
	}
	if endsAt != nil && endsAt.Before(startsAt) {
		return nil, fmt.Errorf("%w: ends_at precedes starts_at", ErrInvalidInput)
	}
	if title != existing.Title {
		allocated, err := s.allocateSlug(ctx, KindEvent, title, existing.ID)
		if err != nil {
			return nil, err
		}
		existing.Slug = allocated
	}
	existing.Title = title
	existing.Body = s.sanitizer.Sanitize(body)
	existing.Location = strings.TrimSpace(location)
	existing.StartsAt = startsAt.UTC()
	existing.EndsAt = endsAt
	existing.UpdatedAt = time.Now().UTC()
	if err := s.store.UpdateEvent(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// ListEvents returns upcoming events.
func (s *Service) ListEvents(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.store.ListEvents(ctx, limit)
}

// GetEvent looks up by slug.
func (s *Service) GetEvent(ctx context.Context, slugged string) (*Event, error) {
	slugged = strings.TrimSpace(slugged)
	if slugged == "" {
		return nil, fmt.Errorf("%w: slug is required", ErrInvalidInput)
	}
	return s.store.FindEventBySlug(ctx, slugged)
}

// DeleteEvent removes by id.
func (s *Service) DeleteEvent(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidInput)
	}
	return s.store.DeleteEvent(ctx, id)
}
