// Package content manages the slugged publishable entities:
// announcements and events.
package content

import (
	"context"
	"errors"
	"time"
)

var (
	ErrInvalidInput = errors.New("content: invalid input")
	ErrNotFound     = errors.New("content: not found")
	ErrConflict     = errors.New("content: resource conflict")
)

// Kind discriminates slug namespaces per entity type.
type Kind string

const (
	KindAnnouncement Kind = "announcement"
	KindEvent        Kind = "event"
)

// Announcement is a dated notice shown on the front page.
type Announcement struct {
	ID          string     `json:"id"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Summary     string     `json:"summary,omitempty"`
	Body        string     `json:"body"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Event is a calendar entry: meetings, trainings, rallies.
type Event struct {
	ID        string     `json:"id"`
	Slug      string     `json:"slug"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	Location  string     `json:"location,omitempty"`
	StartsAt  time.Time  `json:"starts_at"`
	EndsAt    *time.Time `json:"ends_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Store persists content records. The Postgres implementation lives in
// internal/store/pg.
type Store interface {
	ListAnnouncements(ctx context.Context, limit int) ([]Announcement, error)
	FindAnnouncementBySlug(ctx context.Context, slug string) (*Announcement, error)
	InsertAnnouncement(ctx context.Context, a *Announcement) error
	UpdateAnnouncement(ctx context.Context, a *Announcement) error
	DeleteAnnouncement(ctx context.Context, id string) error

	ListEvents(ctx context.Context, limit int) ([]Event, error)
	FindEventBySlug(ctx context.Context, slug string) (*Event, error)
	InsertEvent(ctx context.Context, e *Event) error
	UpdateEvent(ctx context.Context, e *Event) error
	DeleteEvent(ctx context.Context, id string) error

	// SlugExists checks the kind's namespace; excludeID skips the
	// record being updated so edits do not collide with themselves.
	SlugExists(ctx context.Context, kind Kind, slug string, excludeID string) (bool, error)
}
