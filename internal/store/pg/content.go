package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"birlik.org/internal/content"
)

var _ content.Store = (*Store)(nil)

// ListAnnouncements returns the newest announcements first.
func (s *Store) ListAnnouncements(ctx context.Context, limit int) ([]content.Announcement, error) {
	rows, err := s.db.QueryContext(ctx, `
		select id, slug, title, summary, body, published_at, created_at, updated_at
		from announcements order by created_at desc limit $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []content.Announcement
	for rows.Next() {
		var a content.Announcement
		var published sql.NullTime
		if err := rows.Scan(&a.ID, &a.Slug, &a.Title, &a.Summary, &a.Body,
			&published, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		if published.Valid {
			t := published.Time
			a.PublishedAt = &t
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// FindAnnouncementBySlug loads one announcement.
func (s *Store) FindAnnouncementBySlug(ctx context.Context, slug string) (*content.Announcement, error) {
	var a content.Announcement
	var published sql.NullTime
	err := s.db.QueryRowContext(ctx, `
		select id, slug, title, summary, body, published_at, created_at, updated_at
		from announcements where slug = $1
	`, slug).Scan(&a.ID, &a.Slug, &a.Title, &a.Summary, &a.Body,
		&published, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, content.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if published.Valid {
		t := published.Time
		a.PublishedAt = &t
	}
	return &a, nil
}

// InsertAnnouncement writes a new announcement. The slug's unique
// index backstops the allocator against racing creates.
func (s *Store) InsertAnnouncement(ctx context.Context, a *content.Announcement) error {
	_, err := s.db.ExecContext(ctx, `
		insert into announcements(id, slug, title, summary, body, published_at, created_at, updated_at)
		values ($1,$2,$3,$4,$5,$6,$7,$8)
	`, a.ID, a.Slug, a.Title, a.Summary, a.Body, nullableTime(a.PublishedAt), a.CreatedAt, a.UpdatedAt)
	if err != nil && isUniqueViolation(err) {
		return fmt.Errorf("%w: slug %s taken", content.ErrConflict, a.Slug)
	}
	return err
}

// UpdateAnnouncement rewrites an existing announcement.
func (s *Store) UpdateAnnouncement(ctx context.Context, a *content.Announcement) error {
	res, err := s.db.ExecContext(ctx, `
		update announcements
		set slug = $2, title = $3, summary = $4, body = $5, published_at = $6, updated_at = $7
		where id = $1
	`, a.ID, a.Slug, a.Title, a.Summary, a.Body, nullableTime(a.PublishedAt), a.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: slug %s taken", content.ErrConflict, a.Slug)
		}
		return err
	}
	return expectRow(res)
}

// DeleteAnnouncement removes by id.
func (s *Store) DeleteAnnouncement(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `delete from announcements where id = $1`, id)
	if err != nil {
		return err
	}
	return expectRow(res)
}

// ListEvents returns events by start time, soonest first.
func (s *Store) ListEvents(ctx context.Context, limit int) ([]content.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		select id, slug, title, body, location, starts_at, ends_at, created_at, updated_at
		from events order by starts_at asc limit $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []content.Event
	for rows.Next() {
		var e content.Event
		var ends sql.NullTime
		if err := rows.Scan(&e.ID, &e.Slug, &e.Title, &e.Body, &e.Location,
			&e.StartsAt, &ends, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		if ends.Valid {
			t := ends.Time
			e.EndsAt = &t
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// FindEventBySlug loads one event.
func (s *Store) FindEventBySlug(ctx context.Context, slug string) (*content.Event, error) {
	var e content.Event
	var ends sql.NullTime
	err := s.db.QueryRowContext(ctx, `
		select id, slug, title, body, location, starts_at, ends_at, created_at, updated_at
		from events where slug = $1
	`, slug).Scan(&e.ID, &e.Slug, &e.Title, &e.Body, &e.Location,
		&e.StartsAt, &ends, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, content.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if ends.Valid {
		t := ends.Time
		e.EndsAt = &t
	}
	return &e, nil
}

// InsertEvent writes a new event.
func (s *Store) InsertEvent(ctx context.Context, e *content.Event) error {
	_, err := s.db.ExecContext(ctx, `
		insert into events(id, slug, title, body, location, starts_at, ends_at, created_at, updated_at)
		values ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, e.ID, e.Slug, e.Title, e.Body, e.Location, e.StartsAt, nullableTime(e.EndsAt), e.CreatedAt, e.UpdatedAt)
	if err != nil && isUniqueViolation(err) {
		return fmt.Errorf("%w: slug %s taken", content.ErrConflict, e.Slug)
	}
	return err
}

// UpdateEvent rewrites an existing event.
func (s *Store) UpdateEvent(ctx context.Context, e *content.Event) error {
	res, err := s.db.ExecContext(ctx, `
		update events
		set slug = $2, title = $3, body = $4, location = $5, starts_at = $6, ends_at = $7, updated_at = $8
		where id = $1
	`, e.ID, e.Slug, e.Title, e.Body, e.Location, e.StartsAt, nullableTime(e.EndsAt), e.UpdatedAt)
	if err != nil {
		return err
	}
	return expectRow(res)
}

// DeleteEvent removes by id.
func (s *Store) DeleteEvent(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `delete from events where id = $1`, id)
	if err != nil {
		return err
	}
	return expectRow(res)
}

// SlugExists checks a kind's namespace, skipping the record under
// edit.
func (s *Store) SlugExists(ctx context.Context, kind content.Kind, slug string, excludeID string) (bool, error) {
	table := "announcements"
	if kind == content.KindEvent {
		table = "events"
	}
	var exists bool
	err := s.db.QueryRowContext(ctx,
		fmt.Sprintf(`select exists(select 1 from %s where slug = $1 and id <> $2)`, table),
		slug, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func expectRow(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return content.ErrNotFound
	}
	return nil
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
