// Package board manages board-member rosters stored redundantly in the
// document store and a legacy flat file.
package board

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidInput = errors.New("board: invalid input")
	ErrNotFound     = errors.New("board: not found")
)

// Group is the closed set of board groups.
type Group string

const (
	// GroupYonetim is the executive board.
	GroupYonetim Group = "yonetim"
	// GroupDenetim is the supervisory board.
	GroupDenetim Group = "denetim"
	// GroupDisiplin is the disciplinary board.
	GroupDisiplin Group = "disiplin"
	// GroupGenel is the general board, historically published straight
	// to the flat file.
	GroupGenel Group = "genel"
)

// Groups lists every valid board group.
func Groups() []Group {
	return []Group{GroupYonetim, GroupDenetim, GroupDisiplin, GroupGenel}
}

// ParseGroup rejects group tags outside the closed set.
func ParseGroup(raw string) (Group, error) {
	candidate := Group(strings.TrimSpace(strings.ToLower(raw)))
	for _, g := range Groups() {
		if candidate == g {
			return g, nil
		}
	}
	return "", fmt.Errorf("%w: unknown board group %q", ErrInvalidInput, raw)
}

// Member is one roster entry. The id is unique within a group.
type Member struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Position  string    `json:"position"`
	Bio       string    `json:"bio,omitempty"`
	PhotoURL  string    `json:"photo_url,omitempty"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Group     Group     `json:"group"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"created_at"`
}

// sameIdentity is the uniqueness tuple for idempotent creates.
func sameIdentity(a, b *Member) bool {
	return a.Group == b.Group && a.Name == b.Name && a.Position == b.Position
}
