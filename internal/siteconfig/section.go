package siteconfig

import (
	"fmt"
	"strings"
)

// Section is the closed set of top-level configuration section names.
// Handlers validate section names here instead of passing raw strings
// through to the store.
type Section string

const (
	SectionSite          Section = "site"
	SectionMenu          Section = "menu"
	SectionHero          Section = "hero"
	SectionAnnouncements Section = "announcements"
	SectionEvents        Section = "events"
	SectionFooter        Section = "footer"
	SectionSocial        Section = "social"
	SectionPages         Section = "pages"
	SectionContact       Section = "contact"
)

// Sections lists every valid section, in the order they appear in the
// default tree.
func Sections() []Section {
	return []Section{
		SectionSite, SectionMenu, SectionHero, SectionAnnouncements,
		SectionEvents, SectionFooter, SectionSocial, SectionPages,
		SectionContact,
	}
}

// ParseSection rejects section names outside the closed set.
func ParseSection(raw string) (Section, error) {
	candidate := Section(strings.TrimSpace(strings.ToLower(raw)))
	for _, s := range Sections() {
		if candidate == s {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown configuration section %q", raw)
}
