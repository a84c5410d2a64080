// Package siteconfig merges the persisted site configuration fragment
// over compiled-in defaults and guarantees the result's shape.
package siteconfig

// Defaults returns the full default configuration tree. Every
// top-level key a consumer may read exists here; Normalize guarantees
// the merged output keeps all of them.
func Defaults() map[string]any {
	return map[string]any{
		"site": map[string]any{
			"title":       "Birlik Sendikası",
			"description": "Emek, dayanışma, örgütlenme.",
			"logo":        "/assets/logo.png",
			"language":    "tr",
		},
		"menu": []any{},
		"hero": map[string]any{
			"enabled":  true,
			"interval": 6000,
			"slides":   []any{},
		},
		"announcements": map[string]any{
			"show":  true,
			"limit": 5,
		},
		"events": map[string]any{
			"show":  true,
			"limit": 4,
		},
		"footer": map[string]any{
			"text":  "",
			"links": []any{},
		},
		"social": []any{},
		"pages":  []any{},
		"contact": map[string]any{
			"address": "",
			"phone":   "",
			"email":   "",
		},
	}
}
