package siteconfig

import (
	"context"
	"sort"
)

// Store persists the raw configuration fragment. Only the fragment is
// stored; defaults never leave the binary.
type Store interface {
	LoadFragment(ctx context.Context) (map[string]any, error)
	SaveFragment(ctx context.Context, fragment map[string]any) error
}

// listPaths are the fields every consumer indexes as an array. The
// repair pass forces them to arrays even when the stored document was
// hand-edited into something else.
var listPaths = [][]string{
	{"menu"},
	{"hero", "slides"},
	{"social"},
	{"footer", "links"},
	{"pages"},
}

// objectShapes are the fields consumers dereference without checking;
// each is forced to exist with its minimal sub-shape.
var objectShapes = map[string]map[string]any{
	"footer":        {"text": "", "links": []any{}},
	"announcements": {"show": true, "limit": 5},
	"events":        {"show": true, "limit": 4},
}

// Normalize deep-merges the stored fragment over Defaults and repairs
// the result's structure. The output always contains every top-level
// default key.
func Normalize(fragment map[string]any) map[string]any {
	merged := merge(Defaults(), fragment)
	repair(merged)
	return merged
}

// merge applies stored values over defaults, per key:
//   - default is an array: the stored array replaces it wholesale;
//     a stored non-array keeps the default (arrays are never merged
//     element-wise)
//   - default is an object: recurse when the stored value is an
//     object, otherwise keep the default subtree
//   - scalar: a defined stored value wins, falsy included
//
// Stored keys with no default counterpart are carried through
// untouched.
func merge(defaults, stored map[string]any) map[string]any {
	out := make(map[string]any, len(defaults))
	for key, defVal := range defaults {
		storedVal, present := stored[key]
		if !present {
			out[key] = defVal
			continue
		}
		switch dv := defVal.(type) {
		case []any:
			if sv, ok := storedVal.([]any); ok {
				out[key] = sv
			} else {
				out[key] = dv
			}
		case map[string]any:
			if sv, ok := storedVal.(map[string]any); ok {
				out[key] = merge(dv, sv)
			} else {
				out[key] = dv
			}
		default:
			out[key] = storedVal
		}
	}
	for key, storedVal := range stored {
		if _, known := defaults[key]; !known {
			out[key] = storedVal
		}
	}
	return out
}

// repair runs the structural pass: list fields become arrays, object
// fields get their minimal shape, menu entries get target defaults and
// a stable order sort.
func repair(cfg map[string]any) {
	for name, shape := range objectShapes {
		obj, ok := cfg[name].(map[string]any)
		if !ok {
			obj = map[string]any{}
		}
		for k, v := range shape {
			if _, present := obj[k]; !present {
				obj[k] = v
			}
		}
		cfg[name] = obj
	}

	for _, path := range listPaths {
		forceArray(cfg, path)
	}

	if menu, ok := cfg["menu"].([]any); ok {
		cfg["menu"] = normalizeMenu(menu)
	}
}

func forceArray(cfg map[string]any, path []string) {
	node := cfg
	for _, key := range path[:len(path)-1] {
		next, ok := node[key].(map[string]any)
		if !ok {
			return
		}
		node = next
	}
	leaf := path[len(path)-1]
	if _, ok := node[leaf].([]any); !ok {
		node[leaf] = []any{}
	}
}

// normalizeMenu defaults target to "_self" and sorts ascending by
// order. The sort must be stable: entries with equal order keep their
// original relative position.
func normalizeMenu(menu []any) []any {
	out := make([]any, 0, len(menu))
	for _, raw := range menu {
		entry, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if _, present := entry["target"]; !present {
			entry["target"] = "_self"
		}
		out = append(out, entry)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return menuOrder(out[i]) < menuOrder(out[j])
	})
	return out
}

func menuOrder(raw any) float64 {
	entry, _ := raw.(map[string]any)
	switch v := entry["order"].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return 0
	}
}
