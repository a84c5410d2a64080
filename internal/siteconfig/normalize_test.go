package siteconfig

import "testing"

func TestNormalizeEmptyFragmentKeepsEveryDefaultKey(t *testing.T) {
	out := Normalize(map[string]any{})
	for key := range Defaults() {
		if _, ok := out[key]; !ok {
			t.Fatalf("missing top-level default key %q", key)
		}
	}
}

func TestNormalizeStoredArrayReplacesDefault(t *testing.T) {
	out := Normalize(map[string]any{
		"menu": []any{
			map[string]any{"id": 9, "title": "X", "url": "/x", "order": -1, "visible": true},
		},
	})
	menu, ok := out["menu"].([]any)
	if !ok {
		t.Fatalf("menu is not an array: %T", out["menu"])
	}
	if len(menu) != 1 {
		t.Fatalf("stored array must replace the default, got %d entries", len(menu))
	}
	entry := menu[0].(map[string]any)
	if entry["title"] != "X" {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if entry["target"] != "_self" {
		t.Fatalf("target must default to _self, got %v", entry["target"])
	}
}

func TestNormalizeScalarLeafWinsIncludingFalsy(t *testing.T) {
	out := Normalize(map[string]any{
		"site": map[string]any{"title": ""},
		"hero": map[string]any{"enabled": false},
	})
	site := out["site"].(map[string]any)
	if site["title"] != "" {
		t.Fatalf("defined empty string must win over the default, got %v", site["title"])
	}
	if site["language"] != "tr" {
		t.Fatalf("untouched sibling keys must keep defaults, got %v", site["language"])
	}
	hero := out["hero"].(map[string]any)
	if hero["enabled"] != false {
		t.Fatalf("defined false must win over the default")
	}
}

func TestNormalizeRepairsMalformedSlides(t *testing.T) {
	out := Normalize(map[string]any{
		"hero": map[string]any{"slides": "not-an-array"},
	})
	hero := out["hero"].(map[string]any)
	slides, ok := hero["slides"].([]any)
	if !ok {
		t.Fatalf("slides must be repaired to an array, got %T", hero["slides"])
	}
	if len(slides) != 0 {
		t.Fatalf("repaired slides must be empty, got %v", slides)
	}
}

func TestNormalizeRepairsObjectSections(t *testing.T) {
	out := Normalize(map[string]any{
		"footer":        "garbage",
		"announcements": []any{"also", "garbage"},
	})
	footer, ok := out["footer"].(map[string]any)
	if !ok {
		t.Fatalf("footer must be an object, got %T", out["footer"])
	}
	if _, ok := footer["links"].([]any); !ok {
		t.Fatalf("footer.links must be an array, got %T", footer["links"])
	}
	ann, ok := out["announcements"].(map[string]any)
	if !ok {
		t.Fatalf("announcements must be an object, got %T", out["announcements"])
	}
	if ann["limit"] != 5 {
		t.Fatalf("announcements.limit must get its minimal shape, got %v", ann["limit"])
	}
}

func TestNormalizeMenuSortIsStable(t *testing.T) {
	out := Normalize(map[string]any{
		"menu": []any{
			map[string]any{"title": "b", "order": 2},
			map[string]any{"title": "a", "order": 1},
			map[string]any{"title": "c", "order": 2},
			map[string]any{"title": "d", "order": 1},
		},
	})
	menu := out["menu"].([]any)
	var titles []string
	for _, raw := range menu {
		titles = append(titles, raw.(map[string]any)["title"].(string))
	}
	want := []string{"a", "d", "b", "c"}
	for i := range want {
		if titles[i] != want[i] {
			t.Fatalf("unstable or wrong sort: got %v, want %v", titles, want)
		}
	}
}

func TestNormalizeCarriesUnknownKeys(t *testing.T) {
	out := Normalize(map[string]any{"custom_banner": "on"})
	if out["custom_banner"] != "on" {
		t.Fatalf("unknown stored keys must be carried through")
	}
}

func TestParseSection(t *testing.T) {
	s, err := ParseSection(" Footer ")
	if err != nil {
		t.Fatalf("ParseSection: %v", err)
	}
	if s != SectionFooter {
		t.Fatalf("unexpected section %q", s)
	}
	if _, err := ParseSection("sidebar"); err == nil {
		t.Fatalf("expected error for unknown section")
	}
}
