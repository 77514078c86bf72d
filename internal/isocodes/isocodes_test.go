package isocodes

import (
	"strings"
	"testing"
)

func TestTable(t *testing.T) {
	if len(Table) != 52 {
		t.Errorf("len(Table) = %d, want 52", len(Table))
	}
	seen := make(map[string]bool)
	for _, p := range Table {
		if len(p.Two) != 2 || len(p.Three) != 3 {
			t.Errorf("malformed pair %+v", p)
		}
		if seen[p.Three] {
			t.Errorf("duplicate three-letter code %s", p.Three)
		}
		seen[p.Three] = true
	}
}

func TestToThree(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"AT", "AUT", true},
		{"gb", "GBR", true},
		{"XK", "XKX", true},
		{"US", "", false},
	}
	for _, tt := range tests {
		got, ok := ToThree(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ToThree(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestRewriteSVGIDs(t *testing.T) {
	var b strings.Builder
	b.WriteString(`<svg>`)
	for _, p := range Table {
		if p.Two == "VA" {
			continue
		}
		b.WriteString(`<path id="` + strings.ToLower(p.Two) + `" d="M0 0"/>`)
	}
	// Two ids for Malta.
	b.WriteString(`<path id="mt" d="M1 1"/></svg>`)

	out, warnings := RewriteSVGIDs(b.String())

	if !strings.Contains(out, `id="AUT"`) || !strings.Contains(out, `id="GBR"`) {
		t.Error("ids were not rewritten")
	}
	if strings.Contains(out, `id="at"`) {
		t.Error("old id left behind")
	}
	if strings.Count(out, `id="MLT"`) != 2 {
		t.Error("repeated ids should all be rewritten")
	}

	want := map[string]int{`id="mt"`: 2, `id="va"`: 0}
	if len(warnings) != len(want) {
		t.Fatalf("warnings = %v, want %d", warnings, len(want))
	}
	for _, w := range warnings {
		if n, ok := want[w.Tag]; !ok || n != w.Count {
			t.Errorf("unexpected warning %s", w)
		}
	}
}
