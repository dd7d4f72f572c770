package rootfind

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ltxdiff/ltxdiff/internal/overlay"
	"github.com/ltxdiff/ltxdiff/internal/testutil"
)

func TestResolver_Roots(t *testing.T) {
	baseDir, modDir := testutil.Trees(t,
		testutil.Tree{
			"system.ltx":              "#include \"weapons\\*.ltx\"\n#include \"items.ltx\"\n",
			"weapons/pistol.ltx":      "[pistol]\n",
			"weapons/weapon_base.ltx": "#include \"ammo.ltx\" ; shared ammo\n",
			"weapons/ammo.ltx":        "[ammo]\n",
			"items.ltx":               "[items]\n",
			"standalone.ltx":          "[alone]\n",
			"a/b/deep.ltx":            "[deep]\n",
			"a/b/notes.txt":           "#include \"deep.ltx\"\n",
			"game.ltx":                "#include \"a\\b\\deep.ltx\"\n",
			"menu.ltx":                "#include \"A/B/*\"\n",
			"cycle_a.ltx":             "#include \"cycle_b.ltx\"\n",
			"cycle_b.ltx":             "#include \"cycle_a.ltx\"\n",
			"self.ltx":                "#include \"self.ltx\"\n",
		},
		testutil.Tree{
			"weapons/pistol.ltx":  "[pistol]:base\n",
			"weapons/new_gun.ltx": "[new_gun]\n",
			"mod_root.ltx":        "; commented out\n; #include \"items.ltx\"\n",
		},
	)
	r := New(overlay.New(baseDir, modDir))

	tests := []struct {
		rel      string
		expected []string
	}{
		{rel: "weapons/new_gun.ltx", expected: []string{"system.ltx"}},
		{rel: "weapons/pistol.ltx", expected: []string{"system.ltx"}},
		{rel: "weapons/ammo.ltx", expected: []string{"system.ltx"}},
		{rel: "items.ltx", expected: []string{"system.ltx"}},
		{rel: "system.ltx", expected: []string{"system.ltx"}},
		{rel: "standalone.ltx", expected: []string{"standalone.ltx"}},
		{rel: "a/b/deep.ltx", expected: []string{"game.ltx", "menu.ltx"}},
		{rel: "a\\b\\deep.ltx", expected: []string{"game.ltx", "menu.ltx"}},
		{rel: "cycle_a.ltx", expected: []string{"cycle_b.ltx"}},
		{rel: "self.ltx", expected: []string{"self.ltx"}},
		{rel: "mod_root.ltx", expected: []string{"mod_root.ltx"}},
	}

	for _, tt := range tests {
		t.Run(tt.rel, func(t *testing.T) {
			roots, err := r.Roots(tt.rel)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.expected, roots); diff != "" {
				t.Errorf("Roots() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolver_StopsAtFirstIncluder(t *testing.T) {
	baseDir, _ := testutil.Trees(t,
		testutil.Tree{
			"top.ltx":       "#include \"sub/*.ltx\"\n",
			"sub/inner.ltx": "#include \"leaf.ltx\"\n",
			"sub/leaf.ltx":  "[leaf]\n",
			"also_leaf.ltx": "#include \"sub/leaf.ltx\"\n",
			"sub/unrelated": "#include \"leaf.ltx\"\n",
		},
		nil,
	)
	r := New(overlay.New(baseDir, ""))

	roots, err := r.Roots(filepath.Join("sub", "leaf.ltx"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"top.ltx"}, roots); diff != "" {
		t.Errorf("Roots() mismatch (-want +got):\n%s", diff)
	}
}

func TestResolver_Match(t *testing.T) {
	r := New(overlay.New(t.TempDir(), ""))

	tests := []struct {
		pattern  string
		target   string
		expected bool
	}{
		{pattern: "a.ltx", target: "a.ltx", expected: true},
		{pattern: "A.LTX", target: "a.ltx", expected: true},
		{pattern: "*.ltx", target: "a.ltx", expected: true},
		{pattern: "*.ltx", target: ".ltx", expected: false},
		{pattern: "*.ltx", target: "dir/a.ltx", expected: true},
		{pattern: "w_*.ltx", target: "a_w_b.ltx", expected: false},
		{pattern: "a.ltx", target: "ba.ltx", expected: false},
		{pattern: "a+b.ltx", target: "a+b.ltx", expected: true},
	}

	for _, tt := range tests {
		if got := r.match(tt.pattern, tt.target); got != tt.expected {
			t.Errorf("match(%q, %q) = %v, want %v", tt.pattern, tt.target, got, tt.expected)
		}
	}
}
