package fs

import "testing"

func TestIgnoreMatcher(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		path     string
		want     bool
	}{
		{"no patterns", nil, "a.jpg", false},
		{"basename glob matches", []string{"*.tmp"}, "a.tmp", true},
		{"basename glob matches in subdir", []string{"*.tmp"}, "sub/deep/a.tmp", true},
		{"basename glob no match", []string{"*.tmp"}, "a.jpg", false},
		{"exact basename", []string{"Thumbs.db"}, "pics/Thumbs.db", true},
		{"path pattern matches from root", []string{".cache/*"}, ".cache/a.jpg", true},
		{"path pattern does not match nested", []string{".cache/*"}, "sub/.cache/a.jpg", false},
		{"path pattern with dir glob", []string{"*/raw/*"}, "2020/raw/a.jpg", true},
		{"blank pattern skipped", []string{"", "  "}, "a.jpg", false},
		{"comment skipped", []string{"# *.jpg"}, "a.jpg", false},
		{"bad pattern skipped", []string{"[", "*.tmp"}, "a.tmp", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewIgnoreMatcher(tt.patterns)
			if got := m.Match(tt.path); got != tt.want {
				t.Errorf("Match(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}
