package folio

import (
	"strings"
	"testing"

	"github.com/eringen/folio/content"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Night Harbour", "night-harbour"},
		{"  Reel: 2023 / Showreel!  ", "reel-2023-showreel"},
		{"---", ""},
		{strings.Repeat("ab ", 60), strings.TrimRight(strings.Repeat("ab-", 32), "-")},
	}
	for _, tt := range tests {
		got := Slugify(tt.in)
		if got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if len(got) > content.MaxSlugLen {
			t.Errorf("Slugify(%q) is %d chars", tt.in, len(got))
		}
	}
}

func TestBuildURL(t *testing.T) {
	tests := []struct {
		base string
		segs []string
		want string
	}{
		{"https://x.example", nil, "https://x.example"},
		{"https://x.example", []string{"work", "reel"}, "https://x.example/work/reel/"},
		{"https://x.example/sub", []string{"bio"}, "https://x.example/sub/bio/"},
	}
	for _, tt := range tests {
		if got := BuildURL(tt.base, tt.segs...); got != tt.want {
			t.Errorf("BuildURL(%q, %v) = %q, want %q", tt.base, tt.segs, got, tt.want)
		}
	}
}

func TestAbsoluteURL(t *testing.T) {
	tests := []struct {
		base, ref, want string
	}{
		{"https://x.example", "/public/uploads/a.jpg", "https://x.example/public/uploads/a.jpg"},
		{"https://x.example", "https://cdn.example/a.jpg", "https://cdn.example/a.jpg"},
		{"https://x.example", "", ""},
	}
	for _, tt := range tests {
		if got := absoluteURL(tt.base, tt.ref); got != tt.want {
			t.Errorf("absoluteURL(%q, %q) = %q, want %q", tt.base, tt.ref, got, tt.want)
		}
	}
}
