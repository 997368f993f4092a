package domain

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestExcerpt(t *testing.T) {
	short := "Overdraft fees are $35."
	if got := Excerpt(short); got != short {
		t.Errorf("short content modified: %q", got)
	}

	long := strings.Repeat("a", ExcerptLimit+10)
	if got := Excerpt(long); got != long[:ExcerptLimit]+"..." {
		t.Errorf("long content not truncated at %d: %d chars", ExcerptLimit, len(got))
	}

	exact := strings.Repeat("a", ExcerptLimit)
	if got := Excerpt(exact); got != exact {
		t.Errorf("exact-limit content should pass through, got %d chars", len(got))
	}
}

func TestExcerptCutsOnRuneBoundary(t *testing.T) {
	// Three bytes per rune; a byte-wise cut at 150 would split a character.
	long := strings.Repeat("€", ExcerptLimit+10)
	got := Excerpt(long)

	if !utf8.ValidString(got) {
		t.Fatalf("excerpt is not valid UTF-8: %q", got)
	}
	want := strings.Repeat("€", ExcerptLimit) + "..."
	if got != want {
		t.Errorf("excerpt = %d runes, want %d plus ellipsis", utf8.RuneCountInString(got), ExcerptLimit)
	}
}
