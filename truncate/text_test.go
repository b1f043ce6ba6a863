package truncate

import (
	"testing"
	"unicode/utf8"
)

func TestText(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		maxLen int
		suffix string
		want   string
	}{
		{name: "fits", text: "Short", maxLen: 100, suffix: "...", want: "Short"},
		{name: "exact fit", text: "Hello", maxLen: 5, suffix: "...", want: "Hello"},
		{name: "word boundary", text: "Hello world this is a test", maxLen: 15, suffix: "...", want: "Hello world..."},
		{name: "drops partial word", text: "One two three four five", maxLen: 12, suffix: "...", want: "One two..."},
		{name: "single long word", text: "abcdefghijklmnop", maxLen: 8, suffix: "...", want: "abcde..."},
		{name: "custom suffix", text: "alpha beta gamma", maxLen: 12, suffix: " [more]", want: "alpha [more]"},
		{name: "empty suffix", text: "alpha beta gamma", maxLen: 12, suffix: "", want: "alpha beta"},
		{name: "limit below suffix", text: "abcdef", maxLen: 2, suffix: "...", want: "ab"},
		{name: "zero limit", text: "abc", maxLen: 0, suffix: "...", want: ""},
		{name: "multibyte", text: "héllo wörld ñandú", maxLen: 15, suffix: "...", want: "héllo wörld..."},
		{name: "leading space falls back to hard cut", text: " abcdefghij", maxLen: 7, suffix: "...", want: " abc..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Text(tt.text, tt.maxLen, tt.suffix)
			if got != tt.want {
				t.Errorf("Text(%q, %d, %q) = %q, expected %q", tt.text, tt.maxLen, tt.suffix, got, tt.want)
			}
			if n := utf8.RuneCountInString(got); n > tt.maxLen && tt.maxLen > 0 {
				t.Errorf("result has %d runes, limit %d", n, tt.maxLen)
			}
		})
	}
}

func TestPreview(t *testing.T) {
	tests := []struct {
		name string
		text string
		n    int
		want string
	}{
		{name: "short", text: "abc", n: 5, want: "abc"},
		{name: "cut", text: "abcdefgh", n: 3, want: "abc..."},
		{name: "multibyte", text: "日本語テキスト", n: 2, want: "日本..."},
		{name: "zero", text: "abc", n: 0, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Preview(tt.text, tt.n); got != tt.want {
				t.Errorf("Preview(%q, %d) = %q, expected %q", tt.text, tt.n, got, tt.want)
			}
		})
	}
}
