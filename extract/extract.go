package extract

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrUnknownKind is returned by ParseKind.
var ErrUnknownKind = errors.New("unknown extraction kind")

// Kind selects one part of a Structure.
type Kind string

// Extraction kinds.
const (
	KindItems    Kind = "items"
	KindSections Kind = "sections"
	KindFAQ      Kind = "faq"
	KindData     Kind = "data"
	KindAll      Kind = "all"
)

// ParseKind accepts a Kind name in any case.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindItems, KindSections, KindFAQ, KindData, KindAll:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q (use items, sections, faq, data, or all)", ErrUnknownKind, s)
}

// Structure is the machine-readable shape of generated copy.
type Structure struct {
	// Text is the content with fenced blocks removed.
	Text string `json:"text"`

	// Items are bullet and numbered list entries in document order.
	Items []string `json:"items,omitempty"`

	// Sections are markdown headings with the text under them.
	Sections []Section `json:"sections,omitempty"`

	// FAQ holds question and answer pairs.
	FAQ []QA `json:"faq,omitempty"`

	// Data holds decoded JSON and YAML payloads.
	Data []any `json:"data,omitempty"`
}

// Section is one markdown heading and its body.
type Section struct {
	Title string `json:"title"`
	Level int    `json:"level"`
	Body  string `json:"body"`
}

// QA is one question and its answer.
type QA struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Block is a fenced block.
type Block struct {
	Language string
	Content  string
}

var (
	fencePattern   = regexp.MustCompile("(?s)```([\\w-]*)[ \\t]*\\n(.*?)```")
	headingPattern = regexp.MustCompile(`(?m)^(#{1,6})[ \t]+(.+?)[ \t]*#*[ \t]*$`)
	itemPattern    = regexp.MustCompile(`^[ \t]*(?:[-*+•]|\d+[.)])[ \t]+(.+)$`)
)

// Parse extracts every shape from content.
func Parse(content string) *Structure {
	return &Structure{
		Text:     StripBlocks(content),
		Items:    Items(content),
		Sections: Sections(content),
		FAQ:      FAQ(content),
		Data:     Data(content),
	}
}

// Select returns the part of s named by kind, or s itself for KindAll.
func (s *Structure) Select(kind Kind) any {
	switch kind {
	case KindItems:
		return nonNil(s.Items)
	case KindSections:
		return nonNil(s.Sections)
	case KindFAQ:
		return nonNil(s.FAQ)
	case KindData:
		return nonNil(s.Data)
	}
	return s
}

func nonNil[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return v
}

// Blocks returns the fenced blocks in content.
func Blocks(content string) []Block {
	matches := fencePattern.FindAllStringSubmatch(content, -1)
	blocks := make([]Block, 0, len(matches))
	for _, m := range matches {
		blocks = append(blocks, Block{Language: strings.ToLower(m[1]), Content: m[2]})
	}
	return blocks
}

// StripBlocks removes fenced blocks and trims the result.
func StripBlocks(content string) string {
	return strings.TrimSpace(fencePattern.ReplaceAllString(content, ""))
}

// Items returns list entries outside fenced blocks, with surrounding
// emphasis and quotes removed.
func Items(content string) []string {
	var items []string
	for _, line := range strings.Split(StripBlocks(content), "\n") {
		m := itemPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if item := cleanInline(m[1]); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// Sections returns markdown headings in order, each with the text up to the
// next heading.
func Sections(content string) []Section {
	text := StripBlocks(content)
	matches := headingPattern.FindAllStringSubmatchIndex(text, -1)
	sections := make([]Section, 0, len(matches))
	for i, m := range matches {
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		sections = append(sections, Section{
			Title: cleanInline(text[m[4]:m[5]]),
			Level: m[3] - m[2],
			Body:  strings.TrimSpace(text[m[1]:end]),
		})
	}
	return sections
}

// cleanInline strips markdown emphasis and wrapping quotes.
func cleanInline(s string) string {
	s = strings.TrimSpace(s)
	for _, marker := range []string{"**", "__", "*", "_"} {
		if len(s) > 2*len(marker) && strings.HasPrefix(s, marker) && strings.HasSuffix(s, marker) {
			s = strings.TrimSpace(s[len(marker) : len(s)-len(marker)])
		}
	}
	for _, pair := range [][2]string{{`"`, `"`}, {"“", "”"}, {"'", "'"}} {
		if len(s) > len(pair[0])+len(pair[1]) && strings.HasPrefix(s, pair[0]) && strings.HasSuffix(s, pair[1]) {
			s = strings.TrimSpace(s[len(pair[0]) : len(s)-len(pair[1])])
		}
	}
	return s
}
