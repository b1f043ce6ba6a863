package extract

import (
	"regexp"
	"strings"
)

var (
	questionPattern = regexp.MustCompile(`(?i)^(?:#{1,6}\s+)?(?:\d+[.)]\s*)?(?:\*\*)?\s*Q(?:uestion)?\s*\d*\s*[:.)]\s*(?:\*\*)?\s*(.+)$`)
	answerPattern   = regexp.MustCompile(`(?i)^(?:\*\*)?\s*A(?:nswer)?\s*\d*\s*[:.)]\s*(?:\*\*)?\s*(.*)$`)
)

// FAQ returns question and answer pairs. It understands "Q:"/"A:" and
// "Question:"/"Answer:" prefixes, and falls back to headings or list items
// that end in a question mark, taking the text below them as the answer.
func FAQ(content string) []QA {
	text := StripBlocks(content)
	if pairs := prefixedFAQ(text); len(pairs) > 0 {
		return pairs
	}
	return questionLineFAQ(text)
}

func prefixedFAQ(text string) []QA {
	var (
		pairs   []QA
		current *QA
		answer  []string
	)
	flush := func() {
		if current != nil {
			current.Answer = strings.TrimSpace(strings.Join(answer, "\n"))
			pairs = append(pairs, *current)
		}
		current, answer = nil, nil
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if m := questionPattern.FindStringSubmatch(trimmed); m != nil {
			flush()
			current = &QA{Question: cleanInline(strings.TrimSuffix(strings.TrimSpace(m[1]), "**"))}
			continue
		}
		if current == nil || trimmed == "" {
			continue
		}
		if len(answer) == 0 {
			if m := answerPattern.FindStringSubmatch(trimmed); m != nil {
				if a := strings.TrimSpace(m[1]); a != "" {
					answer = append(answer, a)
				}
				continue
			}
		}
		answer = append(answer, trimmed)
	}
	flush()
	return pairs
}

func questionLineFAQ(text string) []QA {
	var (
		pairs   []QA
		current *QA
		answer  []string
	)
	flush := func() {
		if current != nil {
			current.Answer = strings.TrimSpace(strings.Join(answer, "\n"))
			pairs = append(pairs, *current)
		}
		current, answer = nil, nil
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if q, ok := questionLine(trimmed); ok {
			flush()
			current = &QA{Question: q}
			continue
		}
		if current != nil && trimmed != "" {
			answer = append(answer, trimmed)
		}
	}
	flush()
	return pairs
}

// questionLine reports whether line is a heading or list item that asks a
// question, returning the question text.
func questionLine(line string) (string, bool) {
	var body string
	switch {
	case headingPattern.MatchString(line):
		body = headingPattern.FindStringSubmatch(line)[2]
	case itemPattern.MatchString(line):
		body = itemPattern.FindStringSubmatch(line)[1]
	default:
		return "", false
	}
	q := cleanInline(body)
	return q, strings.HasSuffix(q, "?")
}
