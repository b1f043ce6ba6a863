package extract

import (
	"encoding/json"
	"strings"

	"gopkg.in/yaml.v3"
)

// Data decodes fenced json and yaml blocks, unlabeled fenced blocks that
// hold JSON, and standalone lines outside blocks that are a JSON object or
// array. Payloads that fail to decode are skipped.
func Data(content string) []any {
	var out []any
	for _, b := range Blocks(content) {
		switch b.Language {
		case "json", "":
			if v, ok := decodeJSON(b.Content); ok {
				out = append(out, v)
			}
		case "yaml", "yml":
			var v any
			if err := yaml.Unmarshal([]byte(b.Content), &v); err == nil && v != nil {
				out = append(out, v)
			}
		}
	}

	for _, line := range strings.Split(StripBlocks(content), "\n") {
		line = strings.TrimSpace(line)
		if len(line) < 2 {
			continue
		}
		if (line[0] == '{' && line[len(line)-1] == '}') || (line[0] == '[' && line[len(line)-1] == ']') {
			if v, ok := decodeJSON(line); ok {
				out = append(out, v)
			}
		}
	}
	return out
}

func decodeJSON(s string) (any, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, false
	}
	switch v.(type) {
	case map[string]any, []any:
		return v, true
	}
	return nil, false
}
