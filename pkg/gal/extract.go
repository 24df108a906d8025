package gal

import (
	"encoding/json"
	"strings"
)

// ExtractJSONObject pulls the first parseable JSON object out of free-form
// model output. The whole text is tried first; failing that, every balanced
// {...} span is tried in order of its opening brace, and the first span that
// parses wins -- which is not necessarily the span starting at the first
// brace in the text.
func ExtractJSONObject(text string) ([]byte, bool) {
	trimmed := []byte(strings.TrimSpace(text))
	if isJSONObject(trimmed) {
		return trimmed, true
	}

	start := strings.IndexByte(text, '{')
	for start != -1 {
	scan:
		for i, depth := start, 0; i < len(text); i++ {
			switch text[i] {
			case '{':
				depth++
			case '}':
				depth--
				if depth == 0 {
					candidate := []byte(text[start : i+1])
					if isJSONObject(candidate) {
						return candidate, true
					}
					break scan
				}
			}
		}
		next := strings.IndexByte(text[start+1:], '{')
		if next == -1 {
			break
		}
		start += 1 + next
	}
	return nil, false
}

func isJSONObject(data []byte) bool {
	var obj map[string]json.RawMessage
	return json.Unmarshal(data, &obj) == nil
}
