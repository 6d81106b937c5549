package services

import (
	"encoding/json"
	"strings"
)

// ExtractJSON pulls a JSON object out of free model text. Strategies, in
// order: strip a ```json / ``` fence and take the body as-is, then scan for
// the first balanced {...} that is valid JSON. Fails with ErrParse.
func ExtractJSON(text string) ([]byte, error) {
	return extractJSON(text, '{', '}')
}

// ExtractJSONArray is ExtractJSON for a top level [...] value.
func ExtractJSONArray(text string) ([]byte, error) {
	return extractJSON(text, '[', ']')
}

func extractJSON(text string, open, close byte) ([]byte, error) {
	trimmed := strings.TrimSpace(text)
	candidate := stripCodeFence(trimmed)
	if strings.HasPrefix(candidate, string(open)) && json.Valid([]byte(candidate)) {
		return []byte(candidate), nil
	}
	for _, source := range []string{candidate, trimmed} {
		if found, ok := firstBalanced(source, open, close); ok {
			return found, nil
		}
	}
	return nil, newStylistError(ErrParse, "Could not parse JSON from Gemini response", nil)
}

// stripCodeFence returns the body of the first markdown code block, or the
// text unchanged when there is none.
func stripCodeFence(text string) string {
	const fence = "```"
	start := strings.Index(text, fence)
	if start < 0 {
		return text
	}
	body := text[start+len(fence):]
	body = strings.TrimPrefix(body, "json")
	body = strings.TrimPrefix(body, "JSON")
	if end := strings.Index(body, fence); end >= 0 {
		body = body[:end]
	}
	return strings.TrimSpace(body)
}

// firstBalanced tries every opening delimiter in turn and returns the first
// balanced span that is valid JSON. Delimiters inside strings are ignored.
func firstBalanced(text string, open, close byte) ([]byte, bool) {
	for start := strings.IndexByte(text, open); start >= 0; {
		if end := matchingClose(text, start, open, close); end > 0 {
			span := []byte(text[start : end+1])
			if json.Valid(span) {
				return span, true
			}
		}
		next := strings.IndexByte(text[start+1:], open)
		if next < 0 {
			break
		}
		start += next + 1
	}
	return nil, false
}

func matchingClose(text string, start int, open, close byte) int {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
