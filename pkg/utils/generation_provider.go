package utils

import (
	"context"
	"strings"
)

// GenerationProvider turns a prompt plus a JSON Schema into raw response text.
type GenerationProvider interface {
	Name() string
	Generate(ctx context.Context, prompt string, schema map[string]any) (string, error)
}

// CleanJSONResponse removes markdown fences and any chatter around the outermost JSON value.
func CleanJSONResponse(response string) string {
	response = strings.ReplaceAll(response, "```json", "")
	response = strings.ReplaceAll(response, "```JSON", "")
	response = strings.ReplaceAll(response, "```", "")
	response = strings.TrimSpace(response)

	objStart := strings.Index(response, "{")
	arrStart := strings.Index(response, "[")

	start := -1
	switch {
	case objStart != -1 && (arrStart == -1 || objStart < arrStart):
		start = objStart
	case arrStart != -1:
		start = arrStart
	}
	if start == -1 {
		return response
	}
	if end := findClosing(response, start); end != -1 {
		response = response[start : end+1]
	}
	return strings.TrimSpace(response)
}

// findClosing returns the index of the bracket closing the one at start, skipping string literals.
func findClosing(s string, start int) int {
	open := s[start]
	closing := byte('}')
	if open == '[' {
		closing = ']'
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		char := s[i]

		if escaped {
			escaped = false
			continue
		}
		if char == '\\' && inString {
			escaped = true
			continue
		}
		if char == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		switch char {
		case open:
			depth++
		case closing:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
