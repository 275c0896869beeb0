package helpers

import (
	"errors"
	"regexp"
	"strings"
)

// Objects glued together without a separating comma, a known defect of the
// upstream agent's output.
var missingComma = regexp.MustCompile(`}\s*\{`)

// ExtractJSONObject returns the JSON object embedded in s: everything from
// the first '{' through the last '}', with missing commas between adjacent
// objects restored. The slice itself discards surrounding prose and
// markdown fences.
func ExtractJSONObject(s string) (string, error) {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start == -1 || end == -1 || end < start {
		return "", errors.New("no JSON object found")
	}
	return missingComma.ReplaceAllString(s[start:end+1], "}, {"), nil
}
