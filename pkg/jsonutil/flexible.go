package jsonutil

import (
	"encoding/json"
	"strconv"
	"strings"
)

// IntFromString parses a value that should be a base-10 integer but may
// arrive as free text (CSV cells, form fields). Returns nil for empty,
// non-numeric and fractional values rather than an error: a bad cell
// becomes NULL, it does not abort the row.
func IntFromString(s string) *int {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}

	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return nil
	}

	return &n
}

// FlexibleInt converts a json.RawMessage to *int, handling clients that
// send numbers as strings. Anything that is not an exact base-10 integer
// (null, empty, fractional, non-numeric) becomes nil.
func FlexibleInt(raw json.RawMessage) *int {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	// Try quoted string first
	var strVal string
	if err := json.Unmarshal(raw, &strVal); err == nil {
		return IntFromString(strVal)
	}

	// Bare number token
	return IntFromString(string(raw))
}

// FlexibleString converts a json.RawMessage to *string.
// null and absent values become nil; everything else keeps its value.
func FlexibleString(raw json.RawMessage) *string {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	var strVal string
	if err := json.Unmarshal(raw, &strVal); err == nil {
		return &strVal
	}

	// Fallback: keep the raw token as text
	s := string(raw)
	return &s
}
