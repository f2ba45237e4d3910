package postlist

import (
	"errors"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// textPolicy strips every tag from free-text fields and escapes what remains.
var textPolicy = bluemonday.StrictPolicy()

// Fields holds the submitted form fields of a post list edit screen. A key that is
// present counts as "set" even when its value is empty, mirroring checkbox semantics.
type Fields map[string][]string

// FieldsFromValues wraps url.Values, such as a parsed POST body.
func FieldsFromValues(values url.Values) Fields {
	return Fields(values)
}

// Set replaces the values for name.
func (f Fields) Set(name string, values ...string) {
	if values == nil {
		values = []string{}
	}
	f[name] = values
}

// Has reports whether name was submitted at all.
func (f Fields) Has(name string) bool {
	_, ok := f[name]
	return ok
}

// Raw returns the first value of name without any sanitization.
func (f Fields) Raw(name string) string {
	values := f[name]
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// Text returns the first value of name with markup removed, or def if name is absent.
func (f Fields) Text(name, def string) string {
	if !f.Has(name) {
		return def
	}
	return strings.TrimSpace(textPolicy.Sanitize(f.Raw(name)))
}

// Int returns the first value of name as an integer, or def if name is absent.
// Everything except digits and signs is discarded before parsing, so "1a0" yields 10.
// A value with no leading integer yields 0, and one out of range saturates.
func (f Fields) Int(name string, def int) int {
	if !f.Has(name) {
		return def
	}
	n, _ := leadingInt(numericOnly(f.Raw(name)))
	switch {
	case n > math.MaxInt:
		return math.MaxInt
	case n < math.MinInt:
		return math.MinInt
	}
	return int(n)
}

// Ints returns the distinct values of name that parse as integers, in submission order.
func (f Fields) Ints(name string) []int64 {
	var result []int64
	seen := make(map[int64]bool)
	for _, value := range f[name] {
		n, ok := leadingInt(strings.TrimSpace(value))
		if !ok || seen[n] {
			continue
		}
		seen[n] = true
		result = append(result, n)
	}
	return result
}

// Keys returns every value of name reduced to a lowercase key of [a-z0-9_-].
// Values that sanitize to nothing are dropped.
func (f Fields) Keys(name string) []string {
	var result []string
	for _, value := range f[name] {
		if key := SanitizeKey(value); key != "" {
			result = append(result, key)
		}
	}
	return result
}

// IDList parses the comma separated literal in name into unique non-negative IDs.
// Empty and non-numeric tokens are dropped, so "3,7,,x,9" yields [3 7 9].
func (f Fields) IDList(name string) []int64 {
	var result []int64
	seen := make(map[int64]bool)
	for _, token := range strings.Split(f.Text(name, ""), ",") {
		n, ok := leadingInt(strings.TrimSpace(token))
		if !ok {
			continue
		}
		if n < 0 {
			n = -max(n, -math.MaxInt64)
		}
		if seen[n] {
			continue
		}
		seen[n] = true
		result = append(result, n)
	}
	return result
}

// SanitizeKey lowercases s and removes everything except a-z, 0-9, underscores and dashes.
func SanitizeKey(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func numericOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '+' || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// leadingInt parses the optional sign and digits at the start of s. Values beyond the range of
// int64 are clamped to it.
func leadingInt(s string) (int64, bool) {
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if errors.Is(err, strconv.ErrRange) {
		return n, true
	}
	if err != nil {
		return 0, false
	}
	return n, true
}
