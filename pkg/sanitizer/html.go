// Package sanitizer cleans visitor-submitted text before it is stored in the
// session or passed to processors.
package sanitizer

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicy *bluemonday.Policy
	initOnce     sync.Once
)

func policy() *bluemonday.Policy {
	initOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
	})
	return strictPolicy
}

// maxDecodeRounds bounds how many layers of entity encoding are unwrapped.
const maxDecodeRounds = 4

// StripHTML removes all markup and returns plain text. Entities are decoded
// again, so "a < b" survives; escaping is left to whatever renders the value.
// Decoding repeats until the text is stable, so markup written as entities
// is stripped too.
func StripHTML(s string) string {
	if !strings.ContainsAny(s, "<>&") {
		return s
	}
	for range maxDecodeRounds {
		decoded := html.UnescapeString(policy().Sanitize(s))
		if decoded == s {
			return decoded
		}
		s = decoded
	}
	return policy().Sanitize(s)
}

// Value strips markup from strings, string slices and the string elements of
// []any. Other values are returned unchanged.
func Value(v any) any {
	switch val := v.(type) {
	case string:
		return StripHTML(val)
	case []string:
		out := make([]string, len(val))
		for i, s := range val {
			out[i] = StripHTML(s)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = Value(item)
		}
		return out
	}
	return v
}

// Values returns a copy of values with every entry passed through Value.
func Values(values map[string]any) map[string]any {
	out := make(map[string]any, len(values))
	for k, v := range values {
		out[k] = Value(v)
	}
	return out
}
