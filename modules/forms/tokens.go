package forms

import (
	"fmt"
	"regexp"

	"github.com/spf13/cast"
)

// Token prefixes.
const (
	tokenConfig       = "config"
	tokenEngineConfig = "engine-config"
	tokenData         = "data"
)

var tokenPattern = regexp.MustCompile(`\{\{\s*([a-z][a-z-]*)(?:\s*:\s*([^\s}]+))?\s*\}\}`)

// tokens resolves {{ prefix:key }} references inside definitions.
type tokens struct {
	config       func(key string) any
	engineConfig func(key string) any
	data         map[string]any
}

func (t tokens) lookup(prefix, key string) (any, error) {
	switch prefix {
	case tokenConfig:
		if key != "" && t.config != nil {
			return t.config(key), nil
		}
	case tokenEngineConfig:
		if key != "" && t.engineConfig != nil {
			return t.engineConfig(key), nil
		}
	case tokenData:
		if key == "" {
			return t.data, nil
		}
		return t.data[key], nil
	}
	return nil, fmt.Errorf("%w: {{ %s:%s }}", ErrUnknownToken, prefix, key)
}

// replace returns a copy of v with every token substituted. A string that is
// exactly one token takes the referenced value as-is, so "{{ data }}" yields
// the whole values map; tokens embedded in longer text are stringified.
func (t tokens) replace(v any) (any, error) {
	switch val := v.(type) {
	case string:
		return t.replaceString(val)
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			r, err := t.replace(item)
			if err != nil {
				return nil, err
			}
			out[k] = r
		}
		return out, nil
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			r, err := t.replace(item)
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return out, nil
	}
	return v, nil
}

func (t tokens) replaceString(s string) (any, error) {
	if m := tokenPattern.FindStringSubmatchIndex(s); m != nil && m[0] == 0 && m[1] == len(s) {
		return t.lookup(s[m[2]:m[3]], submatch(s, m, 2))
	}

	var firstErr error
	out := tokenPattern.ReplaceAllStringFunc(s, func(tok string) string {
		parts := tokenPattern.FindStringSubmatch(tok)
		v, err := t.lookup(parts[1], parts[2])
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			return tok
		}
		return cast.ToString(v)
	})
	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}

func submatch(s string, idx []int, n int) string {
	if idx[2*n] < 0 {
		return ""
	}
	return s[idx[2*n]:idx[2*n+1]]
}

// replaceMap applies replace to a definition map.
func (t tokens) replaceMap(def map[string]any) (map[string]any, error) {
	out, err := t.replace(def)
	if err != nil {
		return nil, err
	}
	return out.(map[string]any), nil
}
