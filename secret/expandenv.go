package secret

import (
	"fmt"
	"os"
	"slices"
	"strings"
)

// ExpandEnvStrict expands environment variables in s.
//
// Semantics:
//   - `$VAR` and `${VAR}` are expanded; an unset `$VAR` becomes empty.
//   - An unset `${VAR}` is an error wrapping ErrMissingEnv.
//   - `$$` emits a literal `$`.
func ExpandEnvStrict(s string) (string, error) {
	return expandEnv(s, os.LookupEnv)
}

func expandEnv(s string, lookup func(string) (string, bool)) (string, error) {
	var missing []string

	parts := strings.Split(s, "$$")
	for i, part := range parts {
		parts[i] = os.Expand(part, func(key string) string {
			if v, ok := lookup(key); ok {
				return v
			}
			if braced(part, key) && !slices.Contains(missing, key) {
				missing = append(missing, key)
			}
			return ""
		})
	}

	if len(missing) > 0 {
		slices.Sort(missing)
		return "", fmt.Errorf("%w: %s", ErrMissingEnv, strings.Join(missing, ", "))
	}
	return strings.Join(parts, "$"), nil
}

// braced reports whether s references key as ${key}.
func braced(s, key string) bool {
	return strings.Contains(s, "${"+key+"}")
}
