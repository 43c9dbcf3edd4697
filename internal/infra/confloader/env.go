package confloader

import (
	"fmt"
	"sort"
	"strings"

	"github.com/knadh/koanf/providers/env"
)

// EnvOverride is one environment variable mapped onto a dotted key path.
type EnvOverride struct {
	Path  string
	Value string
}

// EnvOverrides collects variables named `{prefix}_*`.
//
// The prefix and separator are stripped, the remainder is lowercased and
// every `_` becomes `.`:
//
//	MYAPP_API_URL=https://x -> api.url = "https://x"
//
// Values stay raw strings. The result is sorted by path so that callers
// applying it get the same outcome regardless of environment order.
func EnvOverrides(prefix string) ([]EnvOverride, error) {
	if prefix == "" {
		return nil, nil
	}
	transform := func(s string) string {
		p, _ := EnvPath(prefix, s)
		return p
	}

	// Empty delimiter keeps the map flat; the resolver does its own path walk.
	mp, err := env.Provider(prefix+"_", "", transform).Read()
	if err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}

	out := make([]EnvOverride, 0, len(mp))
	for k, v := range mp {
		s, ok := v.(string)
		if !ok {
			continue
		}
		out = append(out, EnvOverride{Path: k, Value: s})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Path < out[j].Path
	})
	return out, nil
}

// EnvPath returns the key path the variable name maps to under prefix.
// ok is false when name does not start with `{prefix}_`.
func EnvPath(prefix, name string) (path string, ok bool) {
	rest, ok := strings.CutPrefix(name, prefix+"_")
	if !ok || prefix == "" {
		return "", false
	}
	return strings.ReplaceAll(strings.ToLower(rest), "_", "."), true
}

// NormalizePrefix derives an environment prefix from a module name:
// uppercased, with every run of non-alphanumeric characters collapsed to `_`
// and no leading or trailing `_`.
//
//	"test-app"      -> "TEST_APP"
//	"my.cli tool"   -> "MY_CLI_TOOL"
func NormalizePrefix(name string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToUpper(name) {
		isAlnum := (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if !isAlnum {
			pendingSep = b.Len() > 0
			continue
		}
		if pendingSep {
			b.WriteByte('_')
			pendingSep = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
