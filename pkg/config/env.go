package config

import "github.com/yndnr/clikit/internal/infra/confloader"

// ApplyEnvironmentOverrides sets every {PREFIX}_* variable into the namespace.
//
// MYAPP_API_URL becomes api.url. Values are kept as strings. Variables are
// applied in path order, so when one variable's path is a prefix of another's
// (MYAPP_API and MYAPP_API_URL) the nested one wins. Variables named with
// WithoutEnv are skipped.
func (r *Resolver) ApplyEnvironmentOverrides() {
	overrides, err := confloader.EnvOverrides(r.envPrefix)
	if err != nil {
		r.logger.Warn("skipping environment overrides", "error", err)
		return
	}
	skip := make(map[string]bool, len(r.envSkip))
	for _, name := range r.envSkip {
		if p, ok := confloader.EnvPath(r.envPrefix, name); ok {
			skip[p] = true
		}
	}
	applied := 0
	for _, o := range overrides {
		if skip[o.Path] {
			continue
		}
		r.Set(o.Path, o.Value)
		applied++
	}
	if applied > 0 {
		r.logger.Debug("applied environment overrides",
			"prefix", r.envPrefix+"_",
			"count", applied,
		)
	}
}
