package config

import "github.com/yndnr/clikit/pkg/logger"

// Option configures a Resolver.
type Option func(*Resolver)

// WithEnvPrefix overrides the environment prefix derived from the module name.
// The prefix is used as given, without the trailing "_".
func WithEnvPrefix(prefix string) Option {
	return func(r *Resolver) {
		r.envPrefix = prefix
	}
}

// WithDefaults sets where the default layer comes from.
func WithDefaults(src DefaultSource) Option {
	return func(r *Resolver) {
		if src != nil {
			r.defaults = src
		}
	}
}

// WithConfigDir replaces the per-user configuration root. The user file
// becomes <dir>/<module>/config.yaml.
func WithConfigDir(dir string) Option {
	return func(r *Resolver) {
		r.configDir = dir
	}
}

// WithConfigFile sets the exact user-layer file path.
func WithConfigFile(path string) Option {
	return func(r *Resolver) {
		r.filePath = path
	}
}

// WithSchemaValidator enables ValidateSchema.
func WithSchemaValidator(v SchemaValidator) Option {
	return func(r *Resolver) {
		r.validator = v
	}
}

// WithLogger sets the logger for diagnostics.
func WithLogger(l logger.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithoutEnv excludes the named variables from ApplyEnvironmentOverrides.
// Use it for variables that share the prefix but configure something else,
// such as flags bound to environment variables.
func WithoutEnv(names ...string) Option {
	return func(r *Resolver) {
		r.envSkip = append(r.envSkip, names...)
	}
}
