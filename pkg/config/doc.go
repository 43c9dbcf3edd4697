// Package config resolves layered configuration for a command-line tool.
//
// A Resolver merges three layers into one namespace, lowest precedence first:
//
//  1. Defaults shipped with the application (a DefaultSource)
//  2. The per-user file, <config root>/<module>/config.yaml
//  3. Environment variables named {PREFIX}_*
//
// The user file is overlaid at the top level: a top-level key it contains
// replaces the default value for that key as a whole, so a key removed from a
// saved namespace stays removed.
//
// Apart from the {PREFIX}_* overrides, the only environment variable read is
// XDG_CONFIG_HOME (with HOME as its fallback through os.UserHomeDir), which
// chooses the config root on non-Windows systems (see UserConfigRoot).
// WithConfigDir and WithConfigFile bypass the lookup.
//
// Keys are addressed with dotted paths ("api.url"). Set, Update, Delete and
// Clear change only the in-memory namespace; Save is the only operation that
// writes the user file.
//
// A Resolver is not safe for concurrent use. Two resolvers pointed at the same
// file (in one process or several) are not coordinated: the last Save wins.
//
// Example:
//
//	//go:embed config
//	var defaults embed.FS
//
//	cfg, err := config.New("myapp", config.WithDefaults(config.FSSource(defaults)))
//	if err != nil {
//	    return err
//	}
//	url := cfg.Get("api.url", "https://api.example.com")
//	cfg.Set("options.timeout", 30)
//	if err := cfg.Save(); err != nil {
//	    return err
//	}
package config
