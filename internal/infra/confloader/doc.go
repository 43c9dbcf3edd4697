// Package confloader provides the koanf plumbing behind the layered
// configuration resolver.
//
// It deals in plain namespaces (map[string]any trees) and leaves merge
// policy to the caller:
//
//   - Decode/Encode: YAML documents to namespaces and back
//   - ReadFile: raw bytes of a layer file
//   - EnvOverrides: `{PREFIX}_*` variables mapped to dotted paths
//   - Loader: typed decoding of a namespace (koanf struct tags)
//   - Watcher: change notification for a single config file
//
// Precedence (highest to lowest), applied by the resolver:
//
//  1. Environment variables
//  2. User configuration file
//  3. Application defaults
package confloader
