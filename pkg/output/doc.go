// Package output renders command results.
//
//   - formatter.go: Format names and the Formatter factory
//   - table.go: tables built from structs, maps, slices and models
//   - pretty.go: bordered tables
//   - json.go, yaml.go: machine-readable output, model key order preserved
//   - printer.go: Printer, which ties a format to a writer and renders models
//   - spinner.go: progress animation for slow operations
package output
