// Package repl provides the interactive mode of clikit.
//
// Each line is split into arguments (single and double quotes group words,
// backslash escapes the next character) and handed to an Executor. Built-in
// commands:
//
//   - exit, quit: leave the shell
//   - history: list previous lines
//   - complete PREFIX: list commands starting with PREFIX
package repl
