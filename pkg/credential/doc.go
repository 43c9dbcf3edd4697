// Package credential stores secrets for a command-line tool.
//
// A Manager keys credentials by module name (the keychain "service") and a
// username, prompting the user for missing values. Storage is pluggable:
//
//   - KeyringStore: the OS keychain (macOS Keychain, Secret Service, Windows
//     Credential Manager)
//   - FileStore: a passphrase-encrypted file for hosts without a keychain
//   - MemoryStore: process memory, for tests
package credential
