// Package cmd implements the command-line interface for the tylddb embedded
// database engine. It provides a hierarchical command structure for loading
// database files and querying the resulting store.
//
// The package is organized into several subpackages:
//
//   - db: One-shot commands against a loaded database file (get, add, search, etc.)
//   - shell: Interactive console over a loaded database file
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// See tylddb -help for a list of all commands.
package cmd
