// Package shared is the home of code used across packages that belongs to
// no single layer. Its testutil subpackage provides catalog fixtures and
// an in-memory slog handler for asserting on logs.
package shared
