// Package logging provides a tiny abstraction over slog so the session store
// can emit structured diagnostics without forcing a logging framework on its
// callers. It includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - NoOpLogger for silent operation (testing, minimal setups)
//
// The interface is intentionally minimal to avoid vendor lock-in while
// supporting structured logging where available.
package logging
