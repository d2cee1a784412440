// Package session implements the core.SessionStore contract. The interface
// itself (and the Session struct) live in the core package to centralize
// domain contracts; keeping only the implementation here prevents callers from
// depending on concrete storage.
//
// Store is mode-scoped: one instance serves exactly one core.Mode. Several
// instances differing only in mode may share one backing core.Map; every entry
// carries its mode tag, so mode-scoped queries and Drop never touch entries of
// other modes.
package session
