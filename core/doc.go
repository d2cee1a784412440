// Package core provides the foundational domain types and interfaces shared by
// all agentsession packages. It defines:
//
//   - Session (one conversational/run context tied to one identifier)
//   - Mode (the entity category a session belongs to: agent, team, workflow)
//   - SessionStore (the mode-scoped CRUD / query contract)
//   - Map (the minimal associative storage capability backing a store)
//
// The package intentionally keeps implementation concerns (in-memory maps,
// Redis, DynamoDB, the store itself) out of scope, exposing small interfaces so
// that backends can be swapped at wiring time without dependency cycles.
package core
