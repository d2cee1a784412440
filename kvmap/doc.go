// Package kvmap contains concrete implementations of the core.Map backing-map
// contract. The contract itself lives in the core package to centralize domain
// interfaces; only implementations live here.
//
// InMemory is the default, process-local map. Externally backed maps (Redis,
// DynamoDB) live in sub-packages so that minimal builds do not pull their
// client dependencies. A single map instance may be shared by several
// mode-scoped session stores; every implementation is safe for concurrent use.
package kvmap
