// Package agentsession provides a concurrent, mode-aware session store for
// agent systems. Sessions are records of one conversational or run context,
// partitioned by mode (agent, team, workflow, workflow_v2) and held in a
// pluggable backing map. Most applications interact with this package by:
//  1. Creating a store via New() (optionally supplying a shared backing map)
//  2. Upserting sessions as runs progress
//  3. Querying by user/entity filters or recency
//
// All defaults are safe for local development and testing: an in-process map,
// UUID id generation and a silent logger. Deployments wanting shared or
// durable session state supply a backing map from kvmap/redis or kvmap/ddb, or
// any other implementation of core.Map.
package agentsession

import (
	"github.com/hupe1980/agentsession/core"
	"github.com/hupe1980/agentsession/logging"
	"github.com/hupe1980/agentsession/session"
)

// Options configures the store built by New.
type Options struct {
	// Mode the store serves (default agent). One store serves exactly one
	// mode; create several stores over one shared Map to serve several modes.
	Mode core.Mode

	// Map is the backing storage (default: freshly allocated in-memory map).
	Map core.Map

	// Logger receives structured diagnostics (default: NoOp logger).
	Logger logging.Logger
}

// New creates a mode-scoped session store with optional overrides. Any unset
// option is initialized with its in-memory / silent default.
func New(optFns ...func(o *Options)) (core.SessionStore, error) {
	opts := Options{
		Mode:   core.ModeAgent,
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return session.New(func(o *session.Options) {
		o.Mode = opts.Mode
		o.Map = opts.Map
		o.Logger = opts.Logger
	})
}
