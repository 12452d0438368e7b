// Package app wires the application's collaborators into one context
// handed to every request.
package app

import (
	"github.com/mwdirectory/mwtrack-go/cache"
	"github.com/mwdirectory/mwtrack-go/geo"
	"github.com/mwdirectory/mwtrack-go/media"
	"github.com/mwdirectory/mwtrack-go/store"
	"github.com/mwdirectory/mwtrack-go/tracker"
)

// Context carries the shared handles: the store client, identity
// resolver, analytics sink, media processor and session cache. Everything
// is injected explicitly so tests can substitute fakes.
type Context struct {
	Store    *store.Client
	Resolver geo.Resolver
	Sink     tracker.AnalyticsSink
	Media    *media.Processor
	Cache    *cache.Manager
}
