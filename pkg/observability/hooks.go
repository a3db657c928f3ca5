// Package observability decouples the solver from its metrics backend.
//
// The pipeline, the caches and the HTTP server report events to whatever
// hooks are registered process-wide; nothing is recorded until a command
// registers a backend. [Prometheus] implements all three hook sets.
//
// Registering at startup:
//
//	prom := observability.NewPrometheus(prometheus.DefaultRegisterer)
//	observability.SetPipelineHooks(prom)
//	observability.SetCacheHooks(prom)
//	observability.SetHTTPHooks(prom)
//
// Reporting a stage:
//
//	observability.Pipeline().OnStageStart(ctx, observability.StageBuild)
//	// ... build the graph ...
//	observability.Pipeline().OnStageComplete(ctx, observability.StageBuild, time.Since(start), err)
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// Pipeline stages.
const (
	StageDecode      = "decode"
	StageBuild       = "build"
	StageSearch      = "search"
	StageReconstruct = "reconstruct"
	StageRender      = "render"
)

// PipelineHooks observes the solve pipeline.
type PipelineHooks interface {
	OnStageStart(ctx context.Context, stage string)
	OnStageComplete(ctx context.Context, stage string, duration time.Duration, err error)
	// OnSolved reports graph nodes, nodes expanded by the search and path
	// length in steps.
	OnSolved(ctx context.Context, nodes, expanded, length int)
}

// CacheHooks observes cache lookups; keyType is "solution" or "artifact".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks observes server requests. route is the matched pattern once
// known.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, route string)
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// NoopPipelineHooks discards pipeline events.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnStageStart(context.Context, string)                          {}
func (NoopPipelineHooks) OnStageComplete(context.Context, string, time.Duration, error) {}
func (NoopPipelineHooks) OnSolved(context.Context, int, int, int)                       {}

// NoopCacheHooks discards cache events.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks discards HTTP events.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// registry holds one hook set; a nil pointer means the no-op set.
type registry[T any] struct {
	p    atomic.Pointer[T]
	noop T
}

func (r *registry[T]) load() T {
	if h := r.p.Load(); h != nil {
		return *h
	}
	return r.noop
}

func (r *registry[T]) store(h T) { r.p.Store(&h) }

var (
	pipelineHooks = &registry[PipelineHooks]{noop: NoopPipelineHooks{}}
	cacheHooks    = &registry[CacheHooks]{noop: NoopCacheHooks{}}
	httpHooks     = &registry[HTTPHooks]{noop: NoopHTTPHooks{}}
)

// SetPipelineHooks registers h for all pipeline events. nil is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		pipelineHooks.store(h)
	}
}

// SetCacheHooks registers h for all cache events. nil is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		cacheHooks.store(h)
	}
}

// SetHTTPHooks registers h for all HTTP events. nil is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		httpHooks.store(h)
	}
}

// Pipeline returns the registered pipeline hooks; Cache and HTTP likewise.
func Pipeline() PipelineHooks { return pipelineHooks.load() }
func Cache() CacheHooks       { return cacheHooks.load() }
func HTTP() HTTPHooks         { return httpHooks.load() }

// Reset unregisters every hook. Tests that register hooks defer it.
func Reset() {
	pipelineHooks.p.Store(nil)
	cacheHooks.p.Store(nil)
	httpHooks.p.Store(nil)
}
