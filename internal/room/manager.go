package room

import (
	"context"
	"sync"

	"castlerush/internal/catalog"
	"castlerush/internal/registry"
	"castlerush/internal/sink"
	"castlerush/internal/telemetry"
	"castlerush/logging"
)

// Manager is a simple FIFO join-or-create policy over a set of rooms: a new
// connection joins the first room still waiting for a second player, or
// starts a fresh one. It intentionally implements no matchmaking beyond
// that — skill-based pairing and explicit room codes are out of scope
// (spec §1's Non-goals).
type Manager struct {
	rootCtx   context.Context
	catalog   *catalog.Catalog
	sink      sink.Sink
	registry  *registry.Registry
	publisher logging.Publisher
	metrics   telemetry.Metrics

	mu      sync.Mutex
	waiting *Room
}

// SetMetrics attaches a telemetry sink every room the manager creates
// from this point forward will report its command-queue occupancy
// through.
func (m *Manager) SetMetrics(metrics telemetry.Metrics) {
	m.metrics = metrics
}

// NewManager constructs a Manager. Every room it creates shares the given
// catalog, result sink, registry and publisher, and is run against rootCtx
// so cancelling rootCtx (process shutdown) stops every room's serial
// goroutine after its in-flight command finishes.
func NewManager(rootCtx context.Context, catalogRef *catalog.Catalog, resultSink sink.Sink, reg *registry.Registry, publisher logging.Publisher) *Manager {
	return &Manager{
		rootCtx:   rootCtx,
		catalog:   catalogRef,
		sink:      resultSink,
		registry:  reg,
		publisher: publisher,
	}
}

// JoinOrCreate returns a room with an open slot, starting its serial
// goroutine if it was just created.
func (m *Manager) JoinOrCreate(ctx context.Context) *Room {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.waiting != nil {
		r := m.waiting
		m.waiting = nil
		return r
	}

	r := New(m.catalog, m.sink, m.registry, m.publisher)
	r.SetMetrics(m.metrics)
	go r.Run(m.rootCtx)
	m.waiting = r
	return r
}
