// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"context"
	"sync"

	"github.com/ossrs/go-oryx-lib/logger"
)

type poolEntry struct {
	engine *Engine
	refs   int
}

// Pool owns engines by track id and counts references to them. The first
// Acquire builds the engine and starts its load; the last Release closes
// it, which cancels a load still in flight. A remount that acquires before
// the count drops to zero reuses the decoded clip.
type Pool struct {
	ctx    context.Context
	loader ClipLoader

	mu      sync.Mutex
	entries map[string]*poolEntry
}

// NewPool returns a pool whose loads inherit ctx values but not its
// cancellation; engines are cancelled individually on release.
func NewPool(ctx context.Context, loader ClipLoader) *Pool {
	return &Pool{
		ctx:     context.WithoutCancel(ctx),
		loader:  loader,
		entries: make(map[string]*poolEntry),
	}
}

// Acquire returns the engine for id, creating and loading it on first use.
// report, when not nil, becomes the engine's load reporter; if the engine
// finished loading before, report is called right away with that outcome.
func (p *Pool) Acquire(id, locator string, report ReportFunc) *Engine {
	p.mu.Lock()
	ent, ok := p.entries[id]
	if !ok {
		ent = &poolEntry{engine: New(id, locator, p.loader)}
		p.entries[id] = ent
	}
	ent.refs++

	var finished bool
	var err error
	if report != nil {
		finished, err = ent.engine.attach(report)
	}
	if !ok {
		ent.engine.Load(p.ctx)
	}
	p.mu.Unlock()

	if finished {
		report(id, err)
	}

	return ent.engine
}

// Release drops one reference to id and closes the engine at zero.
// Unknown ids are ignored.
func (p *Pool) Release(id string) {
	p.mu.Lock()
	ent, ok := p.entries[id]
	if !ok {
		p.mu.Unlock()
		return
	}

	ent.refs--
	if ent.refs > 0 {
		p.mu.Unlock()
		return
	}
	delete(p.entries, id)
	p.mu.Unlock()

	ent.engine.Close()
	logger.Tf(p.ctx, "engine %v released", id)
}

// Refs reports the reference count for id.
func (p *Pool) Refs(id string) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	if ent, ok := p.entries[id]; ok {
		return ent.refs
	}

	return 0
}

// Len reports how many engines are alive.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return len(p.entries)
}

// Close closes every engine regardless of references.
func (p *Pool) Close() {
	p.mu.Lock()
	entries := p.entries
	p.entries = make(map[string]*poolEntry)
	p.mu.Unlock()

	for _, ent := range entries {
		ent.engine.Close()
	}
}
