package service

import "sync"

// writeGate serializes persistence for the same key and lets a completion
// detect that the editor state it was computed against has since been
// replaced (by a reload or revert). Keys are entity ids prefixed with their
// kind, e.g. "node:<id>".
type writeGate struct {
	mu    sync.Mutex
	keys  map[string]*gateKey
	epoch uint64
}

type gateKey struct {
	mu   sync.Mutex
	gen  uint64
	refs int
}

// ticket is held for the duration of one write.
type ticket struct {
	gate  *writeGate
	key   string
	entry *gateKey
	gen   uint64
	epoch uint64
}

func newWriteGate() *writeGate {
	return &writeGate{keys: make(map[string]*gateKey)}
}

// acquire blocks until no other write for key is in flight.
func (g *writeGate) acquire(key string) *ticket {
	g.mu.Lock()
	k, ok := g.keys[key]
	if !ok {
		k = &gateKey{}
		g.keys[key] = k
	}
	k.refs++
	g.mu.Unlock()

	k.mu.Lock()

	g.mu.Lock()
	k.gen++
	t := &ticket{gate: g, key: key, entry: k, gen: k.gen, epoch: g.epoch}
	g.mu.Unlock()
	return t
}

// invalidate marks every in-flight ticket stale.
func (g *writeGate) invalidate() {
	g.mu.Lock()
	g.epoch++
	g.mu.Unlock()
}

// invalidateKey marks in-flight tickets for key stale.
func (g *writeGate) invalidateKey(key string) {
	g.mu.Lock()
	if k, ok := g.keys[key]; ok {
		k.gen++
	}
	g.mu.Unlock()
}

// current reports whether the ticket's view of editor state is still the
// latest one. A stale ticket's completion must not touch editor state.
func (t *ticket) current() bool {
	t.gate.mu.Lock()
	defer t.gate.mu.Unlock()
	return t.gen == t.entry.gen && t.epoch == t.gate.epoch
}

func (t *ticket) release() {
	t.entry.mu.Unlock()

	t.gate.mu.Lock()
	t.entry.refs--
	if t.entry.refs == 0 {
		delete(t.gate.keys, t.key)
	}
	t.gate.mu.Unlock()
}
