package sync

import "sync"

// pathGate serializes work per destination path. Entries are dropped once
// nobody holds or waits for them.
type pathGate struct {
	mu    sync.Mutex
	locks map[string]*gateEntry
}

type gateEntry struct {
	mu   sync.Mutex
	refs int
}

func newPathGate() *pathGate {
	return &pathGate{locks: make(map[string]*gateEntry)}
}

// lock blocks until path is free and returns the matching unlock.
func (g *pathGate) lock(path string) (unlock func()) {
	g.mu.Lock()
	entry, ok := g.locks[path]
	if !ok {
		entry = &gateEntry{}
		g.locks[path] = entry
	}
	entry.refs++
	g.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()
		g.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(g.locks, path)
		}
		g.mu.Unlock()
	}
}

func (g *pathGate) size() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.locks)
}
