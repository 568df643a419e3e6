package fractal

import "sync"

// ViewStore keeps one viewport per fractal kind, so switching kinds while
// exploring preserves each kind's position and zoom. Safe for concurrent
// use.
type ViewStore struct {
	mu    sync.RWMutex
	views map[Kind]Viewport
}

// NewViewStore returns a store seeded with every kind's default viewport.
func NewViewStore() *ViewStore {
	views := make(map[Kind]Viewport, len(Kinds()))
	for _, k := range Kinds() {
		views[k] = k.DefaultViewport()
	}
	return &ViewStore{views: views}
}

// Get returns the stored viewport for kind, or the kind's default when
// nothing was stored.
func (s *ViewStore) Get(kind Kind) Viewport {
	s.mu.RLock()
	v, ok := s.views[kind]
	s.mu.RUnlock()
	if !ok {
		return kind.DefaultViewport()
	}
	return v
}

// Set stores a viewport for kind.
func (s *ViewStore) Set(kind Kind, v Viewport) {
	s.mu.Lock()
	s.views[kind] = v
	s.mu.Unlock()
}

// Update applies fn to the stored viewport under the lock and returns the
// updated value.
func (s *ViewStore) Update(kind Kind, fn func(*Viewport)) Viewport {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.views[kind]
	if !ok {
		v = kind.DefaultViewport()
	}
	fn(&v)
	s.views[kind] = v
	return v
}

// Reset restores the default viewport for kind and returns it.
func (s *ViewStore) Reset(kind Kind) Viewport {
	def := kind.DefaultViewport()
	s.mu.Lock()
	s.views[kind] = def
	s.mu.Unlock()
	return def
}
