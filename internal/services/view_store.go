package services

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var ErrViewNotFound = errors.New("view not found")

type viewEntry struct {
	viewerID   string
	collection *Collection
	lastSeen   time.Time
}

// ViewStore holds the mounted views in memory, keyed by view id. A view is
// only visible to the viewer who mounted it.
type ViewStore struct {
	mu      sync.RWMutex
	views   map[string]*viewEntry
	clock   func() time.Time
	metrics *Metrics
}

func NewViewStore(clock func() time.Time, metrics *Metrics) *ViewStore {
	if clock == nil {
		clock = time.Now
	}
	return &ViewStore{
		views:   make(map[string]*viewEntry),
		clock:   clock,
		metrics: metrics,
	}
}

// Add registers a mounted collection and returns its view id.
func (s *ViewStore) Add(viewerID string, c *Collection) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New().String()
	s.views[id] = &viewEntry{
		viewerID:   viewerID,
		collection: c,
		lastSeen:   s.clock(),
	}
	s.metrics.ViewMounted()
	return id
}

// Get returns the view and marks it as recently used.
func (s *ViewStore) Get(id, viewerID string) (*Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.views[id]
	if !ok || v.viewerID != viewerID {
		return nil, ErrViewNotFound
	}
	v.lastSeen = s.clock()
	return v.collection, nil
}

// Remove unmounts the view, cancelling whatever it has in flight.
func (s *ViewStore) Remove(id, viewerID string) error {
	s.mu.Lock()
	v, ok := s.views[id]
	if !ok || v.viewerID != viewerID {
		s.mu.Unlock()
		return ErrViewNotFound
	}
	delete(s.views, id)
	s.mu.Unlock()

	v.collection.Unmount()
	s.metrics.ViewUnmounted()
	return nil
}

// Sweep unmounts views idle for longer than ttl and returns how many it
// removed.
func (s *ViewStore) Sweep(ttl time.Duration) int {
	cutoff := s.clock().Add(-ttl)

	s.mu.Lock()
	var idle []*viewEntry
	for id, v := range s.views {
		if v.lastSeen.Before(cutoff) {
			idle = append(idle, v)
			delete(s.views, id)
		}
	}
	s.mu.Unlock()

	for _, v := range idle {
		v.collection.Unmount()
		s.metrics.ViewUnmounted()
	}
	return len(idle)
}

// CloseAll unmounts every view, on shutdown.
func (s *ViewStore) CloseAll() {
	s.mu.Lock()
	views := s.views
	s.views = make(map[string]*viewEntry)
	s.mu.Unlock()

	for _, v := range views {
		v.collection.Unmount()
		s.metrics.ViewUnmounted()
	}
}

func (s *ViewStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.views)
}
