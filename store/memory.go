package store

import (
	"sync"

	"github.com/geoknoesis/aspect-rdf/rdf"
)

// Memory is an in-memory Store. It is safe for concurrent use.
type Memory struct {
	mu    sync.RWMutex
	quads []rdf.Quad
	index map[string]struct{}
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{index: make(map[string]struct{})}
}

// Add stores the quads. Either every quad is stored or, if one is invalid, none is.
func (m *Memory) Add(quads ...rdf.Quad) error {
	for _, q := range quads {
		if !valid(q) {
			return rdf.ErrInvalidStatement
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, q := range quads {
		key := q.String()
		if _, ok := m.index[key]; ok {
			continue
		}
		m.index[key] = struct{}{}
		m.quads = append(m.quads, q)
	}
	return nil
}

// Delete removes the statements matching p and returns how many were removed.
func (m *Memory) Delete(p Pattern) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.quads[:0]
	removed := 0
	for _, q := range m.quads {
		if p.Matches(q) {
			delete(m.index, q.String())
			removed++
			continue
		}
		kept = append(kept, q)
	}
	for i := len(kept); i < len(m.quads); i++ {
		m.quads[i] = rdf.Quad{}
	}
	m.quads = kept
	return removed, nil
}

// Match returns the statements matching p in insertion order.
func (m *Memory) Match(p Pattern) ([]rdf.Quad, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []rdf.Quad
	for _, q := range m.quads {
		if p.Matches(q) {
			out = append(out, q)
		}
	}
	return out, nil
}

// Len returns the number of statements.
func (m *Memory) Len() (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.quads), nil
}
