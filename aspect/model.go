package aspect

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned for IDs that are not in the model.
	ErrNotFound = errors.New("aspect: element not found")
	// ErrDuplicateURN is returned when two elements would share a URN.
	ErrDuplicateURN = errors.New("aspect: duplicate URN")
)

// Model is an arena of elements keyed by ID. Insertion order is kept so that
// iteration is deterministic. A Model is not safe for concurrent mutation.
type Model struct {
	order    []ID
	elements map[ID]Element
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{elements: make(map[ID]Element)}
}

// Add inserts e, assigning a fresh ID when e has none, and returns the ID.
// Adding an element whose ID is already present replaces it in place.
func (m *Model) Add(e Element) ID {
	meta := e.Base()
	if meta.ID == "" {
		meta.ID = NewID()
	}
	if _, exists := m.elements[meta.ID]; !exists {
		m.order = append(m.order, meta.ID)
	}
	m.elements[meta.ID] = e
	return meta.ID
}

// Get returns the element with the given ID.
func (m *Model) Get(id ID) (Element, bool) {
	if id == "" {
		return nil, false
	}
	e, ok := m.elements[id]
	return e, ok
}

// GetAs returns the element with the given ID when it has type T.
func GetAs[T Element](m *Model, id ID) (T, bool) {
	var zero T
	e, ok := m.Get(id)
	if !ok {
		return zero, false
	}
	typed, ok := e.(T)
	return typed, ok
}

// Lookup finds an element by its current URN.
func (m *Model) Lookup(urn string) (Element, bool) {
	for _, id := range m.order {
		e := m.elements[id]
		if e.Base().URN() == urn {
			return e, true
		}
	}
	return nil, false
}

// Elements returns every element in insertion order.
func (m *Model) Elements() []Element {
	out := make([]Element, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.elements[id])
	}
	return out
}

// Len returns the number of elements.
func (m *Model) Len() int { return len(m.order) }

// Remove deletes an element. References to it held by other elements dangle
// until they are edited.
func (m *Model) Remove(id ID) {
	if _, ok := m.elements[id]; !ok {
		return
	}
	delete(m.elements, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

// Rename changes an element's name. Holders of the element keep their ID, so
// they resolve the new URN on their next encode.
func (m *Model) Rename(id ID, name string) error {
	e, ok := m.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	meta := e.Base()
	urn := meta.Namespace + name
	if other, taken := m.Lookup(urn); taken && other.Base().ID != id {
		return fmt.Errorf("%w: %s", ErrDuplicateURN, urn)
	}
	meta.Name = name
	return nil
}

// Parents returns the elements that reference id directly, in insertion order.
func (m *Model) Parents(id ID) []Element {
	var parents []Element
	for _, pid := range m.order {
		e := m.elements[pid]
		for _, ref := range e.References() {
			if ref == id {
				parents = append(parents, e)
				break
			}
		}
	}
	return parents
}
