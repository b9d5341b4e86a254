package store

import (
	"errors"

	"github.com/geoknoesis/aspect-rdf/rdf"
)

var (
	// ErrMalformedList is returned when an RDF list cell lacks rdf:first or rdf:rest.
	ErrMalformedList = errors.New("store: malformed RDF list")
	// ErrClosed is returned by a store used after Close.
	ErrClosed = errors.New("store: closed")
)

// Store is a set of RDF statements. Adding a statement that is already present
// is a no-op; Match returns statements in insertion order.
type Store interface {
	Add(quads ...rdf.Quad) error
	Delete(p Pattern) (int, error)
	Match(p Pattern) ([]rdf.Quad, error)
	Len() (int, error)
}

// Pattern selects statements. A nil position matches any term; a zero P
// matches any predicate.
type Pattern struct {
	S rdf.Term
	P rdf.IRI
	O rdf.Term
	G rdf.Term
}

// Matches reports whether q satisfies the pattern.
func (p Pattern) Matches(q rdf.Quad) bool {
	if p.S != nil && !rdf.SameTerm(p.S, q.S) {
		return false
	}
	if p.P.Value != "" && p.P.Value != q.P.Value {
		return false
	}
	if p.O != nil && !rdf.SameTerm(p.O, q.O) {
		return false
	}
	if p.G != nil && !rdf.SameTerm(p.G, q.G) {
		return false
	}
	return true
}

func valid(q rdf.Quad) bool {
	return q.S != nil && q.P.Value != "" && q.O != nil
}

// Has reports whether any statement matches p.
func Has(s Store, p Pattern) (bool, error) {
	quads, err := s.Match(p)
	if err != nil {
		return false, err
	}
	return len(quads) > 0, nil
}

// Objects returns the objects of (subject, predicate, *).
func Objects(s Store, subject rdf.Term, predicate rdf.IRI) ([]rdf.Term, error) {
	quads, err := s.Match(Pattern{S: subject, P: predicate})
	if err != nil {
		return nil, err
	}
	out := make([]rdf.Term, 0, len(quads))
	for _, q := range quads {
		out = append(out, q.O)
	}
	return out, nil
}

// All returns every statement of s.
func All(s Store) ([]rdf.Quad, error) {
	return s.Match(Pattern{})
}
