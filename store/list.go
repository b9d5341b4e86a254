package store

import (
	"fmt"

	"github.com/geoknoesis/aspect-rdf/rdf"
	"github.com/geoknoesis/aspect-rdf/vocab"
)

var (
	rdfFirst = rdf.NewIRI(vocab.RDFFirst)
	rdfRest  = rdf.NewIRI(vocab.RDFRest)
)

// ReadList decodes the RDF list starting at head. rdf:nil decodes to an empty
// slice.
func ReadList(s Store, head rdf.Term) ([]rdf.Term, error) {
	items := []rdf.Term{}
	seen := make(map[string]bool)
	current := head
	for {
		if iri, ok := current.(rdf.IRI); ok && iri.Value == vocab.RDFNil {
			return items, nil
		}
		key := rdf.TermKey(current)
		if seen[key] {
			return nil, fmt.Errorf("%w: cycle at %s", ErrMalformedList, key)
		}
		seen[key] = true

		first, err := Objects(s, current, rdfFirst)
		if err != nil {
			return nil, err
		}
		rest, err := Objects(s, current, rdfRest)
		if err != nil {
			return nil, err
		}
		if len(first) != 1 || len(rest) != 1 {
			return nil, fmt.Errorf("%w: cell %s has %d first and %d rest", ErrMalformedList, key, len(first), len(rest))
		}
		items = append(items, first[0])
		current = rest[0]
	}
}

// ListCells returns the cells of the list starting at head, stopping at
// rdf:nil, a missing cell or a cycle.
func ListCells(s Store, head rdf.Term) ([]rdf.Term, error) {
	var cells []rdf.Term
	seen := make(map[string]bool)
	current := head
	for current != nil {
		if _, ok := current.(rdf.BlankNode); !ok {
			break
		}
		key := rdf.TermKey(current)
		if seen[key] {
			break
		}
		seen[key] = true
		cells = append(cells, current)
		rest, err := Objects(s, current, rdfRest)
		if err != nil {
			return nil, err
		}
		if len(rest) == 0 {
			break
		}
		current = rest[0]
	}
	return cells, nil
}
