package encoder

import (
	"github.com/geoknoesis/aspect-rdf/rdf"
	"github.com/geoknoesis/aspect-rdf/store"
	"github.com/geoknoesis/aspect-rdf/vocab"
)

// ListItem is a member of an encoded list: a term, or an anonymous node
// described by Node. An item with neither is nil and is dropped.
type ListItem struct {
	Term rdf.Term
	Node []PredicateObject
}

// PredicateObject is one statement of an anonymous node.
type PredicateObject struct {
	Predicate rdf.IRI
	Object    rdf.Term
}

// TermItem wraps a term; a nil term yields a nil item.
func TermItem(t rdf.Term) ListItem { return ListItem{Term: t} }

// IsNil reports whether the item is dropped on encode.
func (i ListItem) IsNil() bool { return i.Term == nil && len(i.Node) == 0 }

// Lists encodes ordered sequences as RDF lists.
type Lists struct {
	graph *graph
}

// Push replaces the list under (owner, key) with items, in order. Nil items
// are dropped; no remaining items writes rdf:nil.
func (l *Lists) Push(fc *FileContext, owner rdf.Term, key string, items ...ListItem) error {
	return l.PushPredicate(fc, owner, l.graph.vocab.Predicate(key), items...)
}

// CreateEmpty replaces the list under (owner, key) with rdf:nil.
func (l *Lists) CreateEmpty(fc *FileContext, owner rdf.Term, key string) error {
	return l.PushPredicate(fc, owner, l.graph.vocab.Predicate(key))
}

// PushPredicate is Push for a predicate outside the vocabulary, such as an
// entity instance's property.
func (l *Lists) PushPredicate(fc *FileContext, owner rdf.Term, predicate rdf.IRI, items ...ListItem) error {
	if !fc.valid() {
		return ErrNoFile
	}
	if _, err := l.graph.remove(fc, store.Pattern{S: owner, P: predicate}); err != nil {
		return err
	}
	kept := items[:0:0]
	for _, item := range items {
		if !item.IsNil() {
			kept = append(kept, item)
		}
	}
	head, quads, err := l.build(fc, kept)
	if err != nil {
		return err
	}
	quads = append(quads, rdf.Quad{S: owner, P: predicate, O: head})
	return l.graph.add(fc, quads...)
}

func (l *Lists) build(fc *FileContext, items []ListItem) (rdf.Term, []rdf.Quad, error) {
	first := rdf.NewIRI(vocab.RDFFirst)
	rest := rdf.NewIRI(vocab.RDFRest)
	var head rdf.Term = rdf.NewIRI(vocab.RDFNil)
	if len(items) == 0 {
		return head, nil, nil
	}

	cells := make([]rdf.BlankNode, len(items))
	for i := range items {
		cell, err := fc.File.NewBlankNode()
		if err != nil {
			return nil, nil, err
		}
		cells[i] = cell
	}

	var quads []rdf.Quad
	for i, item := range items {
		object := item.Term
		if len(item.Node) > 0 {
			node, err := fc.File.NewBlankNode()
			if err != nil {
				return nil, nil, err
			}
			for _, po := range item.Node {
				if po.Object == nil {
					continue
				}
				quads = append(quads, rdf.Quad{S: node, P: po.Predicate, O: po.Object})
			}
			object = node
		}
		var next rdf.Term = rdf.NewIRI(vocab.RDFNil)
		if i+1 < len(cells) {
			next = cells[i+1]
		}
		quads = append(quads,
			rdf.Quad{S: cells[i], P: first, O: object},
			rdf.Quad{S: cells[i], P: rest, O: next},
		)
	}
	head = cells[0]
	return head, quads, nil
}
