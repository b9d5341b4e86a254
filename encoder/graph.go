package encoder

import (
	"github.com/geoknoesis/aspect-rdf/aspect"
	"github.com/geoknoesis/aspect-rdf/rdf"
	"github.com/geoknoesis/aspect-rdf/store"
	"github.com/geoknoesis/aspect-rdf/vocab"
)

// graph is the write path shared by the encoder components. It declares the
// vocabulary namespaces a statement uses, keeps blank-node structures from
// leaking on removal, and feeds the metrics.
type graph struct {
	vocab   *vocab.Vocabulary
	metrics *Metrics
	aliases map[string]string // vocabulary namespace to standard alias
}

func newGraph(v *vocab.Vocabulary, metrics *Metrics) *graph {
	aliases := make(map[string]string)
	for alias, ns := range v.Prefixes() {
		aliases[ns] = alias
	}
	return &graph{vocab: v, metrics: metrics, aliases: aliases}
}

func (g *graph) add(fc *FileContext, quads ...rdf.Quad) error {
	for _, q := range quads {
		g.declare(fc, q.P, q.O)
	}
	if len(quads) == 0 {
		return nil
	}
	if err := fc.File.Store.Add(quads...); err != nil {
		return wrapStoreError("add", err)
	}
	g.metrics.recordAdded(len(quads))
	return nil
}

// remove deletes the statements matching p together with the blank-node
// structures they point to, such as list cells and property-use nodes.
func (g *graph) remove(fc *FileContext, p store.Pattern) (int, error) {
	matched, err := fc.File.Store.Match(p)
	if err != nil {
		return 0, wrapStoreError("match", err)
	}
	if len(matched) == 0 {
		return 0, nil
	}
	n, err := fc.File.Store.Delete(p)
	if err != nil {
		return 0, wrapStoreError("delete", err)
	}
	g.metrics.recordRemoved(n)
	seen := make(map[string]bool)
	for _, q := range matched {
		if node, ok := q.O.(rdf.BlankNode); ok {
			removed, err := g.removeBlank(fc, node, seen)
			if err != nil {
				return n, err
			}
			n += removed
		}
	}
	return n, nil
}

func (g *graph) removeBlank(fc *FileContext, node rdf.BlankNode, seen map[string]bool) (int, error) {
	if seen[node.ID] {
		return 0, nil
	}
	seen[node.ID] = true
	// A blank node still referenced from elsewhere is shared and stays.
	referenced, err := store.Has(fc.File.Store, store.Pattern{O: node})
	if err != nil || referenced {
		return 0, wrapStoreError("match", err)
	}
	return g.removeFrom(fc, store.Pattern{S: node}, seen)
}

func (g *graph) removeFrom(fc *FileContext, p store.Pattern, seen map[string]bool) (int, error) {
	matched, err := fc.File.Store.Match(p)
	if err != nil {
		return 0, wrapStoreError("match", err)
	}
	n, err := fc.File.Store.Delete(p)
	if err != nil {
		return 0, wrapStoreError("delete", err)
	}
	g.metrics.recordRemoved(n)
	for _, q := range matched {
		if node, ok := q.O.(rdf.BlankNode); ok {
			removed, err := g.removeBlank(fc, node, seen)
			if err != nil {
				return n, err
			}
			n += removed
		}
	}
	return n, nil
}

// repoint rewrites statements that use from as object or predicate so that
// they use to instead.
func (g *graph) repoint(fc *FileContext, from, to rdf.IRI) error {
	asObject, err := fc.File.Store.Match(store.Pattern{O: from})
	if err != nil {
		return wrapStoreError("match", err)
	}
	asPredicate, err := fc.File.Store.Match(store.Pattern{P: from})
	if err != nil {
		return wrapStoreError("match", err)
	}
	if len(asObject)+len(asPredicate) == 0 {
		return nil
	}
	var moved []rdf.Quad
	for _, q := range asObject {
		if q.P == from {
			continue
		}
		q.O = to
		moved = append(moved, q)
	}
	for _, q := range asPredicate {
		q.P = to
		if iri, ok := q.O.(rdf.IRI); ok && iri == from {
			q.O = to
		}
		moved = append(moved, q)
	}
	for _, p := range []store.Pattern{{O: from}, {P: from}} {
		n, err := fc.File.Store.Delete(p)
		if err != nil {
			return wrapStoreError("delete", err)
		}
		g.metrics.recordRemoved(n)
	}
	return g.add(fc, moved...)
}

// declare declares the vocabulary namespaces used by a predicate and object.
func (g *graph) declare(fc *FileContext, p rdf.IRI, o rdf.Term) {
	g.declareVocabulary(fc, p)
	switch o := o.(type) {
	case rdf.IRI:
		g.declareVocabulary(fc, o)
	case rdf.Literal:
		g.declareVocabulary(fc, o.Datatype)
	}
}

func (g *graph) declareVocabulary(fc *FileContext, iri rdf.IRI) {
	if iri.Value == "" {
		return
	}
	ns := aspect.Namespace(iri.Value)
	if alias, ok := g.aliases[ns]; ok && !fc.File.Prefixes.Declared(ns) {
		fc.File.Prefixes.Declare(alias, ns)
	}
}
