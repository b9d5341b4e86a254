package encoder

import (
	"fmt"
	"log/slog"

	"github.com/geoknoesis/aspect-rdf/aspect"
	"github.com/geoknoesis/aspect-rdf/rdf"
	"github.com/geoknoesis/aspect-rdf/store"
	"github.com/geoknoesis/aspect-rdf/vocab"
)

// Encoder writes the elements of a model into file stores.
type Encoder struct {
	model    *aspect.Model
	vocab    *vocab.Vocabulary
	logger   *slog.Logger
	graph    *graph
	updater  *Updater
	lists    *Lists
	resolver *Resolver
}

// Option configures an Encoder.
type Option func(*Encoder)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Encoder) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMetrics records encoder activity in m.
func WithMetrics(m *Metrics) Option {
	return func(e *Encoder) {
		e.graph.metrics = m
	}
}

// New returns an encoder for model using vocabulary v.
func New(model *aspect.Model, v *vocab.Vocabulary, opts ...Option) *Encoder {
	g := newGraph(v, nil)
	e := &Encoder{
		model:   model,
		vocab:   v,
		logger:  slog.Default(),
		graph:   g,
		updater: &Updater{graph: g},
		lists:   &Lists{graph: g},
	}
	for _, opt := range opts {
		opt(e)
	}
	e.resolver = &Resolver{graph: g, logger: e.logger}
	return e
}

// Model returns the encoded model.
func (e *Encoder) Model() *aspect.Model { return e.model }

// Vocabulary returns the vocabulary table.
func (e *Encoder) Vocabulary() *vocab.Vocabulary { return e.vocab }

// Updater returns the property updater.
func (e *Encoder) Updater() *Updater { return e.updater }

// Lists returns the list encoder.
func (e *Encoder) Lists() *Lists { return e.lists }

// Resolver returns the namespace resolver.
func (e *Encoder) Resolver() *Resolver { return e.resolver }

// Visit encodes the element id and the local elements it references into the
// file of fc. It returns nil for predefined elements, which are never written.
func (e *Encoder) Visit(fc *FileContext, id aspect.ID) (aspect.Element, error) {
	if !fc.valid() {
		return nil, ErrNoFile
	}
	el, ok := e.model.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownElement, id)
	}
	if el.Base().Predefined {
		return nil, nil
	}
	v := &visit{enc: e, fc: fc, seen: make(map[aspect.ID]bool)}
	if err := v.element(el); err != nil {
		return nil, err
	}
	return el, nil
}

// VisitAll visits every element of the model in insertion order.
func (e *Encoder) VisitAll(fc *FileContext) error {
	if !fc.valid() {
		return ErrNoFile
	}
	v := &visit{enc: e, fc: fc, seen: make(map[aspect.ID]bool)}
	for _, el := range e.model.Elements() {
		if err := v.element(el); err != nil {
			return err
		}
	}
	return nil
}

// Rename renames the element and re-encodes it under its new URN.
func (e *Encoder) Rename(fc *FileContext, id aspect.ID, name string) error {
	if err := e.model.Rename(id, name); err != nil {
		return err
	}
	_, err := e.Visit(fc, id)
	return err
}

// Delete removes every statement the file holds about the element. References
// to it from other subjects are left in place.
func (e *Encoder) Delete(fc *FileContext, id aspect.ID) error {
	if !fc.valid() {
		return ErrNoFile
	}
	el, ok := e.model.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownElement, id)
	}
	urns := []string{el.Base().URN()}
	if written, ok := fc.written[id]; ok && written != urns[0] {
		urns = append(urns, written)
	}
	for _, urn := range urns {
		if err := e.updater.Remove(fc, rdf.NewIRI(urn)); err != nil {
			return wrapVisitError(urn, err)
		}
	}
	delete(fc.written, id)
	return nil
}

// isExternal reports whether el belongs to another file: it is flagged
// external, or it lives in a foreign namespace and a loaded file defines it.
func (e *Encoder) isExternal(fc *FileContext, el aspect.Element) (bool, error) {
	meta := el.Base()
	if meta.External {
		return true, nil
	}
	if fc.File.Namespace == "" || meta.Namespace == fc.File.Namespace {
		return false, nil
	}
	for _, loaded := range fc.Loaded {
		if loaded == nil || loaded == fc.File {
			continue
		}
		defined, err := loaded.Defines(meta.URN())
		if err != nil {
			return false, err
		}
		if defined {
			return true, nil
		}
	}
	return false, nil
}

// urnOf returns the URN of a referenced element, or "" when it is unresolved.
func (e *Encoder) urnOf(id aspect.ID) string {
	el, ok := e.model.Get(id)
	if !ok {
		return ""
	}
	return el.Base().URN()
}

// typeOf returns the rdf:type object of el.
func (e *Encoder) typeOf(el aspect.Element) rdf.IRI {
	switch x := el.(type) {
	case *aspect.Characteristic:
		if x.Variant == nil {
			return e.vocab.Class(aspect.KindCharacteristic.String())
		}
		return e.vocab.CharacteristicClass(x.ClassName())
	case *aspect.Constraint:
		if x.Variant == nil {
			return e.vocab.Class(aspect.KindConstraint.String())
		}
		return e.vocab.CharacteristicClass(x.ClassName())
	case *aspect.EntityInstance:
		if urn := e.urnOf(x.Entity); urn != "" {
			return rdf.NewIRI(urn)
		}
		return rdf.IRI{}
	default:
		return e.vocab.Class(el.Kind().String())
	}
}

func (e *Encoder) subjectOf(el aspect.Element) Subject {
	return Subject{IRI: rdf.NewIRI(el.Base().URN()), Type: e.typeOf(el)}
}

// defined reports whether the file already holds statements about urn.
func defined(fc *FileContext, urn string) (bool, error) {
	ok, err := store.Has(fc.File.Store, store.Pattern{S: rdf.NewIRI(urn)})
	return ok, wrapStoreError("match", err)
}
