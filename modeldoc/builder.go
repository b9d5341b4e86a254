package modeldoc

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/geoknoesis/aspect-rdf/aspect"
	"github.com/geoknoesis/aspect-rdf/vocab"
)

var (
	// ErrNoNamespace indicates a document without a namespace.
	ErrNoNamespace = errors.New("modeldoc: document has no namespace")
	// ErrUnknownKind indicates an element kind outside the meta model.
	ErrUnknownKind = errors.New("modeldoc: unknown element kind")
	// ErrDuplicate indicates two elements with the same URN.
	ErrDuplicate = errors.New("modeldoc: duplicate element")
	// ErrUnresolved indicates a reference to a name the namespace does not define.
	ErrUnresolved = errors.New("modeldoc: unresolved reference")
	// ErrInvalid indicates a field value that does not fit its element.
	ErrInvalid = errors.New("modeldoc: invalid value")
)

// Builder adds documents to a model. References between documents resolve
// once both are added; a reference into a namespace that no document defines
// becomes an external placeholder element.
type Builder struct {
	model        *aspect.Model
	vocab        *vocab.Vocabulary
	logger       *slog.Logger
	placeholders map[string]aspect.ID
}

// NewBuilder returns a builder for model. The predefined SAMM-C
// characteristics are added to the model first.
func NewBuilder(model *aspect.Model, v *vocab.Vocabulary, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	model.AddPredefined(v)
	return &Builder{
		model:        model,
		vocab:        v,
		logger:       logger,
		placeholders: make(map[string]aspect.ID),
	}
}

// Model returns the model being built.
func (b *Builder) Model() *aspect.Model { return b.model }

// Add builds doc into the model and returns the IDs of its elements in
// document order. Elements of an external document are flagged External.
func (b *Builder) Add(doc *Document, external bool) ([]aspect.ID, error) {
	if doc.Namespace == "" {
		return nil, ErrNoNamespace
	}
	if !strings.HasSuffix(doc.Namespace, "#") {
		return nil, fmt.Errorf("%w: namespace %q must end with '#'", ErrInvalid, doc.Namespace)
	}

	ids := make([]aspect.ID, len(doc.Elements))
	for i := range doc.Elements {
		id, err := b.declare(doc, &doc.Elements[i], external)
		if err != nil {
			return nil, elementError(&doc.Elements[i], err)
		}
		ids[i] = id
	}
	for i := range doc.Elements {
		r := &resolver{b: b, doc: doc}
		if err := r.fill(ids[i], &doc.Elements[i]); err != nil {
			return nil, elementError(&doc.Elements[i], err)
		}
	}
	b.logger.Debug("built model document",
		slog.String("namespace", doc.Namespace),
		slog.Int("elements", len(ids)),
		slog.Bool("external", external))
	return ids, nil
}

func elementError(el *Element, err error) error {
	return fmt.Errorf("%s %q: %w", el.Kind, el.Name, err)
}

// declare adds an empty element of the right kind. An external placeholder
// with the same URN is replaced in place so that references to it hold.
func (b *Builder) declare(doc *Document, el *Element, external bool) (aspect.ID, error) {
	if el.Name == "" {
		return "", fmt.Errorf("%w: missing name", ErrInvalid)
	}
	kind, ok := aspect.ParseKind(el.Kind)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, el.Kind)
	}
	meta := aspect.Meta{Namespace: doc.Namespace, Name: el.Name, External: external}
	urn := meta.URN()
	if id, ok := b.placeholders[urn]; ok {
		meta.ID = id
		delete(b.placeholders, urn)
	} else if _, exists := b.model.Lookup(urn); exists {
		return "", fmt.Errorf("%w: %s", ErrDuplicate, urn)
	}
	return b.model.Add(newElement(kind, meta)), nil
}

func newElement(kind aspect.Kind, meta aspect.Meta) aspect.Element {
	switch kind {
	case aspect.KindAspect:
		return &aspect.Aspect{Meta: meta}
	case aspect.KindEntity:
		return &aspect.Entity{Meta: meta}
	case aspect.KindAbstractEntity:
		return &aspect.AbstractEntity{Meta: meta}
	case aspect.KindProperty:
		return &aspect.Property{Meta: meta}
	case aspect.KindAbstractProperty:
		return &aspect.AbstractProperty{Meta: meta}
	case aspect.KindCharacteristic:
		return &aspect.Characteristic{Meta: meta}
	case aspect.KindConstraint:
		return &aspect.Constraint{Meta: meta}
	case aspect.KindUnit:
		return &aspect.Unit{Meta: meta}
	case aspect.KindValue:
		return &aspect.Value{Meta: meta}
	case aspect.KindEntityInstance:
		return &aspect.EntityInstance{Meta: meta}
	case aspect.KindOperation:
		return &aspect.Operation{Meta: meta}
	default:
		return &aspect.Event{Meta: meta}
	}
}

// Expand turns a reference as written in doc into a URN.
func (b *Builder) Expand(doc *Document, ref string) (string, error) {
	if strings.Contains(ref, "#") {
		return ref, nil
	}
	if i := strings.IndexByte(ref, ':'); i >= 0 {
		prefix, local := ref[:i], ref[i+1:]
		if ns, ok := doc.Prefixes[prefix]; ok {
			return ns + local, nil
		}
		if ns, ok := b.vocab.Prefixes()[prefix]; ok {
			return ns + local, nil
		}
		return "", fmt.Errorf("%w: unknown prefix in %q", ErrUnresolved, ref)
	}
	return doc.Namespace + ref, nil
}

// lookup resolves a reference to an element, creating predefined units and
// external placeholders on demand.
func (b *Builder) lookup(doc *Document, ref string, kind aspect.Kind) (aspect.ID, error) {
	if ref == "" {
		return "", nil
	}
	urn, err := b.Expand(doc, ref)
	if err != nil {
		return "", err
	}
	if el, ok := b.model.Lookup(urn); ok {
		return el.Base().ID, nil
	}
	ns := aspect.Namespace(urn)
	meta := aspect.Meta{Namespace: ns, Name: aspect.LocalName(urn)}
	switch {
	case ns == b.vocab.Unit() && kind == aspect.KindUnit:
		meta.Predefined = true
		return b.model.Add(&aspect.Unit{Meta: meta}), nil
	case ns == doc.Namespace || b.vocab.IsVocabularyNamespace(ns):
		return "", fmt.Errorf("%w: %s", ErrUnresolved, urn)
	}
	meta.External = true
	id := b.model.Add(newElement(kind, meta))
	b.placeholders[urn] = id
	b.logger.Debug("created external placeholder", slog.String("urn", urn), slog.String("kind", kind.String()))
	return id, nil
}
