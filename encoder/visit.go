package encoder

import (
	"log/slog"

	"github.com/geoknoesis/aspect-rdf/aspect"
	"github.com/geoknoesis/aspect-rdf/rdf"
	"github.com/geoknoesis/aspect-rdf/store"
	"github.com/geoknoesis/aspect-rdf/vocab"
)

// visit is one traversal of the model. seen stops cycles.
type visit struct {
	enc  *Encoder
	fc   *FileContext
	seen map[aspect.ID]bool
}

func (v *visit) element(el aspect.Element) error {
	return v.elementWith(el, nil)
}

// elementWith visits el. baseType, when non-nil, is the data type of the
// Trait base characteristic for a constraint reached through that Trait.
func (v *visit) elementWith(el aspect.Element, baseType *string) error {
	meta := el.Base()
	if meta.Predefined || v.seen[meta.ID] {
		return nil
	}
	v.seen[meta.ID] = true

	external, err := v.enc.isExternal(v.fc, el)
	if err != nil {
		return wrapVisitError(meta.URN(), err)
	}
	if external {
		v.enc.logger.Debug("skipped external element", slog.String("urn", meta.URN()))
		return nil
	}
	if err := v.write(el, baseType); err != nil {
		return wrapVisitError(meta.URN(), err)
	}
	for _, ref := range el.References() {
		child, ok := v.enc.model.Get(ref)
		if !ok {
			continue
		}
		if err := v.element(child); err != nil {
			return err
		}
	}
	return nil
}

// write encodes el under its current URN and migrates statements written
// under a previous URN.
func (v *visit) write(el aspect.Element, baseType *string) error {
	meta := el.Base()
	urn := meta.URN()
	previous, hadPrevious := v.fc.written[meta.ID]
	v.fc.record(meta.ID, urn)
	v.enc.graph.metrics.recordVisit(el.Kind().String())

	if err := v.enc.resolver.SetPrefix(v.fc, urn); err != nil {
		return err
	}

	var err error
	switch x := el.(type) {
	case *aspect.Aspect:
		err = v.aspect(x)
	case *aspect.Entity:
		err = v.entity(x, x.Properties, x.Extends)
	case *aspect.AbstractEntity:
		err = v.entity(x, x.Properties, x.Extends)
	case *aspect.Property:
		err = v.property(x)
	case *aspect.AbstractProperty:
		err = v.update(x, append(v.baseFields(meta), Field{vocab.ExampleValue, optionalLiteral(x.ExampleValue, "")}))
	case *aspect.Characteristic:
		err = v.characteristic(x)
	case *aspect.Constraint:
		if baseType == nil {
			t := v.enc.rangeBaseType(x.ID)
			baseType = &t
		}
		err = v.constraint(x, *baseType)
	case *aspect.Unit:
		err = v.unit(x)
	case *aspect.Value:
		err = v.update(x, append(v.baseFields(meta), Field{vocab.Value, literalValue(x.Value, "")}))
	case *aspect.EntityInstance:
		err = v.entityInstance(x)
	case *aspect.Operation:
		err = v.operation(x)
	case *aspect.Event:
		err = v.event(x)
	default:
		v.enc.logger.Debug("no encoder for element", slog.String("urn", urn), slog.String("kind", el.Kind().String()))
	}
	if err != nil {
		return err
	}

	if hadPrevious && previous != urn {
		return v.relocate(previous, urn)
	}
	return nil
}

// relocate drops the statements of the old subject and points references to
// it at the new one.
func (v *visit) relocate(from, to string) error {
	old := rdf.NewIRI(from)
	if err := v.enc.updater.Remove(v.fc, old); err != nil {
		return err
	}
	if err := v.enc.graph.repoint(v.fc, old, rdf.NewIRI(to)); err != nil {
		return err
	}
	v.enc.logger.Debug("relocated element", slog.String("from", from), slog.String("to", to))
	return nil
}

func (v *visit) update(el aspect.Element, props Properties) error {
	return v.enc.updater.Update(v.fc, v.enc.subjectOf(el), props)
}

func (v *visit) baseFields(meta *aspect.Meta) Properties {
	return Properties{
		{vocab.PreferredName, Text(meta.PreferredNames)},
		{vocab.Description, Text(meta.Descriptions)},
		{vocab.See, Links(meta.See)},
	}
}

// ref resolves a reference to its URN and declares its namespace. Unresolved
// references yield "".
func (v *visit) ref(id aspect.ID) (string, error) {
	urn := v.enc.urnOf(id)
	if urn == "" {
		return "", nil
	}
	if err := v.enc.resolver.SetPrefix(v.fc, urn); err != nil {
		return "", err
	}
	return urn, nil
}

func (v *visit) refValue(id aspect.ID) (Value, error) {
	urn, err := v.ref(id)
	if err != nil {
		return Value{}, err
	}
	return URN(urn), nil
}

func (v *visit) refItems(ids []aspect.ID) ([]ListItem, error) {
	items := make([]ListItem, 0, len(ids))
	for _, id := range ids {
		urn, err := v.ref(id)
		if err != nil {
			return nil, err
		}
		if urn != "" {
			items = append(items, TermItem(rdf.NewIRI(urn)))
		}
	}
	return items, nil
}

// useItems encodes property uses: plain references, or anonymous nodes when
// the use carries overrides.
func (v *visit) useItems(uses []aspect.PropertyUse) ([]ListItem, error) {
	items := make([]ListItem, 0, len(uses))
	for _, use := range uses {
		urn, err := v.ref(use.Property)
		if err != nil {
			return nil, err
		}
		if urn == "" {
			continue
		}
		property := rdf.NewIRI(urn)
		if !use.HasOverrides() {
			items = append(items, TermItem(property))
			continue
		}
		node := []PredicateObject{{v.enc.vocab.Predicate(vocab.Property), property}}
		if use.Optional {
			node = append(node, PredicateObject{v.enc.vocab.Predicate(vocab.Optional), rdf.NewTypedLiteral("true", vocab.XSDBoolean)})
		}
		if use.NotInPayload {
			node = append(node, PredicateObject{v.enc.vocab.Predicate(vocab.NotInPayload), rdf.NewTypedLiteral("true", vocab.XSDBoolean)})
		}
		if use.PayloadName != "" {
			node = append(node, PredicateObject{v.enc.vocab.Predicate(vocab.PayloadName), rdf.NewLiteral(use.PayloadName)})
		}
		items = append(items, ListItem{Node: node})
	}
	return items, nil
}

// valueItems encodes enumeration-like members. Literals without their own
// datatype take fallback.
func (v *visit) valueItems(values []aspect.Item, fallback string) ([]ListItem, error) {
	items := make([]ListItem, 0, len(values))
	for _, it := range values {
		if it.IsNil() {
			continue
		}
		if it.IsRef() {
			urn, err := v.ref(it.Ref)
			if err != nil {
				return nil, err
			}
			if urn != "" {
				items = append(items, TermItem(rdf.NewIRI(urn)))
			}
			continue
		}
		items = append(items, TermItem(literalTerm(it.Literal, fallback)))
	}
	return items, nil
}

func (v *visit) aspect(a *aspect.Aspect) error {
	if err := v.update(a, v.baseFields(&a.Meta)); err != nil {
		return err
	}
	subject := rdf.NewIRI(a.URN())
	properties, err := v.useItems(a.Properties)
	if err != nil {
		return err
	}
	operations, err := v.refItems(a.Operations)
	if err != nil {
		return err
	}
	events, err := v.refItems(a.Events)
	if err != nil {
		return err
	}
	if err := v.enc.lists.Push(v.fc, subject, vocab.Properties, properties...); err != nil {
		return err
	}
	if err := v.enc.lists.Push(v.fc, subject, vocab.Operations, operations...); err != nil {
		return err
	}
	return v.enc.lists.Push(v.fc, subject, vocab.Events, events...)
}

func (v *visit) entity(el aspect.Element, uses []aspect.PropertyUse, extends aspect.ID) error {
	extendsValue, err := v.refValue(extends)
	if err != nil {
		return err
	}
	if err := v.update(el, append(v.baseFields(el.Base()), Field{vocab.Extends, extendsValue})); err != nil {
		return err
	}
	items, err := v.useItems(uses)
	if err != nil {
		return err
	}
	return v.enc.lists.Push(v.fc, rdf.NewIRI(el.Base().URN()), vocab.Properties, items...)
}

func (v *visit) property(p *aspect.Property) error {
	characteristic, err := v.refValue(p.Characteristic)
	if err != nil {
		return err
	}
	extends, err := v.refValue(p.Extends)
	if err != nil {
		return err
	}
	dt := v.enc.resolveDataType(p.Characteristic)
	example := optionalLiteral(p.ExampleValue, dt.IRI)
	if dt.IsComplex() {
		example = Absent()
	}
	props := append(v.baseFields(&p.Meta),
		Field{vocab.Characteristic, characteristic},
		Field{CharacteristicType, String(dt.IRI)},
		Field{vocab.ExampleValue, example},
		Field{vocab.Extends, extends},
	)
	return v.update(p, props)
}

func (v *visit) unit(u *aspect.Unit) error {
	reference, err := v.refValue(u.ReferenceUnit)
	if err != nil {
		return err
	}
	conversion := String(u.ConversionFactor)
	if isURN(u.ConversionFactor) {
		conversion = URN(u.ConversionFactor)
		if err := v.enc.resolver.SetPrefix(v.fc, u.ConversionFactor); err != nil {
			return err
		}
	}
	numeric := Absent()
	if f, ok := u.NumericConversionFactor.Get(); ok {
		numeric = Typed(f, vocab.XSDDouble)
	}
	for _, kind := range u.QuantityKinds {
		if err := v.enc.resolver.SetPrefix(v.fc, kind); err != nil {
			return err
		}
	}
	props := append(v.baseFields(&u.Meta),
		Field{vocab.Symbol, String(u.Symbol)},
		Field{vocab.CommonCode, String(u.CommonCode)},
		Field{vocab.ConversionFactor, conversion},
		Field{vocab.NumericConversionFactor, numeric},
		Field{vocab.ReferenceUnit, reference},
		Field{vocab.QuantityKind, URNs(u.QuantityKinds)},
	)
	return v.update(u, props)
}

// entityInstance replaces every assignment of the instance. Its type is the
// entity it instantiates.
func (v *visit) entityInstance(ei *aspect.EntityInstance) error {
	subject := rdf.NewIRI(ei.URN())
	if _, err := v.ref(ei.Entity); err != nil {
		return err
	}
	existing, err := v.fc.File.Store.Match(store.Pattern{S: subject})
	if err != nil {
		return wrapStoreError("match", err)
	}
	cleared := make(map[string]bool)
	for _, q := range existing {
		if q.P.Value == vocab.RDFType || cleared[q.P.Value] {
			continue
		}
		cleared[q.P.Value] = true
		if _, err := v.enc.graph.remove(v.fc, store.Pattern{S: subject, P: q.P}); err != nil {
			return err
		}
	}
	if err := v.update(ei, nil); err != nil {
		return err
	}

	for _, a := range ei.Assignments {
		urn, err := v.ref(a.Property)
		if err != nil {
			return err
		}
		if urn == "" {
			continue
		}
		predicate := rdf.NewIRI(urn)
		property, _ := aspect.GetAs[*aspect.Property](v.enc.model, a.Property)
		var characteristic aspect.ID
		if property != nil {
			characteristic = property.Characteristic
		}
		if a.List {
			items, err := v.valueItems(a.Values, v.enc.elementDataType(characteristic).IRI)
			if err != nil {
				return err
			}
			if err := v.enc.lists.PushPredicate(v.fc, subject, predicate, items...); err != nil {
				return err
			}
			continue
		}
		items, err := v.valueItems([]aspect.Item{a.Value}, v.enc.resolveDataType(characteristic).IRI)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			continue
		}
		if err := v.enc.graph.add(v.fc, rdf.Quad{S: subject, P: predicate, O: items[0].Term}); err != nil {
			return err
		}
	}
	return nil
}

func (v *visit) operation(o *aspect.Operation) error {
	output, err := v.refValue(o.Output)
	if err != nil {
		return err
	}
	if err := v.update(o, append(v.baseFields(&o.Meta), Field{vocab.Output, output})); err != nil {
		return err
	}
	items, err := v.useItems(o.Input)
	if err != nil {
		return err
	}
	return v.enc.lists.Push(v.fc, rdf.NewIRI(o.URN()), vocab.Input, items...)
}

func (v *visit) event(ev *aspect.Event) error {
	if err := v.update(ev, v.baseFields(&ev.Meta)); err != nil {
		return err
	}
	items, err := v.useItems(ev.Parameters)
	if err != nil {
		return err
	}
	return v.enc.lists.Push(v.fc, rdf.NewIRI(ev.URN()), vocab.Parameters, items...)
}

// literalTerm converts a model literal, typing it by its own datatype, then
// fallback, then the Go value.
func literalTerm(l aspect.Literal, fallback string) rdf.Literal {
	v := withFallback(literalOf(l), fallback)
	return literal(v, resolveDatatype("", v, ""))
}

func literalValue(l aspect.Literal, fallback string) Value {
	return withFallback(FromLiteral(l), fallback)
}

func withFallback(v Value, fallback string) Value {
	if v.Present() && v.lang == "" && v.datatype == "" && fallback != "" {
		v.datatype = fallback
	}
	return v
}

func optionalLiteral(o aspect.Option[aspect.Literal], fallback string) Value {
	l, ok := o.Get()
	if !ok {
		return Absent()
	}
	return literalValue(l, fallback)
}
