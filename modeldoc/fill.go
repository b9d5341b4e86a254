package modeldoc

import (
	"fmt"
	"log/slog"

	"github.com/geoknoesis/aspect-rdf/aspect"
	"github.com/geoknoesis/aspect-rdf/vocab"
)

// resolver fills declared elements from their document entries.
type resolver struct {
	b   *Builder
	doc *Document
}

func (r *resolver) ref(name string, kind aspect.Kind) (aspect.ID, error) {
	return r.b.lookup(r.doc, name, kind)
}

func (r *resolver) refs(names []string, kind aspect.Kind) ([]aspect.ID, error) {
	ids := make([]aspect.ID, 0, len(names))
	for _, name := range names {
		id, err := r.ref(name, kind)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *resolver) uses(uses []Use) ([]aspect.PropertyUse, error) {
	out := make([]aspect.PropertyUse, 0, len(uses))
	for _, u := range uses {
		id, err := r.ref(u.Property, aspect.KindProperty)
		if err != nil {
			return nil, err
		}
		out = append(out, aspect.PropertyUse{
			Property:     id,
			Optional:     u.Optional,
			NotInPayload: u.NotInPayload,
			PayloadName:  u.PayloadName,
		})
	}
	return out, nil
}

func (r *resolver) literal(l *Literal) (aspect.Literal, error) {
	if l == nil {
		return aspect.Literal{}, nil
	}
	out := aspect.Literal{Value: l.Value, Lang: l.Lang}
	if l.Datatype != "" {
		datatype, err := r.b.Expand(r.doc, l.Datatype)
		if err != nil {
			return aspect.Literal{}, err
		}
		out.Datatype = datatype
	}
	return out, nil
}

func (r *resolver) optionalLiteral(l *Literal) (aspect.Option[aspect.Literal], error) {
	if l == nil || l.Value == nil {
		return aspect.None[aspect.Literal](), nil
	}
	lit, err := r.literal(l)
	if err != nil {
		return aspect.None[aspect.Literal](), err
	}
	return aspect.Some(lit), nil
}

func (r *resolver) item(it Item, kind aspect.Kind) (aspect.Item, error) {
	if it.Ref != "" {
		id, err := r.ref(it.Ref, kind)
		return aspect.RefItem(id), err
	}
	lit, err := r.literal(&it.Literal)
	return aspect.Item{Literal: lit}, err
}

func (r *resolver) items(items []Item, kind aspect.Kind) ([]aspect.Item, error) {
	out := make([]aspect.Item, 0, len(items))
	for _, it := range items {
		item, err := r.item(it, kind)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

// dataType resolves a scalar datatype IRI or an entity reference.
func (r *resolver) dataType(ref string) (aspect.DataType, error) {
	if ref == "" {
		return aspect.DataType{}, nil
	}
	urn, err := r.b.Expand(r.doc, ref)
	if err != nil {
		return aspect.DataType{}, err
	}
	if r.b.vocab.IsScalarType(urn) {
		return aspect.Scalar(urn), nil
	}
	id, err := r.ref(ref, aspect.KindEntity)
	if err != nil {
		return aspect.DataType{}, err
	}
	el, _ := r.b.model.Get(id)
	switch el.(type) {
	case *aspect.Entity, *aspect.AbstractEntity:
		return aspect.EntityType(id), nil
	}
	return aspect.DataType{}, fmt.Errorf("%w: dataType %q is neither a scalar nor an entity", ErrInvalid, ref)
}

func (r *resolver) fill(id aspect.ID, src *Element) error {
	el, _ := r.b.model.Get(id)
	meta := el.Base()
	meta.PreferredNames = aspect.LangString(src.PreferredName)
	meta.Descriptions = aspect.LangString(src.Description)
	meta.See = src.See

	var err error
	switch x := el.(type) {
	case *aspect.Aspect:
		if x.Properties, err = r.uses(src.Properties); err != nil {
			return err
		}
		if x.Operations, err = r.refs(src.Operations, aspect.KindOperation); err != nil {
			return err
		}
		x.Events, err = r.refs(src.Events, aspect.KindEvent)
	case *aspect.Entity:
		if x.Properties, err = r.uses(src.Properties); err != nil {
			return err
		}
		x.Extends, err = r.ref(src.Extends, aspect.KindAbstractEntity)
	case *aspect.AbstractEntity:
		if x.Properties, err = r.uses(src.Properties); err != nil {
			return err
		}
		x.Extends, err = r.ref(src.Extends, aspect.KindAbstractEntity)
	case *aspect.Property:
		if x.Characteristic, err = r.ref(src.Characteristic, aspect.KindCharacteristic); err != nil {
			return err
		}
		if x.Extends, err = r.ref(src.Extends, aspect.KindAbstractProperty); err != nil {
			return err
		}
		x.ExampleValue, err = r.optionalLiteral(src.ExampleValue)
	case *aspect.AbstractProperty:
		x.ExampleValue, err = r.optionalLiteral(src.ExampleValue)
	case *aspect.Characteristic:
		err = r.characteristic(x, src)
	case *aspect.Constraint:
		err = r.constraint(x, src)
	case *aspect.Unit:
		err = r.unit(x, src)
	case *aspect.Value:
		x.Value, err = r.literal(src.Value)
	case *aspect.EntityInstance:
		err = r.entityInstance(x, src)
	case *aspect.Operation:
		if x.Input, err = r.uses(src.Input); err != nil {
			return err
		}
		x.Output, err = r.ref(src.Output, aspect.KindProperty)
	case *aspect.Event:
		x.Parameters, err = r.uses(src.Parameters)
	}
	return err
}

func (r *resolver) characteristic(c *aspect.Characteristic, src *Element) error {
	var err error
	if c.DataType, err = r.dataType(src.DataType); err != nil {
		return err
	}
	switch src.Class {
	case "", "Characteristic":
		c.Variant = nil
	case "Trait":
		var t aspect.Trait
		if t.BaseCharacteristic, err = r.ref(src.BaseCharacteristic, aspect.KindCharacteristic); err != nil {
			return err
		}
		if t.Constraints, err = r.refs(src.Constraints, aspect.KindConstraint); err != nil {
			return err
		}
		c.Variant = t
	case "Quantifiable", "Measurement", "Duration":
		unit, err := r.ref(src.Unit, aspect.KindUnit)
		if err != nil {
			return err
		}
		switch src.Class {
		case "Quantifiable":
			c.Variant = aspect.Quantifiable{Unit: unit}
		case "Measurement":
			c.Variant = aspect.Measurement{Unit: unit}
		default:
			c.Variant = aspect.Duration{Unit: unit}
		}
	case "Enumeration":
		values, err := r.items(src.Values, aspect.KindValue)
		if err != nil {
			return err
		}
		c.Variant = aspect.Enumeration{Values: values}
	case "State":
		values, err := r.items(src.Values, aspect.KindValue)
		if err != nil {
			return err
		}
		state := aspect.State{Values: values}
		if src.DefaultValue != nil {
			def, err := r.item(*src.DefaultValue, aspect.KindValue)
			if err != nil {
				return err
			}
			state.DefaultValue = aspect.Some(def)
		}
		c.Variant = state
	case "Collection", "List", "Set", "SortedSet", "TimeSeries":
		element, err := r.ref(src.ElementCharacteristic, aspect.KindCharacteristic)
		if err != nil {
			return err
		}
		c.Variant = aspect.Collection{Kind: aspect.CollectionKind(src.Class), ElementCharacteristic: element}
	case "Either":
		var e aspect.Either
		if e.Left, err = r.ref(src.Left, aspect.KindCharacteristic); err != nil {
			return err
		}
		if e.Right, err = r.ref(src.Right, aspect.KindCharacteristic); err != nil {
			return err
		}
		c.Variant = e
	case "StructuredValue":
		elements, err := r.items(src.StructureElements, aspect.KindProperty)
		if err != nil {
			return err
		}
		c.Variant = aspect.StructuredValue{DeconstructionRule: src.DeconstructionRule, Elements: elements}
	case "SingleEntity":
		c.Variant = aspect.SingleEntity{}
	case "Code":
		c.Variant = aspect.Code{}
	default:
		r.b.logger.Warn("unknown characteristic class", slog.String("class", src.Class), slog.String("name", src.Name))
		c.Variant = aspect.OtherCharacteristic{Class: src.Class}
	}
	return nil
}

func (r *resolver) constraint(c *aspect.Constraint, src *Element) error {
	switch src.Class {
	case "", "Constraint":
		c.Variant = nil
	case "RangeConstraint":
		c.Variant = aspect.RangeConstraint{
			MinValue:   scalar(src.MinValue),
			MaxValue:   scalar(src.MaxValue),
			LowerBound: vocab.BoundDefinition(src.LowerBoundDefinition),
			UpperBound: vocab.BoundDefinition(src.UpperBoundDefinition),
		}
	case "LengthConstraint":
		minValue, err := unsigned(src.MinValue)
		if err != nil {
			return err
		}
		maxValue, err := unsigned(src.MaxValue)
		if err != nil {
			return err
		}
		c.Variant = aspect.LengthConstraint{MinValue: minValue, MaxValue: maxValue}
	case "FixedPointConstraint":
		c.Variant = aspect.FixedPointConstraint{Scale: optional(src.Scale), Integer: optional(src.Integer)}
	case "LanguageConstraint":
		c.Variant = aspect.LanguageConstraint{LanguageCode: src.LanguageCode}
	case "LocaleConstraint":
		c.Variant = aspect.LocaleConstraint{LocaleCode: src.LocaleCode}
	case "EncodingConstraint":
		c.Variant = aspect.EncodingConstraint{Value: stringValue(src.Value)}
	case "RegularExpressionConstraint":
		c.Variant = aspect.RegularExpressionConstraint{Value: stringValue(src.Value)}
	default:
		r.b.logger.Warn("unknown constraint class", slog.String("class", src.Class), slog.String("name", src.Name))
		c.Variant = aspect.OtherConstraint{Class: src.Class}
	}
	return nil
}

func (r *resolver) unit(u *aspect.Unit, src *Element) error {
	var err error
	u.Symbol = src.Symbol
	u.CommonCode = src.CommonCode
	u.ConversionFactor = src.ConversionFactor
	u.NumericConversionFactor = optional(src.NumericConversionFactor)
	if u.ReferenceUnit, err = r.ref(src.ReferenceUnit, aspect.KindUnit); err != nil {
		return err
	}
	u.QuantityKinds = make([]string, 0, len(src.QuantityKinds))
	for _, kind := range src.QuantityKinds {
		urn, err := r.b.Expand(r.doc, kind)
		if err != nil {
			return err
		}
		u.QuantityKinds = append(u.QuantityKinds, urn)
	}
	return nil
}

func (r *resolver) entityInstance(ei *aspect.EntityInstance, src *Element) error {
	var err error
	if ei.Entity, err = r.ref(src.Entity, aspect.KindEntity); err != nil {
		return err
	}
	ei.Assignments = make([]aspect.Assignment, 0, len(src.Assignments))
	for _, a := range src.Assignments {
		property, err := r.ref(a.Property, aspect.KindProperty)
		if err != nil {
			return err
		}
		assignment := aspect.Assignment{Property: property}
		switch {
		case a.Values != nil:
			assignment.List = true
			if assignment.Values, err = r.items(a.Values, aspect.KindEntityInstance); err != nil {
				return err
			}
		case a.Value != nil:
			if assignment.Value, err = r.item(*a.Value, aspect.KindEntityInstance); err != nil {
				return err
			}
		}
		ei.Assignments = append(ei.Assignments, assignment)
	}
	return nil
}

func scalar(l *Literal) aspect.Option[any] {
	if l == nil || l.Value == nil {
		return aspect.None[any]()
	}
	return aspect.Some(l.Value)
}

func unsigned(l *Literal) (aspect.Option[uint64], error) {
	if l == nil || l.Value == nil {
		return aspect.None[uint64](), nil
	}
	switch v := l.Value.(type) {
	case int:
		if v >= 0 {
			return aspect.Some(uint64(v)), nil
		}
	case uint64:
		return aspect.Some(v), nil
	}
	return aspect.None[uint64](), fmt.Errorf("%w: %v is not a non-negative integer", ErrInvalid, l.Value)
}

func optional[T any](v *T) aspect.Option[T] {
	if v == nil {
		return aspect.None[T]()
	}
	return aspect.Some(*v)
}

func stringValue(l *Literal) string {
	if l == nil || l.Value == nil {
		return ""
	}
	if s, ok := l.Value.(string); ok {
		return s
	}
	return fmt.Sprint(l.Value)
}
