package encoder

import (
	"log/slog"

	"github.com/geoknoesis/aspect-rdf/aspect"
	"github.com/geoknoesis/aspect-rdf/rdf"
	"github.com/geoknoesis/aspect-rdf/vocab"
)

// characteristicVariantKeys are the keys owned by characteristic variants.
// Keys not used by the current variant are cleared on every visit.
var characteristicVariantKeys = []string{
	vocab.BaseCharacteristic,
	vocab.Constraint,
	vocab.Unit,
	vocab.Values,
	vocab.DefaultValue,
	vocab.ElementCharacteristic,
	vocab.Left,
	vocab.Right,
	vocab.DeconstructionRule,
	vocab.Elements,
}

func characteristicKeysOf(variant aspect.CharacteristicVariant) []string {
	switch variant.(type) {
	case aspect.Trait:
		return []string{vocab.BaseCharacteristic, vocab.Constraint}
	case aspect.Quantifiable, aspect.Measurement, aspect.Duration:
		return []string{vocab.Unit}
	case aspect.Enumeration:
		return []string{vocab.Values}
	case aspect.State:
		return []string{vocab.Values, vocab.DefaultValue}
	case aspect.Collection:
		return []string{vocab.ElementCharacteristic}
	case aspect.Either:
		return []string{vocab.Left, vocab.Right}
	case aspect.StructuredValue:
		return []string{vocab.DeconstructionRule, vocab.Elements}
	default:
		return nil
	}
}

func (v *visit) characteristic(c *aspect.Characteristic) error {
	dataType, err := v.dataTypeValue(c.DataType)
	if err != nil {
		return err
	}
	if err := v.update(c, append(v.baseFields(&c.Meta), Field{vocab.DataType, dataType})); err != nil {
		return err
	}
	if err := v.clearStaleKeys(c); err != nil {
		return err
	}
	if err := v.characteristicVariant(c); err != nil {
		return err
	}
	return v.propagate(c)
}

func (v *visit) dataTypeValue(dt aspect.DataType) (Value, error) {
	if dt.IsComplex() {
		return v.refValue(dt.Entity)
	}
	return URN(dt.IRI), nil
}

func (v *visit) clearStaleKeys(c *aspect.Characteristic) error {
	if _, unknown := c.Variant.(aspect.OtherCharacteristic); unknown {
		return nil
	}
	used := make(map[string]bool)
	for _, key := range characteristicKeysOf(c.Variant) {
		used[key] = true
	}
	var stale []string
	for _, key := range characteristicVariantKeys {
		if !used[key] {
			stale = append(stale, key)
		}
	}
	return v.enc.updater.Remove(v.fc, rdf.NewIRI(c.URN()), stale...)
}

func (v *visit) characteristicVariant(c *aspect.Characteristic) error {
	subject := rdf.NewIRI(c.URN())
	switch variant := c.Variant.(type) {
	case nil:
		return nil
	case aspect.Trait:
		return v.trait(c, variant)
	case aspect.Quantifiable:
		return v.unitRef(c, variant.Unit)
	case aspect.Measurement:
		return v.unitRef(c, variant.Unit)
	case aspect.Duration:
		return v.unitRef(c, variant.Unit)
	case aspect.Enumeration:
		items, err := v.valueItems(variant.Values, v.enc.resolveDataType(c.ID).IRI)
		if err != nil {
			return err
		}
		return v.enc.lists.Push(v.fc, subject, vocab.Values, items...)
	case aspect.State:
		dt := v.enc.resolveDataType(c.ID).IRI
		items, err := v.valueItems(variant.Values, dt)
		if err != nil {
			return err
		}
		if err := v.enc.lists.Push(v.fc, subject, vocab.Values, items...); err != nil {
			return err
		}
		def := Absent()
		if item, ok := variant.DefaultValue.Get(); ok {
			if item.IsRef() {
				if def, err = v.refValue(item.Ref); err != nil {
					return err
				}
			} else {
				def = literalValue(item.Literal, dt)
			}
		}
		return v.update(c, Properties{{vocab.DefaultValue, def}})
	case aspect.Collection:
		element, err := v.refValue(variant.ElementCharacteristic)
		if err != nil {
			return err
		}
		return v.update(c, Properties{{vocab.ElementCharacteristic, element}})
	case aspect.Either:
		left, err := v.refValue(variant.Left)
		if err != nil {
			return err
		}
		right, err := v.refValue(variant.Right)
		if err != nil {
			return err
		}
		return v.update(c, Properties{{vocab.Left, left}, {vocab.Right, right}})
	case aspect.StructuredValue:
		if err := v.update(c, Properties{{vocab.DeconstructionRule, String(variant.DeconstructionRule)}}); err != nil {
			return err
		}
		items, err := v.valueItems(variant.Elements, "")
		if err != nil {
			return err
		}
		return v.enc.lists.Push(v.fc, subject, vocab.Elements, items...)
	case aspect.SingleEntity, aspect.Code:
		return nil
	default:
		v.enc.logger.Debug("no encoder for characteristic variant",
			slog.String("urn", c.URN()),
			slog.String("class", variant.ClassName()))
		v.enc.graph.metrics.recordSkipped(variant.ClassName())
		return nil
	}
}

// trait writes the base characteristic and the constraint list, then encodes
// the local constraints with the base characteristic's data type.
func (v *visit) trait(c *aspect.Characteristic, t aspect.Trait) error {
	base, err := v.refValue(t.BaseCharacteristic)
	if err != nil {
		return err
	}
	if err := v.update(c, Properties{{vocab.BaseCharacteristic, base}}); err != nil {
		return err
	}
	items, err := v.refItems(t.Constraints)
	if err != nil {
		return err
	}
	if err := v.enc.lists.Push(v.fc, rdf.NewIRI(c.URN()), vocab.Constraint, items...); err != nil {
		return err
	}
	baseType := v.enc.resolveDataType(t.BaseCharacteristic).IRI
	for _, id := range t.Constraints {
		constraint, ok := v.enc.model.Get(id)
		if !ok {
			continue
		}
		if err := v.elementWith(constraint, &baseType); err != nil {
			return err
		}
	}
	return nil
}

func (v *visit) unitRef(c *aspect.Characteristic, unit aspect.ID) error {
	value, err := v.refValue(unit)
	if err != nil {
		return err
	}
	return v.update(c, Properties{{vocab.Unit, value}})
}

// propagate re-points the parents of c that the file already holds. Property
// parents lose their example value when c has a complex data type.
func (v *visit) propagate(c *aspect.Characteristic) error {
	urn := URN(c.URN())
	complexType := v.enc.resolveDataType(c.ID).IsComplex()
	for _, parent := range v.enc.model.Parents(c.ID) {
		meta := parent.Base()
		if meta.Predefined || meta.External {
			continue
		}
		present, err := defined(v.fc, meta.URN())
		if err != nil {
			return err
		}
		if !present {
			continue
		}
		var props Properties
		switch p := parent.(type) {
		case *aspect.Property:
			if p.Characteristic != c.ID {
				continue
			}
			props = Properties{{vocab.Characteristic, urn}}
			if complexType {
				props = append(props, Field{vocab.ExampleValue, Absent()})
			}
		case *aspect.Characteristic:
			switch variant := p.Variant.(type) {
			case aspect.Collection:
				if variant.ElementCharacteristic != c.ID {
					continue
				}
				props = Properties{{vocab.ElementCharacteristic, urn}}
			case aspect.Trait:
				if variant.BaseCharacteristic != c.ID {
					continue
				}
				props = Properties{{vocab.BaseCharacteristic, urn}}
			default:
				continue
			}
		default:
			continue
		}
		if err := v.update(parent, props); err != nil {
			return err
		}
	}
	return nil
}

// resolveDataType returns the data type of a characteristic, following Trait
// base characteristics when the Trait declares none.
func (e *Encoder) resolveDataType(id aspect.ID) aspect.DataType {
	seen := make(map[aspect.ID]bool)
	for id != "" && !seen[id] {
		seen[id] = true
		c, ok := aspect.GetAs[*aspect.Characteristic](e.model, id)
		if !ok {
			return aspect.DataType{}
		}
		if !c.DataType.IsZero() {
			return c.DataType
		}
		trait, ok := c.Variant.(aspect.Trait)
		if !ok {
			return aspect.DataType{}
		}
		id = trait.BaseCharacteristic
	}
	return aspect.DataType{}
}

// elementDataType returns the data type of the members of a collection
// characteristic: its element characteristic's type, or its own.
func (e *Encoder) elementDataType(id aspect.ID) aspect.DataType {
	seen := make(map[aspect.ID]bool)
	current := id
	for current != "" && !seen[current] {
		seen[current] = true
		c, ok := aspect.GetAs[*aspect.Characteristic](e.model, current)
		if !ok {
			break
		}
		switch variant := c.Variant.(type) {
		case aspect.Trait:
			current = variant.BaseCharacteristic
			continue
		case aspect.Collection:
			if variant.ElementCharacteristic != "" {
				return e.resolveDataType(variant.ElementCharacteristic)
			}
		}
		return e.resolveDataType(current)
	}
	return e.resolveDataType(id)
}
