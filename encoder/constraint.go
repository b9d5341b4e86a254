package encoder

import (
	"fmt"
	"log/slog"

	"github.com/geoknoesis/aspect-rdf/aspect"
	"github.com/geoknoesis/aspect-rdf/rdf"
	"github.com/geoknoesis/aspect-rdf/vocab"
)

// constraintVariantKeys are the keys owned by constraint variants.
var constraintVariantKeys = []string{
	vocab.MinValue,
	vocab.MaxValue,
	vocab.LowerBoundDefinition,
	vocab.UpperBoundDefinition,
	vocab.Scale,
	vocab.Integer,
	vocab.LanguageCode,
	vocab.LocaleCode,
	vocab.Value,
}

func constraintKeysOf(variant aspect.ConstraintVariant) []string {
	switch variant.(type) {
	case aspect.RangeConstraint:
		return []string{vocab.MinValue, vocab.MaxValue, vocab.LowerBoundDefinition, vocab.UpperBoundDefinition}
	case aspect.FixedPointConstraint:
		return []string{vocab.Scale, vocab.Integer}
	case aspect.LengthConstraint:
		return []string{vocab.MinValue, vocab.MaxValue}
	case aspect.LanguageConstraint:
		return []string{vocab.LanguageCode}
	case aspect.LocaleConstraint:
		return []string{vocab.LocaleCode}
	case aspect.EncodingConstraint, aspect.RegularExpressionConstraint:
		return []string{vocab.Value}
	default:
		return nil
	}
}

// constraint writes c. baseType is the data type of the base characteristic
// of the Trait the constraint belongs to; range bounds are typed with it.
func (v *visit) constraint(c *aspect.Constraint, baseType string) error {
	if err := v.update(c, v.baseFields(&c.Meta)); err != nil {
		return err
	}
	if _, unknown := c.Variant.(aspect.OtherConstraint); !unknown {
		used := make(map[string]bool)
		for _, key := range constraintKeysOf(c.Variant) {
			used[key] = true
		}
		var stale []string
		for _, key := range constraintVariantKeys {
			if !used[key] {
				stale = append(stale, key)
			}
		}
		if err := v.enc.updater.Remove(v.fc, rdf.NewIRI(c.URN()), stale...); err != nil {
			return err
		}
	}

	props, err := v.constraintFields(c, baseType)
	if err != nil {
		return err
	}
	if len(props) == 0 {
		return nil
	}
	return v.update(c, props)
}

func (v *visit) constraintFields(c *aspect.Constraint, baseType string) (Properties, error) {
	switch variant := c.Variant.(type) {
	case nil:
		return nil, nil
	case aspect.RangeConstraint:
		return Properties{
			{CharacteristicType, String(baseType)},
			{vocab.MinValue, FromOption(variant.MinValue)},
			{vocab.MaxValue, FromOption(variant.MaxValue)},
			{vocab.LowerBoundDefinition, v.bound(variant.LowerBound)},
			{vocab.UpperBoundDefinition, v.bound(variant.UpperBound)},
		}, nil
	case aspect.FixedPointConstraint:
		return Properties{
			{CharacteristicType, String(vocab.XSDPositiveInteger)},
			{vocab.Scale, FromOption(variant.Scale)},
			{vocab.Integer, FromOption(variant.Integer)},
		}, nil
	case aspect.LengthConstraint:
		return Properties{
			{vocab.MinValue, FromOption(variant.MinValue)},
			{vocab.MaxValue, FromOption(variant.MaxValue)},
		}, nil
	case aspect.LanguageConstraint:
		return Properties{{vocab.LanguageCode, String(variant.LanguageCode)}}, nil
	case aspect.LocaleConstraint:
		return Properties{{vocab.LocaleCode, String(variant.LocaleCode)}}, nil
	case aspect.EncodingConstraint:
		encoding, ok := v.enc.vocab.Encoding(variant.Value)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, variant.Value)
		}
		return Properties{{vocab.Value, URN(encoding.Value)}}, nil
	case aspect.RegularExpressionConstraint:
		return Properties{{vocab.Value, String(variant.Value)}}, nil
	default:
		v.enc.logger.Debug("no encoder for constraint variant",
			slog.String("urn", c.URN()),
			slog.String("class", variant.ClassName()))
		v.enc.graph.metrics.recordSkipped(variant.ClassName())
		return nil, nil
	}
}

func (v *visit) bound(b vocab.BoundDefinition) Value {
	if b == "" {
		return Absent()
	}
	return URN(v.enc.vocab.Bound(b).Value)
}

// rangeBaseType finds the base characteristic data type of the first Trait
// that lists the constraint. It is used when a constraint is visited on its
// own rather than through its Trait.
func (e *Encoder) rangeBaseType(id aspect.ID) string {
	for _, parent := range e.model.Parents(id) {
		c, ok := parent.(*aspect.Characteristic)
		if !ok {
			continue
		}
		if trait, isTrait := c.Variant.(aspect.Trait); isTrait {
			return e.resolveDataType(trait.BaseCharacteristic).IRI
		}
	}
	return ""
}
