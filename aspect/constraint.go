package aspect

import "github.com/geoknoesis/aspect-rdf/vocab"

// Constraint narrows the values a Trait accepts.
type Constraint struct {
	Meta
	// Variant is nil for a plain samm:Constraint.
	Variant ConstraintVariant
}

// Kind returns KindConstraint.
func (c *Constraint) Kind() Kind { return KindConstraint }

// References returns nil.
func (c *Constraint) References() []ID { return nil }

// ClassName returns the samm-c class of the constraint, or "Constraint".
func (c *Constraint) ClassName() string {
	if c.Variant == nil {
		return "Constraint"
	}
	return c.Variant.ClassName()
}

// ConstraintVariant is the closed set of constraint subtypes.
type ConstraintVariant interface {
	// ClassName returns the samm-c class the variant is written as.
	ClassName() string
	isConstraint()
}

// RangeConstraint bounds are literals whose datatype comes from the base
// characteristic of the Trait the constraint belongs to.
type RangeConstraint struct {
	MinValue   Option[any]
	MaxValue   Option[any]
	LowerBound vocab.BoundDefinition
	UpperBound vocab.BoundDefinition
}

func (RangeConstraint) ClassName() string { return "RangeConstraint" }
func (RangeConstraint) isConstraint()     {}

// FixedPointConstraint limits the digits of a decimal.
type FixedPointConstraint struct {
	Scale   Option[uint64]
	Integer Option[uint64]
}

func (FixedPointConstraint) ClassName() string { return "FixedPointConstraint" }
func (FixedPointConstraint) isConstraint()     {}

// LengthConstraint limits the length of a string or collection.
type LengthConstraint struct {
	MinValue Option[uint64]
	MaxValue Option[uint64]
}

func (LengthConstraint) ClassName() string { return "LengthConstraint" }
func (LengthConstraint) isConstraint()     {}

// LanguageConstraint requires a language, for example "de".
type LanguageConstraint struct{ LanguageCode string }

func (LanguageConstraint) ClassName() string { return "LanguageConstraint" }
func (LanguageConstraint) isConstraint()     {}

// LocaleConstraint requires a locale, for example "de-DE".
type LocaleConstraint struct{ LocaleCode string }

func (LocaleConstraint) ClassName() string { return "LocaleConstraint" }
func (LocaleConstraint) isConstraint()     {}

// EncodingConstraint names an encoding by fragment, for example "UTF-8".
type EncodingConstraint struct{ Value string }

func (EncodingConstraint) ClassName() string { return "EncodingConstraint" }
func (EncodingConstraint) isConstraint()     {}

// RegularExpressionConstraint requires a match of the pattern in Value.
type RegularExpressionConstraint struct{ Value string }

func (RegularExpressionConstraint) ClassName() string { return "RegularExpressionConstraint" }
func (RegularExpressionConstraint) isConstraint()     {}

// OtherConstraint carries a samm-c class this package does not model.
type OtherConstraint struct{ Class string }

func (o OtherConstraint) ClassName() string { return o.Class }
func (OtherConstraint) isConstraint()       {}
