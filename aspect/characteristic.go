package aspect

// Characteristic describes the data type and semantics of a property.
type Characteristic struct {
	Meta
	DataType DataType
	// Variant is nil for a plain samm:Characteristic.
	Variant CharacteristicVariant
}

// Kind returns KindCharacteristic.
func (c *Characteristic) Kind() Kind { return KindCharacteristic }

// References returns the entity data type, then the references of the variant.
func (c *Characteristic) References() []ID {
	refs := appendRef(nil, c.DataType.Entity)
	if c.Variant != nil {
		refs = append(refs, c.Variant.references()...)
	}
	return refs
}

// ClassName returns the samm-c class of the characteristic, or "Characteristic".
func (c *Characteristic) ClassName() string {
	if c.Variant == nil {
		return "Characteristic"
	}
	return c.Variant.ClassName()
}

// CharacteristicVariant is the closed set of characteristic subtypes.
type CharacteristicVariant interface {
	// ClassName returns the samm-c class the variant is written as.
	ClassName() string
	references() []ID
}

// Trait is a base characteristic narrowed by constraints.
type Trait struct {
	BaseCharacteristic ID
	Constraints        []ID
}

func (Trait) ClassName() string { return "Trait" }

func (t Trait) references() []ID {
	return appendRef(appendRef(nil, t.BaseCharacteristic), t.Constraints...)
}

// Quantifiable is a value with an optional unit.
type Quantifiable struct{ Unit ID }

func (Quantifiable) ClassName() string   { return "Quantifiable" }
func (q Quantifiable) references() []ID { return appendRef(nil, q.Unit) }

// Measurement is a measured value with a unit.
type Measurement struct{ Unit ID }

func (Measurement) ClassName() string   { return "Measurement" }
func (m Measurement) references() []ID { return appendRef(nil, m.Unit) }

// Duration is a time span with a unit.
type Duration struct{ Unit ID }

func (Duration) ClassName() string   { return "Duration" }
func (d Duration) references() []ID { return appendRef(nil, d.Unit) }

// Enumeration restricts a value to a fixed list.
type Enumeration struct{ Values []Item }

func (Enumeration) ClassName() string   { return "Enumeration" }
func (e Enumeration) references() []ID { return itemRefs(e.Values) }

// State is an enumeration with a default value.
type State struct {
	Values       []Item
	DefaultValue Option[Item]
}

func (State) ClassName() string { return "State" }

func (s State) references() []ID {
	refs := itemRefs(s.Values)
	if def, ok := s.DefaultValue.Get(); ok {
		refs = appendRef(refs, def.Ref)
	}
	return refs
}

// CollectionKind distinguishes the members of the collection family.
type CollectionKind string

const (
	CollectionGeneric    CollectionKind = "Collection"
	CollectionList       CollectionKind = "List"
	CollectionSet        CollectionKind = "Set"
	CollectionSortedSet  CollectionKind = "SortedSet"
	CollectionTimeSeries CollectionKind = "TimeSeries"
)

// Collection covers Collection, List, Set, SortedSet and TimeSeries, selected by Kind.
type Collection struct {
	Kind                  CollectionKind
	ElementCharacteristic ID
}

func (c Collection) ClassName() string {
	if c.Kind == "" {
		return string(CollectionGeneric)
	}
	return string(c.Kind)
}

func (c Collection) references() []ID { return appendRef(nil, c.ElementCharacteristic) }

// Either holds one of two characteristics.
type Either struct{ Left, Right ID }

func (Either) ClassName() string   { return "Either" }
func (e Either) references() []ID { return appendRef(nil, e.Left, e.Right) }

// StructuredValue elements alternate literal splitters and property references.
type StructuredValue struct {
	DeconstructionRule string
	Elements           []Item
}

func (StructuredValue) ClassName() string   { return "StructuredValue" }
func (s StructuredValue) references() []ID { return itemRefs(s.Elements) }

// SingleEntity is a characteristic whose data type is one entity.
type SingleEntity struct{}

func (SingleEntity) ClassName() string { return "SingleEntity" }
func (SingleEntity) references() []ID  { return nil }

// Code is a string holding code, for example a color value.
type Code struct{}

func (Code) ClassName() string { return "Code" }
func (Code) references() []ID  { return nil }

// OtherCharacteristic carries a samm-c class this package does not model.
type OtherCharacteristic struct{ Class string }

func (o OtherCharacteristic) ClassName() string { return o.Class }
func (OtherCharacteristic) references() []ID    { return nil }
