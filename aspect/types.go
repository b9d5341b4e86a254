package aspect

// Literal is a scalar value. Datatype, when set, overrides type inference;
// Lang marks a language-tagged string.
type Literal struct {
	Value    any
	Datatype string
	Lang     string
}

// Item is a member of an ordered sequence: a reference or a literal. An item
// with neither is nil and is dropped when encoded.
type Item struct {
	Ref     ID
	Literal Literal
}

// RefItem returns an item pointing at an element.
func RefItem(id ID) Item { return Item{Ref: id} }

// LiteralItem returns a literal item.
func LiteralItem(v any) Item { return Item{Literal: Literal{Value: v}} }

// LangItem returns a language-tagged literal item.
func LangItem(text, lang string) Item { return Item{Literal: Literal{Value: text, Lang: lang}} }

// IsRef reports whether the item references an element.
func (i Item) IsRef() bool { return i.Ref != "" }

// IsNil reports whether the item holds nothing.
func (i Item) IsNil() bool { return i.Ref == "" && i.Literal.Value == nil }

func itemRefs(items []Item) []ID {
	var refs []ID
	for _, item := range items {
		refs = appendRef(refs, item.Ref)
	}
	return refs
}

// PropertyUse is a property as listed by an Aspect, Entity, Operation or Event,
// with the overrides that apply in that position.
type PropertyUse struct {
	Property     ID
	Optional     bool
	NotInPayload bool
	PayloadName  string
}

// Use returns a PropertyUse without overrides.
func Use(id ID) PropertyUse { return PropertyUse{Property: id} }

// HasOverrides reports whether the use must be encoded as an anonymous node.
func (u PropertyUse) HasOverrides() bool {
	return u.Optional || u.NotInPayload || u.PayloadName != ""
}

func useRefs(uses []PropertyUse) []ID {
	var refs []ID
	for _, u := range uses {
		refs = appendRef(refs, u.Property)
	}
	return refs
}

// DataType is a characteristic's data type: a scalar IRI or an entity.
type DataType struct {
	IRI    string
	Entity ID
}

// Scalar returns a scalar data type.
func Scalar(iri string) DataType { return DataType{IRI: iri} }

// EntityType returns a complex data type.
func EntityType(id ID) DataType { return DataType{Entity: id} }

// IsComplex reports whether the data type is an entity.
func (d DataType) IsComplex() bool { return d.Entity != "" }

// IsZero reports whether no data type is set.
func (d DataType) IsZero() bool { return d.IRI == "" && d.Entity == "" }

// Aspect is the root of a model: its properties, operations and events.
type Aspect struct {
	Meta
	Properties []PropertyUse
	Operations []ID
	Events     []ID
}

// Kind returns KindAspect.
func (a *Aspect) Kind() Kind { return KindAspect }

// References returns the properties, operations and events in order.
func (a *Aspect) References() []ID {
	refs := useRefs(a.Properties)
	refs = appendRef(refs, a.Operations...)
	return appendRef(refs, a.Events...)
}

// Entity is a complex data type made of properties.
type Entity struct {
	Meta
	Properties []PropertyUse
	Extends    ID
}

// Kind returns KindEntity.
func (e *Entity) Kind() Kind { return KindEntity }

// References returns the properties followed by the extended entity.
func (e *Entity) References() []ID {
	return appendRef(useRefs(e.Properties), e.Extends)
}

// AbstractEntity is an entity that other entities extend but that has no instances.
type AbstractEntity struct {
	Meta
	Properties []PropertyUse
	Extends    ID
}

// Kind returns KindAbstractEntity.
func (e *AbstractEntity) Kind() Kind { return KindAbstractEntity }

// References returns the properties followed by the extended entity.
func (e *AbstractEntity) References() []ID {
	return appendRef(useRefs(e.Properties), e.Extends)
}

// Property is a named feature described by a characteristic.
type Property struct {
	Meta
	Characteristic ID
	ExampleValue   Option[Literal]
	// Extends names the AbstractProperty this property refines.
	Extends ID
}

// Kind returns KindProperty.
func (p *Property) Kind() Kind { return KindProperty }

// References returns the characteristic and the extended abstract property.
func (p *Property) References() []ID {
	return appendRef(nil, p.Characteristic, p.Extends)
}

// AbstractProperty is a property without a characteristic, refined by Property.Extends.
type AbstractProperty struct {
	Meta
	ExampleValue Option[Literal]
}

// Kind returns KindAbstractProperty.
func (p *AbstractProperty) Kind() Kind { return KindAbstractProperty }

// References returns nil.
func (p *AbstractProperty) References() []ID { return nil }

// Unit is a unit of measurement.
type Unit struct {
	Meta
	Symbol                  string
	CommonCode              string
	ConversionFactor        string
	NumericConversionFactor Option[float64]
	ReferenceUnit           ID
	// QuantityKinds holds quantity kind URNs from the unit catalog.
	QuantityKinds []string
}

// Kind returns KindUnit.
func (u *Unit) Kind() Kind { return KindUnit }

// References returns the reference unit, if any.
func (u *Unit) References() []ID { return appendRef(nil, u.ReferenceUnit) }

// Value is a samm:Value, an enumeration member with its own metadata.
type Value struct {
	Meta
	Value Literal
}

// Kind returns KindValue.
func (v *Value) Kind() Kind { return KindValue }

// References returns nil.
func (v *Value) References() []ID { return nil }

// Assignment is one property value of an EntityInstance. List assignments hold
// Values; single ones hold Value.
type Assignment struct {
	Property ID
	Value    Item
	Values   []Item
	List     bool
}

// EntityInstance is a concrete value of an entity.
type EntityInstance struct {
	Meta
	Entity      ID
	Assignments []Assignment
}

// Kind returns KindEntityInstance.
func (e *EntityInstance) Kind() Kind { return KindEntityInstance }

// References returns the entity, then the properties and values of each assignment.
func (e *EntityInstance) References() []ID {
	refs := appendRef(nil, e.Entity)
	for _, a := range e.Assignments {
		refs = appendRef(refs, a.Property, a.Value.Ref)
		refs = append(refs, itemRefs(a.Values)...)
	}
	return refs
}

// Operation is a function of an aspect with input properties and one output.
type Operation struct {
	Meta
	Input  []PropertyUse
	Output ID
}

// Kind returns KindOperation.
func (o *Operation) Kind() Kind { return KindOperation }

// References returns the inputs followed by the output.
func (o *Operation) References() []ID {
	return appendRef(useRefs(o.Input), o.Output)
}

// Event is something an aspect emits, with its parameters.
type Event struct {
	Meta
	Parameters []PropertyUse
}

// Kind returns KindEvent.
func (e *Event) Kind() Kind { return KindEvent }

// References returns the parameters.
func (e *Event) References() []ID { return useRefs(e.Parameters) }
