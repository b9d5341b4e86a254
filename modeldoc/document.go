// Package modeldoc decodes Aspect Model documents written in YAML and builds
// them into an aspect.Model.
//
// A document declares a namespace, optional prefixes and a list of elements.
// Elements refer to each other by name: a bare name is local to the document
// namespace, "prefix:Name" expands through the document prefixes or the SAMM
// vocabulary aliases (samm, samm-c, unit, xsd, ...), and a full URN is used as
// is.
//
//	namespace: "urn:samm:org.example:1.0.0#"
//	elements:
//	  - kind: Aspect
//	    name: Movement
//	    properties: [speed]
//	  - kind: Property
//	    name: speed
//	    characteristic: Speed
//	  - kind: Characteristic
//	    name: Speed
//	    class: Measurement
//	    dataType: xsd:float
//	    unit: unit:kilometrePerHour
package modeldoc

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Document is one model file.
type Document struct {
	Namespace string            `yaml:"namespace"`
	Prefixes  map[string]string `yaml:"prefixes"`
	Elements  []Element         `yaml:"elements"`

	// Path is the file the document was read from, if any.
	Path string `yaml:"-"`
}

// Element describes one model element. Only the fields of its kind (and, for
// characteristics and constraints, its class) are read.
type Element struct {
	Kind  string `yaml:"kind"`
	Name  string `yaml:"name"`
	Class string `yaml:"class"`

	PreferredName map[string]string `yaml:"preferredName"`
	Description   map[string]string `yaml:"description"`
	See           []string          `yaml:"see"`

	// Aspect, Entity, AbstractEntity, Operation, Event
	Properties []Use    `yaml:"properties"`
	Operations []string `yaml:"operations"`
	Events     []string `yaml:"events"`
	Extends    string   `yaml:"extends"`
	Input      []Use    `yaml:"input"`
	Output     string   `yaml:"output"`
	Parameters []Use    `yaml:"parameters"`

	// Property, AbstractProperty, Value
	Characteristic string   `yaml:"characteristic"`
	ExampleValue   *Literal `yaml:"exampleValue"`
	Value          *Literal `yaml:"value"`

	// Characteristic
	DataType              string   `yaml:"dataType"`
	BaseCharacteristic    string   `yaml:"baseCharacteristic"`
	Constraints           []string `yaml:"constraints"`
	Unit                  string   `yaml:"unit"`
	Values                []Item   `yaml:"values"`
	DefaultValue          *Item    `yaml:"defaultValue"`
	ElementCharacteristic string   `yaml:"elementCharacteristic"`
	Left                  string   `yaml:"left"`
	Right                 string   `yaml:"right"`
	DeconstructionRule    string   `yaml:"deconstructionRule"`
	StructureElements     []Item   `yaml:"elements"`

	// Constraint
	MinValue             *Literal `yaml:"minValue"`
	MaxValue             *Literal `yaml:"maxValue"`
	LowerBoundDefinition string   `yaml:"lowerBoundDefinition"`
	UpperBoundDefinition string   `yaml:"upperBoundDefinition"`
	Scale                *uint64  `yaml:"scale"`
	Integer              *uint64  `yaml:"integer"`
	LanguageCode         string   `yaml:"languageCode"`
	LocaleCode           string   `yaml:"localeCode"`

	// Unit
	Symbol                  string   `yaml:"symbol"`
	CommonCode              string   `yaml:"commonCode"`
	ConversionFactor        string   `yaml:"conversionFactor"`
	NumericConversionFactor *float64 `yaml:"numericConversionFactor"`
	ReferenceUnit           string   `yaml:"referenceUnit"`
	QuantityKinds           []string `yaml:"quantityKinds"`

	// EntityInstance
	Entity      string       `yaml:"entity"`
	Assignments []Assignment `yaml:"assignments"`
}

// Use is a property reference with its overrides. A plain scalar is a use
// without overrides.
type Use struct {
	Property     string `yaml:"property"`
	Optional     bool   `yaml:"optional"`
	NotInPayload bool   `yaml:"notInPayload"`
	PayloadName  string `yaml:"payloadName"`
}

func (u *Use) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		return node.Decode(&u.Property)
	}
	type plain Use
	return node.Decode((*plain)(u))
}

// Literal is a scalar value. A plain scalar takes its type from YAML; the
// mapping form sets a datatype or language explicitly.
type Literal struct {
	Value    any    `yaml:"value"`
	Datatype string `yaml:"datatype"`
	Lang     string `yaml:"lang"`
}

func (l *Literal) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		return node.Decode(&l.Value)
	}
	type plain Literal
	return node.Decode((*plain)(l))
}

// Item is a list member: a mapping with ref names an element, anything else
// is a literal.
type Item struct {
	Ref     string
	Literal Literal
}

func (i *Item) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.MappingNode {
		var ref struct {
			Ref string `yaml:"ref"`
		}
		if err := node.Decode(&ref); err != nil {
			return err
		}
		if ref.Ref != "" {
			i.Ref = ref.Ref
			return nil
		}
	}
	return node.Decode(&i.Literal)
}

// Assignment is a property value of an entity instance. Values makes it a list.
type Assignment struct {
	Property string `yaml:"property"`
	Value    *Item  `yaml:"value"`
	Values   []Item `yaml:"values"`
}

// Parse decodes a document.
func Parse(data []byte) (*Document, error) {
	doc := &Document{}
	if err := yaml.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("modeldoc: parse: %w", err)
	}
	return doc, nil
}

// ReadFile reads and decodes the document at path.
func ReadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("modeldoc: %w", err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	doc.Path = path
	return doc, nil
}
