package vocab

// Logical property keys. Keys are vocabulary independent; Predicate resolves
// them against a SAMM version.
const (
	PreferredName = "preferredName"
	Description   = "description"
	See           = "see"

	Properties     = "properties"
	Operations     = "operations"
	Events         = "events"
	Extends        = "extends"
	Characteristic = "characteristic"
	DataType       = "dataType"
	ExampleValue   = "exampleValue"
	Property       = "property"
	Optional       = "optional"
	NotInPayload   = "notInPayload"
	PayloadName    = "payloadName"
	Input          = "input"
	Output         = "output"
	Parameters     = "parameters"
	Value          = "value"

	Symbol                  = "symbol"
	CommonCode              = "commonCode"
	ConversionFactor        = "conversionFactor"
	NumericConversionFactor = "numericConversionFactor"
	ReferenceUnit           = "referenceUnit"
	QuantityKind            = "quantityKind"

	BaseCharacteristic    = "baseCharacteristic"
	Constraint            = "constraint"
	Unit                  = "unit"
	Values                = "values"
	DefaultValue          = "defaultValue"
	ElementCharacteristic = "elementCharacteristic"
	Left                  = "left"
	Right                 = "right"
	DeconstructionRule    = "deconstructionRule"
	Elements              = "elements"
	MinValue              = "minValue"
	MaxValue              = "maxValue"
	LowerBoundDefinition  = "lowerBoundDefinition"
	UpperBoundDefinition  = "upperBoundDefinition"
	Scale                 = "scale"
	Integer               = "integer"
	LanguageCode          = "languageCode"
	LocaleCode            = "localeCode"
)

// characteristicKeys live in the samm-c namespace; every other key is samm.
var characteristicKeys = map[string]bool{
	BaseCharacteristic:    true,
	Constraint:            true,
	Unit:                  true,
	Values:                true,
	DefaultValue:          true,
	ElementCharacteristic: true,
	Left:                  true,
	Right:                 true,
	DeconstructionRule:    true,
	Elements:              true,
	MinValue:              true,
	MaxValue:              true,
	LowerBoundDefinition:  true,
	UpperBoundDefinition:  true,
	Scale:                 true,
	Integer:               true,
	LanguageCode:          true,
	LocaleCode:            true,
}

// BoundDefinition names a samm-c range bound.
type BoundDefinition string

const (
	AtLeast     BoundDefinition = "AT_LEAST"
	GreaterThan BoundDefinition = "GREATER_THAN"
	AtMost      BoundDefinition = "AT_MOST"
	LessThan    BoundDefinition = "LESS_THAN"
)

// Encodings is the closed list of character encodings an EncodingConstraint may name.
var Encodings = []string{"US-ASCII", "ISO-8859-1", "UTF-8", "UTF-16", "UTF-16BE", "UTF-16LE"}
