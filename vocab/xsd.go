package vocab

import "strings"

// Well-known namespaces.
const (
	RDF  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFS = "http://www.w3.org/2000/01/rdf-schema#"
	XSD  = "http://www.w3.org/2001/XMLSchema#"
)

// RDF terms used by the encoder.
const (
	RDFType       = RDF + "type"
	RDFFirst      = RDF + "first"
	RDFRest       = RDF + "rest"
	RDFNil        = RDF + "nil"
	RDFLangString = RDF + "langString"
)

// XSD datatypes.
const (
	XSDString             = XSD + "string"
	XSDBoolean            = XSD + "boolean"
	XSDDecimal            = XSD + "decimal"
	XSDInteger            = XSD + "integer"
	XSDDouble             = XSD + "double"
	XSDFloat              = XSD + "float"
	XSDDate               = XSD + "date"
	XSDTime               = XSD + "time"
	XSDDateTime           = XSD + "dateTime"
	XSDDateTimeStamp      = XSD + "dateTimeStamp"
	XSDDuration           = XSD + "duration"
	XSDGYear              = XSD + "gYear"
	XSDLong               = XSD + "long"
	XSDInt                = XSD + "int"
	XSDShort              = XSD + "short"
	XSDByte               = XSD + "byte"
	XSDUnsignedLong       = XSD + "unsignedLong"
	XSDUnsignedInt        = XSD + "unsignedInt"
	XSDUnsignedShort      = XSD + "unsignedShort"
	XSDUnsignedByte       = XSD + "unsignedByte"
	XSDPositiveInteger    = XSD + "positiveInteger"
	XSDNonNegativeInteger = XSD + "nonNegativeInteger"
	XSDNegativeInteger    = XSD + "negativeInteger"
	XSDNonPositiveInteger = XSD + "nonPositiveInteger"
	XSDHexBinary          = XSD + "hexBinary"
	XSDBase64Binary       = XSD + "base64Binary"
	XSDAnyURI             = XSD + "anyURI"
)

var numericTypes = map[string]bool{
	XSDDecimal:            true,
	XSDInteger:            true,
	XSDDouble:             true,
	XSDFloat:              true,
	XSDLong:               true,
	XSDInt:                true,
	XSDShort:              true,
	XSDByte:               true,
	XSDUnsignedLong:       true,
	XSDUnsignedInt:        true,
	XSDUnsignedShort:      true,
	XSDUnsignedByte:       true,
	XSDPositiveInteger:    true,
	XSDNonNegativeInteger: true,
	XSDNegativeInteger:    true,
	XSDNonPositiveInteger: true,
}

// IsNumeric reports whether iri is an XSD numeric datatype.
func IsNumeric(iri string) bool {
	return numericTypes[iri]
}

// IsScalar reports whether iri names an XSD or RDF datatype rather than an entity.
func IsScalar(iri string) bool {
	return strings.HasPrefix(iri, XSD) || iri == RDFLangString
}
