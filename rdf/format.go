package rdf

import (
	"path/filepath"
	"strings"
)

// Format identifies RDF serialization formats.
type Format string

const (
	FormatTurtle   Format = "turtle"
	FormatNTriples Format = "ntriples"
	FormatNQuads   Format = "nquads"
	FormatJSONLD   Format = "jsonld"
	FormatRDFXML   Format = "rdfxml"
)

// ParseFormat normalizes a format string.
func ParseFormat(value string) (Format, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "turtle", "ttl":
		return FormatTurtle, true
	case "ntriples", "nt":
		return FormatNTriples, true
	case "nquads", "nq":
		return FormatNQuads, true
	case "jsonld", "json-ld", "json":
		return FormatJSONLD, true
	case "rdfxml", "rdf/xml", "xml", "rdf":
		return FormatRDFXML, true
	default:
		return "", false
	}
}

// FormatFromPath infers a format from a filename extension.
func FormatFromPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ttl":
		return FormatTurtle, true
	case ".nt":
		return FormatNTriples, true
	case ".nq":
		return FormatNQuads, true
	case ".jsonld", ".json":
		return FormatJSONLD, true
	case ".rdf", ".owl":
		return FormatRDFXML, true
	default:
		return "", false
	}
}

// Extension returns the conventional file extension for the format, with the dot.
func (f Format) Extension() string {
	switch f {
	case FormatTurtle:
		return ".ttl"
	case FormatNTriples:
		return ".nt"
	case FormatNQuads:
		return ".nq"
	case FormatJSONLD:
		return ".jsonld"
	case FormatRDFXML:
		return ".rdf"
	default:
		return ""
	}
}

// MIMEType returns the registered media type for the format.
func (f Format) MIMEType() string {
	switch f {
	case FormatTurtle:
		return "text/turtle"
	case FormatNTriples:
		return "application/n-triples"
	case FormatNQuads:
		return "application/n-quads"
	case FormatJSONLD:
		return "application/ld+json"
	case FormatRDFXML:
		return "application/rdf+xml"
	default:
		return ""
	}
}
