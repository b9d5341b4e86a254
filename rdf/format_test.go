package rdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{
		"ttl":      FormatTurtle,
		" Turtle ": FormatTurtle,
		"nt":       FormatNTriples,
		"nq":       FormatNQuads,
		"json-ld":  FormatJSONLD,
		"RDF/XML":  FormatRDFXML,
	}
	for input, want := range tests {
		got, ok := ParseFormat(input)
		assert.True(t, ok, input)
		assert.Equal(t, want, got, input)
	}
	_, ok := ParseFormat("trig")
	assert.False(t, ok)
}

func TestFormatFromPath(t *testing.T) {
	got, ok := FormatFromPath("models/Movement.TTL")
	assert.True(t, ok)
	assert.Equal(t, FormatTurtle, got)
	assert.Equal(t, ".ttl", got.Extension())
	assert.Equal(t, "text/turtle", got.MIMEType())

	_, ok = FormatFromPath("Movement.aspect.yaml")
	assert.False(t, ok)
}
