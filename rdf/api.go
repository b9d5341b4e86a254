package rdf

import (
	"io"
)

// Writer streams RDF statements to an output.
// For triple-only formats, the graph (G) field is ignored.
type Writer interface {
	Write(Quad) error
	Flush() error
	Close() error
}

// Option configures writer behavior.
type Option func(*Options)

// Options configures encoder behavior.
type Options struct {
	// Prefixes maps prefix labels to namespace IRIs. The empty label is the default prefix.
	Prefixes map[string]string
	// BaseIRI is written as @base for Turtle.
	BaseIRI string
	// Indent is the per-level indentation for pretty output.
	Indent string
	// Compact enables JSON-LD compaction against Prefixes.
	Compact bool
}

// WithPrefixes sets the prefix table used for QName abbreviation and JSON-LD compaction.
func WithPrefixes(prefixes map[string]string) Option {
	return func(opts *Options) {
		opts.Prefixes = prefixes
	}
}

// WithBaseIRI sets the base IRI.
func WithBaseIRI(base string) Option {
	return func(opts *Options) {
		opts.BaseIRI = base
	}
}

// WithIndent sets the indentation string.
func WithIndent(indent string) Option {
	return func(opts *Options) {
		opts.Indent = indent
	}
}

// WithCompact toggles JSON-LD compaction.
func WithCompact(compact bool) Option {
	return func(opts *Options) {
		opts.Compact = compact
	}
}

func defaultOptions() Options {
	return Options{
		Indent:  "    ",
		Compact: true,
	}
}

// NewWriter creates a writer for the specified format.
func NewWriter(w io.Writer, format Format, opts ...Option) (Writer, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	switch format {
	case FormatTurtle:
		return newTurtleWriter(w, options), nil
	case FormatNTriples:
		return newNTriplesEncoder(w), nil
	case FormatNQuads:
		return newNQuadsEncoder(w), nil
	case FormatJSONLD:
		return newJSONLDEncoder(w, options), nil
	case FormatRDFXML:
		return newRDFXMLWriter(w, options), nil
	default:
		return nil, ErrUnsupportedFormat
	}
}

// WriteAll writes every quad to a new writer for format and closes it.
func WriteAll(w io.Writer, format Format, quads []Quad, opts ...Option) error {
	writer, err := NewWriter(w, format, opts...)
	if err != nil {
		return err
	}
	for _, q := range quads {
		if err := writer.Write(q); err != nil {
			return err
		}
	}
	return writer.Close()
}
