package rdf

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	ld "github.com/piprate/json-gold/ld"
)

// jsonldEncoder buffers quads and converts them on Close with the json-gold
// processor: FromRDF, then Compact against the prefix table when requested.
type jsonldEncoder struct {
	writer *bufio.Writer
	opts   Options
	quads  []Quad
	closed bool
	err    error
}

func newJSONLDEncoder(w io.Writer, opts Options) Writer {
	return &jsonldEncoder{writer: bufio.NewWriter(w), opts: opts}
}

func (e *jsonldEncoder) Write(q Quad) error {
	if e.err != nil {
		return e.err
	}
	if e.closed {
		return wrapWriteError(FormatJSONLD, nil, ErrWriterClosed)
	}
	if q.S == nil || q.P.Value == "" || q.O == nil {
		return wrapWriteError(FormatJSONLD, &q, ErrInvalidStatement)
	}
	e.quads = append(e.quads, q)
	return nil
}

// Flush is a no-op until Close: a JSON-LD document cannot be emitted in parts.
func (e *jsonldEncoder) Flush() error {
	return e.err
}

func (e *jsonldEncoder) Close() error {
	if e.closed {
		return e.err
	}
	e.closed = true
	if e.err != nil {
		return e.err
	}
	doc, err := e.document()
	if err != nil {
		e.err = wrapWriteError(FormatJSONLD, nil, err)
		return e.err
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		e.err = wrapWriteError(FormatJSONLD, nil, err)
		return e.err
	}
	if _, err := e.writer.Write(append(data, '\n')); err != nil {
		e.err = wrapWriteError(FormatJSONLD, nil, err)
		return e.err
	}
	if err := e.writer.Flush(); err != nil {
		e.err = wrapWriteError(FormatJSONLD, nil, err)
	}
	return e.err
}

func (e *jsonldEncoder) document() (interface{}, error) {
	proc := ld.NewJsonLdProcessor()
	goldOpts := ld.NewJsonLdOptions(e.opts.BaseIRI)
	goldOpts.Format = "application/n-quads"
	goldOpts.UseNativeTypes = false

	expanded, err := proc.FromRDF(quadsToNQuads(e.quads), goldOpts)
	if err != nil {
		return nil, fmt.Errorf("jsonld: from rdf: %w", err)
	}
	context := jsonldContext(e.opts.Prefixes)
	if !e.opts.Compact || len(context) == 0 {
		return expanded, nil
	}
	compacted, err := proc.Compact(expanded, map[string]interface{}{"@context": context}, ld.NewJsonLdOptions(e.opts.BaseIRI))
	if err != nil {
		return nil, fmt.Errorf("jsonld: compact: %w", err)
	}
	return compacted, nil
}

// jsonldContext turns a prefix table into a JSON-LD context. JSON-LD terms
// cannot be empty, so the default prefix becomes @vocab.
func jsonldContext(prefixes map[string]string) map[string]interface{} {
	context := make(map[string]interface{}, len(prefixes))
	for _, prefix := range sortedPrefixKeys(prefixes) {
		if prefix == "" {
			context["@vocab"] = prefixes[prefix]
			continue
		}
		context[prefix] = prefixes[prefix]
	}
	return context
}
