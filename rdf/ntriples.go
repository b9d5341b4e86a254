package rdf

import (
	"bufio"
	"io"
)

type ntEncoder struct {
	writer *bufio.Writer
	format Format
	err    error
	closed bool
}

func newNTriplesEncoder(w io.Writer) Writer {
	return &ntEncoder{writer: bufio.NewWriter(w), format: FormatNTriples}
}

func newNQuadsEncoder(w io.Writer) Writer {
	return &ntEncoder{writer: bufio.NewWriter(w), format: FormatNQuads}
}

func (e *ntEncoder) Write(q Quad) error {
	if e.err != nil {
		return e.err
	}
	if e.closed {
		return wrapWriteError(e.format, nil, ErrWriterClosed)
	}
	if q.S == nil || q.P.Value == "" || q.O == nil {
		return wrapWriteError(e.format, &q, ErrInvalidStatement)
	}
	line := renderTerm(q.S) + " " + renderIRI(q.P) + " " + renderTerm(q.O)
	if e.format == FormatNQuads && q.G != nil {
		line += " " + renderTerm(q.G)
	}
	line += " .\n"
	if _, err := e.writer.WriteString(line); err != nil {
		e.err = wrapWriteError(e.format, &q, err)
	}
	return e.err
}

func (e *ntEncoder) Flush() error {
	if e.err != nil {
		return e.err
	}
	return e.writer.Flush()
}

func (e *ntEncoder) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	return e.Flush()
}

func renderIRI(iri IRI) string {
	return "<" + iri.Value + ">"
}

func renderTerm(term Term) string {
	switch value := term.(type) {
	case IRI:
		return renderIRI(value)
	case BlankNode:
		return value.String()
	case Literal:
		if value.Lang != "" {
			return quoteLiteral(value.Lexical) + "@" + value.Lang
		}
		if value.Datatype.Value != "" {
			return quoteLiteral(value.Lexical) + "^^" + renderIRI(value.Datatype)
		}
		return quoteLiteral(value.Lexical)
	default:
		return ""
	}
}

// quadsToNQuads renders quads as an N-Quads document.
func quadsToNQuads(quads []Quad) string {
	var out []byte
	for _, q := range quads {
		if q.S == nil || q.P.Value == "" || q.O == nil {
			continue
		}
		out = append(out, q.String()...)
		out = append(out, " .\n"...)
	}
	return string(out)
}
