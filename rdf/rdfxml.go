package rdf

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// rdfxmlWriter buffers statements and writes them on Close as one
// rdf:Description per subject. Predicate namespaces without a prefix get
// generated ns0, ns1, ... declarations on the root element.
type rdfxmlWriter struct {
	writer  *bufio.Writer
	opts    Options
	pending []Quad
	closed  bool
	err     error
}

func newRDFXMLWriter(w io.Writer, opts Options) Writer {
	return &rdfxmlWriter{writer: bufio.NewWriter(w), opts: opts}
}

func (e *rdfxmlWriter) Write(q Quad) error {
	if e.err != nil {
		return e.err
	}
	if e.closed {
		return wrapWriteError(FormatRDFXML, nil, ErrWriterClosed)
	}
	if q.S == nil || q.P.Value == "" || q.O == nil {
		return wrapWriteError(FormatRDFXML, &q, ErrInvalidStatement)
	}
	if _, isLiteral := q.S.(Literal); isLiteral {
		return wrapWriteError(FormatRDFXML, &q, ErrInvalidStatement)
	}
	if _, _, ok := splitIRIForQName(q.P.Value); !ok {
		return wrapWriteError(FormatRDFXML, &q, fmt.Errorf("%w: predicate has no XML local name", ErrInvalidStatement))
	}
	e.pending = append(e.pending, Quad{S: q.S, P: q.P, O: q.O})
	return nil
}

// Flush is a no-op until Close: the root element closes the document.
func (e *rdfxmlWriter) Flush() error {
	return e.err
}

func (e *rdfxmlWriter) Close() error {
	if e.closed {
		return e.err
	}
	e.closed = true
	if e.err != nil {
		return e.err
	}
	if _, err := e.writer.WriteString(e.render()); err != nil {
		e.err = wrapWriteError(FormatRDFXML, nil, err)
		return e.err
	}
	if err := e.writer.Flush(); err != nil {
		e.err = wrapWriteError(FormatRDFXML, nil, err)
	}
	return e.err
}

func (e *rdfxmlWriter) render() string {
	nsToPref := map[string]string{rdfNS: "rdf"}
	declared := map[string]string{}
	for _, prefix := range sortedPrefixKeys(e.opts.Prefixes) {
		ns := e.opts.Prefixes[prefix]
		if prefix == "rdf" || ns == rdfNS {
			continue
		}
		if _, taken := nsToPref[ns]; !taken {
			nsToPref[ns] = prefix
			declared[prefix] = ns
		}
	}
	auto := 0
	for _, q := range e.pending {
		ns, _, _ := splitIRIForQName(q.P.Value)
		if _, ok := nsToPref[ns]; ok {
			continue
		}
		prefix := fmt.Sprintf("ns%d", auto)
		auto++
		nsToPref[ns] = prefix
		declared[prefix] = ns
	}

	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	sb.WriteString(`<rdf:RDF xmlns:rdf="` + rdfNS + `"`)
	if e.opts.BaseIRI != "" {
		sb.WriteString(` xml:base="` + escapeXML(e.opts.BaseIRI) + `"`)
	}
	for _, prefix := range sortedPrefixKeys(declared) {
		if prefix == "" {
			sb.WriteString(` xmlns="` + escapeXML(declared[prefix]) + `"`)
			continue
		}
		sb.WriteString(` xmlns:` + prefix + `="` + escapeXML(declared[prefix]) + `"`)
	}
	sb.WriteString(">\n")

	graph := newTurtleGraph(e.pending, e.opts)
	indent := e.opts.Indent
	for _, key := range graph.order {
		block := graph.blocks[key]
		sb.WriteString(indent + "<rdf:Description " + rdfxmlSubject(block.subject) + ">\n")
		for _, p := range orderedPredicates(block.predicates) {
			ns, local, _ := splitIRIForQName(p.Value)
			name := local
			if prefix := nsToPref[ns]; prefix != "" {
				name = prefix + ":" + local
			}
			for _, o := range block.objects[p.Value] {
				sb.WriteString(indent + indent + rdfxmlProperty(name, o) + "\n")
			}
		}
		sb.WriteString(indent + "</rdf:Description>\n")
	}
	sb.WriteString("</rdf:RDF>\n")
	return sb.String()
}

func rdfxmlSubject(term Term) string {
	if bnode, ok := term.(BlankNode); ok {
		return `rdf:nodeID="` + escapeXML(bnode.ID) + `"`
	}
	return `rdf:about="` + escapeXML(term.String()) + `"`
}

func rdfxmlProperty(name string, object Term) string {
	switch value := object.(type) {
	case IRI:
		return "<" + name + ` rdf:resource="` + escapeXML(value.Value) + `"/>`
	case BlankNode:
		return "<" + name + ` rdf:nodeID="` + escapeXML(value.ID) + `"/>`
	case Literal:
		attrs := ""
		if value.Lang != "" {
			attrs = ` xml:lang="` + escapeXML(value.Lang) + `"`
		} else if value.Datatype.Value != "" {
			attrs = ` rdf:datatype="` + escapeXML(value.Datatype.Value) + `"`
		}
		return "<" + name + attrs + ">" + escapeXML(value.Lexical) + "</" + name + ">"
	default:
		return ""
	}
}

var xmlEscaper = strings.NewReplacer(
	`&`, "&amp;",
	`<`, "&lt;",
	`>`, "&gt;",
	`"`, "&quot;",
	`'`, "&apos;",
)

func escapeXML(value string) string {
	return xmlEscaper.Replace(value)
}

// splitIRIForQName splits iri after its last '#' or '/' into a namespace and
// a local name usable as an XML element name.
func splitIRIForQName(iri string) (string, string, bool) {
	idx := strings.LastIndexAny(iri, "#/")
	if idx <= 0 || idx+1 >= len(iri) {
		return "", "", false
	}
	local := iri[idx+1:]
	if !isQNameLocal(local) {
		return "", "", false
	}
	return iri[:idx+1], local, true
}
