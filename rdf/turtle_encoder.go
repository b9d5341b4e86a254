package rdf

import (
	"bufio"
	"io"
	"sort"
	"strings"
)

const (
	rdfNS    = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	rdfType  = rdfNS + "type"
	rdfFirst = rdfNS + "first"
	rdfRest  = rdfNS + "rest"
	rdfNil   = rdfNS + "nil"

	xsdBoolean = "http://www.w3.org/2001/XMLSchema#boolean"
	xsdInteger = "http://www.w3.org/2001/XMLSchema#integer"
)

// turtleWriter buffers statements until Flush so that subjects can be grouped,
// RDF lists folded into collections and single-use blank nodes written inline.
type turtleWriter struct {
	writer  *bufio.Writer
	opts    Options
	pending []Quad
	started bool
	closed  bool
	err     error
}

func newTurtleWriter(w io.Writer, opts Options) Writer {
	return &turtleWriter{writer: bufio.NewWriter(w), opts: opts}
}

func (e *turtleWriter) Write(q Quad) error {
	if e.err != nil {
		return e.err
	}
	if e.closed {
		return wrapWriteError(FormatTurtle, nil, ErrWriterClosed)
	}
	if q.S == nil || q.P.Value == "" || q.O == nil {
		return wrapWriteError(FormatTurtle, &q, ErrInvalidStatement)
	}
	e.pending = append(e.pending, Quad{S: q.S, P: q.P, O: q.O})
	return nil
}

// Flush renders the buffered statements. Collections and anonymous nodes only
// fold when all of their statements were written before the same Flush.
func (e *turtleWriter) Flush() error {
	if e.err != nil {
		return e.err
	}
	if !e.started {
		if err := e.writeHeader(); err != nil {
			return err
		}
	}
	if len(e.pending) > 0 {
		graph := newTurtleGraph(e.pending, e.opts)
		e.pending = nil
		if _, err := e.writer.WriteString(graph.render()); err != nil {
			e.err = wrapWriteError(FormatTurtle, nil, err)
			return e.err
		}
	}
	if err := e.writer.Flush(); err != nil {
		e.err = wrapWriteError(FormatTurtle, nil, err)
	}
	return e.err
}

func (e *turtleWriter) Close() error {
	if e.closed {
		return nil
	}
	err := e.Flush()
	e.closed = true
	return err
}

func (e *turtleWriter) writeHeader() error {
	e.started = true
	var sb strings.Builder
	if e.opts.BaseIRI != "" {
		sb.WriteString("@base <" + e.opts.BaseIRI + "> .\n")
	}
	for _, prefix := range sortedPrefixKeys(e.opts.Prefixes) {
		ns := e.opts.Prefixes[prefix]
		label := prefix + ":"
		if prefix == "" {
			label = ":"
		}
		sb.WriteString("@prefix " + label + " <" + ns + "> .\n")
	}
	if sb.Len() > 0 {
		sb.WriteString("\n")
	}
	if _, err := e.writer.WriteString(sb.String()); err != nil {
		e.err = wrapWriteError(FormatTurtle, nil, err)
		return e.err
	}
	return nil
}

type subjectBlock struct {
	subject    Term
	predicates []IRI
	objects    map[string][]Term
}

type turtleGraph struct {
	opts     Options
	order    []string
	blocks   map[string]*subjectBlock
	refCount map[string]int
	inlined  map[string]bool
}

func newTurtleGraph(quads []Quad, opts Options) *turtleGraph {
	g := &turtleGraph{
		opts:     opts,
		blocks:   make(map[string]*subjectBlock),
		refCount: make(map[string]int),
		inlined:  make(map[string]bool),
	}
	for _, q := range quads {
		key := TermKey(q.S)
		block, ok := g.blocks[key]
		if !ok {
			block = &subjectBlock{subject: q.S, objects: make(map[string][]Term)}
			g.blocks[key] = block
			g.order = append(g.order, key)
		}
		if _, seen := block.objects[q.P.Value]; !seen {
			block.predicates = append(block.predicates, q.P)
		}
		block.objects[q.P.Value] = append(block.objects[q.P.Value], q.O)
		if _, isBlank := q.O.(BlankNode); isBlank {
			g.refCount[TermKey(q.O)]++
		}
	}
	for key, block := range g.blocks {
		if _, isBlank := block.subject.(BlankNode); isBlank && g.refCount[key] == 1 {
			g.inlined[key] = true
		}
	}
	return g
}

func (g *turtleGraph) render() string {
	var sb strings.Builder
	rendered := make(map[string]bool)
	for _, key := range g.order {
		if g.inlined[key] {
			continue
		}
		g.writeBlock(&sb, g.blocks[key], rendered)
	}
	// Inlined nodes that no top-level subject reaches form cycles; emit them labelled.
	for _, key := range g.order {
		if g.inlined[key] && !rendered[key] {
			g.inlined[key] = false
			g.writeBlock(&sb, g.blocks[key], rendered)
		}
	}
	return sb.String()
}

func (g *turtleGraph) writeBlock(sb *strings.Builder, block *subjectBlock, rendered map[string]bool) {
	rendered[TermKey(block.subject)] = true
	sb.WriteString(g.renderSubject(block.subject))
	predicates := orderedPredicates(block.predicates)
	for i, p := range predicates {
		if i == 0 {
			sb.WriteString(" ")
		} else {
			sb.WriteString(" ;\n" + g.opts.Indent)
		}
		sb.WriteString(g.renderPredicate(p))
		sb.WriteString(" ")
		sb.WriteString(g.renderObjects(block.objects[p.Value], map[string]bool{}, rendered))
	}
	sb.WriteString(" .\n\n")
}

func (g *turtleGraph) renderSubject(term Term) string {
	if iri, ok := term.(IRI); ok {
		return renderIRIWithPrefixes(iri, g.opts.Prefixes)
	}
	return renderTermWithPrefixes(term, g.opts.Prefixes)
}

func (g *turtleGraph) renderPredicate(p IRI) string {
	if p.Value == rdfType {
		return "a"
	}
	return renderIRIWithPrefixes(p, g.opts.Prefixes)
}

func (g *turtleGraph) renderObjects(objects []Term, stack, rendered map[string]bool) string {
	parts := make([]string, 0, len(objects))
	for _, o := range objects {
		parts = append(parts, g.renderObject(o, stack, rendered))
	}
	return strings.Join(parts, " , ")
}

func (g *turtleGraph) renderObject(term Term, stack, rendered map[string]bool) string {
	switch value := term.(type) {
	case IRI:
		if value.Value == rdfNil {
			return "()"
		}
		return renderIRIWithPrefixes(value, g.opts.Prefixes)
	case BlankNode:
		key := TermKey(value)
		if !g.inlined[key] || stack[key] {
			return value.String()
		}
		stack[key] = true
		defer delete(stack, key)
		rendered[key] = true
		if items, cells, ok := g.listItems(value); ok {
			for _, cell := range cells {
				rendered[cell] = true
			}
			parts := make([]string, 0, len(items))
			for _, item := range items {
				parts = append(parts, g.renderObject(item, stack, rendered))
			}
			return "( " + strings.Join(parts, " ") + " )"
		}
		block := g.blocks[key]
		parts := make([]string, 0, len(block.predicates))
		for _, p := range orderedPredicates(block.predicates) {
			parts = append(parts, g.renderPredicate(p)+" "+g.renderObjects(block.objects[p.Value], stack, rendered))
		}
		return "[ " + strings.Join(parts, " ; ") + " ]"
	case Literal:
		return renderLiteralShort(value, g.opts.Prefixes)
	default:
		return renderTermWithPrefixes(term, g.opts.Prefixes)
	}
}

// listItems walks an rdf:first/rdf:rest chain. Every cell must be a single-use
// blank node holding exactly one first and one rest statement.
func (g *turtleGraph) listItems(head BlankNode) ([]Term, []string, bool) {
	var items []Term
	var cells []string
	seen := make(map[string]bool)
	var current Term = head
	for {
		if iri, ok := current.(IRI); ok && iri.Value == rdfNil {
			break
		}
		cell, ok := current.(BlankNode)
		if !ok {
			return nil, nil, false
		}
		key := TermKey(cell)
		block := g.blocks[key]
		if block == nil || seen[key] || g.refCount[key] != 1 || len(block.predicates) != 2 {
			return nil, nil, false
		}
		first, rest := block.objects[rdfFirst], block.objects[rdfRest]
		if len(first) != 1 || len(rest) != 1 {
			return nil, nil, false
		}
		seen[key] = true
		cells = append(cells, key)
		items = append(items, first[0])
		current = rest[0]
	}
	return items, cells, true
}

// orderedPredicates puts rdf:type first and keeps the remaining order.
func orderedPredicates(predicates []IRI) []IRI {
	out := make([]IRI, 0, len(predicates))
	for _, p := range predicates {
		if p.Value == rdfType {
			out = append(out, p)
		}
	}
	for _, p := range predicates {
		if p.Value != rdfType {
			out = append(out, p)
		}
	}
	return out
}

func renderLiteralShort(value Literal, prefixes map[string]string) string {
	switch value.Datatype.Value {
	case xsdBoolean:
		if value.Lexical == "true" || value.Lexical == "false" {
			return value.Lexical
		}
	case xsdInteger:
		if isIntegerLexical(value.Lexical) {
			return value.Lexical
		}
	}
	return renderTermWithPrefixes(value, prefixes)
}

func isIntegerLexical(lexical string) bool {
	if lexical == "" {
		return false
	}
	start := 0
	if lexical[0] == '+' || lexical[0] == '-' {
		start = 1
	}
	if start == len(lexical) {
		return false
	}
	for i := start; i < len(lexical); i++ {
		if lexical[i] < '0' || lexical[i] > '9' {
			return false
		}
	}
	return true
}

func sortedPrefixKeys(prefixes map[string]string) []string {
	keys := make([]string, 0, len(prefixes))
	for key := range prefixes {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func renderIRIWithPrefixes(iri IRI, prefixes map[string]string) string {
	if qname, ok := abbreviateQName(iri.Value, prefixes, true); ok {
		return qname
	}
	return renderIRI(iri)
}

func renderTermWithPrefixes(term Term, prefixes map[string]string) string {
	switch value := term.(type) {
	case IRI:
		return renderIRIWithPrefixes(value, prefixes)
	case BlankNode:
		return value.String()
	case Literal:
		if value.Lang != "" {
			return quoteLiteral(value.Lexical) + "@" + value.Lang
		}
		if value.Datatype.Value != "" {
			return quoteLiteral(value.Lexical) + "^^" + renderIRIWithPrefixes(value.Datatype, prefixes)
		}
		return quoteLiteral(value.Lexical)
	default:
		return ""
	}
}

// quoteLiteral escapes a lexical form for a Turtle short string.
func quoteLiteral(lexical string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range lexical {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

func abbreviateQName(iri string, prefixes map[string]string, allowEmptyPrefix bool) (string, bool) {
	if len(prefixes) == 0 {
		return "", false
	}
	bestNS := ""
	bestPrefix := ""
	found := false
	for prefix, ns := range prefixes {
		if prefix == "" && !allowEmptyPrefix {
			continue
		}
		if !strings.HasPrefix(iri, ns) {
			continue
		}
		local := iri[len(ns):]
		if !isQNameLocal(local) {
			continue
		}
		if len(ns) > len(bestNS) || (len(ns) == len(bestNS) && prefix < bestPrefix) {
			bestNS = ns
			bestPrefix = prefix
			found = true
		}
	}
	if !found {
		return "", false
	}
	local := iri[len(bestNS):]
	if bestPrefix == "" {
		return ":" + local, true
	}
	return bestPrefix + ":" + local, true
}

// isQNameLocal reports whether value can follow a prefix in a Turtle
// prefixed name: a letter or '_' followed by letters, digits, '_', '-' and
// '.', not ending in '.'.
func isQNameLocal(value string) bool {
	if value == "" || value[len(value)-1] == '.' {
		return false
	}
	for i := 0; i < len(value); i++ {
		ch := value[i]
		letter := (ch >= 'A' && ch <= 'Z') || (ch >= 'a' && ch <= 'z') || ch == '_'
		if i == 0 && !letter {
			return false
		}
		if !letter && !(ch >= '0' && ch <= '9') && ch != '-' && ch != '.' {
			return false
		}
	}
	return true
}
