package rdf

import "strconv"

// TermKind identifies RDF term types. The values are stable: stores persist them.
type TermKind uint8

const (
	TermIRI TermKind = iota
	TermBlankNode
	TermLiteral
)

// Term is an IRI, a blank node or a literal.
type Term interface {
	Kind() TermKind
	String() string
}

// IRI is an IRI or URN reference. SAMM elements are named by URNs.
type IRI struct {
	Value string
}

// Kind returns TermIRI.
func (i IRI) Kind() TermKind { return TermIRI }
// String returns the IRI value.
func (i IRI) String() string { return i.Value }

// BlankNode is an anonymous node, local to one store.
type BlankNode struct {
	ID string
}

// Kind returns TermBlankNode.
func (b BlankNode) Kind() TermKind { return TermBlankNode }
// String returns the node label with the "_:" prefix.
func (b BlankNode) String() string { return "_:" + b.ID }

// Literal is a lexical form with either a datatype or a language tag.
// A literal with neither is a plain xsd:string.
type Literal struct {
	Lexical  string
	Datatype IRI
	Lang     string
}

// Kind returns TermLiteral.
func (l Literal) Kind() TermKind { return TermLiteral }

// String renders the literal in N-Triples syntax.
func (l Literal) String() string {
	switch {
	case l.Lang != "":
		return strconv.Quote(l.Lexical) + "@" + l.Lang
	case l.Datatype.Value != "":
		return strconv.Quote(l.Lexical) + "^^<" + l.Datatype.Value + ">"
	default:
		return strconv.Quote(l.Lexical)
	}
}

// Quad is a statement. G is nil for the default graph; the encoder only
// writes default-graph statements, N-Quads output keeps G when set.
type Quad struct {
	S Term
	P IRI
	O Term
	G Term
}

// IsZero reports whether every field is unset.
func (q Quad) IsZero() bool {
	return q.S == nil && q.P.Value == "" && q.O == nil && q.G == nil
}

// String renders the quad in N-Quads syntax without the trailing dot.
func (q Quad) String() string {
	line := renderTerm(q.S) + " " + renderIRI(q.P) + " " + renderTerm(q.O)
	if q.G != nil {
		line += " " + renderTerm(q.G)
	}
	return line
}

// NewIRI returns an IRI term.
func NewIRI(value string) IRI { return IRI{Value: value} }

// NewLiteral returns a plain literal.
func NewLiteral(lexical string) Literal { return Literal{Lexical: lexical} }

// NewTypedLiteral returns a literal of datatype. An empty datatype yields a plain literal.
func NewTypedLiteral(lexical, datatype string) Literal {
	return Literal{Lexical: lexical, Datatype: IRI{Value: datatype}}
}

// NewLangLiteral returns a language-tagged literal.
func NewLangLiteral(lexical, lang string) Literal {
	return Literal{Lexical: lexical, Lang: lang}
}

// TermKey identifies a term by value for use as a map key. Nil maps to "".
func TermKey(term Term) string {
	if term == nil {
		return ""
	}
	return renderTerm(term)
}

// SameTerm reports whether two terms are equal by value. Nil matches only nil.
func SameTerm(a, b Term) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return TermKey(a) == TermKey(b)
}
