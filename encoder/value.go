package encoder

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/geoknoesis/aspect-rdf/aspect"
	"github.com/geoknoesis/aspect-rdf/vocab"
)

type valueState uint8

const (
	stateAbsent valueState = iota
	stateFalse
	stateSet
)

// Value is one entry of a property bag. It is absent, explicitly false, or
// set. Absent and false values clear the property; set values replace it. A
// numeric zero is set.
type Value struct {
	state    valueState
	scalar   any
	datatype string
	lang     string
	texts    aspect.LangString
	entries  []string
	literal  bool
	ref      bool
}

// Absent returns a value that clears the property.
func Absent() Value { return Value{} }

// False returns an explicit false. It clears the property like Absent.
func False() Value { return Value{state: stateFalse} }

// Of returns a scalar value typed by inference. nil is absent and false is
// explicit false.
func Of(v any) Value {
	switch x := v.(type) {
	case nil:
		return Absent()
	case bool:
		if !x {
			return False()
		}
	case Value:
		return x
	}
	return Value{state: stateSet, scalar: v}
}

// Typed returns a scalar value with an explicit datatype. nil is absent.
func Typed(v any, datatype string) Value {
	if v == nil {
		return Absent()
	}
	return Value{state: stateSet, scalar: v, datatype: datatype}
}

// String returns a plain literal; the empty string is absent.
func String(s string) Value {
	if s == "" {
		return Absent()
	}
	return Value{state: stateSet, scalar: s}
}

// FromLiteral converts a model literal. A boolean false literal is explicit
// false, as with Of.
func FromLiteral(l aspect.Literal) Value {
	if b, ok := l.Value.(bool); ok && !b {
		return False()
	}
	return literalOf(l)
}

// literalOf converts a model literal to a set value whatever its lexical
// value. List members use it: a false member is still a member.
func literalOf(l aspect.Literal) Value {
	if l.Value == nil {
		return Absent()
	}
	if l.Lang != "" {
		return Value{state: stateSet, scalar: l.Value, lang: l.Lang}
	}
	return Typed(l.Value, l.Datatype)
}

// FromOption converts an optional scalar; an unset Option is absent.
func FromOption[T any](o aspect.Option[T]) Value {
	v, ok := o.Get()
	if !ok {
		return Absent()
	}
	return Of(v)
}

// Text returns a localized value. Entries with empty text are skipped on write.
func Text(texts aspect.LangString) Value {
	if len(texts) == 0 {
		return Absent()
	}
	return Value{state: stateSet, texts: texts}
}

// URN returns a named-node reference; the empty string is absent.
func URN(urn string) Value {
	if urn == "" {
		return Absent()
	}
	return Value{state: stateSet, entries: []string{urn}, ref: true}
}

// URNs returns one named-node reference per entry.
func URNs(urns []string) Value {
	if len(urns) == 0 {
		return Absent()
	}
	return Value{state: stateSet, entries: urns, ref: true}
}

// Links returns one URI-encoded named node per entry.
func Links(entries []string) Value {
	if len(entries) == 0 {
		return Absent()
	}
	return Value{state: stateSet, entries: entries}
}

// Literals returns one plain literal per entry.
func Literals(entries []string) Value {
	if len(entries) == 0 {
		return Absent()
	}
	return Value{state: stateSet, entries: entries, literal: true}
}

// Present reports whether the value is written.
func (v Value) Present() bool { return v.state == stateSet }

// IsFalse reports whether the value is an explicit false.
func (v Value) IsFalse() bool { return v.state == stateFalse }

// inferDatatype maps a Go value to the XSD datatype written when no explicit
// type is known. Strings stay plain.
func inferDatatype(v any) string {
	switch v.(type) {
	case bool:
		return vocab.XSDBoolean
	case int, int8, int16, int32, int64:
		return vocab.XSDInteger
	case uint, uint8, uint16, uint32, uint64:
		return vocab.XSDNonNegativeInteger
	case float32:
		return vocab.XSDFloat
	case float64:
		return vocab.XSDDouble
	case time.Time:
		return vocab.XSDDateTime
	case time.Duration:
		return vocab.XSDDuration
	default:
		return ""
	}
}

// lexicalForm renders a Go value as an RDF lexical form.
func lexicalForm(v any, datatype string) string {
	switch x := v.(type) {
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.FormatInt(int64(x), 10)
	case int8:
		return strconv.FormatInt(int64(x), 10)
	case int16:
		return strconv.FormatInt(int64(x), 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint:
		return strconv.FormatUint(uint64(x), 10)
	case uint8:
		return strconv.FormatUint(uint64(x), 10)
	case uint16:
		return strconv.FormatUint(uint64(x), 10)
	case uint32:
		return strconv.FormatUint(uint64(x), 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float32:
		return formatFloat(float64(x), 32, datatype)
	case float64:
		return formatFloat(x, 64, datatype)
	case time.Time:
		if datatype == vocab.XSDDate {
			return x.Format("2006-01-02")
		}
		return x.Format(time.RFC3339Nano)
	case time.Duration:
		return formatDuration(x)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(v)
	}
}

func formatFloat(f float64, bits int, datatype string) string {
	switch {
	case math.IsInf(f, 1):
		return "INF"
	case math.IsInf(f, -1):
		return "-INF"
	case math.IsNaN(f):
		return "NaN"
	}
	if vocab.IsNumeric(datatype) && datatype != vocab.XSDDouble && datatype != vocab.XSDFloat {
		// Decimal and integer types have no exponent form.
		return strconv.FormatFloat(f, 'f', -1, bits)
	}
	return strconv.FormatFloat(f, 'g', -1, bits)
}

// formatDuration renders d as an xsd:duration in seconds, for example PT1.5S.
func formatDuration(d time.Duration) string {
	sign := ""
	if d < 0 {
		sign = "-"
		d = -d
	}
	return sign + "PT" + strconv.FormatFloat(d.Seconds(), 'f', -1, 64) + "S"
}
