package encoder

import (
	"net/url"

	"github.com/geoknoesis/aspect-rdf/rdf"
	"github.com/geoknoesis/aspect-rdf/store"
	"github.com/geoknoesis/aspect-rdf/vocab"
)

// CharacteristicType is the reserved property key carrying the datatype used
// for constraint scalars and example values. It is never written.
const CharacteristicType = "characteristicType"

// Field is one entry of a property bag.
type Field struct {
	Key   string
	Value Value
}

// Properties is an ordered property bag. Statements are written in field order.
type Properties []Field

// Get returns the value stored under key.
func (p Properties) Get(key string) (Value, bool) {
	for _, f := range p {
		if f.Key == key {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Subject is the node a property bag is written to.
type Subject struct {
	IRI rdf.IRI
	// Type is the rdf:type object; a zero Type writes no type statement.
	Type rdf.IRI
}

// Updater upserts property bags: for every key the old statements are removed
// and the new value, when present, is added. Keys whose statements already
// match are left in place.
type Updater struct {
	graph *graph
}

// keys whose string values are named nodes.
var urnKeys = map[string]bool{
	vocab.DataType:       true,
	vocab.Characteristic: true,
	vocab.ReferenceUnit:  true,
	vocab.QuantityKind:   true,
	vocab.Extends:        true,
	vocab.Output:         true,
}

// keys typed by CharacteristicType.
var constraintScalarKeys = map[string]bool{
	vocab.MinValue:     true,
	vocab.MaxValue:     true,
	vocab.Scale:        true,
	vocab.Integer:      true,
	vocab.LocaleCode:   true,
	vocab.LanguageCode: true,
}

// Update writes props to subject. A subject without a type statement gets
// one first.
func (u *Updater) Update(fc *FileContext, subject Subject, props Properties) error {
	if !fc.valid() {
		return ErrNoFile
	}
	if err := u.ensureType(fc, subject); err != nil {
		return err
	}
	var characteristicType string
	if v, ok := props.Get(CharacteristicType); ok && v.Present() {
		characteristicType = lexicalForm(v.scalar, "")
	}
	for _, f := range props {
		if f.Key == CharacteristicType {
			continue
		}
		predicate := u.graph.vocab.Predicate(f.Key)
		var objects []rdf.Term
		if f.Value.Present() {
			objects = u.objects(f.Key, f.Value, characteristicType)
		}
		existing, err := store.Objects(fc.File.Store, subject.IRI, predicate)
		if err != nil {
			return wrapStoreError("match", err)
		}
		if sameTerms(existing, objects) {
			for _, o := range objects {
				u.graph.declare(fc, predicate, o)
			}
			continue
		}
		if _, err := u.graph.remove(fc, store.Pattern{S: subject.IRI, P: predicate}); err != nil {
			return err
		}
		quads := make([]rdf.Quad, 0, len(objects))
		for _, o := range objects {
			quads = append(quads, rdf.Quad{S: subject.IRI, P: predicate, O: o})
		}
		if err := u.graph.add(fc, quads...); err != nil {
			return err
		}
	}
	return nil
}

// Remove deletes every statement of subject when no keys are given, and
// otherwise every statement of subject under each key.
func (u *Updater) Remove(fc *FileContext, subject rdf.IRI, keys ...string) error {
	if !fc.valid() {
		return ErrNoFile
	}
	if len(keys) == 0 {
		_, err := u.graph.remove(fc, store.Pattern{S: subject})
		return err
	}
	for _, key := range keys {
		if key == CharacteristicType {
			continue
		}
		if _, err := u.graph.remove(fc, store.Pattern{S: subject, P: u.graph.vocab.Predicate(key)}); err != nil {
			return err
		}
	}
	return nil
}

// sameTerms reports whether a and b hold the same terms in the same order.
func sameTerms(a, b []rdf.Term) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !rdf.SameTerm(a[i], b[i]) {
			return false
		}
	}
	return true
}

// ensureType keeps exactly one rdf:type statement, replacing a different one.
func (u *Updater) ensureType(fc *FileContext, subject Subject) error {
	if subject.Type.Value == "" {
		return nil
	}
	typePredicate := rdf.NewIRI(vocab.RDFType)
	types, err := store.Objects(fc.File.Store, subject.IRI, typePredicate)
	if err != nil {
		return wrapStoreError("match", err)
	}
	if len(types) == 1 && rdf.SameTerm(types[0], subject.Type) {
		return nil
	}
	if len(types) > 0 {
		if _, err := u.graph.remove(fc, store.Pattern{S: subject.IRI, P: typePredicate}); err != nil {
			return err
		}
	}
	return u.graph.add(fc, rdf.Quad{S: subject.IRI, P: typePredicate, O: subject.Type})
}

func (u *Updater) objects(key string, v Value, characteristicType string) []rdf.Term {
	switch {
	case len(v.texts) > 0:
		var out []rdf.Term
		for _, locale := range v.texts.Locales() {
			if text := v.texts[locale]; text != "" {
				out = append(out, rdf.NewLangLiteral(text, locale))
			}
		}
		return out
	case len(v.entries) > 0:
		out := make([]rdf.Term, 0, len(v.entries))
		for _, entry := range v.entries {
			switch {
			case v.literal:
				out = append(out, rdf.NewLiteral(entry))
			case v.ref:
				out = append(out, rdf.NewIRI(entry))
			default:
				out = append(out, rdf.NewIRI(encodeURI(entry)))
			}
		}
		return out
	}

	if s, ok := v.scalar.(string); ok && v.datatype == "" && v.lang == "" && isURNKey(key, s) {
		return []rdf.Term{rdf.NewIRI(s)}
	}
	return []rdf.Term{literal(v, resolveDatatype(key, v, characteristicType))}
}

// resolveDatatype picks the literal datatype: an explicit datatype, then the
// characteristic type for constraint scalars and example values, then the
// type inferred from the Go value. Constraint scalars without a
// characteristic type stay plain.
func resolveDatatype(key string, v Value, characteristicType string) string {
	if v.datatype != "" {
		return v.datatype
	}
	if constraintScalarKeys[key] {
		return characteristicType
	}
	if key == vocab.ExampleValue && characteristicType != "" {
		return characteristicType
	}
	return inferDatatype(v.scalar)
}

func literal(v Value, datatype string) rdf.Literal {
	lexical := lexicalForm(v.scalar, datatype)
	if v.lang != "" {
		return rdf.NewLangLiteral(lexical, v.lang)
	}
	if datatype == vocab.XSDString || datatype == vocab.RDFLangString {
		return rdf.NewLiteral(lexical)
	}
	return rdf.NewTypedLiteral(lexical, datatype)
}

func isURNKey(key, value string) bool {
	if urnKeys[key] {
		return true
	}
	return key == vocab.ConversionFactor && isURN(value)
}

// isURN reports whether s looks like an absolute identifier rather than a
// literal, for example "urn:samm:...#kilometre" as opposed to "1000".
func isURN(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.Scheme != "" && (u.Opaque != "" || u.Host != "")
}

// encodeURI percent-encodes the characters of s that may not appear in an IRI.
func encodeURI(s string) string {
	u, err := url.Parse(s)
	if err != nil {
		return url.PathEscape(s)
	}
	return u.String()
}
