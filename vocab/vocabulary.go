package vocab

import (
	"errors"
	"fmt"
	"strings"

	"github.com/geoknoesis/aspect-rdf/rdf"
)

// DefaultVersion is the SAMM version used when none is configured.
const DefaultVersion = "2.1.0"

// ErrUnsupportedVersion is returned for SAMM versions outside the table.
var ErrUnsupportedVersion = errors.New("vocab: unsupported SAMM version")

var supportedVersions = map[string]bool{
	"2.0.0": true,
	"2.1.0": true,
}

// Vocabulary resolves logical keys and class names for one SAMM version.
type Vocabulary struct {
	version string
	samm    string
	sammC   string
	sammE   string
	unit    string
}

// New returns the vocabulary table for a SAMM version.
func New(version string) (*Vocabulary, error) {
	if version == "" {
		version = DefaultVersion
	}
	if !supportedVersions[version] {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedVersion, version)
	}
	base := "urn:samm:org.eclipse.esmf.samm:"
	return &Vocabulary{
		version: version,
		samm:    base + "meta-model:" + version + "#",
		sammC:   base + "characteristic:" + version + "#",
		sammE:   base + "entity:" + version + "#",
		unit:    base + "unit:" + version + "#",
	}, nil
}

// MustNew is New for static configuration; it panics on an unsupported version.
func MustNew(version string) *Vocabulary {
	v, err := New(version)
	if err != nil {
		panic(err)
	}
	return v
}

// Versions lists the supported SAMM versions.
func Versions() []string {
	return []string{"2.0.0", "2.1.0"}
}

// Version returns the SAMM version of the table.
func (v *Vocabulary) Version() string { return v.version }

// SAMM returns the meta-model namespace.
func (v *Vocabulary) SAMM() string { return v.samm }

// SAMMC returns the characteristic namespace.
func (v *Vocabulary) SAMMC() string { return v.sammC }

// SAMME returns the shared entity namespace.
func (v *Vocabulary) SAMME() string { return v.sammE }

// Unit returns the unit catalog namespace.
func (v *Vocabulary) Unit() string { return v.unit }

// Prefixes returns the standard aliases for the vocabulary namespaces.
func (v *Vocabulary) Prefixes() map[string]string {
	return map[string]string{
		"samm":   v.samm,
		"samm-c": v.sammC,
		"samm-e": v.sammE,
		"unit":   v.unit,
		"rdf":    RDF,
		"rdfs":   RDFS,
		"xsd":    XSD,
	}
}

// IsVocabularyNamespace reports whether ns is one of the vocabulary's own namespaces.
func (v *Vocabulary) IsVocabularyNamespace(ns string) bool {
	switch ns {
	case v.samm, v.sammC, v.sammE, v.unit, RDF, RDFS, XSD:
		return true
	}
	return false
}

// Predicate resolves a logical key to its predicate IRI.
func (v *Vocabulary) Predicate(key string) rdf.IRI {
	if characteristicKeys[key] {
		return rdf.NewIRI(v.sammC + key)
	}
	return rdf.NewIRI(v.samm + key)
}

// Key maps a predicate IRI back to its logical key. ok is false for foreign predicates.
func (v *Vocabulary) Key(predicate string) (string, bool) {
	if key, found := strings.CutPrefix(predicate, v.sammC); found && characteristicKeys[key] {
		return key, true
	}
	if key, found := strings.CutPrefix(predicate, v.samm); found && !characteristicKeys[key] {
		return key, true
	}
	return "", false
}

// Class returns a samm meta-model class such as Aspect or Property.
func (v *Vocabulary) Class(name string) rdf.IRI {
	return rdf.NewIRI(v.samm + name)
}

// CharacteristicClass returns a samm-c class such as Trait or RangeConstraint.
func (v *Vocabulary) CharacteristicClass(name string) rdf.IRI {
	return rdf.NewIRI(v.sammC + name)
}

// Bound returns the IRI of a range bound definition.
func (v *Vocabulary) Bound(b BoundDefinition) rdf.IRI {
	return rdf.NewIRI(v.sammC + string(b))
}

// Encoding looks an encoding up by fragment (for example "UTF-8"). ok is false
// when the fragment is not in the closed encoding list.
func (v *Vocabulary) Encoding(fragment string) (rdf.IRI, bool) {
	for _, name := range Encodings {
		if name == fragment {
			return rdf.NewIRI(v.samm + name), true
		}
	}
	return rdf.IRI{}, false
}

// Curie returns the samm:curie datatype.
func (v *Vocabulary) Curie() string {
	return v.samm + "curie"
}

// IsScalarType reports whether a data type IRI is a scalar for this vocabulary.
func (v *Vocabulary) IsScalarType(iri string) bool {
	return IsScalar(iri) || iri == v.Curie()
}
