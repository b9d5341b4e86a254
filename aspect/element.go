package aspect

import (
	"sort"
	"strings"

	"github.com/google/uuid"
)

// ID is the stable identity of an element. It never changes, even on rename.
type ID string

// NewID returns a fresh random ID.
func NewID() ID {
	return ID(uuid.NewString())
}

// Kind tags the element variants.
type Kind uint8

const (
	KindAspect Kind = iota + 1
	KindEntity
	KindAbstractEntity
	KindProperty
	KindAbstractProperty
	KindCharacteristic
	KindConstraint
	KindUnit
	KindValue
	KindEntityInstance
	KindOperation
	KindEvent
)

var kindNames = map[Kind]string{
	KindAspect:           "Aspect",
	KindEntity:           "Entity",
	KindAbstractEntity:   "AbstractEntity",
	KindProperty:         "Property",
	KindAbstractProperty: "AbstractProperty",
	KindCharacteristic:   "Characteristic",
	KindConstraint:       "Constraint",
	KindUnit:             "Unit",
	KindValue:            "Value",
	KindEntityInstance:   "EntityInstance",
	KindOperation:        "Operation",
	KindEvent:            "Event",
}

// String returns the SAMM class name of the kind, or "Unknown".
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// ParseKind maps a kind name back to its Kind.
func ParseKind(name string) (Kind, bool) {
	for kind, kindName := range kindNames {
		if strings.EqualFold(kindName, name) {
			return kind, true
		}
	}
	return 0, false
}

// LangString maps a locale code to text.
type LangString map[string]string

// Locales returns the locale codes in sorted order.
func (l LangString) Locales() []string {
	locales := make([]string, 0, len(l))
	for locale := range l {
		locales = append(locales, locale)
	}
	sort.Strings(locales)
	return locales
}

// Meta is the part shared by every element.
type Meta struct {
	ID ID
	// Namespace ends with '#', for example "urn:samm:org.example:1.0.0#".
	Namespace      string
	Name           string
	PreferredNames LangString
	Descriptions   LangString
	See            []string
	// Predefined marks elements of the SAMM standard library, which are never serialized.
	Predefined bool
	// External marks elements owned by another file.
	External bool
}

// Base returns the shared metadata.
func (m *Meta) Base() *Meta { return m }

// URN returns the element's identifier: namespace followed by name.
func (m *Meta) URN() string { return m.Namespace + m.Name }

// Element is a node of the model graph.
type Element interface {
	Base() *Meta
	Kind() Kind
	// References lists the IDs the element points to directly, in field order.
	References() []ID
}

// Namespace returns the part of a URN up to and including '#'. A URN without
// '#' is its own namespace.
func Namespace(urn string) string {
	if i := strings.LastIndexByte(urn, '#'); i >= 0 {
		return urn[:i+1]
	}
	return urn
}

// LocalName returns the fragment after '#'.
func LocalName(urn string) string {
	if i := strings.LastIndexByte(urn, '#'); i >= 0 {
		return urn[i+1:]
	}
	return urn
}

func appendRef(refs []ID, ids ...ID) []ID {
	for _, id := range ids {
		if id != "" {
			refs = append(refs, id)
		}
	}
	return refs
}
