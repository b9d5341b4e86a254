package store

import (
	"fmt"

	"github.com/geoknoesis/aspect-rdf/rdf"
)

// File is the context of one model file: its statements, its own namespace
// and the prefix table of the namespaces it references.
type File struct {
	Name      string
	Namespace string
	Store     Store
	Prefixes  *Prefixes

	nextBlank int
}

// NewFile returns a file context whose own namespace is declared under alias.
// Use the empty alias for the file being edited.
func NewFile(name, namespace, alias string, s Store) *File {
	prefixes := NewPrefixes()
	if namespace != "" {
		prefixes.Declare(alias, namespace)
	}
	return &File{
		Name:      name,
		Namespace: namespace,
		Store:     s,
		Prefixes:  prefixes,
	}
}

// OwnAlias returns the alias the file uses for its own namespace, falling back
// to a derived one when the file declares it as the default prefix.
func (f *File) OwnAlias() string {
	if alias, ok := f.Prefixes.Alias(f.Namespace); ok && alias != "" {
		return alias
	}
	return DeriveAlias(f.Namespace)
}

// NewBlankNode allocates a blank node label that is unused in the store.
// Labels come from a per-file counter, so runs over the same input produce
// the same labels.
func (f *File) NewBlankNode() (rdf.BlankNode, error) {
	for {
		f.nextBlank++
		node := rdf.BlankNode{ID: fmt.Sprintf("b%d", f.nextBlank)}
		asSubject, err := Has(f.Store, Pattern{S: node})
		if err != nil {
			return rdf.BlankNode{}, err
		}
		if asSubject {
			continue
		}
		asObject, err := Has(f.Store, Pattern{O: node})
		if err != nil {
			return rdf.BlankNode{}, err
		}
		if !asObject {
			return node, nil
		}
	}
}

// Defines reports whether the file holds a statement with subject urn.
func (f *File) Defines(urn string) (bool, error) {
	return Has(f.Store, Pattern{S: rdf.NewIRI(urn)})
}
