// Package encoder turns the elements of an aspect.Model into RDF statements.
//
// An Encoder walks the model from a visited element through every local
// element it references and writes each one into the store of a FileContext:
//
//	enc := encoder.New(model, vocab.MustNew("2.1.0"))
//	fc := encoder.NewFileContext(store.NewFile("movement.ttl", ns, "", store.NewMemory()))
//	if _, err := enc.Visit(fc, aspectID); err != nil {
//	    // handle error
//	}
//
// Writes go through three components that can also be used directly:
//   - Updater replaces the statements of a subject key by key, so visiting
//     the same element twice leaves one copy of every statement.
//   - Lists encodes ordered sequences as rdf:first/rdf:rest chains and
//     writes rdf:nil for empty ones.
//   - Resolver declares namespace aliases for referenced elements.
//
// Elements flagged Predefined are never written. Elements owned by another
// file are referenced but get no statements of their own. When an element is
// visited under a new name its old subject is removed and references to it
// are re-pointed.
package encoder
