// Package rdf provides a compact RDF term model and push-style writers.
//
// Copyright 2026 Geoknoesis LLC (www.geoknoesis.com)
//
// Author: Stephane Fellah (stephanef@geoknoesis.com)
// Geosemantic-AI expert with 30 years of experience
//
// The package is the output side of aspect-rdf: terms are produced by the
// encoder into a store, and a Writer renders them as text.
//   - Terms: IRI, BlankNode and Literal, combined into a Quad.
//   - Write: NewWriter() returns a push-style writer, WriteAll() writes a slice.
//
// Supported formats: Turtle, N-Triples, N-Quads, JSON-LD, RDF/XML.
//
// Example (writing Turtle):
//
//	w, err := rdf.NewWriter(os.Stdout, rdf.FormatTurtle, rdf.WithPrefixes(map[string]string{
//	    "samm": "urn:samm:org.eclipse.esmf.samm:meta-model:2.1.0#",
//	}))
//	if err != nil {
//	    // handle error
//	}
//	for _, q := range quads {
//	    if err := w.Write(q); err != nil {
//	        // handle error
//	    }
//	}
//	if err := w.Close(); err != nil {
//	    // handle error
//	}
//
// The Turtle writer buffers statements until Flush or Close so that it can
// group statements by subject, fold rdf:first/rdf:rest chains into ( … )
// collections and write single-use blank nodes inline as [ … ].
//
// JSON-LD output is produced by github.com/piprate/json-gold and compacted
// against the prefix table when one is given.
//
// For unsupported formats, NewWriter returns ErrUnsupportedFormat.
package rdf
