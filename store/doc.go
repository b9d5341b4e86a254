// Package store holds RDF statements for one model file.
//
// A Store is a set of quads with add, delete-by-pattern and match-by-pattern
// operations. Memory keeps statements in insertion order behind a read/write
// mutex; SQLite persists them with github.com/ncruces/go-sqlite3. File bundles
// a Store with the file's namespace, its prefix table and a blank node
// allocator, and ReadList decodes rdf:first/rdf:rest chains.
package store
