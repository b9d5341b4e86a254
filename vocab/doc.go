// Package vocab is the fixed vocabulary table of the Semantic Aspect Meta
// Model (SAMM): versioned namespaces, the logical property keys used by the
// encoder and the predicate and class IRIs they resolve to.
package vocab
