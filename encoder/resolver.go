package encoder

import (
	"log/slog"

	"github.com/geoknoesis/aspect-rdf/aspect"
)

// Resolver declares the namespaces of referenced elements in the file being
// edited.
type Resolver struct {
	graph  *graph
	logger *slog.Logger
}

// SetPrefix makes sure the namespace of urn has an alias in the current file.
// Vocabulary namespaces get their standard alias. Other namespaces are
// aliased after the loaded file that defines urn, using that file's alias for
// its own namespace; when no loaded file defines urn nothing is declared.
func (r *Resolver) SetPrefix(fc *FileContext, urn string) error {
	ns := aspect.Namespace(urn)
	if ns == urn || fc.File.Prefixes.Declared(ns) {
		return nil
	}
	if alias, ok := r.graph.aliases[ns]; ok {
		fc.File.Prefixes.Declare(alias, ns)
		return nil
	}
	for _, loaded := range fc.Loaded {
		if loaded == nil || loaded == fc.File {
			continue
		}
		defined, err := loaded.Defines(urn)
		if err != nil {
			return err
		}
		if !defined {
			continue
		}
		alias := fc.File.Prefixes.Declare(loaded.OwnAlias(), ns)
		r.logger.Debug("declared namespace of loaded file",
			slog.String("file", loaded.Name),
			slog.String("alias", alias),
			slog.String("namespace", ns))
		return nil
	}
	return nil
}
