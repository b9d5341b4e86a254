package main

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/geoknoesis/aspect-rdf/aspect"
	"github.com/geoknoesis/aspect-rdf/config"
	"github.com/geoknoesis/aspect-rdf/encoder"
	"github.com/geoknoesis/aspect-rdf/modeldoc"
	"github.com/geoknoesis/aspect-rdf/rdf"
	"github.com/geoknoesis/aspect-rdf/store"
	"github.com/geoknoesis/aspect-rdf/vocab"
)

// pipeline encodes one model document, together with the documents loaded
// beside it, into the configured store and writes the result.
type pipeline struct {
	cfg     *config.Config
	vocab   *vocab.Vocabulary
	logger  *slog.Logger
	metrics *encoder.Metrics
	store   store.Store
	closer  io.Closer
}

// Summary describes one encoding run.
type Summary struct {
	Document   string
	Namespace  string
	Elements   int
	External   int
	Statements int
}

func newPipeline(cfg *config.Config, logger *slog.Logger, metrics *encoder.Metrics) (*pipeline, error) {
	v, err := vocab.New(cfg.Vocabulary.Version)
	if err != nil {
		return nil, err
	}
	p := &pipeline{cfg: cfg, vocab: v, logger: logger, metrics: metrics}

	switch cfg.Store.Backend {
	case config.BackendSQLite:
		db, err := store.OpenSQLite(cfg.Store.Path)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		p.store, p.closer = db, db
	default:
		p.store = store.NewMemory()
	}
	return p, nil
}

// Close releases the store.
func (p *pipeline) Close() error {
	if p.closer == nil {
		return nil
	}
	return p.closer.Close()
}

// run builds the document at path and the documents matching the external
// patterns, re-encodes the store from scratch and writes it to out.
func (p *pipeline) run(path string, out io.Writer) (*Summary, error) {
	doc, err := modeldoc.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if doc.Namespace == "" {
		doc.Namespace = p.cfg.Model.Namespace
	}

	externalPaths, err := expandExternal(p.cfg.Model.External, path)
	if err != nil {
		return nil, err
	}

	model := aspect.NewModel()
	builder := modeldoc.NewBuilder(model, p.vocab, p.logger)
	loaded := make([]*store.File, 0, len(externalPaths))
	for _, extPath := range externalPaths {
		ext, err := modeldoc.ReadFile(extPath)
		if err != nil {
			return nil, err
		}
		if _, err := builder.Add(ext, true); err != nil {
			return nil, fmt.Errorf("%s: %w", extPath, err)
		}
		file, err := p.encodeLoaded(ext, aliasFor(doc, ext.Namespace))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", extPath, err)
		}
		loaded = append(loaded, file)
	}
	ids, err := builder.Add(doc, false)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if _, err := p.store.Delete(store.Pattern{}); err != nil {
		return nil, fmt.Errorf("clear store: %w", err)
	}
	fc := encoder.NewFileContext(store.NewFile(path, doc.Namespace, "", p.store), loaded...)
	enc := encoder.New(model, p.vocab, encoder.WithLogger(p.logger), encoder.WithMetrics(p.metrics))
	if err := enc.VisitAll(fc); err != nil {
		return nil, err
	}

	quads, err := store.All(p.store)
	if err != nil {
		return nil, err
	}
	err = rdf.WriteAll(out, p.cfg.Format(), quads,
		rdf.WithPrefixes(fc.File.Prefixes.Map()),
		rdf.WithIndent(p.cfg.Output.Indent))
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		Document:   path,
		Namespace:  doc.Namespace,
		Elements:   len(ids),
		External:   len(loaded),
		Statements: len(quads),
	}
	p.logger.Info("Encoded model document",
		slog.String("path", summary.Document),
		slog.String("namespace", summary.Namespace),
		slog.Int("elements", summary.Elements),
		slog.Int("external", summary.External),
		slog.Int("statements", summary.Statements))
	return summary, nil
}

// encodeLoaded encodes an external document into its own in-memory file so
// that the edited file can tell which URNs it defines.
func (p *pipeline) encodeLoaded(doc *modeldoc.Document, alias string) (*store.File, error) {
	model := aspect.NewModel()
	if _, err := modeldoc.NewBuilder(model, p.vocab, p.logger).Add(doc, false); err != nil {
		return nil, err
	}
	file := store.NewFile(doc.Path, doc.Namespace, alias, store.NewMemory())
	enc := encoder.New(model, p.vocab, encoder.WithLogger(p.logger))
	if err := enc.VisitAll(encoder.NewFileContext(file)); err != nil {
		return nil, err
	}
	return file, nil
}

// aliasFor returns the prefix doc declares for namespace, or one derived from
// the namespace itself.
func aliasFor(doc *modeldoc.Document, namespace string) string {
	for alias, ns := range doc.Prefixes {
		if ns == namespace && alias != "" {
			return alias
		}
	}
	return store.DeriveAlias(namespace)
}

// expandExternal resolves glob patterns to document paths, skipping the
// edited document itself. Each path is returned once, in pattern order.
func expandExternal(patterns []string, self string) ([]string, error) {
	selfAbs, err := filepath.Abs(self)
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{selfAbs: true}
	var paths []string
	for _, pattern := range patterns {
		absPattern, err := filepath.Abs(pattern)
		if err != nil {
			return nil, err
		}
		matches, err := doublestar.FilepathGlob(absPattern)
		if err != nil {
			return nil, fmt.Errorf("external pattern %q: %w", pattern, err)
		}
		for _, match := range matches {
			if seen[match] {
				continue
			}
			seen[match] = true
			paths = append(paths, match)
		}
	}
	return paths, nil
}
