package encoder

import (
	"github.com/geoknoesis/aspect-rdf/aspect"
	"github.com/geoknoesis/aspect-rdf/store"
)

// FileContext is the file being edited plus the files loaded beside it.
// Loaded files are only read.
type FileContext struct {
	File   *store.File
	Loaded []*store.File

	// written maps element IDs to the URN they were last encoded under in File.
	written map[aspect.ID]string
}

// NewFileContext returns a context for editing file.
func NewFileContext(file *store.File, loaded ...*store.File) *FileContext {
	return &FileContext{
		File:    file,
		Loaded:  loaded,
		written: make(map[aspect.ID]string),
	}
}

// WrittenURN returns the URN id was last encoded under in this file.
func (fc *FileContext) WrittenURN(id aspect.ID) (string, bool) {
	urn, ok := fc.written[id]
	return urn, ok
}

func (fc *FileContext) valid() bool {
	return fc != nil && fc.File != nil && fc.File.Store != nil
}

func (fc *FileContext) record(id aspect.ID, urn string) {
	if fc.written == nil {
		fc.written = make(map[aspect.ID]string)
	}
	fc.written[id] = urn
}
