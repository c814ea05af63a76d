package module

import (
	"errors"

	"fieldmapper/internal/mapping"
)

var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrReadOnly         = errors.New("module is read-only")
	ErrPathConflict     = errors.New("path conflicts with document structure")
	ErrUnboundKey       = errors.New("map segment has no key")
	ErrPropertyNotFound = errors.New("property not found")
	ErrUnsupportedField = errors.New("field is not supported by module")
)

// Session is the part of a mapping session a module may use.
type Session interface {
	ID() string
	// SourceDocument returns the decoded source document registered under id.
	SourceDocument(id string) (any, bool)
	// TargetDocument returns the target document built so far, nil if none.
	TargetDocument(id string) any
	SetTargetDocument(id string, doc any)
	// Property returns a runtime property set on the session.
	Property(name string) (any, bool)
	Definition() *mapping.Definition
}

// Module reads and writes the fields of one kind of document.
type Module interface {
	Name() string
	// Supports reports whether the module can address f.
	Supports(f *mapping.Field) bool
	// Read resolves f and returns a field holding the value, or a
	// FieldGroup when f's path spans a collection. f is not modified.
	Read(s Session, f *mapping.Field) (mapping.FieldValue, error)
	// Write stores f's value at f's path.
	Write(s Session, f *mapping.Field) error
}

// TargetPopulator replaces the engine's default population of a target
// field, which converts the source value to the target type and applies
// the mapping's lookup table.
type TargetPopulator interface {
	PopulateTarget(s Session, m *mapping.Mapping, source, target *mapping.Field) error
}

// Lifecycle hooks run once per session around source and target
// processing of the documents the module serves.
type Lifecycle interface {
	PreSourceExecution(s Session) error
	PostSourceExecution(s Session) error
	PreTargetExecution(s Session) error
	PostTargetExecution(s Session) error
}
