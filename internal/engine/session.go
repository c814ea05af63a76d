package engine

import (
	"maps"
	"slices"

	"github.com/google/uuid"

	"fieldmapper/internal/collection"
	"fieldmapper/internal/diagnostic"
	"fieldmapper/internal/mapping"
)

// Session is one execution of a mapping definition. It owns a private
// clone of the definition, the source and target documents, and the audit
// trail. A Session is not safe for concurrent use; separate sessions are
// independent.
type Session struct {
	id    string
	def   *mapping.Definition
	state State

	sources    map[string]any
	targets    map[string]any
	properties map[string]any

	audits      diagnostic.Audits
	diagnostics *diagnostic.Diagnostics
	correlator  *collection.Correlator
}

func newSession(def *mapping.Definition, correlator *collection.Correlator) *Session {
	var c *mapping.Definition
	if def != nil {
		c = def.Clone()
	}

	return &Session{
		id:         uuid.NewString(),
		def:        c,
		sources:    make(map[string]any),
		targets:    make(map[string]any),
		properties: make(map[string]any),
		correlator: correlator,
	}
}

func (s *Session) ID() string { return s.id }

// Definition returns the session's working copy of the definition. Paths
// and values on it reflect the last execution.
func (s *Session) Definition() *mapping.Definition { return s.def }

func (s *Session) State() State { return s.state }

// SetSourceDocument registers a decoded source document under id.
func (s *Session) SetSourceDocument(id string, doc any) {
	s.sources[id] = doc
}

func (s *Session) SourceDocument(id string) (any, bool) {
	doc, ok := s.sources[id]
	return doc, ok
}

// TargetDocument returns the target document built for id, nil if nothing
// was written to it.
func (s *Session) TargetDocument(id string) any {
	return s.targets[id]
}

func (s *Session) SetTargetDocument(id string, doc any) {
	s.targets[id] = doc
}

// TargetDocumentIDs returns the ids of all written target documents, sorted.
func (s *Session) TargetDocumentIDs() []string {
	return slices.Sorted(maps.Keys(s.targets))
}

// SetProperty sets a session-scoped property. Session properties shadow
// definition properties and the environment.
func (s *Session) SetProperty(name string, value any) {
	s.properties[name] = value
}

func (s *Session) Property(name string) (any, bool) {
	v, ok := s.properties[name]
	return v, ok
}

// Audits returns the audit trail in recording order.
func (s *Session) Audits() []diagnostic.Audit {
	return s.audits.List()
}

// AuditLog exposes the audit list for filtering and counting.
func (s *Session) AuditLog() *diagnostic.Audits {
	return &s.audits
}

// Diagnostics returns the validation findings of the last run, nil before
// validation.
func (s *Session) Diagnostics() *diagnostic.Diagnostics {
	return s.diagnostics
}

func (s *Session) HasErrors() bool {
	return s.audits.HasErrors()
}
