package module

import (
	"fieldmapper/internal/mapping"
)

type stubSession struct {
	sources    map[string]any
	targets    map[string]any
	properties map[string]any
	def        *mapping.Definition
}

func newStubSession() *stubSession {
	return &stubSession{
		sources:    map[string]any{},
		targets:    map[string]any{},
		properties: map[string]any{},
		def:        &mapping.Definition{},
	}
}

func (s *stubSession) ID() string { return "test-session" }

func (s *stubSession) SourceDocument(id string) (any, bool) {
	doc, ok := s.sources[id]
	return doc, ok
}

func (s *stubSession) TargetDocument(id string) any { return s.targets[id] }

func (s *stubSession) SetTargetDocument(id string, doc any) { s.targets[id] = doc }

func (s *stubSession) Property(name string) (any, bool) {
	v, ok := s.properties[name]
	return v, ok
}

func (s *stubSession) Definition() *mapping.Definition { return s.def }
