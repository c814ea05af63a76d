// Package engine executes mapping definitions.
//
// An Engine holds the stateless collaborators: document modules, the
// conversion service, the action catalog and the combine and separate
// strategies. Each execution runs in its own Session, which clones the
// definition and collects the audit trail:
//
//	eng := engine.New(engine.Config{Logger: logger})
//	s := eng.NewSession(def)
//	s.SetSourceDocument("src", doc)
//	if err := eng.Process(s); err != nil { ... }
//	for _, a := range s.Audits() { ... }
//
// Per-field problems never surface as errors from Process: they are
// recorded as audits and processing continues with the next field.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"fieldmapper/internal/action"
	"fieldmapper/internal/collection"
	"fieldmapper/internal/common"
	"fieldmapper/internal/diagnostic"
	"fieldmapper/internal/mapping"
	"fieldmapper/internal/module"
	"fieldmapper/internal/strategy"
	"fieldmapper/primitive"
)

var (
	ErrNilSession   = errors.New("session is nil")
	ErrSessionState = errors.New("session was already processed")
)

// Config holds engine configuration. Zero values select the defaults.
type Config struct {
	// Modules maps document ids to the module serving them.
	Modules map[string]module.Module
	// DefaultModule serves document ids without a registered module;
	// defaults to a Tree module.
	DefaultModule module.Module
	// DefaultDocumentID is assigned to document fields without a doc id.
	DefaultDocumentID string

	Conversion *primitive.ConversionService
	Catalog    *action.Catalog
	Combine    strategy.Combiner
	Separate   strategy.Separator

	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// Engine runs sessions. It holds no per-session state and may run any
// number of sessions concurrently.
type Engine struct {
	modules       map[string]module.Module
	defaultModule module.Module
	constant      module.Module
	property      module.Module
	defaultDocID  string

	conversion *primitive.ConversionService
	catalog    *action.Catalog
	pipeline   *action.Pipeline
	combine    strategy.Combiner
	separate   strategy.Separator

	logger *slog.Logger
}

// New creates an engine.
func New(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	e := &Engine{
		modules:       cfg.Modules,
		defaultModule: cfg.DefaultModule,
		defaultDocID:  cfg.DefaultDocumentID,
		conversion:    cfg.Conversion,
		catalog:       cfg.Catalog,
		combine:       cfg.Combine,
		separate:      cfg.Separate,
		logger:        logger,
	}

	if e.modules == nil {
		e.modules = map[string]module.Module{}
	}

	if e.defaultModule == nil {
		e.defaultModule = module.NewTree(logger)
	}

	if e.defaultDocID == "" {
		e.defaultDocID = common.DefaultDocumentID
	}

	if e.conversion == nil {
		e.conversion = primitive.DefaultConversionService
	}

	if e.catalog == nil {
		e.catalog = action.NewCatalog()
	}

	if e.combine == nil {
		e.combine = strategy.DefaultCombine()
	}

	if e.separate == nil {
		e.separate = strategy.DefaultSeparate()
	}

	e.constant = module.NewConstant(e.conversion)
	e.property = module.NewProperty(e.conversion)
	e.pipeline = action.NewPipeline(action.PipelineConfig{
		Catalog:    e.catalog,
		Conversion: e.conversion,
		Logger:     logger,
	})

	logger.Debug("initialized engine",
		"modules", len(e.modules),
		"default_module", e.defaultModule.Name(),
		"default_document_id", e.defaultDocID)

	return e
}

// NewSession creates an idle session over a private clone of def.
func (e *Engine) NewSession(def *mapping.Definition) *Session {
	return newSession(def, collection.NewCorrelator(e.catalog, e.logger))
}

// Validate runs the structural checks Process performs before executing.
func (e *Engine) Validate(def *mapping.Definition) *diagnostic.Diagnostics {
	return mapping.Validate(def, mapping.ValidateOptions{Actions: e.catalog, Conversion: e.conversion})
}

// Process validates and executes the session. Validation findings and
// execution problems are recorded as audits; ERROR findings from
// validation skip execution. An error is returned only when the session
// cannot be processed at all.
func (e *Engine) Process(s *Session) error {
	if s == nil {
		return ErrNilSession
	}

	if s.state != StateIdle {
		return fmt.Errorf("%w: state %s", ErrSessionState, s.state)
	}

	log := e.logger.With("session_id", s.id)

	s.state = StateValidating
	s.diagnostics = e.Validate(s.def)
	s.audits.Escalate(*s.diagnostics)

	if s.diagnostics.HasErrors() {
		log.Warn("validation failed, execution skipped", "errors", len(s.diagnostics.Errors))

		s.state = StateDone

		return nil
	}

	s.state = StateExecuting

	mappings := s.def.Flatten()
	e.assignDocumentIDs(mappings)

	hooks := e.lifecycles(mappings)

	log.Info("executing mappings", "definition", s.def.Name, "mappings", len(mappings))

	e.runHooks(s, hooks, "pre-source", module.Lifecycle.PreSourceExecution)
	e.runHooks(s, hooks, "pre-target", module.Lifecycle.PreTargetExecution)

	for _, m := range mappings {
		if m == nil || m.Type == mapping.MappingCollection {
			continue
		}

		s.correlator.Reset()
		e.processMapping(&iteration{s: s, m: m, log: log.With("mapping_id", m.ID)})
	}

	e.runHooks(s, hooks, "post-source", module.Lifecycle.PostSourceExecution)
	e.runHooks(s, hooks, "post-target", module.Lifecycle.PostTargetExecution)

	s.state = StateDone

	log.Info("session done",
		"audits", s.audits.Len(),
		"errors", s.audits.Count(diagnostic.StatusError),
		"warnings", s.audits.Count(diagnostic.StatusWarn))

	return nil
}

func (e *Engine) assignDocumentIDs(mappings []*mapping.Mapping) {
	for _, m := range mappings {
		if m == nil {
			continue
		}

		for _, f := range slices.Concat(m.Inputs, m.Outputs) {
			if f != nil && f.Kind == mapping.KindDocument && f.DocID == "" {
				f.DocID = e.defaultDocID
			}
		}
	}
}

// moduleFor picks the module serving f.
func (e *Engine) moduleFor(f *mapping.Field) module.Module {
	switch f.Kind {
	case mapping.KindConstant:
		return e.constant
	case mapping.KindProperty:
		return e.property
	}

	if m, ok := e.modules[f.DocID]; ok {
		return m
	}

	return e.defaultModule
}

// lifecycles returns the distinct modules with hooks that serve a field
// of the given mappings, in first-use order.
func (e *Engine) lifecycles(mappings []*mapping.Mapping) []module.Lifecycle {
	var (
		out  []module.Lifecycle
		seen = map[module.Module]bool{}
	)

	for _, m := range mappings {
		if m == nil {
			continue
		}

		for _, f := range slices.Concat(m.Inputs, m.Outputs) {
			if f == nil {
				continue
			}

			mod := e.moduleFor(f)
			if seen[mod] {
				continue
			}

			seen[mod] = true

			if l, ok := mod.(module.Lifecycle); ok {
				out = append(out, l)
			}
		}
	}

	return out
}

func (e *Engine) runHooks(s *Session, hooks []module.Lifecycle, stage string, run func(module.Lifecycle, module.Session) error) {
	for _, h := range hooks {
		if err := run(h, s); err != nil {
			s.audits.Add(diagnostic.Audit{
				Status:  diagnostic.StatusError,
				Message: fmt.Sprintf("%s hook failed: %v", stage, err),
			})
			e.logger.Error("lifecycle hook failed", "session_id", s.id, "stage", stage, "error", err)
		}
	}
}
