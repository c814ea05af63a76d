package engine

import (
	"fmt"
	"log/slog"

	"fieldmapper/internal/diagnostic"
	"fieldmapper/internal/mapping"
)

// iteration is the context of one mapping entry. source and target track
// the field in flight so a recovered panic can be attributed to it.
type iteration struct {
	s   *Session
	m   *mapping.Mapping
	log *slog.Logger

	source *mapping.Field
	target *mapping.Field
}

// audit records a finding against f, prefixed with the mapping id.
func (it *iteration) audit(status diagnostic.AuditStatus, f *mapping.Field, value any, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if it.m.ID != "" {
		msg = "[" + it.m.ID + "] " + msg
	}

	audit := diagnostic.Audit{Status: status, Message: msg, Value: diagnostic.ValueSnippet(value)}
	if f != nil {
		audit.DocID = f.DocID
		audit.Path = f.PathString()

		if def := it.s.def; def != nil {
			audit.DocName = def.DocumentName(f.DocID)
		}
	}

	it.s.audits.Add(audit)

	switch status {
	case diagnostic.StatusError:
		it.log.Error(msg, "path", audit.Path)
	case diagnostic.StatusWarn:
		it.log.Warn(msg, "path", audit.Path)
	default:
		it.log.Debug(msg, "path", audit.Path)
	}
}

// actionAudit adapts audit to the pipeline callback.
func (it *iteration) actionAudit(status diagnostic.AuditStatus, f *mapping.Field, value any, message string) {
	it.audit(status, f, value, "%s", message)
}

// inFlight returns the field a failure should be attributed to.
func (it *iteration) inFlight() *mapping.Field {
	if it.target != nil {
		return it.target
	}

	return it.source
}
