package diagnostic

import (
	"strings"

	"github.com/davecgh/go-spew/spew"

	"fieldmapper/internal/fieldpath"
)

//go:generate go tool stringer -type=AuditStatus -linecomment -output=audit_string.go

// AuditStatus is the severity of an execution audit. NONE and ALL are
// filter values and are never attached to a recorded audit.
type AuditStatus int

const (
	StatusInfo  AuditStatus = iota // INFO
	StatusWarn                     // WARN
	StatusError                    // ERROR
	StatusNone                     // NONE
	StatusAll                      // ALL
)

// ParseAuditStatus parses a status name case-insensitively.
func ParseAuditStatus(s string) (AuditStatus, bool) {
	for st := StatusInfo; st <= StatusAll; st++ {
		if strings.EqualFold(st.String(), s) {
			return st, true
		}
	}

	return StatusNone, false
}

// Matches reports whether an audit of status a passes the filter f.
func (a AuditStatus) Matches(f AuditStatus) bool {
	switch f {
	case StatusAll:
		return true
	case StatusNone:
		return false
	default:
		return a == f
	}
}

// maxValueSnippet bounds the rendered value kept in an audit.
const maxValueSnippet = 120

var snippetConfig = spew.ConfigState{
	Indent:                  " ",
	MaxDepth:                3,
	SortKeys:                true,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	DisableMethods:          false,
}

// Audit is an immutable execution record.
type Audit struct {
	Status  AuditStatus
	DocID   string
	DocName string
	Path    string
	Value   string
	Message string
}

// ValueSnippet renders v compactly for an audit, truncating long values.
func ValueSnippet(v any) string {
	if v == nil {
		return ""
	}

	var s string

	switch x := v.(type) {
	case string:
		s = x
	default:
		s = strings.Join(strings.Fields(snippetConfig.Sprint(x)), " ")
	}

	if len(s) > maxValueSnippet {
		s = s[:maxValueSnippet-3] + "..."
	}

	return s
}

// Audits is an append-only list of execution records.
type Audits struct {
	items []Audit
}

// Add appends an audit. NONE and ALL are not recordable and are stored as INFO.
func (a *Audits) Add(audit Audit) {
	if audit.Status == StatusNone || audit.Status == StatusAll {
		audit.Status = StatusInfo
	}

	a.items = append(a.items, audit)
}

// Addf appends an audit built from its parts.
func (a *Audits) Addf(status AuditStatus, docID, docName string, path *fieldpath.Path, value any, message string) {
	var p string
	if path != nil {
		p = path.String()
	}

	a.Add(Audit{
		Status:  status,
		DocID:   docID,
		DocName: docName,
		Path:    p,
		Value:   ValueSnippet(value),
		Message: message,
	})
}

// Escalate records every diagnostic as an audit with the matching status.
func (a *Audits) Escalate(d Diagnostics) {
	for _, diag := range d.All() {
		a.Add(Audit{
			Status:  diag.Severity.Status(),
			DocID:   diag.DocID,
			Path:    diag.FieldPath,
			Message: diag.String(),
		})
	}
}

// List returns a copy of the recorded audits in insertion order.
func (a *Audits) List() []Audit {
	return append([]Audit(nil), a.items...)
}

// Filter returns the audits whose status passes f.
func (a *Audits) Filter(f AuditStatus) []Audit {
	var out []Audit

	for _, audit := range a.items {
		if audit.Status.Matches(f) {
			out = append(out, audit)
		}
	}

	return out
}

// Count returns the number of audits with the given status.
func (a *Audits) Count(status AuditStatus) int {
	return len(a.Filter(status))
}

func (a *Audits) HasErrors() bool {
	return a.Count(StatusError) > 0
}

func (a *Audits) Len() int {
	return len(a.items)
}
