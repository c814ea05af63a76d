package diagnostic

import (
	"errors"
	"fmt"
	"strings"

	"fieldmapper/internal/common"
)

// DiagnosticSeverity ranks a validation finding.
type DiagnosticSeverity int

const (
	DiagnosticInfo DiagnosticSeverity = iota
	DiagnosticWarning
	DiagnosticError
)

func (s DiagnosticSeverity) String() string {
	switch s {
	case DiagnosticInfo:
		return "info"
	case DiagnosticWarning:
		return "warning"
	case DiagnosticError:
		return "error"
	default:
		return common.UnknownStr
	}
}

// Status maps a severity onto the audit status it escalates to.
func (s DiagnosticSeverity) Status() AuditStatus {
	switch s {
	case DiagnosticError:
		return StatusError
	case DiagnosticWarning:
		return StatusWarn
	default:
		return StatusInfo
	}
}

// Diagnostic is one validation finding, located by mapping id and field.
type Diagnostic struct {
	Severity DiagnosticSeverity
	// Code is a stable snake_case identifier such as "missing_output".
	Code      string
	Message   string
	MappingID string
	DocID     string
	FieldPath string
	// Suggestions lists close matches for a misspelled name.
	Suggestions []string
}

// String renders "[mapping] path: [code] message (did you mean ...?)".
func (d Diagnostic) String() string {
	var b strings.Builder

	if d.MappingID != "" {
		fmt.Fprintf(&b, "[%s]", d.MappingID)
	}

	if d.FieldPath != "" {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}

		b.WriteString(d.FieldPath)
	}

	if b.Len() > 0 {
		b.WriteString(": ")
	}

	if d.Code != "" {
		fmt.Fprintf(&b, "[%s] ", d.Code)
	}

	b.WriteString(d.Message)

	if len(d.Suggestions) > 0 {
		fmt.Fprintf(&b, " (did you mean %s?)", strings.Join(d.Suggestions, ", "))
	}

	return b.String()
}

// Diagnostics collects findings bucketed by severity.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
	Infos    []Diagnostic
}

func (d *Diagnostics) bucket(s DiagnosticSeverity) *[]Diagnostic {
	switch s {
	case DiagnosticError:
		return &d.Errors
	case DiagnosticWarning:
		return &d.Warnings
	default:
		return &d.Infos
	}
}

// Add appends a fully populated diagnostic.
func (d *Diagnostics) Add(diag Diagnostic) {
	b := d.bucket(diag.Severity)
	*b = append(*b, diag)
}

func (d *Diagnostics) add(s DiagnosticSeverity, code, message, mappingID, fieldPath string) {
	d.Add(Diagnostic{Severity: s, Code: code, Message: message, MappingID: mappingID, FieldPath: fieldPath})
}

func (d *Diagnostics) AddError(code, message, mappingID, fieldPath string) {
	d.add(DiagnosticError, code, message, mappingID, fieldPath)
}

func (d *Diagnostics) AddWarning(code, message, mappingID, fieldPath string) {
	d.add(DiagnosticWarning, code, message, mappingID, fieldPath)
}

func (d *Diagnostics) AddInfo(code, message, mappingID, fieldPath string) {
	d.add(DiagnosticInfo, code, message, mappingID, fieldPath)
}

func (d *Diagnostics) HasErrors() bool { return len(d.Errors) > 0 }

// IsValid reports whether execution may proceed.
func (d *Diagnostics) IsValid() bool { return !d.HasErrors() }

// All returns every diagnostic, most severe first.
func (d *Diagnostics) All() []Diagnostic {
	all := make([]Diagnostic, 0, len(d.Errors)+len(d.Warnings)+len(d.Infos))
	for _, s := range []DiagnosticSeverity{DiagnosticError, DiagnosticWarning, DiagnosticInfo} {
		all = append(all, *d.bucket(s)...)
	}

	return all
}

// Error joins the error findings into one error, nil when there are none.
func (d *Diagnostics) Error() error {
	errs := make([]error, len(d.Errors))
	for i, e := range d.Errors {
		errs[i] = errors.New(e.String())
	}

	return errors.Join(errs...)
}
