package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"fieldmapper/internal/config"
	"fieldmapper/internal/diagnostic"
)

var (
	errorColor = color.New(color.FgRed, color.Bold).SprintFunc()
	warnColor  = color.New(color.FgYellow).SprintFunc()
	infoColor  = color.New(color.FgCyan).SprintFunc()
)

func colorStatus(s diagnostic.AuditStatus) string {
	switch s {
	case diagnostic.StatusError:
		return errorColor(s.String())
	case diagnostic.StatusWarn:
		return warnColor(s.String())
	default:
		return infoColor(s.String())
	}
}

type auditJSON struct {
	Status  string `json:"status"`
	DocID   string `json:"doc_id,omitempty"`
	DocName string `json:"doc_name,omitempty"`
	Path    string `json:"path,omitempty"`
	Value   string `json:"value,omitempty"`
	Message string `json:"message"`
}

type diagnosticJSON struct {
	File        string   `json:"file"`
	Severity    string   `json:"severity"`
	Code        string   `json:"code"`
	MappingID   string   `json:"mapping_id,omitempty"`
	Path        string   `json:"path,omitempty"`
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// runReportJSON is the single stdout document of a run without an output
// directory.
type runReportJSON struct {
	Targets map[string]any `json:"targets"`
	Audits  []auditJSON    `json:"audits"`
}

func toAuditJSON(audits []diagnostic.Audit) []auditJSON {
	out := make([]auditJSON, len(audits))
	for i, a := range audits {
		out[i] = auditJSON{
			Status:  a.Status.String(),
			DocID:   a.DocID,
			DocName: a.DocName,
			Path:    a.Path,
			Value:   a.Value,
			Message: a.Message,
		}
	}

	return out
}

func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}

// renderAudits prints a session audit trail.
func renderAudits(w io.Writer, audits []diagnostic.Audit, format string) error {
	if format == config.OutputJSON {
		return renderJSON(w, toAuditJSON(audits))
	}

	if len(audits) == 0 {
		_, _ = fmt.Fprintln(w, "(no audits)")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Status", "Document", "Path", "Value", "Message"})

	for _, a := range audits {
		doc := a.DocID
		if a.DocName != "" {
			doc = fmt.Sprintf("%s (%s)", a.DocName, a.DocID)
		}

		t.AppendRow(table.Row{colorStatus(a.Status), doc, a.Path, a.Value, a.Message})
	}

	t.Render()

	return nil
}

// fileDiagnostics are the validation findings of one definition file.
type fileDiagnostics struct {
	File        string
	Diagnostics *diagnostic.Diagnostics
	Err         error
}

func severityStatus(d diagnostic.Diagnostic) string {
	return colorStatus(d.Severity.Status())
}

// renderDiagnostics prints validation findings of every file.
func renderDiagnostics(w io.Writer, results []fileDiagnostics, format string) error {
	if format == config.OutputJSON {
		out := []diagnosticJSON{}

		for _, r := range results {
			if r.Err != nil {
				out = append(out, diagnosticJSON{
					File: r.File, Severity: diagnostic.DiagnosticError.String(), Code: "load_failed", Message: r.Err.Error(),
				})

				continue
			}

			for _, d := range r.Diagnostics.All() {
				out = append(out, diagnosticJSON{
					File:        r.File,
					Severity:    d.Severity.String(),
					Code:        d.Code,
					MappingID:   d.MappingID,
					Path:        d.FieldPath,
					Message:     d.Message,
					Suggestions: d.Suggestions,
				})
			}
		}

		return renderJSON(w, out)
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"File", "Status", "Code", "Mapping", "Path", "Message"})

	clean := 0

	for _, r := range results {
		if r.Err != nil {
			t.AppendRow(table.Row{r.File, colorStatus(diagnostic.StatusError), "load_failed", "", "", r.Err.Error()})
			continue
		}

		all := r.Diagnostics.All()
		if len(all) == 0 {
			clean++
			continue
		}

		for _, d := range all {
			msg := d.Message
			if len(d.Suggestions) > 0 {
				msg += " (did you mean " + strings.Join(d.Suggestions, ", ") + "?)"
			}

			t.AppendRow(table.Row{r.File, severityStatus(d), d.Code, d.MappingID, d.FieldPath, msg})
		}
	}

	if t.Length() > 0 {
		t.Render()
	}

	_, _ = fmt.Fprintf(w, "%d file(s) checked, %d without findings\n", len(results), clean)

	return nil
}
