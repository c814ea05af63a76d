package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"fieldmapper/internal/config"
	"fieldmapper/internal/diagnostic"
	"fieldmapper/internal/engine"
	"fieldmapper/internal/mapping"
)

// ErrAuditErrors is returned when a session recorded ERROR audits.
var ErrAuditErrors = errors.New("mapping finished with errors")

type runOptions struct {
	mapping    string
	sources    []string
	properties []string
	outDir     string
}

// NewRunCommand creates the run command.
func NewRunCommand() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute a mapping definition",
		Long: `Execute a mapping definition against JSON source documents.

Each --source binds a document id to a JSON file. Target documents are
written as <id>.json to --out-dir, or printed to stdout when no directory
is given. With -o json and no directory, stdout carries one object
holding both the targets and the audit trail. The command fails when any
ERROR audit was recorded.`,
		Example: `  fieldmapper run --mapping orders.yaml --source src=order.json --out-dir out/
  fieldmapper run --mapping orders.yaml --source src=order.json --property region=eu -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMapping(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.mapping, "mapping", "m", "", "Mapping definition file (YAML)")
	cmd.Flags().StringArrayVarP(&opts.sources, "source", "s", nil, "Source document as id=path.json (repeatable)")
	cmd.Flags().StringArrayVarP(&opts.properties, "property", "p", nil, "Session property as name=value (repeatable)")
	cmd.Flags().StringVar(&opts.outDir, "out-dir", "", "Directory for target documents (default: stdout)")
	_ = cmd.MarkFlagRequired("mapping")

	return cmd
}

func runMapping(cmd *cobra.Command, opts runOptions) error {
	ctx := cmd.Context()
	cfg := GetConfig(ctx)
	logger := GetLogger(ctx)

	def, err := mapping.LoadFile(opts.mapping)
	if err != nil {
		return err
	}

	eng, err := newEngine(cfg, logger)
	if err != nil {
		return err
	}

	s := eng.NewSession(def)

	for _, spec := range opts.sources {
		id, path, err := splitPair(spec, "--source")
		if err != nil {
			return err
		}

		doc, err := readJSON(path)
		if err != nil {
			return fmt.Errorf("source %s: %w", id, err)
		}

		s.SetSourceDocument(id, doc)
	}

	for _, spec := range opts.properties {
		name, value, err := splitPair(spec, "--property")
		if err != nil {
			return err
		}

		s.SetProperty(name, value)
	}

	if err := eng.Process(s); err != nil {
		return err
	}

	logger.Debug("session processed", "session_id", s.ID(), "targets", len(s.TargetDocumentIDs()))

	if err := report(cmd, s, opts.outDir, cfg.Output); err != nil {
		return err
	}

	if n := s.AuditLog().Count(diagnostic.StatusError); n > 0 {
		return fmt.Errorf("%w: %d error audit(s)", ErrAuditErrors, n)
	}

	return nil
}

func splitPair(spec, flag string) (string, string, error) {
	key, value, ok := strings.Cut(spec, "=")
	if !ok || key == "" {
		return "", "", fmt.Errorf("%s %q: expected name=value", flag, spec)
	}

	return key, value, nil
}

// readJSON decodes a JSON document, keeping numbers as json.Number.
func readJSON(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	return doc, nil
}

// report emits the target documents and the audit trail. With an output
// directory the documents go to files and the audits to stdout. Without
// one, JSON output is a single {targets, audits} object on stdout, while
// table output prints the documents to stdout and the audit table to stderr.
func report(cmd *cobra.Command, s *engine.Session, outDir, format string) error {
	if outDir != "" {
		if err := writeTargets(s, outDir); err != nil {
			return err
		}

		GetLogger(cmd.Context()).Info("wrote target documents", "dir", outDir, "documents", s.TargetDocumentIDs())

		return renderAudits(cmd.OutOrStdout(), s.Audits(), format)
	}

	if format == config.OutputJSON {
		return renderJSON(cmd.OutOrStdout(), runReportJSON{
			Targets: targetDocuments(s),
			Audits:  toAuditJSON(s.Audits()),
		})
	}

	if err := renderJSON(cmd.OutOrStdout(), targetDocuments(s)); err != nil {
		return err
	}

	return renderAudits(cmd.ErrOrStderr(), s.Audits(), format)
}

// targetDocuments collects every target document keyed by document id.
func targetDocuments(s *engine.Session) map[string]any {
	ids := s.TargetDocumentIDs()

	docs := make(map[string]any, len(ids))
	for _, id := range ids {
		docs[id] = s.TargetDocument(id)
	}

	return docs
}

// writeTargets stores each target document as <id>.json in outDir.
func writeTargets(s *engine.Session, outDir string) error {
	ids := s.TargetDocumentIDs()

	if err := os.MkdirAll(outDir, 0o750); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	for _, id := range ids {
		data, err := json.MarshalIndent(s.TargetDocument(id), "", "  ")
		if err != nil {
			return fmt.Errorf("encode target %s: %w", id, err)
		}

		path := filepath.Join(outDir, id+".json")
		if err := os.WriteFile(path, append(data, '\n'), 0o600); err != nil {
			return fmt.Errorf("write target %s: %w", id, err)
		}
	}

	return nil
}
