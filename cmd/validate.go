package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/souffle-app/souffle-content/internal/gitctx"
	"github.com/souffle-app/souffle-content/internal/pipeline"
	"github.com/spf13/cobra"
)

func newValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate content without writing the manifest",
		Long: `Validate runs the same checks as build and reports the outcome, but never writes the
manifest. Use it as a CI gate; the exit code matches what build would return.`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"dry-run": "true"},
		RunE:        runValidate,
	}
	addContentFlags(cmd)
	cmd.Flags().String("format", "pretty", "Output format (pretty|json)")
	return cmd
}

type validateReport struct {
	Valid    bool               `json:"valid"`
	Error    string             `json:"error,omitempty"`
	Kind     string             `json:"kind,omitempty"`
	Revision *gitctx.Revision   `json:"revision,omitempty"`
	Stats    *pipeline.Stats    `json:"stats,omitempty"`
	Warnings []pipeline.Warning `json:"warnings"`
}

func runValidate(cmd *cobra.Command, _ []string) error {
	format, _ := cmd.Flags().GetString("format")
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unsupported format %q (want pretty or json)", format)
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	rev := describeRevision(cfg.ContentRoot)
	res, _, buildErr := buildFromConfig(cfg)
	report := validateReport{Valid: buildErr == nil, Revision: rev, Warnings: []pipeline.Warning{}}
	if buildErr != nil {
		report.Error = buildErr.Error()
		if kind, ok := pipeline.KindOf(buildErr); ok {
			report.Kind = string(kind)
		}
	} else {
		report.Stats = &res.Stats
		report.Warnings = append(report.Warnings, res.Warnings...)
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format JSON: %w", err)
		}
		_, _ = fmt.Fprintln(out, string(data))
		return buildErr
	}

	if buildErr != nil {
		_, _ = fmt.Fprintf(out, "✗ content is invalid: %v\n", buildErr)
		return buildErr
	}
	s := res.Stats
	rows := [][]string{
		{"worlds", strconv.Itoa(s.Worlds)},
		{"lessons", strconv.Itoa(s.Lessons)},
		{"scenes", strconv.Itoa(s.Scenes)},
		{"assets referenced", strconv.Itoa(s.Assets)},
		{"assets hashed", strconv.Itoa(s.Hashed)},
		{"assets missing", strconv.Itoa(s.Missing)},
		{"lint findings", strconv.Itoa(s.LintFindings)},
		{"reference problems", strconv.Itoa(s.RefProblems)},
	}
	_, _ = fmt.Fprintln(out, renderTable([]string{"Check", "Count"}, rows, []columnAlignment{alignLeft, alignRight}))
	if len(res.Warnings) > 0 {
		wrows := make([][]string, 0, len(res.Warnings))
		for _, w := range res.Warnings {
			wrows = append(wrows, []string{string(w.Kind), w.Path, truncate(w.Message, 72)})
		}
		_, _ = fmt.Fprintln(out, renderTable([]string{"Warning", "Path", "Message"}, wrows, nil))
	}
	_, _ = fmt.Fprintf(out, "✓ content is valid (%d warnings)\n", len(res.Warnings))
	return nil
}
