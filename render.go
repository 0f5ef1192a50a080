package csvimport

import (
	"sort"
	"strings"
	"text/template"

	"github.com/hashicorp/go-multierror"
	"github.com/tiendc/gofn"
)

// RenderParams is the param bag handed to header/row templates.
type RenderParams map[string]interface{}

// RenderConfig configures RenderValidationResult: a header template, a
// per-row template, and the separators joining row/cell detail lines.
type RenderConfig struct {
	HeaderTemplate string
	RowTemplate    string
	RowSeparator   string
	CellSeparator  string
	Params         RenderParams
}

func defaultRenderConfig() *RenderConfig {
	return &RenderConfig{
		HeaderTemplate: "{{.TotalRows}} rows, {{.ErrorRows}} with errors, {{.TotalErrors}} errors total",
		RowTemplate:    "row {{.Row}}: {{.Detail}}",
		RowSeparator:   "\n",
		CellSeparator:  ", ",
	}
}

// RenderValidationResult renders a ValidationResult into a human-readable
// multi-line summary for a host's log/CLI output: one header line with
// aggregate stats, then one line per error-bearing row listing its cell
// failures in column order. Template execution errors across rows are
// aggregated with go-multierror instead of aborting on the first one.
func RenderValidationResult(result *ValidationResult, options ...func(*RenderConfig)) (string, error) {
	cfg := defaultRenderConfig()
	for _, opt := range options {
		opt(cfg)
	}

	var errs *multierror.Error
	lines := make([]string, 0, len(result.Errors)+1)

	headerParams := gofn.MapUpdate(RenderParams{
		"TotalRows":   result.Stats.TotalRows,
		"ValidRows":   result.Stats.ValidRows,
		"ErrorRows":   result.Stats.ErrorRows,
		"TotalErrors": len(result.Errors),
	}, cfg.Params)

	header, err := renderTemplate("header", cfg.HeaderTemplate, headerParams)
	if err != nil {
		errs = multierror.Append(errs, err)
	} else if header != "" {
		lines = append(lines, header)
	}

	byRow := groupErrorsByRow(result.Errors)
	rows := make([]int, 0, len(byRow))
	for row := range byRow {
		rows = append(rows, row)
	}
	sort.Ints(rows)

	for _, row := range rows {
		cellDetails := make([]string, 0, len(byRow[row]))
		for _, e := range byRow[row] {
			cellDetails = append(cellDetails, e.Field+": "+e.Message)
		}
		rowParams := gofn.MapUpdate(RenderParams{
			"Row":    row,
			"Detail": strings.Join(cellDetails, cfg.CellSeparator),
		}, cfg.Params)

		line, err := renderTemplate("row", cfg.RowTemplate, rowParams)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		if line != "" {
			lines = append(lines, line)
		}
	}

	return strings.Join(lines, cfg.RowSeparator), errs.ErrorOrNil()
}

func groupErrorsByRow(errs []ValidationError) map[int][]ValidationError {
	out := map[int][]ValidationError{}
	for _, e := range errs {
		out[e.Row] = append(out[e.Row], e)
	}
	return out
}

func renderTemplate(name, text string, params RenderParams) (string, error) {
	if text == "" {
		return "", nil
	}
	tmpl, err := template.New(name).Parse(text)
	if err != nil {
		return "", err
	}
	var buf strings.Builder
	if err := tmpl.Execute(&buf, params); err != nil {
		return "", err
	}
	return buf.String(), nil
}
