package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/statmodel/formula/internal/design"
	"github.com/statmodel/formula/internal/expr"
	"github.com/statmodel/formula/internal/formula"
	"github.com/statmodel/formula/internal/frame"
)

// TermReport is one sorted term of an expanded formula.
type TermReport struct {
	Name  string `json:"name"`
	Order int    `json:"order"`
}

// TermsReport is the payload of the terms command.
type TermsReport struct {
	Formula   string       `json:"formula"`
	Response  string       `json:"response,omitempty"`
	Intercept bool         `json:"intercept"`
	Terms     []TermReport `json:"terms"`
	EvalTerms []string     `json:"eval_terms"`
	Incidence [][]int      `json:"incidence"`
}

// MatrixReport is the payload of the matrix command. Matrix rows are
// row-major; Assign maps each column to its 1-based term index (0 for the
// intercept).
type MatrixReport struct {
	BuildID      string      `json:"build_id"`
	Formula      string      `json:"formula"`
	Dataset      string      `json:"dataset"`
	Rows         int         `json:"rows"`
	DroppedRows  int         `json:"dropped_rows"`
	Columns      int         `json:"columns"`
	Assign       []int       `json:"assign"`
	Coefficients []string    `json:"coefficients,omitempty"`
	Matrix       [][]float64 `json:"matrix"`
}

// NamesReport is the payload of the names command.
type NamesReport struct {
	Formula      string   `json:"formula"`
	Coefficients []string `json:"coefficients"`
}

// ValidateReport is the payload of the validate command.
type ValidateReport struct {
	Dataset string `json:"dataset"`
	Valid   bool   `json:"valid"`
	Columns int    `json:"columns"`
	Rows    int    `json:"rows"`
}

func newTermsReport(src string, tt *formula.TermsTable) *TermsReport {
	report := &TermsReport{
		Formula:   src,
		Intercept: tt.Intercept,
		Incidence: tt.Incidence,
	}
	if tt.Response {
		// The synthetic response term always heads the vocabulary.
		report.Response = expr.Name(tt.EvalTerms[0])
	}
	for i, term := range tt.Terms {
		report.Terms = append(report.Terms, TermReport{Name: expr.Name(term), Order: tt.Order[i]})
	}
	for _, et := range tt.EvalTerms {
		report.EvalTerms = append(report.EvalTerms, expr.Name(et))
	}
	return report
}

func newMatrixReport(src, dataset string, mf *frame.ModelFrame, m *design.ModelMatrix, coefs []string) *MatrixReport {
	dropped := 0
	for _, keep := range mf.Retained {
		if !keep {
			dropped++
		}
	}
	report := &MatrixReport{
		BuildID:      newBuildID(),
		Formula:      src,
		Dataset:      dataset,
		Rows:         m.NRows,
		DroppedRows:  dropped,
		Columns:      m.NCols(),
		Assign:       m.Assign,
		Coefficients: coefs,
		Matrix:       make([][]float64, m.NRows),
	}
	for r := 0; r < m.NRows; r++ {
		row := make([]float64, m.NCols())
		for c := range m.Cols {
			row[c] = m.Cols[c][r]
		}
		report.Matrix[r] = row
	}
	return report
}

func renderTermsText(w io.Writer, r *TermsReport) {
	fmt.Fprintf(w, "Formula:   %s\n", r.Formula)
	if r.Response != "" {
		fmt.Fprintf(w, "Response:  %s\n", r.Response)
	}
	fmt.Fprintf(w, "Intercept: %s\n", yesNo(r.Intercept))

	fmt.Fprintln(w, "Terms:")
	width := 0
	for _, t := range r.Terms {
		if len(t.Name) > width {
			width = len(t.Name)
		}
	}
	for _, t := range r.Terms {
		fmt.Fprintf(w, "  %-*s  (order %d)\n", width, t.Name, t.Order)
	}

	fmt.Fprintln(w, "Evaluation terms:")
	for _, name := range r.EvalTerms {
		fmt.Fprintf(w, "  %s\n", name)
	}

	fmt.Fprintln(w, "Incidence:")
	width = 0
	for _, name := range r.EvalTerms {
		if len(name) > width {
			width = len(name)
		}
	}
	for i, name := range r.EvalTerms {
		cells := make([]string, len(r.Incidence[i]))
		for j, v := range r.Incidence[i] {
			cells[j] = strconv.Itoa(v)
		}
		fmt.Fprintf(w, "  %-*s | %s\n", width, name, strings.Join(cells, " "))
	}
}

func renderMatrixText(w io.Writer, r *MatrixReport) {
	fmt.Fprintf(w, "Build:   %s\n", r.BuildID)
	fmt.Fprintf(w, "Formula: %s\n", r.Formula)
	fmt.Fprintf(w, "Dataset: %s\n", r.Dataset)
	fmt.Fprintf(w, "Rows:    %d (%d dropped)\n", r.Rows, r.DroppedRows)
	fmt.Fprintf(w, "Columns: %d\n", r.Columns)
	fmt.Fprintf(w, "Assign:  %s\n", joinInts(r.Assign))
	if len(r.Coefficients) > 0 {
		fmt.Fprintln(w, "Coefficients:")
		for _, name := range r.Coefficients {
			fmt.Fprintf(w, "  %s\n", name)
		}
	}
	fmt.Fprintln(w, "Matrix:")
	for _, row := range r.Matrix {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = fmtFloat(v)
		}
		fmt.Fprintf(w, "  %s\n", strings.Join(cells, " "))
	}
}

func renderNamesText(w io.Writer, r *NamesReport) {
	for _, name := range r.Coefficients {
		fmt.Fprintln(w, name)
	}
}

func renderValidateText(w io.Writer, r *ValidateReport) {
	fmt.Fprintf(w, "%s: valid (%d columns, %d rows)\n", r.Dataset, r.Columns, r.Rows)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func joinInts(xs []int) string {
	cells := make([]string, len(xs))
	for i, x := range xs {
		cells[i] = strconv.Itoa(x)
	}
	return strings.Join(cells, " ")
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
