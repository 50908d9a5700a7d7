package dataset

import (
	"errors"
	"math"
	"strings"
	"testing"
)

// buildCSV assembles a dataset with every required column. Each row is
// a map of column name to cell; unset feature cells default to "0".
func buildCSV(t *testing.T, rows []map[string]string) string {
	t.Helper()
	columns := append(append([]string(nil), FeatureColumns...), LabelColumn)

	var b strings.Builder
	b.WriteString(strings.Join(quoteAll(columns), ","))
	b.WriteString("\n")
	for _, row := range rows {
		cells := make([]string, len(columns))
		for i, name := range columns {
			if cell, ok := row[name]; ok {
				cells[i] = cell
			} else {
				cells[i] = "0"
			}
		}
		b.WriteString(strings.Join(cells, ","))
		b.WriteString("\n")
	}
	return b.String()
}

func quoteAll(names []string) []string {
	quoted := make([]string, len(names))
	for i, name := range names {
		if strings.Contains(name, ",") {
			quoted[i] = `"` + name + `"`
		} else {
			quoted[i] = name
		}
	}
	return quoted
}

func columnIndex(t *testing.T, frame *Frame, name string) int {
	t.Helper()
	for i, column := range frame.Columns {
		if column == name {
			return i
		}
	}
	t.Fatalf("column %q not in frame", name)
	return -1
}

func TestParseImputesColumnMean(t *testing.T) {
	csv := buildCSV(t, []map[string]string{
		{"Age": "20", LabelColumn: "0"},
		{"Age": "40", LabelColumn: "1"},
		{"Age": "?", LabelColumn: "0"},
	})
	frame, err := Parse(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(frame.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(frame.Rows))
	}

	ageIdx := columnIndex(t, frame, "Age")
	if got := frame.Rows[2][ageIdx]; got != 30 {
		t.Fatalf("imputed age = %v, want column mean 30", got)
	}
	for i, row := range frame.Rows {
		for j, value := range row {
			if math.IsNaN(value) || math.IsInf(value, 0) {
				t.Fatalf("row %d column %q is not finite after preparation", i, frame.Columns[j])
			}
		}
	}
}

func TestParseMissingRequiredColumn(t *testing.T) {
	csv := buildCSV(t, []map[string]string{{LabelColumn: "0"}})
	// Drop the Age column from the header and every row.
	lines := strings.SplitN(csv, "\n", 2)
	header := strings.Replace(lines[0], "Age,", "", 1)
	body := strings.TrimPrefix(lines[1], "0,")

	_, err := Parse(strings.NewReader(header + "\n" + body))
	var dataErr *DataError
	if !errors.As(err, &dataErr) {
		t.Fatalf("expected DataError, got %v", err)
	}
	if dataErr.Column != "Age" {
		t.Fatalf("unexpected column in error: %q", dataErr.Column)
	}
}

func TestParseEntirelyNonNumericColumn(t *testing.T) {
	csv := buildCSV(t, []map[string]string{
		{"IUD (years)": "?", LabelColumn: "0"},
		{"IUD (years)": "?", LabelColumn: "1"},
	})
	_, err := Parse(strings.NewReader(csv))
	var dataErr *DataError
	if !errors.As(err, &dataErr) {
		t.Fatalf("expected DataError, got %v", err)
	}
	if dataErr.Column != "IUD (years)" {
		t.Fatalf("unexpected column in error: %q", dataErr.Column)
	}
}

func TestParseDropsRowsWithMissingLabel(t *testing.T) {
	csv := buildCSV(t, []map[string]string{
		{"Age": "25", LabelColumn: "1"},
		{"Age": "30", LabelColumn: "?"},
		{"Age": "35", LabelColumn: "0"},
	})
	frame, err := Parse(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(frame.Rows) != 2 || len(frame.Labels) != 2 {
		t.Fatalf("expected 2 labeled rows, got %d", len(frame.Rows))
	}
	if frame.Labels[0] != 1 || frame.Labels[1] != 0 {
		t.Fatalf("unexpected labels: %v", frame.Labels)
	}
}

func TestSelectReducedColumns(t *testing.T) {
	csv := buildCSV(t, []map[string]string{
		{"Age": "25", "Smokes": "1", LabelColumn: "1"},
		{"Age": "40", "Smokes": "0", LabelColumn: "0"},
	})
	frame, err := Parse(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	reduced, err := frame.Select(ReducedFeatureColumns)
	if err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if len(reduced.Columns) != 10 {
		t.Fatalf("expected 10 columns, got %d", len(reduced.Columns))
	}
	if reduced.Columns[0] != "Age" || reduced.Rows[0][0] != 25 {
		t.Fatalf("column order not preserved: %v", reduced.Columns)
	}
	smokesIdx := columnIndex(t, reduced, "Smokes")
	if reduced.Rows[0][smokesIdx] != 1 {
		t.Fatalf("smokes value lost in selection")
	}

	if _, err := frame.Select([]string{"not a column"}); err == nil {
		t.Fatal("expected error for unknown column")
	}
}
