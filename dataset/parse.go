package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Parse reads the raw CSV, coerces every feature cell to float64 with
// "?" treated as missing, imputes column means, and drops rows whose
// label is missing. After Parse every cell of the returned frame is
// finite.
func Parse(r io.Reader) (*Frame, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, &DataError{Reason: fmt.Sprintf("reading header: %v", err)}
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}

	columnIdx := make([]int, len(FeatureColumns))
	for i, name := range FeatureColumns {
		idx, ok := index[name]
		if !ok {
			return nil, &DataError{Column: name, Reason: "required column missing"}
		}
		columnIdx[i] = idx
	}
	labelIdx, ok := index[LabelColumn]
	if !ok {
		return nil, &DataError{Column: LabelColumn, Reason: "required column missing"}
	}

	var rows [][]float64
	var labels []int
	numericCount := make([]int, len(FeatureColumns))
	sums := make([]float64, len(FeatureColumns))

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &DataError{Reason: fmt.Sprintf("reading row: %v", err)}
		}

		labelCell := strings.TrimSpace(record[labelIdx])
		if labelCell == MissingSentinel || labelCell == "" {
			continue
		}
		labelValue, err := strconv.ParseFloat(labelCell, 64)
		if err != nil {
			continue
		}
		label := 0
		if labelValue != 0 {
			label = 1
		}

		row := make([]float64, len(FeatureColumns))
		for i, idx := range columnIdx {
			cell := strings.TrimSpace(record[idx])
			if cell == MissingSentinel || cell == "" {
				row[i] = math.NaN()
				continue
			}
			value, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				row[i] = math.NaN()
				continue
			}
			row[i] = value
			numericCount[i]++
			sums[i] += value
		}
		rows = append(rows, row)
		labels = append(labels, label)
	}

	if len(rows) == 0 {
		return nil, &DataError{Reason: "no usable rows"}
	}
	for i, count := range numericCount {
		if count == 0 {
			return nil, &DataError{Column: FeatureColumns[i], Reason: "entirely non-numeric after coercion"}
		}
	}

	// Impute column means for the missing cells.
	for i := range numericCount {
		mean := sums[i] / float64(numericCount[i])
		for _, row := range rows {
			if math.IsNaN(row[i]) {
				row[i] = mean
			}
		}
	}

	return &Frame{
		Columns: append([]string(nil), FeatureColumns...),
		Rows:    rows,
		Labels:  labels,
	}, nil
}
