// Package dataset loads and prepares the cervical cancer risk factors
// table published by UCI. Cells use "?" as the missing-value sentinel;
// preparation imputes column means so every record ends up fully numeric.
package dataset

// DefaultURL is where the raw table lives.
const DefaultURL = "https://archive.ics.uci.edu/ml/machine-learning-databases/00383/risk_factors_cervical_cancer.csv"

// MissingSentinel marks an absent value in the raw CSV.
const MissingSentinel = "?"

// LabelColumn is the binary outcome the model predicts.
const LabelColumn = "Biopsy"

// FeatureColumns lists every predictor column in training order. The
// screening outcome columns (Hinselmann, Schiller, Citology) are
// alternative targets and are never used as features.
var FeatureColumns = []string{
	"Age",
	"Number of sexual partners",
	"First sexual intercourse",
	"Num of pregnancies",
	"Smokes",
	"Smokes (years)",
	"Smokes (packs/year)",
	"Hormonal Contraceptives",
	"Hormonal Contraceptives (years)",
	"IUD",
	"IUD (years)",
	"STDs",
	"STDs (number)",
	"STDs:condylomatosis",
	"STDs:cervical condylomatosis",
	"STDs:vaginal condylomatosis",
	"STDs:vulvo-perineal condylomatosis",
	"STDs:syphilis",
	"STDs:pelvic inflammatory disease",
	"STDs:genital herpes",
	"STDs:molluscum contagiosum",
	"STDs:AIDS",
	"STDs:HIV",
	"STDs:Hepatitis B",
	"STDs:HPV",
	"STDs: Number of diagnosis",
	"STDs: Time since first diagnosis",
	"STDs: Time since last diagnosis",
	"Dx:Cancer",
	"Dx:CIN",
	"Dx:HPV",
	"Dx",
}

// ReducedFeatureColumns is the top-10 subset the assessment form
// collects, in training order.
var ReducedFeatureColumns = []string{
	"Age",
	"Number of sexual partners",
	"First sexual intercourse",
	"Num of pregnancies",
	"Smokes",
	"Smokes (years)",
	"Hormonal Contraceptives (years)",
	"STDs",
	"STDs (number)",
	"STDs: Number of diagnosis",
}

// Frame is a prepared dataset: a fully numeric feature matrix in
// FeatureColumns order plus the binary biopsy labels.
type Frame struct {
	Columns []string
	Rows    [][]float64
	Labels  []int
}

// Select returns a copy of the frame reduced to the named columns, in
// the order given.
func (f *Frame) Select(columns []string) (*Frame, error) {
	index := make(map[string]int, len(f.Columns))
	for i, name := range f.Columns {
		index[name] = i
	}
	keep := make([]int, len(columns))
	for i, name := range columns {
		idx, ok := index[name]
		if !ok {
			return nil, &DataError{Column: name, Reason: "not present in frame"}
		}
		keep[i] = idx
	}

	rows := make([][]float64, len(f.Rows))
	for i, row := range f.Rows {
		reduced := make([]float64, len(keep))
		for j, idx := range keep {
			reduced[j] = row[idx]
		}
		rows[i] = reduced
	}
	labels := append([]int(nil), f.Labels...)
	return &Frame{Columns: append([]string(nil), columns...), Rows: rows, Labels: labels}, nil
}
