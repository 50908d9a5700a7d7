package ml

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Standardizer rescales feature vectors to zero mean and unit variance
// using statistics fixed at fit time. The same fitted instance must be
// used for every vector scored against the model it was fit alongside.
type Standardizer struct {
	means  []float64
	scales []float64
}

// Fit computes per-column mean and standard deviation over the training
// matrix. Columns with zero variance get a scale of 1 so transformed
// values stay finite.
func (s *Standardizer) Fit(samples [][]float64) error {
	if len(samples) == 0 {
		return errors.New("no samples to fit standardizer")
	}
	cols := len(samples[0])
	if cols == 0 {
		return errors.New("samples have no features")
	}
	for _, row := range samples {
		if len(row) != cols {
			return &InvalidInputError{Want: cols, Got: len(row), Reason: "ragged training matrix"}
		}
	}

	s.means = make([]float64, cols)
	s.scales = make([]float64, cols)
	column := make([]float64, len(samples))
	for j := 0; j < cols; j++ {
		for i := range samples {
			column[i] = samples[i][j]
		}
		mean, std := stat.MeanStdDev(column, nil)
		if std == 0 || math.IsNaN(std) {
			std = 1
		}
		s.means[j] = mean
		s.scales[j] = std
	}
	return nil
}

// Transform standardizes a single vector in place-copy fashion.
func (s *Standardizer) Transform(vector []float64) ([]float64, error) {
	if s.means == nil {
		return nil, errors.New("standardizer not fitted")
	}
	if len(vector) != len(s.means) {
		return nil, &InvalidInputError{Want: len(s.means), Got: len(vector)}
	}
	out := make([]float64, len(vector))
	for j, v := range vector {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, &InvalidInputError{Want: len(s.means), Got: len(vector), Reason: "non-finite feature value"}
		}
		out[j] = (v - s.means[j]) / s.scales[j]
	}
	return out, nil
}

// TransformAll standardizes every row of a matrix.
func (s *Standardizer) TransformAll(samples [][]float64) ([][]float64, error) {
	out := make([][]float64, len(samples))
	for i, row := range samples {
		t, err := s.Transform(row)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

// InverseTransform maps a standardized vector back to raw feature space.
func (s *Standardizer) InverseTransform(vector []float64) ([]float64, error) {
	if s.means == nil {
		return nil, errors.New("standardizer not fitted")
	}
	if len(vector) != len(s.means) {
		return nil, &InvalidInputError{Want: len(s.means), Got: len(vector)}
	}
	out := make([]float64, len(vector))
	for j, v := range vector {
		out[j] = v*s.scales[j] + s.means[j]
	}
	return out, nil
}

// NumFeatures reports how many columns the standardizer was fit on, or 0
// if it has not been fitted.
func (s *Standardizer) NumFeatures() int {
	return len(s.means)
}
