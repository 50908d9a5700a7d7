package ml

import (
	"errors"
	"math"
	"testing"
)

func TestStandardizerRoundTrip(t *testing.T) {
	samples := [][]float64{
		{1, 10, 100},
		{2, 20, 200},
		{3, 30, 300},
		{4, 40, 400},
	}
	scaler := &Standardizer{}
	if err := scaler.Fit(samples); err != nil {
		t.Fatalf("fit failed: %v", err)
	}

	original := []float64{2.5, 25, 250}
	scaled, err := scaler.Transform(original)
	if err != nil {
		t.Fatalf("transform failed: %v", err)
	}
	restored, err := scaler.InverseTransform(scaled)
	if err != nil {
		t.Fatalf("inverse transform failed: %v", err)
	}
	for i := range original {
		if math.Abs(restored[i]-original[i]) > 1e-9 {
			t.Fatalf("round trip mismatch at %d: got %v, want %v", i, restored[i], original[i])
		}
	}
}

func TestStandardizerNotFitted(t *testing.T) {
	scaler := &Standardizer{}
	if _, err := scaler.Transform([]float64{1, 2}); err == nil {
		t.Fatal("expected error from unfitted standardizer")
	}
}

func TestStandardizerLengthMismatch(t *testing.T) {
	scaler := &Standardizer{}
	if err := scaler.Fit([][]float64{{1, 2}, {3, 4}}); err != nil {
		t.Fatalf("fit failed: %v", err)
	}
	_, err := scaler.Transform([]float64{1, 2, 3})
	var invalid *InvalidInputError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidInputError, got %v", err)
	}
	if invalid.Want != 2 || invalid.Got != 3 {
		t.Fatalf("unexpected error detail: %+v", invalid)
	}
}

func TestStandardizerConstantColumn(t *testing.T) {
	samples := [][]float64{
		{5, 1},
		{5, 2},
		{5, 3},
	}
	scaler := &Standardizer{}
	if err := scaler.Fit(samples); err != nil {
		t.Fatalf("fit failed: %v", err)
	}
	scaled, err := scaler.Transform([]float64{5, 2})
	if err != nil {
		t.Fatalf("transform failed: %v", err)
	}
	if math.IsNaN(scaled[0]) || math.IsInf(scaled[0], 0) {
		t.Fatalf("constant column produced non-finite value: %v", scaled[0])
	}
}

func TestStandardizerRejectsNonFinite(t *testing.T) {
	scaler := &Standardizer{}
	if err := scaler.Fit([][]float64{{1, 2}, {3, 4}}); err != nil {
		t.Fatalf("fit failed: %v", err)
	}
	if _, err := scaler.Transform([]float64{1, math.NaN()}); err == nil {
		t.Fatal("expected error for NaN input")
	}
}
