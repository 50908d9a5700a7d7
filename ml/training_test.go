package ml

import (
	"reflect"
	"testing"
)

func TestSplitDatasetReproducible(t *testing.T) {
	features, labels := twoBlobs(40, 6)

	trainX1, trainY1, testX1, _ := SplitDataset(features, labels, 0.25, 7)
	trainX2, trainY2, _, _ := SplitDataset(features, labels, 0.25, 7)

	if !reflect.DeepEqual(trainX1, trainX2) || !reflect.DeepEqual(trainY1, trainY2) {
		t.Fatal("same seed produced different splits")
	}
	if len(trainX1)+len(testX1) != len(features) {
		t.Fatalf("split lost rows: %d + %d != %d", len(trainX1), len(testX1), len(features))
	}
	if len(testX1) != 20 {
		t.Fatalf("expected 20 test rows, got %d", len(testX1))
	}
}

func TestTopImportanceKeepsColumnOrder(t *testing.T) {
	importance := []float64{0.1, 5.0, 0, 2.5, 3.0}
	keep := TopImportance(importance, 3)
	want := []int{1, 3, 4}
	if !reflect.DeepEqual(keep, want) {
		t.Fatalf("top importance = %v, want %v", keep, want)
	}
}

func TestTrainPipelineFullFeatures(t *testing.T) {
	features, labels := twoBlobs(60, 8)
	names := []string{"x", "y"}

	pipeline, err := TrainPipeline(names, features, labels, TrainOptions{
		Config:    GBDTConfig{Rounds: 15, MaxDepth: 2, LearningRate: 0.3, MinLeaf: 2},
		TestRatio: 0.2,
		Seed:      42,
	})
	if err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}
	if len(pipeline.Features) != 2 {
		t.Fatalf("expected 2 features, got %d", len(pipeline.Features))
	}
	if pipeline.Model.NumFeatures() != pipeline.Scaler.NumFeatures() {
		t.Fatal("model and standardizer widths disagree")
	}
	if pipeline.Metrics.Accuracy < 0.9 {
		t.Fatalf("separable data should score high accuracy, got %v", pipeline.Metrics.Accuracy)
	}
}

func TestTrainPipelineReducedVariant(t *testing.T) {
	// Third column is pure noise; selection should keep the two
	// informative ones.
	base, labels := twoBlobs(60, 9)
	features := make([][]float64, len(base))
	for i, row := range base {
		features[i] = []float64{row[0], row[1], float64(i % 7)}
	}
	names := []string{"x", "y", "noise"}

	pipeline, err := TrainPipeline(names, features, labels, TrainOptions{
		Config:     GBDTConfig{Rounds: 15, MaxDepth: 2, LearningRate: 0.3, MinLeaf: 2},
		TestRatio:  0.2,
		Seed:       42,
		SelectTopN: 2,
	})
	if err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}
	if len(pipeline.Features) != 2 {
		t.Fatalf("expected 2 features after selection, got %v", pipeline.Features)
	}
	if pipeline.Model.NumFeatures() != 2 || pipeline.Scaler.NumFeatures() != 2 {
		t.Fatal("reduced model and standardizer must both be refit on 2 columns")
	}
	for _, name := range pipeline.Features {
		if name == "noise" {
			t.Fatalf("noise column survived selection: %v", pipeline.Features)
		}
	}
}

func TestTrainPipelineTopNOutOfRange(t *testing.T) {
	features, labels := twoBlobs(10, 10)
	_, err := TrainPipeline([]string{"x", "y"}, features, labels, TrainOptions{
		Config:     GBDTConfig{Rounds: 2, MaxDepth: 2, LearningRate: 0.3},
		SelectTopN: 5,
	})
	if err == nil {
		t.Fatal("expected error for top-N larger than feature count")
	}
}
