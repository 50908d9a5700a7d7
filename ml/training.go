package ml

import (
	"errors"
	"math"
	"math/rand"
	"sort"
)

// TrainOptions controls the full training pipeline.
type TrainOptions struct {
	Config    GBDTConfig
	TestRatio float64
	Seed      int64
	// SelectTopN enables the reduced-feature variant: fit once on all
	// columns, keep the N with the highest split gain, then refit the
	// model and standardizer on only those. Zero keeps every column.
	SelectTopN int
}

// EvalMetrics summarizes held-out performance at the 0.5 threshold.
type EvalMetrics struct {
	Accuracy   float64 `json:"accuracy"`
	Precision  float64 `json:"precision"`
	Recall     float64 `json:"recall"`
	TestCount  int     `json:"test_count"`
	TrainCount int     `json:"train_count"`
}

// FittedPipeline bundles the artifacts that must travel together: the
// model, the standardizer it was fit alongside, and the feature set in
// training column order.
type FittedPipeline struct {
	Model    *GBDT
	Scaler   *Standardizer
	Features []string
	Metrics  EvalMetrics
}

// TrainPipeline splits, standardizes, trains, optionally reduces to the
// top-N features and retrains, then evaluates on the held-out split.
func TrainPipeline(names []string, samples [][]float64, labels []int, opts TrainOptions) (*FittedPipeline, error) {
	if len(samples) == 0 {
		return nil, errors.New("no training samples")
	}
	if len(names) != len(samples[0]) {
		return nil, &InvalidInputError{Want: len(names), Got: len(samples[0]), Reason: "feature name count disagrees with matrix width"}
	}
	if opts.SelectTopN < 0 || opts.SelectTopN > len(names) {
		return nil, &ConfigError{Reason: "top-N selection out of range"}
	}

	trainX, trainY, testX, testY := SplitDataset(samples, labels, opts.TestRatio, opts.Seed)

	pipeline, err := fitOnce(names, trainX, trainY, opts.Config)
	if err != nil {
		return nil, err
	}

	if opts.SelectTopN > 0 && opts.SelectTopN < len(names) {
		keep := TopImportance(pipeline.Model.FeatureImportance(), opts.SelectTopN)
		reducedNames := make([]string, len(keep))
		for i, idx := range keep {
			reducedNames[i] = names[idx]
		}
		pipeline, err = fitOnce(reducedNames, selectColumns(trainX, keep), trainY, opts.Config)
		if err != nil {
			return nil, err
		}
		testX = selectColumns(testX, keep)
	}

	metrics, err := Evaluate(pipeline.Model, pipeline.Scaler, testX, testY)
	if err != nil {
		return nil, err
	}
	metrics.TrainCount = len(trainY)
	pipeline.Metrics = metrics
	return pipeline, nil
}

func fitOnce(names []string, trainX [][]float64, trainY []int, config GBDTConfig) (*FittedPipeline, error) {
	scaler := &Standardizer{}
	if err := scaler.Fit(trainX); err != nil {
		return nil, err
	}
	scaled, err := scaler.TransformAll(trainX)
	if err != nil {
		return nil, err
	}
	model := NewGBDT(config)
	if err := model.Train(scaled, trainY); err != nil {
		return nil, err
	}
	return &FittedPipeline{Model: model, Scaler: scaler, Features: names}, nil
}

// SplitDataset shuffles with the given seed and carves off testRatio of
// the rows as a held-out set. The same seed reproduces the same split.
func SplitDataset(samples [][]float64, labels []int, testRatio float64, seed int64) (trainX [][]float64, trainY []int, testX [][]float64, testY []int) {
	if testRatio <= 0 || testRatio >= 1 {
		testRatio = 0.2
	}
	rnd := rand.New(rand.NewSource(seed))
	indices := rnd.Perm(len(samples))

	split := int(math.Round(float64(len(samples)) * (1 - testRatio)))
	for i, idx := range indices {
		if i < split {
			trainX = append(trainX, samples[idx])
			trainY = append(trainY, labels[idx])
		} else {
			testX = append(testX, samples[idx])
			testY = append(testY, labels[idx])
		}
	}
	return trainX, trainY, testX, testY
}

// TopImportance returns the indices of the n highest-gain features,
// in original column order so the reduced matrix stays stable.
func TopImportance(importance []float64, n int) []int {
	type ranked struct {
		idx  int
		gain float64
	}
	all := make([]ranked, len(importance))
	for i, gain := range importance {
		all[i] = ranked{idx: i, gain: gain}
	}
	sort.SliceStable(all, func(a, b int) bool { return all[a].gain > all[b].gain })
	if n > len(all) {
		n = len(all)
	}
	keep := make([]int, n)
	for i := 0; i < n; i++ {
		keep[i] = all[i].idx
	}
	sort.Ints(keep)
	return keep
}

func selectColumns(samples [][]float64, keep []int) [][]float64 {
	out := make([][]float64, len(samples))
	for i, row := range samples {
		reduced := make([]float64, len(keep))
		for j, idx := range keep {
			reduced[j] = row[idx]
		}
		out[i] = reduced
	}
	return out
}

// Evaluate scores the held-out split at the 0.5 threshold.
func Evaluate(model *GBDT, scaler *Standardizer, testX [][]float64, testY []int) (EvalMetrics, error) {
	metrics := EvalMetrics{TestCount: len(testY)}
	if len(testY) == 0 {
		return metrics, nil
	}
	var correct, truePos, falsePos, falseNeg int
	for i, row := range testX {
		scaled, err := scaler.Transform(row)
		if err != nil {
			return metrics, err
		}
		p, err := model.PredictProba(scaled)
		if err != nil {
			return metrics, err
		}
		predicted := 0
		if p >= 0.5 {
			predicted = 1
		}
		if predicted == testY[i] {
			correct++
		}
		switch {
		case predicted == 1 && testY[i] == 1:
			truePos++
		case predicted == 1 && testY[i] == 0:
			falsePos++
		case predicted == 0 && testY[i] == 1:
			falseNeg++
		}
	}
	metrics.Accuracy = float64(correct) / float64(len(testY))
	if truePos+falsePos > 0 {
		metrics.Precision = float64(truePos) / float64(truePos+falsePos)
	}
	if truePos+falseNeg > 0 {
		metrics.Recall = float64(truePos) / float64(truePos+falseNeg)
	}
	return metrics, nil
}
