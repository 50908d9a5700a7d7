// Command train fits the risk model offline, reports held-out metrics
// and optionally writes the fitted ensemble as JSON for inspection.
// The serving binary never loads a saved model; it retrains at startup.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"riskscreen/dataset"
	"riskscreen/ml"
)

func main() {
	source := flag.String("source", "", "dataset URL or file path (default: UCI)")
	modelPath := flag.String("model_path", "", "optional model output path")
	rounds := flag.Int("rounds", 100, "boosting rounds")
	maxDepth := flag.Int("max_depth", 3, "max tree depth")
	learningRate := flag.Float64("learning_rate", 0.1, "shrinkage per round")
	testRatio := flag.Float64("test_ratio", 0.2, "held-out fraction")
	seed := flag.Int64("seed", 42, "split seed")
	topFeatures := flag.Int("top_features", 10, "reduced-feature count, 0 keeps all")
	flag.Parse()

	frame, err := dataset.Load(*source)
	if err != nil {
		log.Fatalf("failed to load dataset: %v", err)
	}
	log.Printf("loaded %d rows, %d features", len(frame.Rows), len(frame.Columns))

	pipeline, err := ml.TrainPipeline(frame.Columns, frame.Rows, frame.Labels, ml.TrainOptions{
		Config: ml.GBDTConfig{
			Rounds:       *rounds,
			MaxDepth:     *maxDepth,
			LearningRate: *learningRate,
		},
		TestRatio:  *testRatio,
		Seed:       *seed,
		SelectTopN: *topFeatures,
	})
	if err != nil {
		log.Fatalf("failed to train model: %v", err)
	}

	metrics := pipeline.Metrics
	log.Printf("train=%d test=%d accuracy=%.3f precision=%.3f recall=%.3f",
		metrics.TrainCount, metrics.TestCount, metrics.Accuracy, metrics.Precision, metrics.Recall)

	fmt.Println("feature importance:")
	importance := pipeline.Model.FeatureImportance()
	for i, name := range pipeline.Features {
		fmt.Printf("  %-36s %.4f\n", name, importance[i])
	}

	if *modelPath != "" {
		if err := os.MkdirAll(filepath.Dir(*modelPath), 0o755); err != nil {
			log.Fatalf("failed to create model dir: %v", err)
		}
		if err := pipeline.Model.Save(*modelPath); err != nil {
			log.Fatalf("failed to save model: %v", err)
		}
		fmt.Printf("model saved to %s\n", *modelPath)
	}
}
