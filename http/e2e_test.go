package http

import (
	"fmt"
	"regexp"
	"strings"
	"testing"

	"riskscreen/dataset"
	"riskscreen/ml"
	"riskscreen/risk"
)

// syntheticCSV emits a dataset with every published column, a "?" here
// and there, and both biopsy outcomes present.
func syntheticCSV(rows int) string {
	columns := append(append([]string(nil), dataset.FeatureColumns...), dataset.LabelColumn)

	var b strings.Builder
	b.WriteString(strings.Join(columns, ","))
	b.WriteString("\n")
	for i := 0; i < rows; i++ {
		age := 15 + (i*13)%55
		label := 0
		if (i*13)%55 > 35 && i%3 == 0 {
			label = 1
		}
		for j, name := range columns {
			if j > 0 {
				b.WriteString(",")
			}
			switch name {
			case "Age":
				b.WriteString(fmt.Sprintf("%d", age))
			case "Number of sexual partners":
				if i%17 == 0 {
					b.WriteString("?")
				} else {
					b.WriteString(fmt.Sprintf("%d", 1+i%6))
				}
			case "First sexual intercourse":
				b.WriteString(fmt.Sprintf("%d", 14+i%9))
			case "Num of pregnancies":
				b.WriteString(fmt.Sprintf("%d", i%5))
			case "Smokes (years)":
				b.WriteString(fmt.Sprintf("%d", (i%2)*(i%12)))
			case "Hormonal Contraceptives (years)":
				b.WriteString(fmt.Sprintf("%d", i%8))
			case "STDs (number)":
				b.WriteString(fmt.Sprintf("%d", i%4))
			case "STDs: Number of diagnosis":
				b.WriteString(fmt.Sprintf("%d", i%3))
			case dataset.LabelColumn:
				b.WriteString(fmt.Sprintf("%d", label))
			default:
				b.WriteString(fmt.Sprintf("%d", i%2))
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

// TestEndToEndReducedDataset follows the whole path: parse, reduce to
// the 10 questionnaire columns, train, and score the probe vector.
func TestEndToEndReducedDataset(t *testing.T) {
	frame, err := dataset.Parse(strings.NewReader(syntheticCSV(200)))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	reduced, err := frame.Select(dataset.ReducedFeatureColumns)
	if err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if len(reduced.Columns) != 10 {
		t.Fatalf("expected 10 columns, got %d", len(reduced.Columns))
	}

	train := func() *risk.Assessment {
		pipeline, err := ml.TrainPipeline(reduced.Columns, reduced.Rows, reduced.Labels, ml.TrainOptions{
			Config:    ml.GBDTConfig{Rounds: 25, MaxDepth: 3, LearningRate: 0.2, MinLeaf: 3},
			TestRatio: 0.2,
			Seed:      42,
		})
		if err != nil {
			t.Fatalf("pipeline failed: %v", err)
		}
		scorer, err := risk.NewScorer(pipeline)
		if err != nil {
			t.Fatalf("scorer failed: %v", err)
		}
		result, err := scorer.Assess([]float64{45, 3, 16, 2, 1, 10, 5, 1, 5, 2})
		if err != nil {
			t.Fatalf("assess failed: %v", err)
		}
		return result
	}

	first := train()
	second := train()

	if first.Tier != second.Tier || first.Probability != second.Probability {
		t.Fatalf("retraining with the same seed changed the probe result: %+v vs %+v", first, second)
	}
	if first.Tier != risk.TierLow && first.Tier != risk.TierModerate && first.Tier != risk.TierHigh {
		t.Fatalf("unexpected tier: %v", first.Tier)
	}
	if !regexp.MustCompile(`^\d+\.\d{2}$`).MatchString(first.Percentage) {
		t.Fatalf("percentage %q not formatted to 2 decimals", first.Percentage)
	}
	if !strings.HasPrefix(first.AdviceHTML, "<h2>"+first.Tier.Symbol()) {
		t.Fatalf("advice fragment must start with the tier heading, got %q", first.AdviceHTML)
	}
}
