package risk

import (
	"fmt"
	"html"
	"strings"

	"riskscreen/ml"
)

// Assessment is the outcome of scoring one feature vector.
type Assessment struct {
	Tier        Tier    `json:"tier"`
	Probability float64 `json:"probability"`
	Percentage  string  `json:"percentage"`
	AdviceHTML  string  `json:"advice_html"`
}

// Scorer holds the shared read-only model and the standardizer it was
// fit alongside. It is initialized once at startup and is safe for
// concurrent use.
type Scorer struct {
	model    *ml.GBDT
	scaler   *ml.Standardizer
	features []string
}

// NewScorer wraps a fitted pipeline. The model, standardizer and
// feature list must come from the same training run.
func NewScorer(pipeline *ml.FittedPipeline) (*Scorer, error) {
	if pipeline == nil || pipeline.Model == nil || pipeline.Scaler == nil {
		return nil, fmt.Errorf("incomplete pipeline")
	}
	if pipeline.Model.NumFeatures() != pipeline.Scaler.NumFeatures() {
		return nil, fmt.Errorf("model and standardizer were fit on different feature sets")
	}
	if len(pipeline.Features) != pipeline.Model.NumFeatures() {
		return nil, fmt.Errorf("feature names do not match model width")
	}
	return &Scorer{
		model:    pipeline.Model,
		scaler:   pipeline.Scaler,
		features: append([]string(nil), pipeline.Features...),
	}, nil
}

// Features returns the feature names in the order Assess expects them.
func (s *Scorer) Features() []string {
	return append([]string(nil), s.features...)
}

// Assess validates and scores one raw feature vector. The vector must
// match the training feature set in length and order; a mismatch fails
// with ml.InvalidInputError rather than producing a garbage prediction.
func (s *Scorer) Assess(vector []float64) (*Assessment, error) {
	if len(vector) != len(s.features) {
		return nil, &ml.InvalidInputError{Want: len(s.features), Got: len(vector)}
	}
	scaled, err := s.scaler.Transform(vector)
	if err != nil {
		return nil, err
	}
	p, err := s.model.PredictProba(scaled)
	if err != nil {
		return nil, err
	}

	tier := TierFor(p)
	return &Assessment{
		Tier:        tier,
		Probability: p,
		Percentage:  fmt.Sprintf("%.2f", p*100),
		AdviceHTML:  renderAdvice(tier, p),
	}, nil
}

// renderAdvice builds the results fragment: tier heading with symbol,
// percentage line, bulleted advice.
func renderAdvice(tier Tier, p float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<h2>%s %s</h2>\n", tier.Symbol(), html.EscapeString(string(tier)))
	fmt.Fprintf(&b, "<p>Predicted risk: %.2f%%</p>\n", p*100)
	b.WriteString("<ul>\n")
	for _, line := range tier.Advice() {
		fmt.Fprintf(&b, "  <li>%s</li>\n", html.EscapeString(line))
	}
	b.WriteString("</ul>")
	return b.String()
}
