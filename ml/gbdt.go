package ml

import (
	"encoding/json"
	"errors"
	"math"
	"os"
	"sort"
)

// GBDTConfig carries the fixed hyperparameters of a boosted ensemble.
type GBDTConfig struct {
	Rounds       int     `json:"rounds"`
	MaxDepth     int     `json:"max_depth"`
	LearningRate float64 `json:"learning_rate"`
	MinLeaf      int     `json:"min_leaf"`
	Lambda       float64 `json:"lambda"`
	// PosWeight multiplies the loss of positive examples. Zero means
	// "compute from the training split" as negatives/positives.
	PosWeight float64 `json:"pos_weight"`
}

// DefaultGBDTConfig mirrors the hyperparameters the service trains with.
func DefaultGBDTConfig() GBDTConfig {
	return GBDTConfig{
		Rounds:       100,
		MaxDepth:     3,
		LearningRate: 0.1,
		MinLeaf:      5,
		Lambda:       1.0,
	}
}

type treeNode struct {
	FeatureIdx int     `json:"feature_idx"`
	Threshold  float64 `json:"threshold"`
	LeftChild  int     `json:"left_child"`
	RightChild int     `json:"right_child"`
	Value      float64 `json:"value"`
	IsLeaf     bool    `json:"is_leaf"`
}

type regressionTree struct {
	Nodes []treeNode `json:"nodes"`
}

// GBDT is a gradient-boosted ensemble of shallow regression trees with
// logistic loss. Once trained it is read-only; concurrent Predict calls
// need no locking.
type GBDT struct {
	config      GBDTConfig
	bias        float64
	trees       []regressionTree
	numFeatures int
	importance  []float64
}

func NewGBDT(config GBDTConfig) *GBDT {
	if config.Rounds <= 0 {
		config.Rounds = 100
	}
	if config.MaxDepth <= 0 {
		config.MaxDepth = 3
	}
	if config.LearningRate <= 0 || config.LearningRate > 1 {
		config.LearningRate = 0.1
	}
	if config.MinLeaf <= 0 {
		config.MinLeaf = 1
	}
	if config.Lambda < 0 {
		config.Lambda = 1.0
	}
	return &GBDT{config: config}
}

// Train fits the ensemble. Labels must be 0 or 1; a split with zero
// examples of either class is rejected with a ConfigError because the
// imbalance weight would be undefined.
func (g *GBDT) Train(features [][]float64, labels []int) error {
	if len(features) == 0 || len(labels) == 0 {
		return errors.New("features or labels empty")
	}
	if len(features) != len(labels) {
		return errors.New("features and labels size mismatch")
	}
	numFeatures := len(features[0])
	for _, row := range features {
		if len(row) != numFeatures {
			return &InvalidInputError{Want: numFeatures, Got: len(row), Reason: "ragged training matrix"}
		}
	}

	pos, neg := 0, 0
	for _, label := range labels {
		switch label {
		case 1:
			pos++
		case 0:
			neg++
		default:
			return &ConfigError{Reason: "labels must be binary"}
		}
	}
	if pos == 0 || neg == 0 {
		return &ConfigError{Reason: "training split has zero examples of one class"}
	}

	posWeight := g.config.PosWeight
	if posWeight <= 0 {
		posWeight = float64(neg) / float64(pos)
	}

	n := len(features)
	weights := make([]float64, n)
	sumPos, sumNeg := 0.0, 0.0
	for i, label := range labels {
		if label == 1 {
			weights[i] = posWeight
			sumPos += posWeight
		} else {
			weights[i] = 1
			sumNeg += 1
		}
	}

	g.numFeatures = numFeatures
	g.bias = math.Log(sumPos / sumNeg)
	g.trees = make([]regressionTree, 0, g.config.Rounds)
	g.importance = make([]float64, numFeatures)

	scores := make([]float64, n)
	for i := range scores {
		scores[i] = g.bias
	}

	grads := make([]float64, n)
	hessians := make([]float64, n)
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}

	for round := 0; round < g.config.Rounds; round++ {
		for i := range features {
			p := sigmoid(scores[i])
			grads[i] = weights[i] * (float64(labels[i]) - p)
			hessians[i] = weights[i] * p * (1 - p)
		}

		builder := &treeBuilder{
			features:   features,
			grads:      grads,
			hessians:   hessians,
			maxDepth:   g.config.MaxDepth,
			minLeaf:    g.config.MinLeaf,
			lambda:     g.config.Lambda,
			importance: g.importance,
		}
		tree := regressionTree{Nodes: builder.build(indices, 0)}
		g.trees = append(g.trees, tree)

		for i, row := range features {
			scores[i] += g.config.LearningRate * tree.predict(row)
		}
	}
	return nil
}

// PredictProba returns the positive-class probability for one vector.
func (g *GBDT) PredictProba(vector []float64) (float64, error) {
	if len(g.trees) == 0 {
		return 0, errors.New("model not trained")
	}
	if len(vector) != g.numFeatures {
		return 0, &InvalidInputError{Want: g.numFeatures, Got: len(vector)}
	}
	for _, v := range vector {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, &InvalidInputError{Want: g.numFeatures, Got: len(vector), Reason: "non-finite feature value"}
		}
	}
	score := g.bias
	for _, tree := range g.trees {
		score += g.config.LearningRate * tree.predict(vector)
	}
	return sigmoid(score), nil
}

// NumFeatures reports the width of vectors the model accepts.
func (g *GBDT) NumFeatures() int { return g.numFeatures }

// FeatureImportance returns the accumulated split gain per feature.
func (g *GBDT) FeatureImportance() []float64 {
	out := make([]float64, len(g.importance))
	copy(out, g.importance)
	return out
}

type gbdtPayload struct {
	Config      GBDTConfig       `json:"config"`
	Bias        float64          `json:"bias"`
	Trees       []regressionTree `json:"trees"`
	NumFeatures int              `json:"num_features"`
	Importance  []float64        `json:"importance"`
}

// Save writes the fitted ensemble as JSON. Only the offline trainer uses
// this; the serving path keeps its model in memory.
func (g *GBDT) Save(path string) error {
	if len(g.trees) == 0 {
		return errors.New("model not trained")
	}
	payload, err := json.Marshal(gbdtPayload{
		Config:      g.config,
		Bias:        g.bias,
		Trees:       g.trees,
		NumFeatures: g.numFeatures,
		Importance:  g.importance,
	})
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o600)
}

// Load reads an ensemble previously written by Save.
func (g *GBDT) Load(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var payload gbdtPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	g.config = payload.Config
	g.bias = payload.Bias
	g.trees = payload.Trees
	g.numFeatures = payload.NumFeatures
	g.importance = payload.Importance
	return nil
}

func (t regressionTree) predict(vector []float64) float64 {
	idx := 0
	for {
		node := t.Nodes[idx]
		if node.IsLeaf {
			return node.Value
		}
		if vector[node.FeatureIdx] <= node.Threshold {
			idx = node.LeftChild
		} else {
			idx = node.RightChild
		}
	}
}

type treeBuilder struct {
	features   [][]float64
	grads      []float64
	hessians   []float64
	maxDepth   int
	minLeaf    int
	lambda     float64
	importance []float64
}

func (b *treeBuilder) build(indices []int, depth int) []treeNode {
	leaf := func() []treeNode {
		return []treeNode{{
			FeatureIdx: -1,
			LeftChild:  -1,
			RightChild: -1,
			Value:      b.leafValue(indices),
			IsLeaf:     true,
		}}
	}
	if depth >= b.maxDepth || len(indices) < 2*b.minLeaf {
		return leaf()
	}

	feature, threshold, gain, ok := b.findBestSplit(indices)
	if !ok {
		return leaf()
	}
	b.importance[feature] += gain

	left := make([]int, 0, len(indices))
	right := make([]int, 0, len(indices))
	for _, i := range indices {
		if b.features[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) < b.minLeaf || len(right) < b.minLeaf {
		return leaf()
	}

	leftNodes := b.build(left, depth+1)
	rightNodes := b.build(right, depth+1)

	root := treeNode{
		FeatureIdx: feature,
		Threshold:  threshold,
		LeftChild:  1,
		RightChild: 1 + len(leftNodes),
	}
	// Subtree child links are relative to the subtree root; rebase them
	// to their final positions in the combined array.
	nodes := make([]treeNode, 0, 1+len(leftNodes)+len(rightNodes))
	nodes = append(nodes, root)
	for _, node := range leftNodes {
		if !node.IsLeaf {
			node.LeftChild++
			node.RightChild++
		}
		nodes = append(nodes, node)
	}
	offset := 1 + len(leftNodes)
	for _, node := range rightNodes {
		if !node.IsLeaf {
			node.LeftChild += offset
			node.RightChild += offset
		}
		nodes = append(nodes, node)
	}
	return nodes
}

func (b *treeBuilder) leafValue(indices []int) float64 {
	sumG, sumH := 0.0, 0.0
	for _, i := range indices {
		sumG += b.grads[i]
		sumH += b.hessians[i]
	}
	return sumG / (sumH + b.lambda)
}

const maxSplitCandidates = 32

func (b *treeBuilder) findBestSplit(indices []int) (int, float64, float64, bool) {
	totalG, totalH := 0.0, 0.0
	for _, i := range indices {
		totalG += b.grads[i]
		totalH += b.hessians[i]
	}
	parentScore := totalG * totalG / (totalH + b.lambda)

	bestFeature := -1
	bestThreshold := 0.0
	bestGain := 0.0
	numFeatures := len(b.features[0])
	values := make([]float64, 0, len(indices))

	for feature := 0; feature < numFeatures; feature++ {
		values = values[:0]
		for _, i := range indices {
			values = append(values, b.features[i][feature])
		}
		for _, threshold := range splitCandidates(values) {
			leftG, leftH := 0.0, 0.0
			leftCount := 0
			for _, i := range indices {
				if b.features[i][feature] <= threshold {
					leftG += b.grads[i]
					leftH += b.hessians[i]
					leftCount++
				}
			}
			if leftCount < b.minLeaf || len(indices)-leftCount < b.minLeaf {
				continue
			}
			rightG := totalG - leftG
			rightH := totalH - leftH
			gain := leftG*leftG/(leftH+b.lambda) + rightG*rightG/(rightH+b.lambda) - parentScore
			if gain > bestGain {
				bestGain = gain
				bestFeature = feature
				bestThreshold = threshold
			}
		}
	}
	if bestFeature == -1 {
		return -1, 0, 0, false
	}
	return bestFeature, bestThreshold, bestGain, true
}

// splitCandidates returns midpoints between distinct sorted values,
// thinned to a fixed cap so wide columns stay cheap to scan.
func splitCandidates(values []float64) []float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	distinct := sorted[:0]
	for i, v := range sorted {
		if i == 0 || v != distinct[len(distinct)-1] {
			distinct = append(distinct, v)
		}
	}
	if len(distinct) < 2 {
		return nil
	}

	midpoints := make([]float64, 0, len(distinct)-1)
	for i := 1; i < len(distinct); i++ {
		midpoints = append(midpoints, (distinct[i-1]+distinct[i])/2)
	}
	if len(midpoints) <= maxSplitCandidates {
		return midpoints
	}
	step := float64(len(midpoints)) / float64(maxSplitCandidates)
	thinned := make([]float64, 0, maxSplitCandidates)
	for i := 0; i < maxSplitCandidates; i++ {
		thinned = append(thinned, midpoints[int(float64(i)*step)])
	}
	return thinned
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
