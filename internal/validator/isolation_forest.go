package validator

import (
	"math"
	"math/rand"
)

const eulerGamma = 0.5772156649015329

// isolationForest is an ensemble of random isolation trees. Points that are
// isolated after few random splits get a score close to 1.
type isolationForest struct {
	trees      []*isolationNode
	sampleSize int
}

type isolationNode struct {
	feature int
	split   float64
	left    *isolationNode
	right   *isolationNode
	// size is the number of training points that reached an external node.
	size int
}

func (n *isolationNode) isLeaf() bool {
	return n.left == nil && n.right == nil
}

// fitIsolationForest grows trees on random subsamples of data without replacement.
func fitIsolationForest(data [][]float64, trees, sampleSize int, rng *rand.Rand) *isolationForest {
	if sampleSize > len(data) {
		sampleSize = len(data)
	}

	heightLimit := int(math.Ceil(math.Log2(float64(max(sampleSize, 2)))))
	forest := &isolationForest{
		trees:      make([]*isolationNode, 0, trees),
		sampleSize: sampleSize,
	}

	for range trees {
		perm := rng.Perm(len(data))[:sampleSize]

		sample := make([][]float64, sampleSize)
		for i, idx := range perm {
			sample[i] = data[idx]
		}

		forest.trees = append(forest.trees, growTree(sample, 0, heightLimit, rng))
	}

	return forest
}

func growTree(sample [][]float64, depth, limit int, rng *rand.Rand) *isolationNode {
	if depth >= limit || len(sample) <= 1 {
		return &isolationNode{size: len(sample)}
	}

	// only features that still have spread can split the sample
	candidates := make([]int, 0, len(sample[0]))
	lows := make([]float64, len(sample[0]))
	highs := make([]float64, len(sample[0]))

	for f := range sample[0] {
		lows[f], highs[f] = math.Inf(1), math.Inf(-1)
		for _, point := range sample {
			lows[f] = math.Min(lows[f], point[f])
			highs[f] = math.Max(highs[f], point[f])
		}

		if highs[f] > lows[f] {
			candidates = append(candidates, f)
		}
	}

	if len(candidates) == 0 {
		return &isolationNode{size: len(sample)}
	}

	feature := candidates[rng.Intn(len(candidates))]
	split := lows[feature] + rng.Float64()*(highs[feature]-lows[feature])

	left := make([][]float64, 0, len(sample))
	right := make([][]float64, 0, len(sample))

	for _, point := range sample {
		if point[feature] < split {
			left = append(left, point)
		} else {
			right = append(right, point)
		}
	}

	return &isolationNode{
		feature: feature,
		split:   split,
		left:    growTree(left, depth+1, limit, rng),
		right:   growTree(right, depth+1, limit, rng),
	}
}

// score returns the anomaly score s(x) = 2^(-E[h(x)] / c(ψ)).
func (f *isolationForest) score(point []float64) float64 {
	if len(f.trees) == 0 {
		return 0
	}

	total := 0.0
	for _, tree := range f.trees {
		total += pathLength(point, tree, 0)
	}

	norm := averagePathLength(f.sampleSize)
	if norm == 0 {
		return 0
	}

	return math.Pow(2, -(total/float64(len(f.trees)))/norm)
}

func pathLength(point []float64, node *isolationNode, depth int) float64 {
	if node.isLeaf() {
		return float64(depth) + averagePathLength(node.size)
	}

	if point[node.feature] < node.split {
		return pathLength(point, node.left, depth+1)
	}

	return pathLength(point, node.right, depth+1)
}

// averagePathLength is c(n), the average path length of an unsuccessful
// binary search tree lookup among n points.
func averagePathLength(n int) float64 {
	switch {
	case n <= 1:
		return 0
	case n == 2:
		return 1
	}

	harmonic := math.Log(float64(n-1)) + eulerGamma

	return 2*harmonic - 2*float64(n-1)/float64(n)
}
