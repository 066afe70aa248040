package scoring

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// gbtParams configures gradient-boosted regression tree training.
type gbtParams struct {
	rounds       int
	maxDepth     int
	minLeaf      int
	learningRate float64
}

type treeNode struct {
	leaf      bool
	value     float64
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
}

// boostedTrees is an additive ensemble of regression trees fitted to the
// squared-error objective. Training is exhaustive over split candidates and
// uses no subsampling, so the fit is fully deterministic for a given input.
type boostedTrees struct {
	base  float64
	rate  float64
	trees []*treeNode
}

func fitBoostedTrees(features [][]float64, labels []float64, p gbtParams) *boostedTrees {
	if p.minLeaf <= 0 {
		p.minLeaf = 1
	}

	model := &boostedTrees{
		base: stat.Mean(labels, nil),
		rate: p.learningRate,
	}

	preds := make([]float64, len(labels))
	for i := range preds {
		preds[i] = model.base
	}

	indices := make([]int, len(labels))
	for i := range indices {
		indices[i] = i
	}

	residuals := make([]float64, len(labels))
	for round := 0; round < p.rounds; round++ {
		floats.SubTo(residuals, labels, preds)

		tree := buildTree(features, residuals, indices, 0, p)
		model.trees = append(model.trees, tree)

		for i := range preds {
			preds[i] += p.learningRate * predictTree(tree, features[i])
		}
	}

	return model
}

func (b *boostedTrees) predict(x []float64) float64 {
	score := b.base
	for _, tree := range b.trees {
		score += b.rate * predictTree(tree, x)
	}
	return score
}

func predictTree(n *treeNode, x []float64) float64 {
	for !n.leaf {
		if x[n.feature] <= n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.value
}

func buildTree(features [][]float64, target []float64, indices []int, depth int, p gbtParams) *treeNode {
	if depth >= p.maxDepth || len(indices) < 2*p.minLeaf {
		return leafNode(target, indices)
	}

	feature, threshold, ok := bestSplit(features, target, indices, p.minLeaf)
	if !ok {
		return leafNode(target, indices)
	}

	var left, right []int
	for _, idx := range indices {
		if features[idx][feature] <= threshold {
			left = append(left, idx)
		} else {
			right = append(right, idx)
		}
	}

	return &treeNode{
		feature:   feature,
		threshold: threshold,
		left:      buildTree(features, target, left, depth+1, p),
		right:     buildTree(features, target, right, depth+1, p),
	}
}

func leafNode(target []float64, indices []int) *treeNode {
	sum := 0.0
	for _, idx := range indices {
		sum += target[idx]
	}
	return &treeNode{leaf: true, value: sum / float64(len(indices))}
}

// bestSplit scans every feature and every midpoint between adjacent distinct
// values, minimizing the summed squared error of the two partitions. Ties go
// to the lowest feature index then lowest threshold, keeping training
// deterministic.
func bestSplit(features [][]float64, target []float64, indices []int, minLeaf int) (int, float64, bool) {
	bestSSE := math.Inf(1)
	bestFeature := -1
	bestThreshold := 0.0

	numFeatures := len(features[indices[0]])
	order := make([]int, len(indices))

	for f := 0; f < numFeatures; f++ {
		copy(order, indices)
		sort.Slice(order, func(a, b int) bool {
			return features[order[a]][f] < features[order[b]][f]
		})

		// Prefix sums over the sorted order let each candidate split be
		// evaluated in constant time.
		n := len(order)
		prefixSum := make([]float64, n+1)
		prefixSq := make([]float64, n+1)
		for i, idx := range order {
			prefixSum[i+1] = prefixSum[i] + target[idx]
			prefixSq[i+1] = prefixSq[i] + target[idx]*target[idx]
		}

		for i := minLeaf; i <= n-minLeaf; i++ {
			lo := features[order[i-1]][f]
			hi := features[order[i]][f]
			if lo == hi {
				continue
			}
			threshold := (lo + hi) / 2

			leftN := float64(i)
			rightN := float64(n - i)
			leftSum := prefixSum[i]
			rightSum := prefixSum[n] - leftSum
			leftSq := prefixSq[i]
			rightSq := prefixSq[n] - leftSq

			sse := (leftSq - leftSum*leftSum/leftN) + (rightSq - rightSum*rightSum/rightN)
			if sse < bestSSE-1e-12 {
				bestSSE = sse
				bestFeature = f
				bestThreshold = threshold
			}
		}
	}

	if bestFeature < 0 {
		return 0, 0, false
	}
	return bestFeature, bestThreshold, true
}
