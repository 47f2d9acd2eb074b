package ml

import (
	"fmt"
)

type DecisionTree struct {
	nodes       []TreeNode
	numFeatures int
	numClasses  int
}

// TreeNode is one entry of a pre-order node array. Value holds the per-class
// sample counts (or weights) reaching a leaf; when it is empty the leaf
// votes for ClassLabel with certainty.
type TreeNode struct {
	FeatureIdx int       `json:"feature_idx"`
	Threshold  float64   `json:"threshold"`
	LeftChild  int       `json:"left_child"`
	RightChild int       `json:"right_child"`
	ClassLabel int       `json:"class_label"`
	IsLeaf     bool      `json:"is_leaf"`
	Value      []float64 `json:"value,omitempty"`
}

func NewDecisionTree(nodes []TreeNode, numFeatures int) (*DecisionTree, error) {
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%w: tree has no nodes", ErrInvalidModel)
	}

	numClasses := 2
	for idx, node := range nodes {
		if node.IsLeaf {
			if node.ClassLabel < 0 {
				return nil, fmt.Errorf("%w: node %d has negative class label", ErrInvalidModel, idx)
			}
			if len(node.Value) > 0 && sum(node.Value) <= 0 {
				return nil, fmt.Errorf("%w: node %d has empty class distribution", ErrInvalidModel, idx)
			}
			for _, v := range node.Value {
				if v < 0 {
					return nil, fmt.Errorf("%w: node %d has negative class weight", ErrInvalidModel, idx)
				}
			}
			if len(node.Value) > numClasses {
				numClasses = len(node.Value)
			}
			if node.ClassLabel+1 > numClasses {
				numClasses = node.ClassLabel + 1
			}
			continue
		}
		if node.FeatureIdx < 0 || node.FeatureIdx >= numFeatures {
			return nil, fmt.Errorf("%w: node %d splits on feature %d", ErrInvalidModel, idx, node.FeatureIdx)
		}
		// Children must come after their parent so a walk always terminates.
		for _, child := range []int{node.LeftChild, node.RightChild} {
			if child <= idx || child >= len(nodes) {
				return nil, fmt.Errorf("%w: node %d has invalid child %d", ErrInvalidModel, idx, child)
			}
		}
	}

	return &DecisionTree{nodes: nodes, numFeatures: numFeatures, numClasses: numClasses}, nil
}

func (dt *DecisionTree) Predict(features []float64) (int, error) {
	proba, err := dt.PredictProba(features)
	if err != nil {
		return 0, err
	}
	return argmax(proba), nil
}

func (dt *DecisionTree) PredictProba(features []float64) ([]float64, error) {
	leaf, err := dt.leaf(features)
	if err != nil {
		return nil, err
	}

	proba := make([]float64, dt.numClasses)
	if len(leaf.Value) == 0 {
		proba[leaf.ClassLabel] = 1
		return proba, nil
	}
	total := sum(leaf.Value)
	for i, v := range leaf.Value {
		proba[i] = v / total
	}
	return proba, nil
}

func (dt *DecisionTree) NumFeatures() int {
	return dt.numFeatures
}

func (dt *DecisionTree) leaf(features []float64) (TreeNode, error) {
	if err := checkWidth(features, dt.numFeatures); err != nil {
		return TreeNode{}, err
	}
	idx := 0
	for {
		node := dt.nodes[idx]
		if node.IsLeaf {
			return node, nil
		}
		if features[node.FeatureIdx] <= node.Threshold {
			idx = node.LeftChild
		} else {
			idx = node.RightChild
		}
	}
}

func sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}
