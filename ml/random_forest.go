package ml

import "fmt"

// RandomForest averages the class probabilities of its trees.
type RandomForest struct {
	trees       []*DecisionTree
	numFeatures int
	numClasses  int
}

func NewRandomForest(trees [][]TreeNode, numFeatures int) (*RandomForest, error) {
	if len(trees) == 0 {
		return nil, fmt.Errorf("%w: forest has no trees", ErrInvalidModel)
	}
	forest := &RandomForest{numFeatures: numFeatures, numClasses: 2}
	for i, nodes := range trees {
		tree, err := NewDecisionTree(nodes, numFeatures)
		if err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
		if tree.numClasses > forest.numClasses {
			forest.numClasses = tree.numClasses
		}
		forest.trees = append(forest.trees, tree)
	}
	return forest, nil
}

func (rf *RandomForest) Predict(features []float64) (int, error) {
	proba, err := rf.PredictProba(features)
	if err != nil {
		return 0, err
	}
	return argmax(proba), nil
}

func (rf *RandomForest) PredictProba(features []float64) ([]float64, error) {
	if err := checkWidth(features, rf.numFeatures); err != nil {
		return nil, err
	}
	mean := make([]float64, rf.numClasses)
	for _, tree := range rf.trees {
		proba, err := tree.PredictProba(features)
		if err != nil {
			return nil, err
		}
		for i, p := range proba {
			mean[i] += p
		}
	}
	for i := range mean {
		mean[i] /= float64(len(rf.trees))
	}
	return mean, nil
}

func (rf *RandomForest) NumFeatures() int {
	return rf.numFeatures
}
