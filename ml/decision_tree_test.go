package ml

import (
	"errors"
	"testing"
)

func twoLeafTree() []TreeNode {
	return []TreeNode{
		{FeatureIdx: 0, Threshold: 0.5, LeftChild: 1, RightChild: 2},
		{IsLeaf: true, Value: []float64{30, 10}},
		{IsLeaf: true, ClassLabel: 1, Value: []float64{5, 15}},
	}
}

func TestDecisionTreePredict(t *testing.T) {
	model, err := NewDecisionTree(twoLeafTree(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	label, err := model.Predict([]float64{0.15, 0.15})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if label != 0 {
		t.Fatalf("expected label 0, got %d", label)
	}

	proba, err := model.PredictProba([]float64{0.9, 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if proba[0] != 0.25 || proba[1] != 0.75 {
		t.Fatalf("unexpected probabilities: %v", proba)
	}
	if label, _ := model.Predict([]float64{0.9, 0}); label != 1 {
		t.Fatalf("expected label 1, got %d", label)
	}
}

func TestDecisionTreeClassLabelLeaf(t *testing.T) {
	nodes := []TreeNode{
		{FeatureIdx: 1, Threshold: 10, LeftChild: 1, RightChild: 2},
		{IsLeaf: true, ClassLabel: 1},
		{IsLeaf: true, ClassLabel: 0},
	}
	model, err := NewDecisionTree(nodes, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	proba, err := model.PredictProba([]float64{0, 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if proba[1] != 1 || proba[0] != 0 {
		t.Fatalf("unexpected probabilities: %v", proba)
	}
}

func TestDecisionTreeRejectsBadNodes(t *testing.T) {
	cases := map[string][]TreeNode{
		"empty":         nil,
		"backward edge": {{FeatureIdx: 0, LeftChild: 0, RightChild: 1}, {IsLeaf: true}},
		"out of range":  {{FeatureIdx: 0, LeftChild: 1, RightChild: 5}, {IsLeaf: true}},
		"bad feature":   {{FeatureIdx: 7, LeftChild: 1, RightChild: 2}, {IsLeaf: true}, {IsLeaf: true}},
		"zero weights":  {{IsLeaf: true, Value: []float64{0, 0}}},
	}
	for name, nodes := range cases {
		if _, err := NewDecisionTree(nodes, 2); !errors.Is(err, ErrInvalidModel) {
			t.Errorf("%s: expected ErrInvalidModel, got %v", name, err)
		}
	}
}

func TestDecisionTreeFeatureCount(t *testing.T) {
	model, err := NewDecisionTree(twoLeafTree(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := model.Predict([]float64{1}); !errors.Is(err, ErrFeatureCount) {
		t.Fatalf("expected ErrFeatureCount, got %v", err)
	}
}

func TestRandomForestAveragesTrees(t *testing.T) {
	second := []TreeNode{{IsLeaf: true, Value: []float64{1, 3}}}
	forest, err := NewRandomForest([][]TreeNode{twoLeafTree(), second}, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	proba, err := forest.PredictProba([]float64{0, 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// (0.75 + 0.25) / 2 and (0.25 + 0.75) / 2
	if proba[0] != 0.5 || proba[1] != 0.5 {
		t.Fatalf("unexpected probabilities: %v", proba)
	}
	label, err := forest.Predict([]float64{0, 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if label != 0 {
		t.Fatalf("ties resolve to the lower class, got %d", label)
	}

	if _, err := NewRandomForest(nil, 2); !errors.Is(err, ErrInvalidModel) {
		t.Fatalf("expected ErrInvalidModel, got %v", err)
	}
}
