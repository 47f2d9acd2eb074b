package ml

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSchema = []string{"a", "b", "c"}

func writeArtifact(t *testing.T, artifact Artifact) string {
	t.Helper()
	payload, err := json.Marshal(artifact)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, payload, 0o600))
	return path
}

func TestLoadModelMissingArtifact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")

	model, err := LoadModel(ModelConfig{Path: path, FeatureNames: testSchema})
	assert.Nil(t, model)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingArtifact))
	assert.Contains(t, err.Error(), path)

	_, err = LoadModel(ModelConfig{Path: t.TempDir()})
	assert.True(t, errors.Is(err, ErrMissingArtifact))
}

func TestLoadModelLogisticRegression(t *testing.T) {
	path := writeArtifact(t, Artifact{
		ModelType:    TypeLogisticRegression,
		FeatureNames: testSchema,
		Intercept:    0.1,
		Coefficients: []float64{1, -1, 0.5},
	})

	model, err := LoadModel(ModelConfig{Path: path, FeatureNames: testSchema})
	require.NoError(t, err)
	require.IsType(t, &LogisticRegression{}, model)

	proba, err := model.PredictProba([]float64{1, 1, 0})
	require.NoError(t, err)
	assert.Len(t, proba, 2)
}

func TestLoadModelTreeAndForest(t *testing.T) {
	tree := []TreeNode{
		{FeatureIdx: 2, Threshold: 1, LeftChild: 1, RightChild: 2},
		{IsLeaf: true, Value: []float64{9, 1}},
		{IsLeaf: true, Value: []float64{2, 8}},
	}

	path := writeArtifact(t, Artifact{ModelType: TypeDecisionTree, FeatureNames: testSchema, Nodes: tree})
	model, err := LoadModel(ModelConfig{Path: path, FeatureNames: testSchema})
	require.NoError(t, err)
	label, err := model.Predict([]float64{0, 0, 5})
	require.NoError(t, err)
	assert.Equal(t, 1, label)

	path = writeArtifact(t, Artifact{ModelType: TypeRandomForest, FeatureNames: testSchema, Trees: [][]TreeNode{tree, tree}})
	model, err = LoadModel(ModelConfig{Path: path, Type: TypeRandomForest, FeatureNames: testSchema})
	require.NoError(t, err)
	require.IsType(t, &RandomForest{}, model)
}

func TestLoadModelSchemaMismatch(t *testing.T) {
	path := writeArtifact(t, Artifact{
		ModelType:    TypeLogisticRegression,
		FeatureNames: []string{"a", "c", "b"},
		Coefficients: []float64{1, 2, 3},
	})
	_, err := LoadModel(ModelConfig{Path: path, FeatureNames: testSchema})
	assert.True(t, errors.Is(err, ErrSchemaMismatch))

	path = writeArtifact(t, Artifact{ModelType: TypeLogisticRegression, Coefficients: []float64{1, 2, 3}})
	_, err = LoadModel(ModelConfig{Path: path, FeatureNames: testSchema})
	assert.True(t, errors.Is(err, ErrSchemaMismatch), "undeclared schema is rejected")

	path = writeArtifact(t, Artifact{ModelType: TypeLogisticRegression, FeatureNames: testSchema, Coefficients: []float64{1, 2}})
	_, err = LoadModel(ModelConfig{Path: path, FeatureNames: testSchema})
	assert.True(t, errors.Is(err, ErrFeatureCount))
}

func TestLoadModelTypeErrors(t *testing.T) {
	path := writeArtifact(t, Artifact{ModelType: "svm", FeatureNames: testSchema})
	_, err := LoadModel(ModelConfig{Path: path, FeatureNames: testSchema})
	assert.True(t, errors.Is(err, ErrUnsupportedModel))

	path = writeArtifact(t, Artifact{ModelType: TypeLogisticRegression, FeatureNames: testSchema, Coefficients: []float64{1, 2, 3}})
	_, err = LoadModel(ModelConfig{Path: path, Type: TypeDecisionTree, FeatureNames: testSchema})
	assert.True(t, errors.Is(err, ErrUnsupportedModel))

	bad := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(bad, []byte("not json"), 0o600))
	_, err = LoadModel(ModelConfig{Path: bad, FeatureNames: testSchema})
	assert.True(t, errors.Is(err, ErrInvalidModel))
}
