package ml

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const (
	TypeLogisticRegression = "logistic_regression"
	TypeDecisionTree       = "decision_tree"
	TypeRandomForest       = "random_forest"
	TypeONNX               = "onnx"
)

type ModelConfig struct {
	// Type selects the artifact format. Empty means ".onnx" files are ONNX
	// and anything else is a JSON artifact carrying its own model_type.
	Type string
	Path string
	// FeatureNames is the column order the caller builds vectors in.
	FeatureNames []string
	ONNX         ONNXConfig
}

// Artifact is the JSON document produced by the export step of training.
type Artifact struct {
	ModelType    string       `json:"model_type"`
	FeatureNames []string     `json:"feature_names"`
	Intercept    float64      `json:"intercept,omitempty"`
	Coefficients []float64    `json:"coefficients,omitempty"`
	Nodes        []TreeNode   `json:"nodes,omitempty"`
	Trees        [][]TreeNode `json:"trees,omitempty"`
}

// LoadModel reads the artifact at cfg.Path once. A missing file yields
// ErrMissingArtifact; there is no fallback location.
func LoadModel(cfg ModelConfig) (Classifier, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("%w: no path configured", ErrMissingArtifact)
	}
	info, err := os.Stat(cfg.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingArtifact, cfg.Path)
		}
		return nil, fmt.Errorf("stat model artifact: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrMissingArtifact, cfg.Path)
	}

	modelType := cfg.Type
	if modelType == "" && strings.EqualFold(filepath.Ext(cfg.Path), ".onnx") {
		modelType = TypeONNX
	}
	if modelType == TypeONNX {
		return newONNXClassifier(cfg.Path, cfg.ONNX, cfg.FeatureNames)
	}

	artifact, err := readArtifact(cfg.Path)
	if err != nil {
		return nil, err
	}
	if modelType != "" && artifact.ModelType != modelType {
		return nil, fmt.Errorf("%w: configured %q but artifact is %q", ErrUnsupportedModel, modelType, artifact.ModelType)
	}
	return artifact.Build(cfg.FeatureNames)
}

func readArtifact(path string) (*Artifact, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model artifact: %w", err)
	}
	var artifact Artifact
	if err := json.Unmarshal(payload, &artifact); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrInvalidModel, path, err)
	}
	return &artifact, nil
}

// Build checks the declared feature schema against expected and constructs
// the classifier. A nil expected only checks that a schema is declared.
func (a *Artifact) Build(expected []string) (Classifier, error) {
	if err := CheckSchema(a.FeatureNames, expected); err != nil {
		return nil, err
	}
	width := len(a.FeatureNames)

	switch a.ModelType {
	case TypeLogisticRegression:
		if len(a.Coefficients) != width {
			return nil, fmt.Errorf("%w: %d coefficients for %d features", ErrFeatureCount, len(a.Coefficients), width)
		}
		return NewLogisticRegression(a.Intercept, a.Coefficients)
	case TypeDecisionTree:
		return NewDecisionTree(a.Nodes, width)
	case TypeRandomForest:
		return NewRandomForest(a.Trees, width)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedModel, a.ModelType)
	}
}

// CheckSchema reports ErrSchemaMismatch unless declared lists the expected
// columns in the same order.
func CheckSchema(declared, expected []string) error {
	if len(declared) == 0 {
		return fmt.Errorf("%w: artifact declares no feature names", ErrSchemaMismatch)
	}
	if expected == nil {
		return nil
	}
	if len(declared) != len(expected) {
		return fmt.Errorf("%w: artifact has %d features, expected %d", ErrSchemaMismatch, len(declared), len(expected))
	}
	for i := range expected {
		if declared[i] != expected[i] {
			return fmt.Errorf("%w: position %d is %q, expected %q", ErrSchemaMismatch, i, declared[i], expected[i])
		}
	}
	return nil
}
