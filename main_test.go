package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"attorneyrisk/claim"
	"attorneyrisk/config"
	"attorneyrisk/ml"
)

func TestSetupMissingArtifactHaltsBeforeServing(t *testing.T) {
	cfg := config.Default()
	cfg.ML.ModelPath = filepath.Join(t.TempDir(), "model.json")

	a, err := setup(cfg, zap.NewNop())
	require.Error(t, err)
	assert.Nil(t, a)
	assert.True(t, errors.Is(err, ml.ErrMissingArtifact))
}

func TestSetupRejectsMisorderedSchema(t *testing.T) {
	names := claim.FeatureNames()
	names[0], names[1] = names[1], names[0]
	path := writeModel(t, ml.Artifact{
		ModelType:    ml.TypeLogisticRegression,
		FeatureNames: names,
		Coefficients: make([]float64, claim.NumFeatures),
	})

	cfg := config.Default()
	cfg.ML.ModelPath = path
	_, err := setup(cfg, zap.NewNop())
	assert.True(t, errors.Is(err, ml.ErrSchemaMismatch))
}

func TestSetupWiresServer(t *testing.T) {
	path := writeModel(t, ml.Artifact{
		ModelType:    ml.TypeLogisticRegression,
		FeatureNames: claim.FeatureNames(),
		Intercept:    -2,
		Coefficients: []float64{0, 0, -0.5, 0, 0.0001, 0.8, 0.00005, -1, 0, 0.3, 0.6},
	})

	cfg := config.Default()
	cfg.ML.ModelPath = path
	a, err := setup(cfg, zap.NewNop())
	require.NoError(t, err)
	defer a.close(zap.NewNop())

	assert.NotNil(t, a.server)
	assert.NotNil(t, a.watcher)
	assert.Equal(t, ":8080", a.server.Addr())
}

func writeModel(t *testing.T, artifact ml.Artifact) string {
	t.Helper()
	payload, err := json.Marshal(artifact)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, payload, 0o600))
	return path
}
