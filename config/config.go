package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"attorneyrisk/logging"
	"attorneyrisk/ml"
)

type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Log       logging.Options `yaml:"log"`
	ML        MLConfig        `yaml:"ml"`
	Predictor struct {
		CacheSize int `yaml:"cache_size"`
	} `yaml:"predictor"`
}

type HTTPConfig struct {
	Port           int           `yaml:"port"`
	Timeout        time.Duration `yaml:"timeout"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	MaxBodyBytes   int64         `yaml:"max_body_bytes"`
}

type MLConfig struct {
	ModelType     string        `yaml:"model_type"`
	ModelPath     string        `yaml:"model_path"`
	WatchArtifact bool          `yaml:"watch_artifact"`
	ONNX          ml.ONNXConfig `yaml:"onnx"`
}

func Default() *Config {
	cfg := &Config{
		HTTP: HTTPConfig{
			Port:           8080,
			Timeout:        30 * time.Second,
			AllowedOrigins: []string{"*"},
			MaxBodyBytes:   1 << 20,
		},
		Log: logging.Options{
			Level:      "info",
			MaxSizeMB:  100,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		ML: MLConfig{
			ModelPath:     "model.json",
			WatchArtifact: true,
		},
	}
	cfg.Predictor.CacheSize = 1024
	return cfg
}

// Load decodes the YAML file at path over the defaults. A missing file is
// not an error; the defaults are returned.
func Load(path string) (*Config, error) {
	cfg := Default()

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}
	defer file.Close()

	if err := yaml.NewDecoder(file).Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port %d out of range", c.HTTP.Port)
	}
	if c.HTTP.Timeout <= 0 {
		return fmt.Errorf("http.timeout must be positive")
	}
	if c.HTTP.MaxBodyBytes <= 0 {
		return fmt.Errorf("http.max_body_bytes must be positive")
	}
	if c.ML.ModelPath == "" {
		return fmt.Errorf("ml.model_path is required")
	}
	switch c.ML.ModelType {
	case "", ml.TypeLogisticRegression, ml.TypeDecisionTree, ml.TypeRandomForest, ml.TypeONNX:
	default:
		return fmt.Errorf("ml.model_type %q is not supported", c.ML.ModelType)
	}
	if c.Predictor.CacheSize < 0 {
		return fmt.Errorf("predictor.cache_size must not be negative")
	}
	return nil
}

// ModelConfig returns the loader settings for a model whose columns are
// expected in featureNames order.
func (c *Config) ModelConfig(featureNames []string) ml.ModelConfig {
	return ml.ModelConfig{
		Type:         c.ML.ModelType,
		Path:         c.ML.ModelPath,
		FeatureNames: featureNames,
		ONNX:         c.ML.ONNX,
	}
}
