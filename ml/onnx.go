package ml

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
	"go.uber.org/zap"
)

const (
	defaultLabelOutput       = "output_label"
	defaultProbabilityOutput = "output_probability"
	featureNamesMetadataKey  = "feature_names"
)

// ONNXConfig names the tensors of a classifier exported with its zipmap
// disabled, so probabilities come back as a [N, classes] float tensor.
type ONNXConfig struct {
	LibraryPath       string `yaml:"library_path"`
	InputName         string `yaml:"input_name"`
	LabelOutput       string `yaml:"label_output"`
	ProbabilityOutput string `yaml:"probability_output"`
}

// ortEnv manages process-wide ONNX Runtime initialization.
var ortEnv struct {
	once sync.Once
	err  error
}

func initORT(libPath string) error {
	ortEnv.once.Do(func() {
		ort.SetSharedLibraryPath(libPath)
		ortEnv.err = ort.InitializeEnvironment()
	})
	return ortEnv.err
}

type ONNXClassifier struct {
	mu          sync.Mutex
	session     *ort.DynamicAdvancedSession
	numFeatures int
	numClasses  int64
}

func newONNXClassifier(modelPath string, cfg ONNXConfig, expected []string) (*ONNXClassifier, error) {
	libPath := cfg.LibraryPath
	if libPath == "" {
		libPath = filepath.Join(filepath.Dir(modelPath), "libonnxruntime.so")
	}
	if err := initORT(libPath); err != nil {
		return nil, fmt.Errorf("onnx: failed to initialize runtime: %w", err)
	}

	inputs, outputs, err := ort.GetInputOutputInfo(modelPath)
	if err != nil {
		return nil, fmt.Errorf("%w: onnx: failed to read model info: %v", ErrInvalidModel, err)
	}

	input, err := findTensor(inputs, cfg.InputName, "")
	if err != nil {
		return nil, err
	}
	numFeatures, err := inputWidth(input, len(expected))
	if err != nil {
		return nil, err
	}

	labelOut, err := findTensor(outputs, cfg.LabelOutput, defaultLabelOutput)
	if err != nil {
		return nil, err
	}
	probaOut, err := findTensor(outputs, cfg.ProbabilityOutput, defaultProbabilityOutput)
	if err != nil {
		return nil, err
	}
	numClasses, err := classCount(probaOut)
	if err != nil {
		return nil, err
	}

	if err := checkONNXSchema(modelPath, expected); err != nil {
		return nil, err
	}

	opts, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create session options: %w", err)
	}
	defer opts.Destroy()
	opts.SetIntraOpNumThreads(1)
	opts.SetInterOpNumThreads(1)

	session, err := ort.NewDynamicAdvancedSession(
		modelPath,
		[]string{input.Name},
		[]string{labelOut.Name, probaOut.Name},
		opts,
	)
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create session: %w", err)
	}

	return &ONNXClassifier{
		session:     session,
		numFeatures: numFeatures,
		numClasses:  numClasses,
	}, nil
}

// inputWidth resolves the column count of a [N, features] input. A fixed
// width in the model must agree with the expected schema width.
func inputWidth(input ort.InputOutputInfo, expected int) (int, error) {
	width := expected
	if dims := input.Dimensions; len(dims) == 2 && dims[1] > 0 {
		if expected > 0 && int(dims[1]) != expected {
			return 0, fmt.Errorf("%w: onnx input %q has %d columns, expected %d", ErrFeatureCount, input.Name, dims[1], expected)
		}
		width = int(dims[1])
	}
	if width == 0 {
		return 0, fmt.Errorf("%w: onnx input %q has no fixed width", ErrInvalidModel, input.Name)
	}
	return width, nil
}

// classCount reads the class dimension of a [N, classes] probability output,
// assuming a binary classifier when the model leaves it dynamic. A zipmap
// output is a sequence of maps and is rejected.
func classCount(proba ort.InputOutputInfo) (int64, error) {
	if proba.OrtValueType != ort.ONNXTypeTensor {
		return 0, fmt.Errorf("%w: onnx output %q is not a tensor; export with zipmap disabled", ErrInvalidModel, proba.Name)
	}
	if dims := proba.Dimensions; len(dims) == 2 && dims[1] > 0 {
		return dims[1], nil
	}
	return 2, nil
}

func findTensor(infos []ort.InputOutputInfo, name, fallback string) (ort.InputOutputInfo, error) {
	if name == "" {
		name = fallback
	}
	if name == "" {
		if len(infos) == 0 {
			return ort.InputOutputInfo{}, fmt.Errorf("%w: onnx model has no inputs", ErrInvalidModel)
		}
		return infos[0], nil
	}
	for _, info := range infos {
		if info.Name == name {
			return info, nil
		}
	}
	return ort.InputOutputInfo{}, fmt.Errorf("%w: onnx model has no tensor %q", ErrInvalidModel, name)
}

// checkONNXSchema compares the comma separated feature_names metadata entry,
// when the exporter wrote one, against the expected column order.
func checkONNXSchema(modelPath string, expected []string) error {
	meta, err := ort.GetModelMetadata(modelPath)
	if err != nil {
		return fmt.Errorf("%w: onnx: failed to read metadata: %v", ErrInvalidModel, err)
	}
	defer meta.Destroy()

	value, ok, err := meta.LookupCustomMetadataMap(featureNamesMetadataKey)
	if err != nil {
		return fmt.Errorf("%w: onnx: failed to read metadata: %v", ErrInvalidModel, err)
	}
	if !ok {
		zap.L().Warn("onnx artifact declares no feature names; column order is not verified",
			zap.String("path", modelPath))
		return nil
	}

	return CheckSchema(parseFeatureNames(value), expected)
}

func parseFeatureNames(value string) []string {
	declared := strings.Split(value, ",")
	for i := range declared {
		declared[i] = strings.TrimSpace(declared[i])
	}
	return declared
}

func (c *ONNXClassifier) Predict(features []float64) (int, error) {
	label, _, err := c.run(features)
	if err != nil {
		return 0, err
	}
	return int(label), nil
}

func (c *ONNXClassifier) PredictProba(features []float64) ([]float64, error) {
	_, proba, err := c.run(features)
	if err != nil {
		return nil, err
	}
	return proba, nil
}

func (c *ONNXClassifier) NumFeatures() int {
	return c.numFeatures
}

func (c *ONNXClassifier) run(features []float64) (int64, []float64, error) {
	if err := checkWidth(features, c.numFeatures); err != nil {
		return 0, nil, err
	}

	data := make([]float32, len(features))
	for i, f := range features {
		data[i] = float32(f)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	tIn, err := ort.NewTensor(ort.NewShape(1, int64(c.numFeatures)), data)
	if err != nil {
		return 0, nil, fmt.Errorf("onnx: failed to create input tensor: %w", err)
	}
	defer tIn.Destroy()

	tLabel, err := ort.NewEmptyTensor[int64](ort.NewShape(1))
	if err != nil {
		return 0, nil, fmt.Errorf("onnx: failed to create label tensor: %w", err)
	}
	defer tLabel.Destroy()

	tProba, err := ort.NewEmptyTensor[float32](ort.NewShape(1, c.numClasses))
	if err != nil {
		return 0, nil, fmt.Errorf("onnx: failed to create probability tensor: %w", err)
	}
	defer tProba.Destroy()

	if err := c.session.Run([]ort.Value{tIn}, []ort.Value{tLabel, tProba}); err != nil {
		return 0, nil, fmt.Errorf("onnx: inference failed: %w", err)
	}

	return decodeOutputs(tLabel.GetData(), tProba.GetData(), c.numClasses)
}

// decodeOutputs converts the single-row label and probability tensors.
func decodeOutputs(labels []int64, raw []float32, numClasses int64) (int64, []float64, error) {
	if len(labels) != 1 {
		return 0, nil, fmt.Errorf("%w: onnx returned %d labels for one row", ErrInvalidModel, len(labels))
	}
	if int64(len(raw)) != numClasses {
		return 0, nil, fmt.Errorf("%w: onnx returned %d probabilities, expected %d", ErrInvalidModel, len(raw), numClasses)
	}
	proba := make([]float64, len(raw))
	for i, p := range raw {
		proba[i] = float64(p)
	}
	return labels[0], proba, nil
}

// Close releases the ONNX session.
func (c *ONNXClassifier) Close() error {
	return c.session.Destroy()
}
