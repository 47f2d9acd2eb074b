package http

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"attorneyrisk/claim"
	"attorneyrisk/monitoring"
	"attorneyrisk/predictor"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

const (
	metricPredictions       = "predictions_total"
	metricPredictionErrors  = "prediction_errors_total"
	metricRejectedInputs    = "rejected_inputs_total"
	metricPredictionLatency = "prediction_seconds"
)

// Handler serves the form and API on top of a loaded predictor.
type Handler struct {
	predictor *predictor.Predictor
	metrics   *monitoring.MetricsCollector
	logger    *zap.Logger
}

func NewHandler(p *predictor.Predictor, metrics *monitoring.MetricsCollector, logger *zap.Logger) *Handler {
	if metrics == nil {
		metrics = monitoring.NewMetricsCollector()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics.Describe(metricPredictions, "Verdicts produced, by outcome")
	metrics.Describe(metricPredictionErrors, "Predictions that failed inside the classifier")
	metrics.Describe(metricRejectedInputs, "Submissions rejected by input validation")
	metrics.Describe(metricPredictionLatency, "Time spent in the prediction adapter")
	return &Handler{predictor: p, metrics: metrics, logger: logger}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.handleForm)
	mux.HandleFunc("POST /predict", h.handlePredictForm)
	mux.HandleFunc("POST /api/predict", h.handlePredictJSON)
	mux.HandleFunc("GET /api/schema", handleSchema)
	mux.HandleFunc("GET /api/health", handleHealth)
	mux.HandleFunc("GET /api/metrics", h.handleMetrics)
}

func (h *Handler) handleForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, newPage(defaultForm()))
}

func (h *Handler) handlePredictForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		page := newPage(defaultForm())
		page.Error = "Could not read the submitted form."
		h.render(w, http.StatusBadRequest, page)
		return
	}

	in, values, fieldErrs := parseClaimForm(r.PostForm)
	page := newPage(values)
	if len(fieldErrs) > 0 {
		h.metrics.IncrCounter(metricRejectedInputs, 1, nil)
		page.Errors = fieldErrs
		h.render(w, http.StatusBadRequest, page)
		return
	}

	verdict, err := h.predict(r.Context(), in)
	if err != nil {
		status, fields := h.classifyError(r.Context(), err)
		page.Errors = fields
		if status == http.StatusInternalServerError {
			page.Error = "The prediction could not be computed. Please try again."
		}
		h.render(w, status, page)
		return
	}

	page.Verdict = &verdict
	page.Summary = summarize(in)
	h.render(w, http.StatusOK, page)
}

func (h *Handler) handlePredictJSON(w http.ResponseWriter, r *http.Request) {
	var req claim.Request
	if err := decodeJSONBody(r.Body, &req); err != nil {
		h.metrics.IncrCounter(metricRejectedInputs, 1, nil)
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	in, err := req.Input()
	if err != nil {
		h.metrics.IncrCounter(metricRejectedInputs, 1, nil)
		status, fields := h.classifyError(r.Context(), err)
		writeJSON(w, status, errorResponse{Error: http.StatusText(status), Fields: fields})
		return
	}

	verdict, err := h.predict(r.Context(), in)
	if err != nil {
		status, fields := h.classifyError(r.Context(), err)
		writeJSON(w, status, errorResponse{Error: http.StatusText(status), Fields: fields})
		return
	}
	writeJSON(w, http.StatusOK, verdict)
}

// decodeJSONBody decodes exactly one JSON object with known fields only.
func decodeJSONBody(body io.Reader, v interface{}) error {
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}

// predict validates the input and runs the adapter. The input layer owns
// range checks; the adapter only sees values inside their domains.
func (h *Handler) predict(ctx context.Context, in claim.Input) (predictor.Verdict, error) {
	if err := claim.Validate(in); err != nil {
		h.metrics.IncrCounter(metricRejectedInputs, 1, nil)
		return predictor.Verdict{}, err
	}

	start := time.Now()
	verdict, err := h.predictor.Predict(ctx, in)
	h.metrics.ObserveDuration(metricPredictionLatency, time.Since(start))
	if err != nil {
		h.metrics.IncrCounter(metricPredictionErrors, 1, nil)
		return predictor.Verdict{}, err
	}

	outcome := "not_involved"
	if verdict.Involved {
		outcome = "involved"
	}
	h.metrics.IncrCounter(metricPredictions, 1, map[string]string{"verdict": outcome})
	return verdict, nil
}

func (h *Handler) classifyError(ctx context.Context, err error) (int, map[string]string) {
	var verr *claim.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, verr.Errors
	case errors.Is(err, claim.ErrUnknownLabel):
		return http.StatusBadRequest, map[string]string{"input": err.Error()}
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, nil
	default:
		h.logger.Error("prediction failed",
			zap.String("request_id", GetRequestID(ctx)),
			zap.Error(err))
		return http.StatusInternalServerError, nil
	}
}

func (h *Handler) handleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"metrics": h.metrics.GetAllMetrics()})
}

func (h *Handler) render(w http.ResponseWriter, status int, page pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTemplate.Execute(w, page); err != nil {
		h.logger.Error("render page", zap.Error(err))
	}
}

type schemaResponse struct {
	Features       []string `json:"features"`
	Severities     []string `json:"accident_severity"`
	PolicyTypes    []string `json:"policy_type"`
	DrivingRecords []string `json:"driving_record"`
}

func handleSchema(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, schemaResponse{
		Features:       claim.FeatureNames(),
		Severities:     claim.SeverityLabels(),
		PolicyTypes:    claim.PolicyTypeLabels(),
		DrivingRecords: claim.DrivingRecordLabels(),
	})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
