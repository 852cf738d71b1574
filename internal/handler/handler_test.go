package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mikey/phishing-detector/internal/core"
	"github.com/mikey/phishing-detector/internal/utils"
)

type stubClassifier struct {
	loaded        bool
	label         int
	probabilities [2]float64
}

func (s *stubClassifier) Classify(text string) (*core.Classification, error) {
	if !s.loaded {
		return nil, core.ErrModelUnavailable
	}
	return &core.Classification{Label: s.label, Probabilities: s.probabilities}, nil
}

func (s *stubClassifier) Loaded() bool {
	return s.loaded
}

type stubExplainer struct {
	response string
	err      error
	model    string
}

func (s *stubExplainer) Explain(ctx context.Context, prompt string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func (s *stubExplainer) ModelName() string {
	return s.model
}

func newTestRouter(classifier core.TextClassifier, explainer core.Explainer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	service := core.NewDetectionService(
		classifier,
		explainer,
		nil,
		logger,
		utils.NewTextProcessor(logger),
		false,
		time.Hour,
		time.Second,
		4096,
	)
	h := NewDetectionHandler(service, logger)

	router := gin.New()
	router.GET("/health", h.Health)
	router.POST("/predict", h.Predict)
	router.POST("/analyze", h.Analyze)
	return router
}

func doRequest(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		loaded     bool
		wantLoaded bool
	}{
		{name: "model loaded", loaded: true, wantLoaded: true},
		{name: "model missing", loaded: false, wantLoaded: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&stubClassifier{loaded: tt.loaded}, nil)
			w := doRequest(t, router, http.MethodGet, "/health", "")

			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", w.Code)
			}

			var resp struct {
				Status      string `json:"status"`
				ModelLoaded bool   `json:"model_loaded"`
			}
			decodeBody(t, w, &resp)

			if resp.Status != "healthy" {
				t.Errorf("status = %q, want %q", resp.Status, "healthy")
			}
			if resp.ModelLoaded != tt.wantLoaded {
				t.Errorf("model_loaded = %t, want %t", resp.ModelLoaded, tt.wantLoaded)
			}
		})
	}
}

func TestPredictPhishingEmail(t *testing.T) {
	classifier := &stubClassifier{loaded: true, label: core.LabelPhishing, probabilities: [2]float64{0.1, 0.9}}
	router := newTestRouter(classifier, nil)

	w := doRequest(t, router, http.MethodPost, "/predict",
		`{"email_text": "Dear user, verify your account at http://phish.example now!"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		Prediction int                   `json:"prediction"`
		IsPhishing bool                  `json:"is_phishing"`
		Message    string                `json:"message"`
		Confidence core.ConfidenceScores `json:"confidence"`
	}
	decodeBody(t, w, &resp)

	if resp.Prediction != 1 || !resp.IsPhishing {
		t.Errorf("prediction = %d, is_phishing = %t, want 1/true", resp.Prediction, resp.IsPhishing)
	}
	if resp.Message != core.MessagePhishing {
		t.Errorf("message = %q, want %q", resp.Message, core.MessagePhishing)
	}
	if resp.Confidence.Safe != 10.0 || resp.Confidence.Phishing != 90.0 {
		t.Errorf("confidence = %+v, want safe 10 / phishing 90", resp.Confidence)
	}
}

func TestPredictSafeEmail(t *testing.T) {
	classifier := &stubClassifier{loaded: true, label: core.LabelSafe, probabilities: [2]float64{0.95, 0.05}}
	router := newTestRouter(classifier, nil)

	w := doRequest(t, router, http.MethodPost, "/predict",
		`{"email_text": "Thanks for the meeting notes, see you Friday."}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		Prediction int                   `json:"prediction"`
		IsPhishing bool                  `json:"is_phishing"`
		Message    string                `json:"message"`
		Confidence core.ConfidenceScores `json:"confidence"`
	}
	decodeBody(t, w, &resp)

	if resp.Prediction != 0 || resp.IsPhishing {
		t.Errorf("prediction = %d, is_phishing = %t, want 0/false", resp.Prediction, resp.IsPhishing)
	}
	if resp.Message != core.MessageSafe {
		t.Errorf("message = %q, want %q", resp.Message, core.MessageSafe)
	}
	if resp.Confidence.Safe != 95.0 || resp.Confidence.Phishing != 5.0 {
		t.Errorf("confidence = %+v, want safe 95 / phishing 5", resp.Confidence)
	}
}

func TestPredictErrors(t *testing.T) {
	tests := []struct {
		name       string
		classifier *stubClassifier
		body       string
		wantStatus int
		wantError  string
	}{
		{
			name:       "empty email text",
			classifier: &stubClassifier{loaded: true},
			body:       `{"email_text": ""}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Email text is required",
		},
		{
			name:       "whitespace email text",
			classifier: &stubClassifier{loaded: true},
			body:       `{"email_text": "   "}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Email text is required",
		},
		{
			name:       "malformed body",
			classifier: &stubClassifier{loaded: true},
			body:       `{not json`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Email text is required",
		},
		{
			name:       "model not loaded",
			classifier: &stubClassifier{loaded: false},
			body:       `{"email_text": "anything"}`,
			wantStatus: http.StatusInternalServerError,
			wantError:  "Model not loaded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(tt.classifier, nil)
			w := doRequest(t, router, http.MethodPost, "/predict", tt.body)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d, body %s", w.Code, tt.wantStatus, w.Body.String())
			}

			var resp struct {
				Error string `json:"error"`
			}
			decodeBody(t, w, &resp)
			if resp.Error != tt.wantError {
				t.Errorf("error = %q, want %q", resp.Error, tt.wantError)
			}
		})
	}
}

func TestAnalyzeEchoesExplainerText(t *testing.T) {
	analysis := "Paragraph one.\n\nParagraph two.\n\nParagraph three.\n\nParagraph four."
	explainer := &stubExplainer{response: analysis, model: "gpt-4o-mini"}
	router := newTestRouter(&stubClassifier{loaded: true}, explainer)

	w := doRequest(t, router, http.MethodPost, "/analyze", `{
		"email_text": "Dear user, verify your account now!",
		"prediction_result": {"is_phishing": true, "confidence": {"phishing": 90, "safe": 10}}
	}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		Analysis  string `json:"analysis"`
		ModelUsed string `json:"model_used"`
	}
	decodeBody(t, w, &resp)

	if resp.Analysis != analysis {
		t.Errorf("analysis = %q, want explainer text echoed verbatim", resp.Analysis)
	}
	if resp.ModelUsed != "gpt-4o-mini" {
		t.Errorf("model_used = %q, want %q", resp.ModelUsed, "gpt-4o-mini")
	}
}

func TestAnalyzeErrors(t *testing.T) {
	tests := []struct {
		name       string
		explainer  *stubExplainer
		body       string
		wantStatus int
		wantError  string
	}{
		{
			name:       "empty email text",
			explainer:  &stubExplainer{response: "OK"},
			body:       `{"email_text": "", "prediction_result": {"is_phishing": false, "confidence": {"phishing": 0, "safe": 0}}}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Email text is required",
		},
		{
			name:       "upstream failure",
			explainer:  &stubExplainer{err: errors.New("connection refused")},
			body:       `{"email_text": "some email", "prediction_result": {"is_phishing": true, "confidence": {"phishing": 90, "safe": 10}}}`,
			wantStatus: http.StatusInternalServerError,
			wantError:  "AI analysis failed: connection refused",
		},
		{
			name:       "empty upstream response",
			explainer:  &stubExplainer{response: ""},
			body:       `{"email_text": "some email", "prediction_result": {"is_phishing": true, "confidence": {"phishing": 90, "safe": 10}}}`,
			wantStatus: http.StatusInternalServerError,
			wantError:  "AI analysis failed: empty response from reasoning service",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&stubClassifier{loaded: true}, tt.explainer)
			w := doRequest(t, router, http.MethodPost, "/analyze", tt.body)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d, body %s", w.Code, tt.wantStatus, w.Body.String())
			}

			var resp struct {
				Error string `json:"error"`
			}
			decodeBody(t, w, &resp)
			if resp.Error != tt.wantError {
				t.Errorf("error = %q, want %q", resp.Error, tt.wantError)
			}
		})
	}
}
