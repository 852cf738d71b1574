package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mikey/phishing-detector/internal/core"
)

// DetectionHandler handles HTTP requests for phishing prediction and
// analysis. All failures are converted to response shapes here; nothing
// propagates past the handler.
type DetectionHandler struct {
	service *core.DetectionService
	logger  *zap.Logger
}

// NewDetectionHandler creates a new detection handler
func NewDetectionHandler(service *core.DetectionService, logger *zap.Logger) *DetectionHandler {
	return &DetectionHandler{
		service: service,
		logger:  logger,
	}
}

type predictRequest struct {
	EmailText string `json:"email_text"`
}

type predictResponse struct {
	Prediction int                   `json:"prediction"`
	IsPhishing bool                  `json:"is_phishing"`
	Message    string                `json:"message"`
	Confidence core.ConfidenceScores `json:"confidence"`
}

type analyzeRequest struct {
	EmailText        string            `json:"email_text"`
	PredictionResult core.PriorVerdict `json:"prediction_result"`
}

type analyzeResponse struct {
	Analysis  string `json:"analysis"`
	ModelUsed string `json:"model_used"`
}

// Health handles GET /health requests. It never fails.
func (h *DetectionHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":       "healthy",
		"model_loaded": h.service.ModelLoaded(),
	})
}

// Predict handles POST /predict requests
func (h *DetectionHandler) Predict(c *gin.Context) {
	var req predictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email text is required"})
		return
	}

	verdict, err := h.service.Predict(c.Request.Context(), req.EmailText)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrEmptyEmail):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email text is required"})
		case errors.Is(err, core.ErrModelUnavailable):
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Model not loaded"})
		default:
			h.logger.Error("Prediction failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, predictResponse{
		Prediction: verdict.Label,
		IsPhishing: verdict.IsPhishing,
		Message:    verdict.Message,
		Confidence: verdict.Confidence,
	})
}

// Analyze handles POST /analyze requests. The prediction_result field is
// the caller's prior verdict; it is decoded into a typed struct and trusted
// as given, never recomputed against the classifier.
func (h *DetectionHandler) Analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email text is required"})
		return
	}

	result, err := h.service.Analyze(c.Request.Context(), req.EmailText, &req.PredictionResult)
	if err != nil {
		var upstream *core.UpstreamError
		switch {
		case errors.Is(err, core.ErrEmptyEmail):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email text is required"})
		case errors.As(err, &upstream):
			h.logger.Error("Deep analysis failed", zap.Error(upstream.Err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "AI analysis failed: " + upstream.Err.Error()})
		default:
			h.logger.Error("Deep analysis failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "AI analysis failed: " + err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, analyzeResponse{
		Analysis:  result.Analysis,
		ModelUsed: result.ModelUsed,
	})
}
