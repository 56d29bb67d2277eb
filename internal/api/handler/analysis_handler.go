package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/vigilcam/portal/internal/core/ports"
	"github.com/vigilcam/portal/internal/pkg/metrics"
)

type analyzeRequest struct {
	VideoURL string `json:"video_url" form:"video_url" validate:"required,http_url"`
}

// AnalysisHandler exposes the Analyzer to authenticated users.
type AnalysisHandler struct {
	analyzer ports.Analyzer
	metrics  *metrics.Metrics
	log      zerolog.Logger
}

func NewAnalysisHandler(analyzer ports.Analyzer, m *metrics.Metrics, log zerolog.Logger) *AnalysisHandler {
	if m == nil {
		m = metrics.NewNop()
	}
	return &AnalysisHandler{analyzer: analyzer, metrics: m, log: log}
}

// Analyze handles POST /analyze.
//
// @Summary      Analyze a video
// @Tags         analysis
// @Accept       json
// @Produce      json
// @Param        body  body      analyzeRequest  true  "Video reference"
// @Success      200   {object}  domain.AnalysisResult
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /analyze [post]
func (h *AnalysisHandler) Analyze(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req analyzeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.analyzer.Analyze(c.Request().Context(), req.VideoURL)
	if err != nil {
		h.metrics.AnalysesTotal.WithLabelValues("error").Inc()
		return err
	}

	h.metrics.AnalysesTotal.WithLabelValues(result.Status).Inc()
	h.log.Info().
		Str("user_id", sess.UserID).
		Str("video_url", req.VideoURL).
		Int("frames", result.FramesAnalyzed).
		Msg("analysis completed")

	return c.JSON(http.StatusOK, result)
}
