// Package api serves the waste dashboard over HTTP.
package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gonum.org/v1/plot"

	"wastewise/internal/charts"
	"wastewise/internal/estimator"
	"wastewise/internal/report"
	"wastewise/internal/session"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Handler serves one session.
type Handler struct {
	session   *session.Session
	trendDays int
}

// NewHandler creates a dashboard handler
func NewHandler(s *session.Session, trendDays int) *Handler {
	return &Handler{session: s, trendDays: trendDays}
}

// PredictRequest is the body of POST /api/predict.
type PredictRequest struct {
	Strategy string                   `json:"strategy"`
	Area     string                   `json:"area"`
	Features *estimator.FeatureVector `json:"features"`
}

// PredictResponse carries the estimate and the inputs it was made from.
type PredictResponse struct {
	Strategy   string                  `json:"strategy"`
	Area       string                  `json:"area,omitempty"`
	Features   estimator.FeatureVector `json:"features"`
	Prediction float64                 `json:"prediction_kg"`
}

// ModelResponse describes the fitted regression model.
type ModelResponse struct {
	Intercept    float64            `json:"intercept"`
	Coefficients map[string]float64 `json:"coefficients"`
	TrainRows    int                `json:"train_rows"`
	Metrics      *estimator.Metrics `json:"metrics,omitempty"`
	MetricsError string             `json:"metrics_error,omitempty"`
}

// writeError maps domain errors onto HTTP status codes.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, session.ErrUnknownArea):
		status = http.StatusNotFound
	case errors.Is(err, estimator.ErrDivisionUndefined),
		errors.Is(err, estimator.ErrInsufficientData),
		errors.Is(err, estimator.ErrUndefinedMetric),
		errors.Is(err, charts.ErrNoData):
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// Health reports the session the server is bound to.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"session": h.session.ID(),
		"records": h.session.Len(),
	})
}

// Areas lists the selectable areas and the all-area average.
func (h *Handler) Areas(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"areas":               h.session.Areas(),
		"global_avg_waste_kg": h.session.GlobalAvgWaste(),
	})
}

func (h *Handler) Summary(c *gin.Context) {
	summary, err := h.session.Summary(c.Param("area"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) Daily(c *gin.Context) {
	cmp, err := h.session.DailyComparison(c.Param("area"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cmp)
}

func (h *Handler) trendDaysParam(c *gin.Context) (int, bool) {
	raw := c.Query("days")
	if raw == "" {
		return h.trendDays, true
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a positive integer"})
		return 0, false
	}
	return days, true
}

func (h *Handler) Trend(c *gin.Context) {
	days, ok := h.trendDaysParam(c)
	if !ok {
		return
	}
	records, err := h.session.RecentTrend(c.Param("area"), days)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"area": c.Param("area"), "days": days, "records": records})
}

// Defaults returns the prefilled prediction form of an area.
func (h *Handler) Defaults(c *gin.Context) {
	fv, err := h.session.DefaultFeatures(c.Param("area"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, fv)
}

// Predict runs the requested strategy. Missing features fall back to the
// area defaults.
func (h *Handler) Predict(c *gin.Context) {
	var req PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	strategy, err := estimator.ParseStrategy(req.Strategy)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var features estimator.FeatureVector
	if req.Features != nil {
		features = *req.Features
	} else {
		if features, err = h.session.DefaultFeatures(req.Area); err != nil {
			writeError(c, err)
			return
		}
	}

	if msg := validateFeatures(features); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	prediction, err := h.session.Predict(strategy, req.Area, features)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, PredictResponse{
		Strategy:   strategy.String(),
		Area:       req.Area,
		Features:   features,
		Prediction: prediction,
	})
}

func validateFeatures(fv estimator.FeatureVector) string {
	switch {
	case fv.Population < 0:
		return "population must not be negative"
	case fv.RainMM < 0:
		return "rain_mm must not be negative"
	}
	return ""
}

func (h *Handler) Model(c *gin.Context) {
	model, err := h.session.Model()
	if err != nil {
		writeError(c, err)
		return
	}

	resp := ModelResponse{
		Intercept:    model.Intercept(),
		Coefficients: make(map[string]float64, estimator.NumFeatures),
		TrainRows:    model.TrainRows(),
	}
	for j, coef := range model.Coef() {
		resp.Coefficients[estimator.FeatureNames[j]] = coef
	}
	if metrics, err := h.session.Evaluation(); err != nil {
		resp.MetricsError = err.Error()
	} else {
		resp.Metrics = &metrics
	}

	c.JSON(http.StatusOK, resp)
}

func writePlot(c *gin.Context, p *plot.Plot, err error) {
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header("Content-Type", "image/png")
	c.Status(http.StatusOK)
	if err := charts.WritePNG(c.Writer, p); err != nil {
		c.Error(err)
	}
}

func (h *Handler) DailyChart(c *gin.Context) {
	cmp, err := h.session.DailyComparison(c.Param("area"))
	if err != nil {
		writeError(c, err)
		return
	}
	p, err := charts.DailyChart(cmp.Area, cmp.Local, cmp.Global)
	writePlot(c, p, err)
}

func (h *Handler) TrendChart(c *gin.Context) {
	days, ok := h.trendDaysParam(c)
	if !ok {
		return
	}
	records, err := h.session.RecentTrend(c.Param("area"), days)
	if err != nil {
		writeError(c, err)
		return
	}
	p, err := charts.TrendChart(c.Param("area"), records)
	writePlot(c, p, err)
}

func (h *Handler) AccuracyChart(c *gin.Context) {
	series, err := h.session.AccuracySeries()
	if err != nil {
		writeError(c, err)
		return
	}
	metrics, err := h.session.Evaluation()
	if err != nil {
		writeError(c, err)
		return
	}
	p, err := charts.AccuracyChart(series, metrics)
	writePlot(c, p, err)
}

// Report downloads the workbook, optionally narrowed to ?area=.
func (h *Handler) Report(c *gin.Context) {
	f, err := report.Workbook(h.session, c.Query("area"), h.trendDays)
	if err != nil {
		writeError(c, err)
		return
	}
	defer f.Close()

	c.Header("Content-Disposition", `attachment; filename="ringkasan_sampah.xlsx"`)
	c.Header("Content-Type", xlsxContentType)
	c.Status(http.StatusOK)
	if err := f.Write(c.Writer); err != nil {
		c.Error(err)
	}
}
