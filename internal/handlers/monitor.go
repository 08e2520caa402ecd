package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"fixcal-go/internal/models"
	"fixcal-go/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// MonitorHandler serves the read-only operator view of a session: trial
// rows, outcome summary, and the two session charts.
type MonitorHandler struct {
	log *zap.Logger
}

func NewMonitorHandler(log *zap.Logger) *MonitorHandler {
	return &MonitorHandler{log: log}
}

func (h *MonitorHandler) sessionID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return 0, false
	}
	return id, true
}

// ListTrials returns a session's trial rows in trial order.
func (h *MonitorHandler) ListTrials(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}

	trials, err := repository.GetTrials(c.Request.Context(), id)
	if err != nil {
		h.log.Error("Failed to load trials", zap.Int("session", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load trials"})
		return
	}
	c.JSON(http.StatusOK, trials)
}

// Summary returns the session's outcome counts.
func (h *MonitorHandler) Summary(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}

	counts, err := repository.GetOutcomeCounts(c.Request.Context(), id)
	if err != nil {
		h.log.Error("Failed to load outcome summary", zap.Int("session", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load summary"})
		return
	}

	summary := make([]gin.H, 0, len(counts))
	for _, oc := range counts {
		summary = append(summary, gin.H{
			"outcome": models.Outcome(oc.Outcome).String(),
			"code":    oc.Outcome,
			"count":   oc.Count,
		})
	}
	c.JSON(http.StatusOK, summary)
}

// OutcomesChart renders a bar chart of outcome counts for the session.
func (h *MonitorHandler) OutcomesChart(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}

	counts, err := repository.GetOutcomeCounts(c.Request.Context(), id)
	if err != nil {
		h.log.Error("Failed to load outcome counts", zap.Int("session", id), zap.Error(err))
		c.String(http.StatusInternalServerError, "Failed to load outcome counts")
		return
	}

	labels := make([]string, 0, len(counts))
	values := make([]opts.BarData, 0, len(counts))
	for _, oc := range counts {
		labels = append(labels, models.Outcome(oc.Outcome).String())
		values = append(values, opts.BarData{Value: oc.Count})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Trial outcomes",
			Subtitle: fmt.Sprintf("session %d", id),
		}),
	)
	bar.SetXAxis(labels).AddSeries("trials", values)

	if err := bar.Render(c.Writer); err != nil {
		h.log.Error("Failed to render outcomes chart", zap.Error(err))
	}
}

// LatencyChart renders the per-trial fixation acquisition latency for the
// first presented location.
func (h *MonitorHandler) LatencyChart(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}

	points, err := repository.GetAcquireLatencies(c.Request.Context(), id)
	if err != nil {
		h.log.Error("Failed to load latencies", zap.Int("session", id), zap.Error(err))
		c.String(http.StatusInternalServerError, "Failed to load latencies")
		return
	}

	labels := make([]string, 0, len(points))
	values := make([]opts.LineData, 0, len(points))
	for _, p := range points {
		labels = append(labels, strconv.Itoa(p.TrialIndex))
		values = append(values, opts.LineData{Value: p.LatencyMs})
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Fixation acquisition latency (ms)",
			Subtitle: fmt.Sprintf("session %d", id),
		}),
	)
	line.SetXAxis(labels).AddSeries("latency", values)

	if err := line.Render(c.Writer); err != nil {
		h.log.Error("Failed to render latency chart", zap.Error(err))
	}
}
