package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"hangulnum.local/gee"
	"hangulnum.local/internal/app/hangulnum/repo"
)

const (
	defaultStatsWindow = 24 * time.Hour
	maxStatsWindow     = 90 * 24 * time.Hour
)

type StatsResponse struct {
	Since time.Time        `json:"since"`
	Ops   []repo.OpSummary `json:"ops"`
}

// adminStats GET /admin/stats?since=24h
func (h *handlers) adminStats(ctx *gee.Context) {
	if h.stats == nil {
		ctx.AbortWithError(http.StatusServiceUnavailable, "stats disabled")
		return
	}
	window := defaultStatsWindow
	if raw := ctx.Query("since"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 || d > maxStatsWindow {
			ctx.AbortWithError(http.StatusBadRequest, "invalid since")
			return
		}
		window = d
	}
	since := time.Now().Add(-window).UTC()

	ops, err := h.stats.Summary(ctx.Req.Context(), since)
	if err != nil {
		slog.Error("stats summary failed", "err", err, "request_id", ctx.RequestID())
		ctx.AbortWithError(http.StatusInternalServerError, "stats query failed")
		return
	}
	if ops == nil {
		ops = []repo.OpSummary{}
	}
	ctx.JSON(http.StatusOK, StatsResponse{Since: since, Ops: ops})
}
