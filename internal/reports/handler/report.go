package handler

import (
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"roombook/internal/reports/service"
	"roombook/pkg/config"
	httputil "roombook/pkg/http"
	"roombook/pkg/middleware"
)

type ReportHandler struct {
	service service.ReportService
	cfg     *config.Config
}

func NewReportHandler(service service.ReportService, cfg *config.Config) *ReportHandler {
	return &ReportHandler{
		service: service,
		cfg:     cfg,
	}
}

func (h *ReportHandler) Dashboard(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	stats, err := h.service.Dashboard(r.Context())
	if err != nil {
		h.writeError(w, "Dashboard", err)
		return
	}

	if err := httputil.WriteSuccess(w, stats); err != nil {
		h.cfg.Log.Error("failed to write success response", "handler", "Dashboard", "error", err)
	}
}

func (h *ReportHandler) BookingTrend(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	// Out-of-range or malformed values fall back to the service defaults.
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))

	trend, err := h.service.BookingTrend(r.Context(), days)
	if err != nil {
		h.writeError(w, "BookingTrend", err)
		return
	}

	if err := httputil.WriteSuccess(w, trend); err != nil {
		h.cfg.Log.Error("failed to write success response", "handler", "BookingTrend", "error", err)
	}
}

func (h *ReportHandler) MonthlyStats(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	months, _ := strconv.Atoi(r.URL.Query().Get("months"))

	stats, err := h.service.MonthlyStats(r.Context(), months)
	if err != nil {
		h.writeError(w, "MonthlyStats", err)
		return
	}

	if err := httputil.WriteSuccess(w, stats); err != nil {
		h.cfg.Log.Error("failed to write success response", "handler", "MonthlyStats", "error", err)
	}
}

func (h *ReportHandler) PopularRooms(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	usage, err := h.service.PopularRooms(r.Context(), limit)
	if err != nil {
		h.writeError(w, "PopularRooms", err)
		return
	}

	if err := httputil.WriteSuccess(w, usage); err != nil {
		h.cfg.Log.Error("failed to write success response", "handler", "PopularRooms", "error", err)
	}
}

func (h *ReportHandler) DepartmentUsage(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	usage, err := h.service.DepartmentUsage(r.Context())
	if err != nil {
		h.writeError(w, "DepartmentUsage", err)
		return
	}

	if err := httputil.WriteSuccess(w, usage); err != nil {
		h.cfg.Log.Error("failed to write success response", "handler", "DepartmentUsage", "error", err)
	}
}

func (h *ReportHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.cfg.Log.Error("failed to write error response", "handler", handler, "error", writeErr)
	}
}

func (h *ReportHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/reports/dashboard", middleware.RequireAdmin(h.Dashboard))
	router.GET("/api/v1/reports/trend", middleware.RequireAdmin(h.BookingTrend))
	router.GET("/api/v1/reports/monthly", middleware.RequireAdmin(h.MonthlyStats))
	router.GET("/api/v1/reports/rooms", middleware.RequireAdmin(h.PopularRooms))
	router.GET("/api/v1/reports/departments", middleware.RequireAdmin(h.DepartmentUsage))
}
