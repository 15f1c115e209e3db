package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"roombook/internal/bookings/service"
	"roombook/pkg/config"
	apperrors "roombook/pkg/errors"
	httputil "roombook/pkg/http"
	"roombook/pkg/middleware"
	"roombook/pkg/model"
)

const dateLayout = "2006-01-02"

type BookingHandler struct {
	service service.BookingService
	cfg     *config.Config
}

func NewBookingHandler(service service.BookingService, cfg *config.Config) *BookingHandler {
	return &BookingHandler{
		service: service,
		cfg:     cfg,
	}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var booking model.Booking
	if err := json.NewDecoder(r.Body).Decode(&booking); err != nil {
		h.writeError(w, "Create", apperrors.InvalidInput("Invalid request body"))
		return
	}

	// Ownership and status come from the server, never from the payload.
	booking.UserID = middleware.UserIDFromContext(r.Context())
	booking.Status = ""

	if err := h.service.Create(r.Context(), &booking); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, booking); err != nil {
		h.cfg.Log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.GetByID(r.Context(), ps.ByName("id"),
		middleware.UserIDFromContext(r.Context()), middleware.RoleFromContext(r.Context()))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.cfg.Log.Error("failed to write success response", "handler", "GetByID", "error", err)
	}
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	query := r.URL.Query()
	filter := model.BookingFilter{
		RoomID: query.Get("room_id"),
		UserID: query.Get("user_id"),
		Status: query.Get("status"),
	}
	if dateStr := query.Get("date"); dateStr != "" {
		day, err := time.ParseInLocation(dateLayout, dateStr, h.cfg.Location)
		if err != nil {
			h.writeError(w, "List", apperrors.InvalidInput("invalid date parameter, must be YYYY-MM-DD"))
			return
		}
		filter.Day = &day
	}

	bookings, total, err := h.service.List(r.Context(), filter,
		middleware.UserIDFromContext(r.Context()), middleware.RoleFromContext(r.Context()),
		limit, offset)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	if err := httputil.WritePaginated(w, bookings, total, limit, offset); err != nil {
		h.cfg.Log.Error("failed to write paginated response", "handler", "List", "error", err)
	}
}

func (h *BookingHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.BookingUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		h.writeError(w, "Update", apperrors.InvalidInput("Invalid request body"))
		return
	}

	booking, err := h.service.Update(r.Context(), ps.ByName("id"), &updates,
		middleware.UserIDFromContext(r.Context()), middleware.RoleFromContext(r.Context()))
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.cfg.Log.Error("failed to write success response", "handler", "Update", "error", err)
	}
}

func (h *BookingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeError(w, "UpdateStatus", apperrors.InvalidInput("Invalid request body"))
		return
	}

	booking, err := h.service.UpdateStatus(r.Context(), ps.ByName("id"), body.Status)
	if err != nil {
		h.writeError(w, "UpdateStatus", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.cfg.Log.Error("failed to write success response", "handler", "UpdateStatus", "error", err)
	}
}

func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	err := h.service.Delete(r.Context(), ps.ByName("id"),
		middleware.UserIDFromContext(r.Context()), middleware.RoleFromContext(r.Context()))
	if err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	httputil.WriteNoContent(w)
}

// CheckConflict answers availability questions without creating anything;
// clients use it to pre-validate a form before submitting.
func (h *BookingHandler) CheckConflict(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()
	roomID := query.Get("room_id")
	dateStr := query.Get("date")
	startTime := query.Get("start_time")
	endTime := query.Get("end_time")

	if roomID == "" || dateStr == "" || startTime == "" || endTime == "" {
		h.writeError(w, "CheckConflict", apperrors.InvalidInput(
			"'room_id', 'date', 'start_time' and 'end_time' query parameters are required"))
		return
	}

	date, err := time.ParseInLocation(dateLayout, dateStr, h.cfg.Location)
	if err != nil {
		h.writeError(w, "CheckConflict", apperrors.InvalidInput("invalid date parameter, must be YYYY-MM-DD"))
		return
	}

	conflict, err := h.service.CheckConflict(r.Context(), roomID, date, startTime, endTime, query.Get("exclude_id"))
	if err != nil {
		h.writeError(w, "CheckConflict", err)
		return
	}

	if err := httputil.WriteSuccess(w, map[string]bool{"conflict": conflict}); err != nil {
		h.cfg.Log.Error("failed to write success response", "handler", "CheckConflict", "error", err)
	}
}

func (h *BookingHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.cfg.Log.Error("failed to write error response", "handler", handler, "error", writeErr)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.Create)
	router.GET("/api/v1/bookings", h.List)
	router.GET("/api/v1/bookings/conflict", h.CheckConflict)
	router.GET("/api/v1/bookings/id/:id", h.GetByID)
	router.PATCH("/api/v1/bookings/id/:id", h.Update)
	router.DELETE("/api/v1/bookings/id/:id", h.Delete)
	router.PATCH("/api/v1/bookings/id/:id/status", middleware.RequireAdmin(h.UpdateStatus))
}
