package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"roombook/internal/departments/service"
	"roombook/pkg/config"
	apperrors "roombook/pkg/errors"
	httputil "roombook/pkg/http"
	"roombook/pkg/middleware"
	"roombook/pkg/model"
)

type DepartmentHandler struct {
	service service.DepartmentService
	cfg     *config.Config
}

func NewDepartmentHandler(service service.DepartmentService, cfg *config.Config) *DepartmentHandler {
	return &DepartmentHandler{
		service: service,
		cfg:     cfg,
	}
}

func (h *DepartmentHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var department model.Department
	if err := json.NewDecoder(r.Body).Decode(&department); err != nil {
		h.writeError(w, "Create", apperrors.InvalidInput("Invalid request body"))
		return
	}

	if err := h.service.Create(r.Context(), &department); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, department); err != nil {
		h.cfg.Log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

func (h *DepartmentHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	departments, err := h.service.GetAll(r.Context())
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	if err := httputil.WriteSuccess(w, departments); err != nil {
		h.cfg.Log.Error("failed to write success response", "handler", "GetAll", "error", err)
	}
}

func (h *DepartmentHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *DepartmentHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.cfg.Log.Error("failed to write error response", "handler", handler, "error", writeErr)
	}
}

func (h *DepartmentHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/departments", h.GetAll)
	router.POST("/api/v1/departments", middleware.RequireAdmin(h.Create))
	router.DELETE("/api/v1/departments/id/:id", middleware.RequireAdmin(h.Delete))
}
