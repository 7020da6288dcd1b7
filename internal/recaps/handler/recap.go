package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"museumtix/internal/recaps/service"
	httputil "museumtix/pkg/http"
	"museumtix/pkg/logger"
)

type RecapHandler struct {
	service service.RecapService
	log     *logger.Logger
}

func NewRecapHandler(service service.RecapService, log *logger.Logger) *RecapHandler {
	return &RecapHandler{
		service: service,
		log:     log,
	}
}

func (h *RecapHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	recaps, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, recaps); err != nil {
		h.log.Error("failed to write success response", "handler", "GetAll", "operation", "WriteSuccess", "error", err)
	}
}

func (h *RecapHandler) GetByDate(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	date := ps.ByName("date")

	recap, err := h.service.GetByDate(r.Context(), date)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByDate", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, recap); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByDate", "operation", "WriteSuccess", "error", err)
	}
}

func (h *RecapHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/recaps", h.GetAll)
	router.GET("/api/v1/recaps/date/:date", h.GetByDate)
}
