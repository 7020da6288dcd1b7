package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"museumtix/internal/visitinghours"
	httputil "museumtix/pkg/http"
	"museumtix/pkg/logger"
)

type HoursHandler struct {
	log *logger.Logger
}

func NewHoursHandler(log *logger.Logger) *HoursHandler {
	return &HoursHandler{log: log}
}

func (h *HoursHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := httputil.WriteSuccess(w, visitinghours.All()); err != nil {
		h.log.Error("failed to write success response", "handler", "GetAll", "operation", "WriteSuccess", "error", err)
	}
}

func (h *HoursHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/visiting-hours", h.GetAll)
}
