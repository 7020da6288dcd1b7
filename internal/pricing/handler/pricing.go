package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"museumtix/internal/pricing/service"
	httputil "museumtix/pkg/http"
	"museumtix/pkg/logger"
	"museumtix/pkg/model"
)

type PricingHandler struct {
	service service.PricingService
	log     *logger.Logger
}

func NewPricingHandler(service service.PricingService, log *logger.Logger) *PricingHandler {
	return &PricingHandler{
		service: service,
		log:     log,
	}
}

func (h *PricingHandler) Set(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var price model.TicketPrice
	if err := json.NewDecoder(r.Body).Decode(&price); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Set", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.SetPrice(r.Context(), &price); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Set", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, price); err != nil {
		h.log.Error("failed to write success response", "handler", "Set", "operation", "WriteSuccess", "error", err)
	}
}

func (h *PricingHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	prices, err := h.service.ListPrices(r.Context())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, prices); err != nil {
		h.log.Error("failed to write success response", "handler", "GetAll", "operation", "WriteSuccess", "error", err)
	}
}

func (h *PricingHandler) GetByCategory(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	category := model.TicketCategory(ps.ByName("category"))

	price, err := h.service.GetPrice(r.Context(), category)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByCategory", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, price); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByCategory", "operation", "WriteSuccess", "error", err)
	}
}

func (h *PricingHandler) RegisterRoutes(router *httprouter.Router) {
	router.PUT("/api/v1/prices", h.Set)
	router.GET("/api/v1/prices", h.GetAll)
	router.GET("/api/v1/prices/category/:category", h.GetByCategory)
}
