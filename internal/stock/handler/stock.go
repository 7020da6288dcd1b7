package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"museumtix/internal/stock/service"
	httputil "museumtix/pkg/http"
	"museumtix/pkg/logger"
	"museumtix/pkg/model"
)

type StockHandler struct {
	service service.StockService
	log     *logger.Logger
}

func NewStockHandler(service service.StockService, log *logger.Logger) *StockHandler {
	return &StockHandler{
		service: service,
		log:     log,
	}
}

type batchResponse struct {
	Batch          *model.StockBatch `json:"batch"`
	CodesGenerated int               `json:"codes_generated,omitempty"`
	CodesRemoved   int64             `json:"codes_removed,omitempty"`
}

type batchDetailResponse struct {
	Batch *model.StockBatch   `json:"batch"`
	Codes []*model.TicketCode `json:"codes"`
}

type allocateResponse struct {
	Category model.TicketCategory `json:"category"`
	Quantity int                  `json:"quantity"`
	Codes    []string             `json:"codes"`
}

func (h *StockHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.CreateBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	batch, generated, err := h.service.CreateBatch(r.Context(), &req)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, batchResponse{Batch: batch, CodesGenerated: generated}); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *StockHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	batches, err := h.service.ListBatches(r.Context())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, batches); err != nil {
		h.log.Error("failed to write success response", "handler", "GetAll", "operation", "WriteSuccess", "error", err)
	}
}

func (h *StockHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	batch, codes, err := h.service.GetBatch(r.Context(), id)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, batchDetailResponse{Batch: batch, Codes: codes}); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *StockHandler) Resize(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	var req model.ResizeBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Resize", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	batch, err := h.service.ResizeBatch(r.Context(), id, &req)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Resize", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, batchResponse{Batch: batch}); err != nil {
		h.log.Error("failed to write success response", "handler", "Resize", "operation", "WriteSuccess", "error", err)
	}
}

func (h *StockHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	batch, removed, err := h.service.DeleteBatch(r.Context(), id)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Delete", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, batchResponse{Batch: batch, CodesRemoved: removed}); err != nil {
		h.log.Error("failed to write success response", "handler", "Delete", "operation", "WriteSuccess", "error", err)
	}
}

func (h *StockHandler) Allocate(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.AllocateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Allocate", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	codes, err := h.service.Allocate(r.Context(), &req)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Allocate", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, allocateResponse{
		Category: req.Category,
		Quantity: len(codes),
		Codes:    codes,
	}); err != nil {
		h.log.Error("failed to write success response", "handler", "Allocate", "operation", "WriteSuccess", "error", err)
	}
}

func (h *StockHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/stock", h.Create)
	router.GET("/api/v1/stock", h.GetAll)
	router.GET("/api/v1/stock/id/:id", h.GetByID)
	router.PUT("/api/v1/stock/id/:id", h.Resize)
	router.DELETE("/api/v1/stock/id/:id", h.Delete)
	router.POST("/api/v1/tickets/allocate", h.Allocate)
}
