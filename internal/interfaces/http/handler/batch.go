package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	shippingapp "github.com/napsterimports/backend/internal/application/shipping"
	"github.com/napsterimports/backend/internal/domain/shipping"
	"github.com/napsterimports/backend/internal/interfaces/http/dto"
)

// BatchHandler serves shipment batch endpoints
type BatchHandler struct {
	BaseHandler
	batches *shippingapp.BatchService
}

// NewBatchHandler creates a new BatchHandler
func NewBatchHandler(batches *shippingapp.BatchService) *BatchHandler {
	return &BatchHandler{batches: batches}
}

// GetActive godoc
// @ID           getActiveBatch
// @Summary      Get the open batch for a transport mode
// @Tags         batches
// @Produce      json
// @Param        mode query string false "sea or air" default(sea)
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Router       /batches/active [get]
func (h *BatchHandler) GetActive(c *gin.Context) {
	batch, err := h.batches.GetActiveBatch(c.Request.Context(), c.Query("mode"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, shippingapp.ToBatchResponse(batch))
}

// Create godoc
// @ID           createBatch
// @Summary      Create a draft batch
// @Tags         batches
// @Accept       json
// @Produce      json
// @Param        request body shipping.CreateBatchRequest true "Batch details"
// @Success      201 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Security     BearerAuth
// @Router       /batches [post]
func (h *BatchHandler) Create(c *gin.Context) {
	_, userID, ok := h.currentUser(c)
	if !ok {
		return
	}
	var req shippingapp.CreateBatchRequest
	if !h.bindJSON(c, &req) {
		return
	}
	batch, err := h.batches.CreateBatch(c.Request.Context(), req, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, batch)
}

// List godoc
// @ID           listBatches
// @Summary      List batches
// @Tags         batches
// @Produce      json
// @Param        mode      query string false "sea or air"
// @Param        status    query string false "Batch status"
// @Param        page      query int    false "Page number"
// @Param        page_size query int    false "Page size"
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /batches [get]
func (h *BatchHandler) List(c *gin.Context) {
	var filter shippingapp.BatchListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	page, err := h.batches.ListBatches(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPaginatedResponse(page))
}

// Get godoc
// @ID           getBatch
// @Summary      Get a batch by ID
// @Tags         batches
// @Produce      json
// @Param        id path string true "Batch ID" format(uuid)
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /batches/{id} [get]
func (h *BatchHandler) Get(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	batch, err := h.batches.GetBatch(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, batch)
}

// UpdateStatus godoc
// @ID           updateBatchStatus
// @Summary      Move a batch to its next status
// @Description  Opening snapshots the live rates and closes any other open batch of the same mode
// @Tags         batches
// @Accept       json
// @Produce      json
// @Param        id      path string                             true "Batch ID" format(uuid)
// @Param        request body shipping.TransitionBatchRequest true "Target status"
// @Success      200 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Security     BearerAuth
// @Router       /batches/{id}/status [put]
func (h *BatchHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req shippingapp.TransitionBatchRequest
	if !h.bindJSON(c, &req) {
		return
	}

	var (
		batch *shippingapp.BatchResponse
		err   error
	)
	if shipping.BatchStatus(req.Status) == shipping.BatchStatusOpen {
		batch, err = h.batches.OpenBatch(c.Request.Context(), id)
	} else {
		batch, err = h.batches.TransitionStatus(c.Request.Context(), id, req.Status)
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, batch)
}

// Settlement godoc
// @ID           getBatchSettlement
// @Summary      Payment settlement summary for a batch
// @Tags         batches
// @Produce      json
// @Param        id path string true "Batch ID" format(uuid)
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /batches/{id}/settlement [get]
func (h *BatchHandler) Settlement(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	summary, err := h.batches.Settlement(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}
