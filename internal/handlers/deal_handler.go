package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/talent-crm/internal/dtos"
	"github.com/justsurfingit/talent-crm/internal/services"
)

type DealHandler struct {
	Deals *services.DealService
}

func NewDealHandler(deals *services.DealService) *DealHandler {
	return &DealHandler{Deals: deals}
}

func (h *DealHandler) CreateDeal(c *gin.Context) {
	var req dtos.DealRequest
	if !bindJSON(c, &req) {
		return
	}
	deal, err := h.Deals.CreateDeal(c.Request.Context(), &req)
	if err != nil {
		respondError(c, "Failed to create deal", err)
		return
	}
	c.JSON(http.StatusCreated, deal)
}

func (h *DealHandler) UpdateStage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dtos.DealStageRequest
	if !bindJSON(c, &req) {
		return
	}
	deal, err := h.Deals.UpdateDealStage(c.Request.Context(), id, req.Stage)
	if err != nil {
		respondError(c, "Failed to update deal", err)
		return
	}
	c.JSON(http.StatusOK, deal)
}

func (h *DealHandler) ListActivities(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	out, err := h.Deals.ListActivities(c.Request.Context(), id)
	if err != nil {
		respondError(c, "Failed to load activities", err)
		return
	}
	c.JSON(http.StatusOK, out)
}
