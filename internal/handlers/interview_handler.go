package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/talent-crm/internal/dtos"
	"github.com/justsurfingit/talent-crm/internal/services"
)

type InterviewHandler struct {
	Interviews *services.InterviewService
}

func NewInterviewHandler(interviews *services.InterviewService) *InterviewHandler {
	return &InterviewHandler{Interviews: interviews}
}

func (h *InterviewHandler) Schedule(c *gin.Context) {
	var req dtos.InterviewRequest
	if !bindJSON(c, &req) {
		return
	}
	iv, err := h.Interviews.Schedule(c.Request.Context(), &req)
	if err != nil {
		respondError(c, "Failed to schedule interview", err)
		return
	}
	c.JSON(http.StatusCreated, iv)
}
