package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/talent-crm/internal/dtos"
	"github.com/justsurfingit/talent-crm/internal/services"
)

type JobHandler struct {
	LLMService *services.LLMService
	JobService *services.JobService
}

func NewJobHandler(llm *services.LLMService, j *services.JobService) *JobHandler {
	return &JobHandler{
		LLMService: llm,
		JobService: j,
	}
}

// ParseJob is the POST /jobs/extract endpoint
func (h *JobHandler) ParseJob(c *gin.Context) {
	if h.LLMService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "AI features are not configured"})
		return
	}
	var req dtos.JobExtractionRequest
	if !bindJSON(c, &req) {
		return
	}
	extracted, err := h.LLMService.ExtractJobDetails(c.Request.Context(), req.RawHTML)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "AI Extraction failed: " + err.Error()})
		return
	}
	// RawMessage keeps the model's JSON from being re-escaped
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    json.RawMessage(extracted),
	})
}

// DescribeJob is the POST /jobs/describe endpoint
func (h *JobHandler) DescribeJob(c *gin.Context) {
	if h.LLMService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "AI features are not configured"})
		return
	}
	var req dtos.JobDescriptionRequest
	if !bindJSON(c, &req) {
		return
	}
	desc, err := h.LLMService.GenerateJobDescription(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "AI generation failed: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"description": desc})
}

func (h *JobHandler) CreateJob(c *gin.Context) {
	var req dtos.JobCreationRequest
	if !bindJSON(c, &req) {
		return
	}
	job, err := h.JobService.CreateJob(c.Request.Context(), &req)
	if err != nil {
		respondError(c, "Failed to create job", err)
		return
	}
	c.JSON(http.StatusCreated, job)
}

func (h *JobHandler) ListJobs(c *gin.Context) {
	jobs, err := h.JobService.ListJobs(c.Request.Context(), c.Query("status"))
	if err != nil {
		respondError(c, "Failed to list jobs", err)
		return
	}
	c.JSON(http.StatusOK, jobs)
}

func (h *JobHandler) GetJob(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	job, err := h.JobService.GetJob(c.Request.Context(), id)
	if err != nil {
		respondError(c, "Failed to load job", err)
		return
	}
	c.JSON(http.StatusOK, job)
}

func (h *JobHandler) ListActivities(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	out, err := h.JobService.ListActivities(c.Request.Context(), id)
	if err != nil {
		respondError(c, "Failed to load activities", err)
		return
	}
	c.JSON(http.StatusOK, out)
}
