package handlers

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Jobs       *JobHandler
	Companies  *CompanyHandler
	Candidates *CandidateHandler
	Deals      *DealHandler
	Interviews *InterviewHandler
}

// NewRouter mounts every route under /api/v1. An empty origins list allows
// all origins.
func NewRouter(h Handlers, origins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	config := cors.DefaultConfig()
	if len(origins) == 0 {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = origins
	}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	config.AllowMethods = []string{"GET", "POST", "PATCH", "OPTIONS"}
	r.Use(cors.New(config))

	api := r.Group("/api/v1")
	{
		api.GET("/health", HealthCheck)

		api.POST("/jobs/extract", h.Jobs.ParseJob)
		api.POST("/jobs/describe", h.Jobs.DescribeJob)
		api.POST("/jobs", h.Jobs.CreateJob)
		api.GET("/jobs", h.Jobs.ListJobs)
		api.GET("/jobs/:id", h.Jobs.GetJob)
		api.GET("/jobs/:id/activities", h.Jobs.ListActivities)

		api.POST("/companies", h.Companies.CreateCompany)
		api.GET("/companies", h.Companies.ListCompanies)
		api.POST("/contacts", h.Companies.CreateContact)
		api.GET("/contacts", h.Companies.ListContacts)

		api.POST("/candidates", h.Candidates.CreateCandidate)
		api.GET("/candidates", h.Candidates.ListCandidates)
		api.GET("/candidates/:id", h.Candidates.GetCandidate)
		api.GET("/candidates/:id/activities", h.Candidates.ListActivities)
		api.POST("/candidates/resume", h.Candidates.UploadResume)

		api.POST("/deals", h.Deals.CreateDeal)
		api.PATCH("/deals/:id/stage", h.Deals.UpdateStage)
		api.GET("/deals/:id/activities", h.Deals.ListActivities)

		api.POST("/interviews", h.Interviews.Schedule)
	}
	return r
}
