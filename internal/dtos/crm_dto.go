package dtos

import "time"

type CompanyRequest struct {
	Name     string `json:"company_name" binding:"required"`
	Website  string `json:"website"`
	Industry string `json:"industry"`
}

type ContactRequest struct {
	CompanyID uint   `json:"company_id" binding:"required"`
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Title     string `json:"title"`
}

type CandidateRequest struct {
	Name     string   `json:"name" binding:"required"`
	Email    string   `json:"email"`
	Phone    string   `json:"phone"`
	Location string   `json:"location"`
	Summary  string   `json:"summary"`
	Skills   []string `json:"skills"`
}

// ParsedResume is the JSON shape the LLM returns for a resume.
type ParsedResume struct {
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Phone    string   `json:"phone"`
	Location string   `json:"location"`
	Summary  string   `json:"summary"`
	Skills   []string `json:"skills"`
}

type DealRequest struct {
	CompanyID   uint    `json:"company_id" binding:"required"`
	JobID       *uint   `json:"job_id"`
	CandidateID *uint   `json:"candidate_id"`
	Title       string  `json:"title" binding:"required"`
	Value       float64 `json:"value"`
	Stage       string  `json:"stage"`
}

type DealStageRequest struct {
	Stage string `json:"stage" binding:"required"`
}

type InterviewRequest struct {
	CandidateID uint      `json:"candidate_id" binding:"required"`
	JobID       uint      `json:"job_id" binding:"required"`
	StartsAt    time.Time `json:"starts_at" binding:"required"`
	EndsAt      time.Time `json:"ends_at" binding:"required"`
	Location    string    `json:"location"`
	Attendees   []string  `json:"attendees"`
}
