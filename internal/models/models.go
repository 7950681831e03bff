package models

import (
	"time"

	"gorm.io/gorm"
)

// Base mirrors gorm.Model with JSON tags.
type Base struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// User holds the inbox watcher bookmark.
type User struct {
	Base

	Email         string `gorm:"uniqueIndex;not null" json:"email"`
	LastHistoryID uint64 `json:"last_history_id"`
}

type Company struct {
	Base

	Name     string `gorm:"uniqueIndex;not null" json:"company_name"`
	Website  string `json:"website"`
	Industry string `json:"industry"`

	// omitempty keeps Job -> Company -> Jobs from recursing
	Jobs     []Job     `json:"jobs,omitempty"`
	Contacts []Contact `json:"contacts,omitempty"`
}

type Contact struct {
	Base

	CompanyID uint   `gorm:"index" json:"company_id"`
	Name      string `gorm:"not null" json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Title     string `json:"title"`
}

// Job statuses.
const (
	JobOpen    = "OPEN"
	JobOnHold  = "ON_HOLD"
	JobFilled  = "FILLED"
	JobClosed  = "CLOSED"
	JobApplied = "APPLIED"
)

type Job struct {
	Base

	CompanyID uint    `json:"company_id"`
	Company   Company `json:"company"`

	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	JobLink     string `json:"job_link"`
	Location    string `json:"location"`
	SalaryRange string `json:"salary_range"`
	TechStack   string `json:"tech_stack"`
	Status      string `gorm:"default:'OPEN'" json:"status"`
}

// Candidate statuses.
const (
	CandidateNew          = "NEW"
	CandidateScreening    = "SCREENING"
	CandidateInterviewing = "INTERVIEWING"
	CandidateHired        = "HIRED"
	CandidateRejected     = "REJECTED"
)

type Candidate struct {
	Base

	Name     string  `gorm:"not null" json:"name"`
	Email    *string `gorm:"uniqueIndex" json:"email"`
	Phone    string  `json:"phone"`
	Location string  `json:"location"`
	Summary  string  `gorm:"type:text" json:"summary"`
	Skills   string  `json:"skills"`
	Status   string  `gorm:"default:'NEW'" json:"status"`

	ResumeFileName string `json:"resume_file_name,omitempty"`
	ResumePages    int    `json:"resume_pages,omitempty"`
	ResumeText     string `gorm:"type:text" json:"-"`
}

// Deal stages.
const (
	DealLead      = "LEAD"
	DealQualified = "QUALIFIED"
	DealProposal  = "PROPOSAL"
	DealWon       = "WON"
	DealLost      = "LOST"
)

type Deal struct {
	Base

	CompanyID   uint    `gorm:"index" json:"company_id"`
	JobID       *uint   `json:"job_id,omitempty"`
	CandidateID *uint   `json:"candidate_id,omitempty"`
	Title       string  `gorm:"not null" json:"title"`
	Value       float64 `json:"value"`
	Stage       string  `gorm:"default:'LEAD'" json:"stage"`
}

// Activity kinds.
const (
	ActivityResumeUploaded     = "RESUME_UPLOADED"
	ActivityEmailUpdate        = "EMAIL_UPDATE"
	ActivityDealStage          = "DEAL_STAGE_CHANGED"
	ActivityInterviewScheduled = "INTERVIEW_SCHEDULED"
)

// Activity is the timeline entry attached to candidates, jobs and deals.
type Activity struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	CandidateID *uint  `gorm:"index" json:"candidate_id,omitempty"`
	JobID       *uint  `gorm:"index" json:"job_id,omitempty"`
	DealID      *uint  `gorm:"index" json:"deal_id,omitempty"`
	Kind        string `gorm:"not null" json:"kind"`
	Details     string `gorm:"type:text" json:"details"`
}

type Interview struct {
	Base

	CandidateID     uint      `gorm:"index" json:"candidate_id"`
	JobID           uint      `gorm:"index" json:"job_id"`
	StartsAt        time.Time `json:"starts_at"`
	EndsAt          time.Time `json:"ends_at"`
	Location        string    `json:"location"`
	CalendarEventID string    `json:"calendar_event_id,omitempty"`
}

type ProcessedEmail struct {
	ID        string `gorm:"primaryKey"`
	CreatedAt time.Time
}

// All lists every model for migration.
func All() []any {
	return []any{
		&User{}, &Company{}, &Contact{}, &Job{}, &Candidate{},
		&Deal{}, &Activity{}, &Interview{}, &ProcessedEmail{},
	}
}
