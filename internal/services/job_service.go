package services

import (
	"context"
	"errors"
	"strings"

	"github.com/justsurfingit/talent-crm/internal/dtos"
	"github.com/justsurfingit/talent-crm/internal/models"
	"gorm.io/gorm"
)

var (
	ErrNotFound            = errors.New("record not found")
	ErrCompanyNameRequired = errors.New("company name is required")
)

type JobService struct {
	DB *gorm.DB
}

func NewJobService(db *gorm.DB) *JobService {
	return &JobService{
		DB: db,
	}
}

// CreateJob stores a job, creating its company on first mention.
func (s *JobService) CreateJob(ctx context.Context, req *dtos.JobCreationRequest) (*models.Job, error) {
	db := s.DB.WithContext(ctx)

	company, err := firstOrCreateCompany(db, req.CompanyName)
	if err != nil {
		return nil, err
	}

	status := strings.ToUpper(strings.TrimSpace(req.Status))
	if status == "" {
		status = models.JobOpen
	}
	job := &models.Job{
		CompanyID:   company.ID,
		Company:     *company,
		Title:       req.Title,
		Description: req.Description,
		JobLink:     req.JobLink,
		Location:    req.Location,
		SalaryRange: req.SalaryRange,
		TechStack:   strings.Join(req.TechStack, ","),
		Status:      status,
	}
	if err := db.Omit("Company").Create(job).Error; err != nil {
		return nil, err
	}
	return job, nil
}

// ListJobs returns jobs newest first, optionally filtered by status.
func (s *JobService) ListJobs(ctx context.Context, status string) ([]models.Job, error) {
	q := s.DB.WithContext(ctx).Preload("Company").Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", strings.ToUpper(status))
	}
	var jobs []models.Job
	if err := q.Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

func (s *JobService) GetJob(ctx context.Context, id uint) (*models.Job, error) {
	var job models.Job
	err := s.DB.WithContext(ctx).Preload("Company").First(&job, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// ListActivities returns the job's timeline, including inbox updates.
func (s *JobService) ListActivities(ctx context.Context, id uint) ([]models.Activity, error) {
	if _, err := s.GetJob(ctx, id); err != nil {
		return nil, err
	}
	return listActivities(ctx, s.DB, "job_id", id)
}
