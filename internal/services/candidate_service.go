package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/justsurfingit/talent-crm/internal/dtos"
	"github.com/justsurfingit/talent-crm/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CandidateService struct {
	DB  *gorm.DB
	log *zap.Logger
}

func NewCandidateService(db *gorm.DB, log *zap.Logger) *CandidateService {
	return &CandidateService{DB: db, log: log}
}

func (s *CandidateService) CreateCandidate(ctx context.Context, req *dtos.CandidateRequest) (*models.Candidate, error) {
	c := &models.Candidate{
		Name:     strings.TrimSpace(req.Name),
		Email:    normalizeEmail(req.Email),
		Phone:    req.Phone,
		Location: req.Location,
		Summary:  req.Summary,
		Skills:   joinSkills(req.Skills),
		Status:   models.CandidateNew,
	}
	if err := s.DB.WithContext(ctx).Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CandidateService) ListCandidates(ctx context.Context, status string) ([]models.Candidate, error) {
	q := s.DB.WithContext(ctx).Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", strings.ToUpper(status))
	}
	var out []models.Candidate
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *CandidateService) GetCandidate(ctx context.Context, id uint) (*models.Candidate, error) {
	var c models.Candidate
	err := s.DB.WithContext(ctx).First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListActivities returns the candidate's timeline.
func (s *CandidateService) ListActivities(ctx context.Context, id uint) ([]models.Activity, error) {
	if _, err := s.GetCandidate(ctx, id); err != nil {
		return nil, err
	}
	return listActivities(ctx, s.DB, "candidate_id", id)
}

// SaveFromResume creates the candidate, or refreshes the one sharing its
// email, and logs a RESUME_UPLOADED activity.
func (s *CandidateService) SaveFromResume(ctx context.Context, c *models.Candidate) (*models.Candidate, error) {
	db := s.DB.WithContext(ctx)

	var existing models.Candidate
	found := false
	if c.Email != nil {
		err := db.Where("email = ?", *c.Email).First(&existing).Error
		switch {
		case err == nil:
			found = true
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, err
		}
	}

	if found {
		mergeResume(&existing, c)
		if err := db.Save(&existing).Error; err != nil {
			return nil, err
		}
		c = &existing
	} else if err := db.Create(c).Error; err != nil {
		return nil, err
	}

	err := recordActivity(ctx, s.DB, &models.Activity{
		CandidateID: uintPtr(c.ID),
		Kind:        models.ActivityResumeUploaded,
		Details:     fmt.Sprintf("Resume %s uploaded (%d pages)", c.ResumeFileName, c.ResumePages),
	})
	if err != nil {
		s.log.Warn("failed to record resume activity", zap.Uint("candidate_id", c.ID), zap.Error(err))
	}
	return c, nil
}

// mergeResume copies resume data onto dst, keeping dst values the new
// upload left blank.
func mergeResume(dst, src *models.Candidate) {
	set := func(d *string, v string) {
		if v != "" {
			*d = v
		}
	}
	set(&dst.Name, src.Name)
	set(&dst.Phone, src.Phone)
	set(&dst.Location, src.Location)
	set(&dst.Summary, src.Summary)
	set(&dst.Skills, src.Skills)
	dst.ResumeFileName = src.ResumeFileName
	dst.ResumePages = src.ResumePages
	dst.ResumeText = src.ResumeText
}

func normalizeEmail(email string) *string {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil
	}
	return &email
}

// joinSkills trims, drops blanks and case-insensitive duplicates, and joins
// with commas.
func joinSkills(skills []string) string {
	seen := make(map[string]bool, len(skills))
	out := make([]string, 0, len(skills))
	for _, sk := range skills {
		sk = strings.TrimSpace(sk)
		key := strings.ToLower(sk)
		if sk == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, sk)
	}
	return strings.Join(out, ",")
}
