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

var ErrInvalidStage = errors.New("invalid deal stage")

var dealStages = map[string]bool{
	models.DealLead:      true,
	models.DealQualified: true,
	models.DealProposal:  true,
	models.DealWon:       true,
	models.DealLost:      true,
}

// ParseDealStage normalises s and reports whether it names a known stage.
func ParseDealStage(s string) (string, error) {
	stage := strings.ToUpper(strings.TrimSpace(s))
	if !dealStages[stage] {
		return "", fmt.Errorf("%w: %q", ErrInvalidStage, s)
	}
	return stage, nil
}

type DealService struct {
	DB  *gorm.DB
	log *zap.Logger
}

func NewDealService(db *gorm.DB, log *zap.Logger) *DealService {
	return &DealService{DB: db, log: log}
}

func (s *DealService) CreateDeal(ctx context.Context, req *dtos.DealRequest) (*models.Deal, error) {
	stage := models.DealLead
	if req.Stage != "" {
		var err error
		if stage, err = ParseDealStage(req.Stage); err != nil {
			return nil, err
		}
	}
	deal := &models.Deal{
		CompanyID:   req.CompanyID,
		JobID:       req.JobID,
		CandidateID: req.CandidateID,
		Title:       req.Title,
		Value:       req.Value,
		Stage:       stage,
	}
	if err := s.DB.WithContext(ctx).Create(deal).Error; err != nil {
		return nil, err
	}
	return deal, nil
}

// UpdateDealStage moves a deal and records the transition.
func (s *DealService) UpdateDealStage(ctx context.Context, id uint, stage string) (*models.Deal, error) {
	next, err := ParseDealStage(stage)
	if err != nil {
		return nil, err
	}

	db := s.DB.WithContext(ctx)
	var deal models.Deal
	if err := db.First(&deal, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if deal.Stage == next {
		return &deal, nil
	}

	prev := deal.Stage
	if err := db.Model(&deal).Update("stage", next).Error; err != nil {
		return nil, err
	}
	deal.Stage = next

	err = recordActivity(ctx, s.DB, &models.Activity{
		DealID:      uintPtr(deal.ID),
		JobID:       deal.JobID,
		CandidateID: deal.CandidateID,
		Kind:        models.ActivityDealStage,
		Details:     fmt.Sprintf("Stage changed %s -> %s", prev, next),
	})
	if err != nil {
		s.log.Warn("failed to record deal activity", zap.Uint("deal_id", deal.ID), zap.Error(err))
	}
	return &deal, nil
}

func (s *DealService) ListActivities(ctx context.Context, id uint) ([]models.Activity, error) {
	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.Deal{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrNotFound
	}
	return listActivities(ctx, s.DB, "deal_id", id)
}
