package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/justsurfingit/talent-crm/internal/dtos"
	"github.com/justsurfingit/talent-crm/internal/models"
	"go.uber.org/zap"
	"google.golang.org/api/calendar/v3"
	"gorm.io/gorm"
)

var ErrInvalidInterviewWindow = errors.New("interview must end after it starts")

// InterviewService books interviews and mirrors them into Google Calendar
// when a calendar client is configured.
type InterviewService struct {
	DB         *gorm.DB
	Calendar   *calendar.Service
	CalendarID string
	log        *zap.Logger
}

func NewInterviewService(db *gorm.DB, cal *calendar.Service, calendarID string, log *zap.Logger) *InterviewService {
	if calendarID == "" {
		calendarID = "primary"
	}
	return &InterviewService{DB: db, Calendar: cal, CalendarID: calendarID, log: log}
}

func (s *InterviewService) Schedule(ctx context.Context, req *dtos.InterviewRequest) (*models.Interview, error) {
	if !req.EndsAt.After(req.StartsAt) {
		return nil, ErrInvalidInterviewWindow
	}

	db := s.DB.WithContext(ctx)
	var cand models.Candidate
	if err := db.First(&cand, req.CandidateID).Error; err != nil {
		return nil, notFound(err)
	}
	var job models.Job
	if err := db.Preload("Company").First(&job, req.JobID).Error; err != nil {
		return nil, notFound(err)
	}

	iv := &models.Interview{
		CandidateID: cand.ID,
		JobID:       job.ID,
		StartsAt:    req.StartsAt.UTC(),
		EndsAt:      req.EndsAt.UTC(),
		Location:    req.Location,
	}

	if s.Calendar != nil {
		ev, err := s.Calendar.Events.Insert(s.CalendarID, buildEvent(&cand, &job, req)).Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("create calendar event: %w", err)
		}
		iv.CalendarEventID = ev.Id
	}

	if err := db.Create(iv).Error; err != nil {
		s.cancelEvent(ctx, iv.CalendarEventID)
		return nil, err
	}

	if cand.Status == models.CandidateNew || cand.Status == models.CandidateScreening {
		if err := db.Model(&cand).Update("status", models.CandidateInterviewing).Error; err != nil {
			s.log.Warn("failed to advance candidate status", zap.Uint("candidate_id", cand.ID), zap.Error(err))
		}
	}

	err := recordActivity(ctx, s.DB, &models.Activity{
		CandidateID: uintPtr(cand.ID),
		JobID:       uintPtr(job.ID),
		Kind:        models.ActivityInterviewScheduled,
		Details:     fmt.Sprintf("Interview for %s on %s", job.Title, iv.StartsAt.Format(time.RFC1123)),
	})
	if err != nil {
		s.log.Warn("failed to record interview activity", zap.Uint("interview_id", iv.ID), zap.Error(err))
	}
	return iv, nil
}

// cancelEvent removes an event whose interview could not be stored.
func (s *InterviewService) cancelEvent(ctx context.Context, eventID string) {
	if s.Calendar == nil || eventID == "" {
		return
	}
	if err := s.Calendar.Events.Delete(s.CalendarID, eventID).Context(ctx).Do(); err != nil {
		s.log.Error("failed to delete orphaned calendar event", zap.String("event_id", eventID), zap.Error(err))
	}
}

func buildEvent(cand *models.Candidate, job *models.Job, req *dtos.InterviewRequest) *calendar.Event {
	summary := fmt.Sprintf("Interview: %s - %s", cand.Name, job.Title)
	if job.Company.Name != "" {
		summary += " (" + job.Company.Name + ")"
	}

	ev := &calendar.Event{
		Summary:     summary,
		Description: fmt.Sprintf("Candidate: %s\nRole: %s", cand.Name, job.Title),
		Location:    req.Location,
		Start:       &calendar.EventDateTime{DateTime: req.StartsAt.Format(time.RFC3339)},
		End:         &calendar.EventDateTime{DateTime: req.EndsAt.Format(time.RFC3339)},
	}
	emails := append([]string(nil), req.Attendees...)
	if cand.Email != nil {
		emails = append(emails, *cand.Email)
	}
	for _, e := range emails {
		ev.Attendees = append(ev.Attendees, &calendar.EventAttendee{Email: e})
	}
	return ev
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
