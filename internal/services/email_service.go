package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/justsurfingit/talent-crm/internal/models"
	"go.uber.org/zap"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
	"gorm.io/gorm"
)

const (
	inboxPollInterval = time.Minute
	inboxSyncTimeout  = 2 * time.Minute
	inboxQuery        = "subject:(application OR interview OR update OR offer OR rejected OR status) newer_than:7d"
)

// EmailAnalyzer is the part of LLMService the inbox watcher needs.
type EmailAnalyzer interface {
	AnalyzeEmailStatus(ctx context.Context, company, subject, body string) (string, error)
	IdentifyJobRole(ctx context.Context, titles []string, subject, body string) int
}

// EmailService watches the recruiting inbox and turns status emails into
// job activities.
type EmailService struct {
	DB             *gorm.DB
	LLM            EmailAnalyzer
	MatcherService *MatcherService
	GmailClient    *gmail.Service
	log            *zap.Logger
}

func NewEmailService(db *gorm.DB, llm EmailAnalyzer, gmailClient *gmail.Service, matcher *MatcherService, log *zap.Logger) *EmailService {
	return &EmailService{
		DB:             db,
		LLM:            llm,
		GmailClient:    gmailClient,
		MatcherService: matcher,
		log:            log,
	}
}

// StartWatcher syncs immediately and then every inboxPollInterval until ctx
// is done.
func (s *EmailService) StartWatcher(ctx context.Context) {
	if s.GmailClient == nil || s.LLM == nil {
		s.log.Warn("inbox watcher disabled: gmail or llm client missing")
		return
	}

	go func() {
		ticker := time.NewTicker(inboxPollInterval)
		defer ticker.Stop()
		for {
			s.SyncEmails(ctx)
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

// SyncEmails runs one sync cycle: bootstrap on first run, incremental
// history afterwards, falling back to bootstrap if history expired.
func (s *EmailService) SyncEmails(parent context.Context) {
	ctx, cancel := context.WithTimeout(parent, inboxSyncTimeout)
	defer cancel()

	db := s.DB.WithContext(ctx)

	var user models.User
	if err := db.First(&user).Error; err != nil {
		user = models.User{Email: "default"}
		if err := db.Create(&user).Error; err != nil {
			s.log.Error("failed to create inbox bookmark", zap.Error(err))
			return
		}
	}

	var (
		messages     []*gmail.Message
		newHistoryID uint64
		err          error
	)
	if user.LastHistoryID == 0 {
		s.log.Info("inbox bootstrap sync")
		messages, newHistoryID, err = s.performFullSync(ctx)
	} else {
		messages, newHistoryID, err = s.performIncrementalSync(ctx, user.LastHistoryID)
		if isHistoryExpiredError(err) {
			s.log.Warn("inbox history expired, falling back to bootstrap sync")
			messages, newHistoryID, err = s.performFullSync(ctx)
		}
	}
	if err != nil {
		s.log.Error("inbox sync failed", zap.Error(err))
		return
	}

	// A message whose dedup state is unknown keeps the bookmark in place so
	// the next cycle sees it again.
	unchecked := 0
	for _, msg := range messages {
		var count int64
		if err := db.Model(&models.ProcessedEmail{}).Where("id = ?", msg.Id).Count(&count).Error; err != nil {
			s.log.Error("failed to check processed emails", zap.String("message_id", msg.Id), zap.Error(err))
			unchecked++
			continue
		}
		if count > 0 {
			continue
		}
		s.processMessage(ctx, msg)
		if err := db.Create(&models.ProcessedEmail{ID: msg.Id}).Error; err != nil {
			s.log.Warn("failed to mark email processed", zap.String("message_id", msg.Id), zap.Error(err))
		}
	}

	if unchecked > 0 {
		s.log.Warn("inbox bookmark held back", zap.Int("unchecked", unchecked))
		return
	}
	if newHistoryID > user.LastHistoryID {
		err := db.Model(&models.User{}).Where("id = ?", user.ID).Update("last_history_id", newHistoryID).Error
		if err != nil {
			s.log.Error("failed to advance inbox bookmark", zap.Uint64("history_id", newHistoryID), zap.Error(err))
			return
		}
		s.log.Debug("inbox bookmark advanced", zap.Uint64("history_id", newHistoryID))
	}
}

func (s *EmailService) performFullSync(ctx context.Context) ([]*gmail.Message, uint64, error) {
	var resp *gmail.ListMessagesResponse
	err := s.retry(ctx, 3, time.Second, func() error {
		var e error
		resp, e = s.GmailClient.Users.Messages.List("me").Q(inboxQuery).MaxResults(50).Context(ctx).Do()
		return e
	})
	if err != nil {
		return nil, 0, err
	}

	profile, err := s.GmailClient.Users.GetProfile("me").Context(ctx).Do()
	if err != nil {
		return nil, 0, err
	}
	return s.expandMessages(ctx, resp.Messages), profile.HistoryId, nil
}

func (s *EmailService) performIncrementalSync(ctx context.Context, startID uint64) ([]*gmail.Message, uint64, error) {
	var resp *gmail.ListHistoryResponse
	err := s.retry(ctx, 3, time.Second, func() error {
		var e error
		resp, e = s.GmailClient.Users.History.List("me").
			StartHistoryId(startID).
			HistoryTypes("messageAdded").
			Context(ctx).Do()
		return e
	})
	if err != nil {
		return nil, 0, err
	}

	var headers []*gmail.Message
	for _, h := range resp.History {
		for _, added := range h.MessagesAdded {
			if added.Message != nil {
				headers = append(headers, added.Message)
			}
		}
	}
	return s.expandMessages(ctx, headers), resp.HistoryId, nil
}

func (s *EmailService) expandMessages(ctx context.Context, headers []*gmail.Message) []*gmail.Message {
	var full []*gmail.Message
	for _, h := range headers {
		err := s.retry(ctx, 2, 500*time.Millisecond, func() error {
			msg, err := s.GmailClient.Users.Messages.Get("me", h.Id).Context(ctx).Do()
			if err == nil {
				full = append(full, msg)
			}
			return err
		})
		if err != nil {
			s.log.Warn("failed to fetch email", zap.String("message_id", h.Id), zap.Error(err))
		}
	}
	return full
}

type emailStatus struct {
	Status  string `json:"status"`
	Summary string `json:"summary"`
}

// processMessage matches an email to a company and open job, classifies it
// and records the result on the job timeline.
func (s *EmailService) processMessage(ctx context.Context, msg *gmail.Message) {
	headers := parseHeaders(msg)
	subject := headers["Subject"]
	log := s.log.With(zap.String("message_id", msg.Id), zap.String("subject", subject))

	company, err := s.MatcherService.FindCompanyFromEmail(ctx, subject, headers["From"])
	if err != nil {
		log.Error("company lookup failed", zap.Error(err))
		return
	}
	if company == nil {
		log.Debug("email skipped: no matching company")
		return
	}

	var jobs []models.Job
	s.DB.WithContext(ctx).
		Where("company_id = ? AND status NOT IN ?", company.ID, []string{models.JobClosed, models.JobFilled}).
		Find(&jobs)
	if len(jobs) == 0 {
		log.Debug("email skipped: no open jobs", zap.String("company", company.Name))
		return
	}

	body := getEmailBody(msg)
	target := &jobs[0]
	if len(jobs) > 1 {
		titles := make([]string, len(jobs))
		for i, j := range jobs {
			titles[i] = j.Title
		}
		idx := s.LLM.IdentifyJobRole(ctx, titles, subject, body)
		if idx < 0 {
			log.Info("email skipped: job could not be determined", zap.Strings("jobs", titles))
			return
		}
		target = &jobs[idx]
	}

	raw, err := s.LLM.AnalyzeEmailStatus(ctx, company.Name, subject, body)
	if err != nil {
		log.Warn("email analysis failed", zap.Error(err))
		return
	}
	var result emailStatus
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		log.Warn("email analysis returned invalid JSON", zap.String("raw", raw), zap.Error(err))
		return
	}
	if result.Status == "NO_CHANGE" || result.Status == "UNKNOWN" || result.Status == "" {
		return
	}

	err = recordActivity(ctx, s.DB, &models.Activity{
		JobID:   uintPtr(target.ID),
		Kind:    models.ActivityEmailUpdate,
		Details: fmt.Sprintf("%s: %s", result.Status, result.Summary),
	})
	if err != nil {
		log.Error("failed to record email activity", zap.Error(err))
		return
	}
	log.Info("email recorded", zap.String("job", target.Title), zap.String("status", result.Status))
}

// retry runs f with exponential backoff. Expired history fails fast so the
// caller can switch to a bootstrap sync.
func (s *EmailService) retry(ctx context.Context, attempts int, sleep time.Duration, f func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = f(); err == nil || isHistoryExpiredError(err) {
			return err
		}
		s.log.Debug("gmail call failed, retrying", zap.Duration("backoff", sleep), zap.Error(err))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(sleep):
		}
		sleep *= 2
	}
	return fmt.Errorf("failed after %d attempts: %w", attempts, err)
}

func isHistoryExpiredError(err error) bool {
	var gErr *googleapi.Error
	return errors.As(err, &gErr) && gErr.Code == http.StatusNotFound
}

func parseHeaders(msg *gmail.Message) map[string]string {
	res := make(map[string]string)
	if msg.Payload == nil {
		return res
	}
	for _, h := range msg.Payload.Headers {
		res[h.Name] = h.Value
	}
	return res
}

// getEmailBody prefers the top-level body, then text/plain, then text/html.
func getEmailBody(msg *gmail.Message) string {
	if msg.Payload == nil {
		return ""
	}
	if msg.Payload.Body != nil && msg.Payload.Body.Data != "" {
		return decodeBody(msg.Payload.Body.Data)
	}
	for _, mime := range []string{"text/plain", "text/html"} {
		for _, part := range msg.Payload.Parts {
			if part.MimeType == mime && part.Body != nil && part.Body.Data != "" {
				return decodeBody(part.Body.Data)
			}
		}
	}
	return ""
}

func decodeBody(data string) string {
	if d, err := base64.URLEncoding.DecodeString(data); err == nil {
		return string(d)
	}
	d, _ := base64.RawURLEncoding.DecodeString(data)
	return string(d)
}
