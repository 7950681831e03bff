package services

import (
	"context"
	"net/mail"
	"strings"

	"github.com/justsurfingit/talent-crm/internal/models"
	"gorm.io/gorm"
)

// minCompanyNameLen keeps names like "X" or "Go" from matching every email.
const minCompanyNameLen = 3

type MatcherService struct {
	DB *gorm.DB
}

func NewMatcherService(db *gorm.DB) *MatcherService {
	return &MatcherService{DB: db}
}

// FindCompanyFromEmail returns the tracked company an email is about, or nil.
func (s *MatcherService) FindCompanyFromEmail(ctx context.Context, subject, rawSender string) (*models.Company, error) {
	var companies []models.Company
	if err := s.DB.WithContext(ctx).Find(&companies).Error; err != nil {
		return nil, err
	}
	return matchCompany(companies, subject, rawSender), nil
}

// matchCompany checks, in order, the subject line, the sender display name
// and the sender domain against each company name.
func matchCompany(companies []models.Company, subject, rawSender string) *models.Company {
	var senderName, senderAddr string
	if addr, err := mail.ParseAddress(rawSender); err == nil {
		senderName = strings.ToLower(addr.Name)
		senderAddr = strings.ToLower(addr.Address)
	} else {
		senderAddr = strings.ToLower(rawSender)
	}

	var domain string
	if at := strings.LastIndex(senderAddr, "@"); at >= 0 {
		domain = senderAddr[at+1:]
	}
	subject = strings.ToLower(subject)

	for i := range companies {
		name := strings.ToLower(strings.TrimSpace(companies[i].Name))
		if len(name) < minCompanyNameLen {
			continue
		}
		compact := strings.ReplaceAll(name, " ", "")
		switch {
		case strings.Contains(subject, name),
			senderName != "" && strings.Contains(senderName, name),
			domain != "" && strings.Contains(domain, compact):
			return &companies[i]
		}
	}
	return nil
}
