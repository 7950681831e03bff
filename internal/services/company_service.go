package services

import (
	"context"
	"strings"

	"github.com/justsurfingit/talent-crm/internal/dtos"
	"github.com/justsurfingit/talent-crm/internal/models"
	"gorm.io/gorm"
)

// CompanyService covers companies and their contacts.
type CompanyService struct {
	DB *gorm.DB
}

func NewCompanyService(db *gorm.DB) *CompanyService {
	return &CompanyService{DB: db}
}

// CreateCompany creates the named company or updates the website and
// industry of the existing one.
func (s *CompanyService) CreateCompany(ctx context.Context, req *dtos.CompanyRequest) (*models.Company, error) {
	return firstOrCreateCompany(s.DB.WithContext(ctx), req.Name,
		models.Company{Website: req.Website, Industry: req.Industry})
}

// firstOrCreateCompany looks a company up by its trimmed name. gorm drops
// zero-valued struct conditions, so the name is matched with an explicit
// clause and blank names are rejected.
func firstOrCreateCompany(db *gorm.DB, name string, assign ...any) (*models.Company, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrCompanyNameRequired
	}
	company := models.Company{Name: name}
	if err := db.Where("name = ?", name).Assign(assign...).FirstOrCreate(&company).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

func (s *CompanyService) ListCompanies(ctx context.Context) ([]models.Company, error) {
	var companies []models.Company
	if err := s.DB.WithContext(ctx).Order("name").Find(&companies).Error; err != nil {
		return nil, err
	}
	return companies, nil
}

func (s *CompanyService) CreateContact(ctx context.Context, req *dtos.ContactRequest) (*models.Contact, error) {
	db := s.DB.WithContext(ctx)

	var count int64
	if err := db.Model(&models.Company{}).Where("id = ?", req.CompanyID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrNotFound
	}

	contact := &models.Contact{
		CompanyID: req.CompanyID,
		Name:      req.Name,
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:     req.Phone,
		Title:     req.Title,
	}
	if err := db.Create(contact).Error; err != nil {
		return nil, err
	}
	return contact, nil
}

// ListContacts returns all contacts, or those of one company when
// companyID is non-zero.
func (s *CompanyService) ListContacts(ctx context.Context, companyID uint) ([]models.Contact, error) {
	q := s.DB.WithContext(ctx).Order("name")
	if companyID != 0 {
		q = q.Where("company_id = ?", companyID)
	}
	var contacts []models.Contact
	if err := q.Find(&contacts).Error; err != nil {
		return nil, err
	}
	return contacts, nil
}
