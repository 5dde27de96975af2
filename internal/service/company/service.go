package company

import (
	"context"
	"fmt"

	"github.com/gestio-app/gestio-backend-go/internal/domain/company"
)

type CompanyServiceImpl struct {
	company.CompanyRepository
}

func NewCompanyService(companyRepository company.CompanyRepository) company.CompanyService {
	return &CompanyServiceImpl{
		CompanyRepository: companyRepository,
	}
}

// Get implements company.CompanyService.
func (s *CompanyServiceImpl) Get(ctx context.Context, companyID string) (company.Response, error) {
	c, err := s.CompanyRepository.GetByID(ctx, companyID)
	if err != nil {
		return company.Response{}, err
	}
	return company.ToResponse(c), nil
}

// Update implements company.CompanyService.
func (s *CompanyServiceImpl) Update(ctx context.Context, companyID string, req company.UpdateRequest) (company.Response, error) {
	if err := req.Validate(); err != nil {
		return company.Response{}, err
	}

	c, err := s.CompanyRepository.GetByID(ctx, companyID)
	if err != nil {
		return company.Response{}, err
	}

	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.LogoURL != nil {
		c.LogoURL = req.LogoURL
	}
	if req.Address != nil {
		c.Address = req.Address
	}
	if req.Siret != nil {
		c.Siret = req.Siret
	}

	updated, err := s.CompanyRepository.Update(ctx, c)
	if err != nil {
		return company.Response{}, fmt.Errorf("failed to update company: %w", err)
	}
	return company.ToResponse(updated), nil
}
