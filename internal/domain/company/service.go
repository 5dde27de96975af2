package company

import "context"

type CompanyService interface {
	Get(ctx context.Context, companyID string) (Response, error)
	Update(ctx context.Context, companyID string, req UpdateRequest) (Response, error)
}
