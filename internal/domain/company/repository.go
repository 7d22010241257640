package company

import (
	"context"
)

// CompanyRepository defines data access for companies.
type CompanyRepository interface {
	// GetByID retrieves a company by ID.
	GetByID(ctx context.Context, id string) (Company, error)
}
