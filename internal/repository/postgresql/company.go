package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/workpoint-hq/hr-backend-go/internal/domain/company"
	"github.com/workpoint-hq/hr-backend-go/internal/pkg/database"
)

type companyRepository struct {
	db *database.DB
}

func NewCompanyRepository(db *database.DB) company.CompanyRepository {
	return &companyRepository{db: db}
}

// GetByID implements company.CompanyRepository.
func (r *companyRepository) GetByID(ctx context.Context, id string) (company.Company, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, username,
			   leave_total_annual, leave_rate_per_month,
			   leave_cap_paid, leave_cap_casual, leave_cap_sick,
			   created_at, updated_at
		FROM companies
		WHERE id = $1
	`

	var c company.Company
	err := q.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.Username,
		&c.LeavePolicy.TotalAnnual, &c.LeavePolicy.RatePerMonth,
		&c.LeavePolicy.TypeCaps.Paid, &c.LeavePolicy.TypeCaps.Casual, &c.LeavePolicy.TypeCaps.Sick,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return company.Company{}, company.ErrCompanyNotFound
		}
		return company.Company{}, fmt.Errorf("failed to get company: %w", err)
	}
	return c, nil
}
