package company

import (
	"time"

	"github.com/workpoint-hq/hr-backend-go/internal/domain/leave"
)

type Company struct {
	ID       string
	Name     string
	Username string

	LeavePolicy LeavePolicy

	CreatedAt time.Time
	UpdatedAt time.Time
}

// LeavePolicy is the company-wide pool-plus-sub-caps leave policy.
type LeavePolicy struct {
	// TotalAnnual is the pool size before any employee-specific deduction.
	TotalAnnual float64

	// RatePerMonth is the monthly accrual into the pool.
	RatePerMonth float64

	// TypeCaps bound cumulative usage per capped type. Unpaid is uncapped.
	TypeCaps leave.TypeCaps
}
