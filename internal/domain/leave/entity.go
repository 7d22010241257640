package leave

import (
	"time"
)

type Type string

const (
	TypePaid   Type = "PAID"
	TypeCasual Type = "CASUAL"
	TypeSick   Type = "SICK"
	TypeUnpaid Type = "UNPAID"
)

// CascadeOrder is the fixed fallback order the consumption planner walks when
// the requested type is exhausted. Unpaid always absorbs the remainder.
var CascadeOrder = []Type{TypePaid, TypeCasual, TypeSick}

func IsValidType(t Type) bool {
	switch t {
	case TypePaid, TypeCasual, TypeSick, TypeUnpaid:
		return true
	}
	return false
}

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Allocations is the exact per-type split debited for a leave. The same shape
// records cumulative usage on the employee. Typed days draw from the shared
// pool; unpaid days are tracked only.
type Allocations struct {
	Paid   float64
	Casual float64
	Sick   float64
	Unpaid float64
}

// Typed returns the pool-consuming portion (paid + casual + sick).
func (a Allocations) Typed() float64 {
	return a.Paid + a.Casual + a.Sick
}

// Total returns the full duration covered by the split, unpaid included.
func (a Allocations) Total() float64 {
	return a.Typed() + a.Unpaid
}

func (a Allocations) IsZero() bool {
	return a.Paid == 0 && a.Casual == 0 && a.Sick == 0 && a.Unpaid == 0
}

// Get returns the component for one leave type.
func (a Allocations) Get(t Type) float64 {
	switch t {
	case TypePaid:
		return a.Paid
	case TypeCasual:
		return a.Casual
	case TypeSick:
		return a.Sick
	case TypeUnpaid:
		return a.Unpaid
	}
	return 0
}

// Set overwrites the component for one leave type.
func (a *Allocations) Set(t Type, v float64) {
	switch t {
	case TypePaid:
		a.Paid = v
	case TypeCasual:
		a.Casual = v
	case TypeSick:
		a.Sick = v
	case TypeUnpaid:
		a.Unpaid = v
	}
}

// TypeCaps is the company policy ceiling on cumulative usage per capped type.
// Unpaid has no cap.
type TypeCaps struct {
	Paid   float64
	Casual float64
	Sick   float64
}

func (c TypeCaps) Get(t Type) float64 {
	switch t {
	case TypePaid:
		return c.Paid
	case TypeCasual:
		return c.Casual
	case TypeSick:
		return c.Sick
	}
	return 0
}

// Balances is the derived remaining-per-type view cached on the employee.
// Recomputed from caps and usage on every mutation; never authoritative.
type Balances struct {
	Paid   float64
	Casual float64
	Sick   float64
	Unpaid float64 // cumulative unpaid usage, tracking only
}

type Leave struct {
	ID         string
	EmployeeID string
	CompanyID  string

	Type         Type
	FallbackType *Type // type actually charged when the primary was exhausted

	StartDate time.Time
	EndDate   time.Time

	Status Status
	Reason *string

	IsAuto        bool
	AutoPenaltyID *string

	Allocations Allocations

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CoversDay reports whether day falls inside [StartDate, EndDate].
func (l Leave) CoversDay(day time.Time) bool {
	return !day.Before(l.StartDate) && !day.After(l.EndDate)
}

// AttendancePenalty is the ledger of exactly what one deficient day debited.
// Unresolved while ResolvedAt is nil; resolved exactly once, by the backdating
// reconciler or an equivalent manual refund.
type AttendancePenalty struct {
	ID         string
	EmployeeID string
	CompanyID  string

	Date        time.Time
	Allocations Allocations

	ResolvedAt *time.Time
	ResolvedBy *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p AttendancePenalty) IsResolved() bool {
	return p.ResolvedAt != nil
}
