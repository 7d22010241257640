package balance

import (
	"github.com/workpoint-hq/hr-backend-go/internal/domain/leave"
)

// Calculator holds the pure balance math: deriving cached balance views,
// planning consumption splits and refunding them. No I/O.
type Calculator struct {
}

func NewCalculator() *Calculator {
	return &Calculator{}
}

// DeriveBalances recomputes the cached remaining-per-type view from caps and
// cumulative usage. Capped types report max(0, cap - usage); unpaid reports
// cumulative usage since it has no cap.
func (c *Calculator) DeriveBalances(caps leave.TypeCaps, usage leave.Allocations) leave.Balances {
	return leave.Balances{
		Paid:   clampZero(caps.Paid - usage.Paid),
		Casual: clampZero(caps.Casual - usage.Casual),
		Sick:   clampZero(caps.Sick - usage.Sick),
		Unpaid: usage.Unpaid,
	}
}

// PlanConsumption computes the exact per-type split for charging `days` of the
// requested type against the given caps/usage/pool snapshot.
//
// The requested type is charged up to its remaining cap; any shortfall
// cascades through the fixed order paid -> casual -> sick, skipping the
// requested type, and finally lands on unpaid. Typed days are additionally
// bounded by the remaining pool: once the pool is exhausted the rest of the
// request is charged unpaid. The split is deterministic: the same snapshot and
// request always yield the same allocations.
//
// The second return value is the fallback type actually charged when the
// primary was exhausted (the first non-requested type receiving days), or nil
// when the request fit its primary type.
func (c *Calculator) PlanConsumption(requested leave.Type, days float64, caps leave.TypeCaps, usage leave.Allocations, pool float64) (leave.Allocations, *leave.Type) {
	var alloc leave.Allocations
	if days <= 0 {
		return alloc, nil
	}

	if requested == leave.TypeUnpaid {
		alloc.Unpaid = days
		return alloc, nil
	}

	remaining := days
	poolLeft := clampZero(pool)

	order := make([]leave.Type, 0, len(leave.CascadeOrder))
	order = append(order, requested)
	for _, t := range leave.CascadeOrder {
		if t != requested {
			order = append(order, t)
		}
	}

	for _, t := range order {
		if remaining <= 0 || poolLeft <= 0 {
			break
		}
		capLeft := clampZero(caps.Get(t) - usage.Get(t))
		take := min3(remaining, capLeft, poolLeft)
		if take <= 0 {
			continue
		}
		alloc.Set(t, take)
		remaining -= take
		poolLeft -= take
	}

	// Whatever neither the caps nor the pool could absorb goes unpaid.
	if remaining > 0 {
		alloc.Unpaid = remaining
	}

	var fallback *leave.Type
	for _, t := range order[1:] {
		if alloc.Get(t) > 0 {
			fb := t
			fallback = &fb
			break
		}
	}
	if fallback == nil && alloc.Unpaid > 0 && alloc.Get(requested) < days {
		fb := leave.TypeUnpaid
		fallback = &fb
	}

	return alloc, fallback
}

// Apply debits an allocation split: usage grows by the split, the pool shrinks
// by its typed portion. Returns the new usage and pool.
func (c *Calculator) Apply(alloc leave.Allocations, usage leave.Allocations, pool float64) (leave.Allocations, float64) {
	usage.Paid += alloc.Paid
	usage.Casual += alloc.Casual
	usage.Sick += alloc.Sick
	usage.Unpaid += alloc.Unpaid
	return usage, clampZero(pool) - alloc.Typed()
}

// Refund is the exact inverse of Apply: each typed usage component shrinks by
// its allocation (floored at zero), the typed portion returns to the pool. The
// unpaid component is decremented for tracking but never moves the pool. The
// clamped flag reports that some component would have gone negative, which
// callers log as a consistency warning rather than failing the batch.
func (c *Calculator) Refund(alloc leave.Allocations, usage leave.Allocations, pool float64) (newUsage leave.Allocations, newPool float64, clamped bool) {
	if usage.Paid < alloc.Paid || usage.Casual < alloc.Casual ||
		usage.Sick < alloc.Sick || usage.Unpaid < alloc.Unpaid || pool < 0 {
		clamped = true
	}

	newUsage = leave.Allocations{
		Paid:   clampZero(usage.Paid - alloc.Paid),
		Casual: clampZero(usage.Casual - alloc.Casual),
		Sick:   clampZero(usage.Sick - alloc.Sick),
		Unpaid: clampZero(usage.Unpaid - alloc.Unpaid),
	}
	newPool = clampZero(pool) + alloc.Typed()
	return newUsage, newPool, clamped
}

// Accrue adds one monthly accrual step to the pool, capped at the annual total.
func (c *Calculator) Accrue(pool float64, ratePerMonth float64, totalAnnual float64) float64 {
	accrued := clampZero(pool) + ratePerMonth
	if accrued > totalAnnual {
		accrued = totalAnnual
	}
	return accrued
}

func clampZero(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

func min3(a, b, c float64) float64 {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
