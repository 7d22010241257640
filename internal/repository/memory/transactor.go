package memory

import (
	"context"
	"sync"
)

// Transactor implements database.Transactor for the in-memory repositories:
// it snapshots every map before fn runs and restores them when fn fails,
// mirroring a database rollback.
type Transactor struct {
	mu        sync.Mutex
	employees *EmployeeRepository
	leaves    *LeaveRepository
	penalties *PenaltyRepository
}

func NewTransactor(employees *EmployeeRepository, leaves *LeaveRepository, penalties *PenaltyRepository) *Transactor {
	return &Transactor{employees: employees, leaves: leaves, penalties: penalties}
}

func (t *Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	empSnap := t.employees.snapshot()
	leaveSnap := t.leaves.snapshot()
	penaltySnap := t.penalties.snapshot()

	if err := fn(ctx); err != nil {
		t.employees.restore(empSnap)
		t.leaves.restore(leaveSnap)
		t.penalties.restore(penaltySnap)
		return err
	}
	return nil
}
