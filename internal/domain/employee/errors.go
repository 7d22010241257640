package employee

import "errors"

// Employee domain errors
var (
	ErrEmployeeNotFound  = errors.New("employee not found")
	ErrNoJoiningDate     = errors.New("employee has no joining date")
	ErrEmployeeNotActive = errors.New("employee is not active")
)
