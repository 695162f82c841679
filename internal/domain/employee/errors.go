package employee

import "errors"

var (
	ErrNotFound        = errors.New("employee not found")
	ErrSalaryNotFound  = errors.New("salary structure not found")
	ErrEmailExists     = errors.New("employee with this email already exists")
	ErrAlreadyInactive = errors.New("employee already inactive")
	ErrInvalidInput    = errors.New("invalid employee input")
)
