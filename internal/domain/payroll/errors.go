package payroll

import "errors"

var (
	// ErrAlreadyGenerated guards the create-once contract: a payroll row is
	// immutable and never regenerated for the same employee/month.
	ErrAlreadyGenerated = errors.New("payroll already generated for this month")

	// ErrNotGenerated is the read-only miss; only GetOrGenerate may compute.
	ErrNotGenerated = errors.New("payroll not generated yet")
)
