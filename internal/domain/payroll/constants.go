package payroll

const (
	StatusGenerated = "GENERATED"
	StatusPaid      = "PAID"

	// Leave days absorbed by the employer each month before loss-of-pay
	// deductions start.
	FreeLeaveDaysPerMonth = 2
)
