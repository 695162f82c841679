package leave

const (
	TypePTO  = "PTO"
	TypeCLSL = "CL_SL"

	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)
