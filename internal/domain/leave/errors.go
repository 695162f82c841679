package leave

import "errors"

var (
	ErrInvalidRange        = errors.New("to date cannot be before from date")
	ErrInvalidType         = errors.New("unknown leave type")
	ErrEmployeeNotFound    = errors.New("employee not found")
	ErrLedgerMissing       = errors.New("leave balance not initialized for year")
	ErrInsufficientBalance = errors.New("insufficient leave balance")
	ErrRequestNotFound     = errors.New("leave request not found")
	ErrAlreadyDecided      = errors.New("leave request already decided")
)
