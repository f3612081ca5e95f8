package lead

import "errors"

var (
	ErrNotFound          = errors.New("lead not found")
	ErrInvalidStatus     = errors.New("unknown status")
	ErrInvalidTransition = errors.New("illegal status transition")
	ErrNotCallOperator   = errors.New("target user is not an active call operator")
	ErrNotTechnician     = errors.New("target user is not an active technician")
	ErrAlreadyAssigned   = errors.New("lead already has a call operator")
)
