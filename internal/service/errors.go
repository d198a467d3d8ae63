package service

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrInvalidInput       = errors.New("invalid input")
	ErrStaleBidVersion    = errors.New("bid version superseded, re-fetch the current version")
	ErrDuplicateActiveBid = errors.New("vendor already has an active bid on this ticket")
	ErrScheduleConflict   = errors.New("technician schedule conflict")
)
