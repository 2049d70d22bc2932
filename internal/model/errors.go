package model

import "errors"

// Common errors used across the application
var (
	// Record errors
	ErrRecordNotFound = errors.New("credential record not found")
	ErrRecordExists   = errors.New("credential record already exists")

	// Pre-login policy errors
	ErrReservedNicknamePrefix = errors.New("nickname uses a reserved prefix")

	// Reconciliation errors
	ErrReconcileUpdate = errors.New("failed to persist reconciled identity")
)
