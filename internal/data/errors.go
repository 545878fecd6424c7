package data

import "errors"

// Shared sentinel errors for data-layer repositories.
var (
	// Account repository sentinels.
	ErrAccountNotFound    = errors.New("account not found")
	ErrAccountEmailExists = errors.New("account email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")

	// Document repository sentinels.
	ErrDocumentNotFound = errors.New("document not found")
)
