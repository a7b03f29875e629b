package patient

import "errors"

var (
	ErrPatientNotFound    = errors.New("patient not found")
	ErrInvalidGender      = errors.New("invalid gender value")
	ErrInvalidDateOfBirth = errors.New("date of birth cannot be in the future")
	ErrFullNameRequired   = errors.New("full name is required")
)
