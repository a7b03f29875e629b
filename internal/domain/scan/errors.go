package scan

import "errors"

var (
	ErrScanNotFound          = errors.New("scan not found")
	ErrImageURLRequired      = errors.New("image URL is required")
	ErrInvalidClassification = errors.New("invalid classification value")
	ErrInvalidRiskLevel      = errors.New("invalid risk level value")
	ErrInvalidConfidence     = errors.New("confidence score must be between 0 and 100")
)
