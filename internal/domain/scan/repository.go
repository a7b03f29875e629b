package scan

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Create persists a new scan record.
	Create(ctx context.Context, s *SkinScan) error

	// GetByID retrieves a scan by primary key. Returns ErrScanNotFound if not found.
	GetByID(ctx context.Context, id uuid.UUID) (*SkinScan, error)

	// SoftDelete marks the scan as deleted. Scans have no update path.
	SoftDelete(ctx context.Context, id uuid.UUID) error

	// List returns a paginated list of scans, newest first.
	List(ctx context.Context, q *ListScansQuery) (*PagedScans, error)

	// ListAll returns up to limit scans sorted by creation time descending,
	// for report aggregation.
	ListAll(ctx context.Context, limit int) ([]*SkinScan, error)
}
