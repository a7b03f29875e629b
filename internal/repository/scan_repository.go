package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skinsight/dermascan/internal/domain/scan"
)

type ScanRepository struct {
	db *gorm.DB
}

var _ scan.Repository = (*ScanRepository)(nil)

func NewScanRepository(db *gorm.DB) *ScanRepository {
	return &ScanRepository{db: db}
}

func (r *ScanRepository) Create(ctx context.Context, s *scan.SkinScan) error {
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		return fmt.Errorf("inserting scan: %w", err)
	}
	return nil
}

func (r *ScanRepository) GetByID(ctx context.Context, id uuid.UUID) (*scan.SkinScan, error) {
	var s scan.SkinScan
	err := r.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, scan.ErrScanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying scan: %w", err)
	}
	return &s, nil
}

func (r *ScanRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&scan.SkinScan{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Update("deleted_at", time.Now())
	if res.Error != nil {
		return fmt.Errorf("deleting scan: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return scan.ErrScanNotFound
	}
	return nil
}

func (r *ScanRepository) List(ctx context.Context, q *scan.ListScansQuery) (*scan.PagedScans, error) {
	tx := r.db.WithContext(ctx).
		Model(&scan.SkinScan{}).
		Where("deleted_at IS NULL")

	if q.PatientID != nil {
		tx = tx.Where("patient_id = ?", *q.PatientID)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("counting scans: %w", err)
	}

	var scans []*scan.SkinScan
	err := tx.Order("created_at DESC").
		Offset((q.Page - 1) * q.PageSize).
		Limit(q.PageSize).
		Find(&scans).Error
	if err != nil {
		return nil, fmt.Errorf("listing scans: %w", err)
	}

	return &scan.PagedScans{
		Scans:      scans,
		TotalCount: total,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: totalPages(total, q.PageSize),
	}, nil
}

func (r *ScanRepository) ListAll(ctx context.Context, limit int) ([]*scan.SkinScan, error) {
	var scans []*scan.SkinScan
	err := r.db.WithContext(ctx).
		Where("deleted_at IS NULL").
		Order("created_at DESC").
		Limit(limit).
		Find(&scans).Error
	if err != nil {
		return nil, fmt.Errorf("listing scans: %w", err)
	}
	return scans, nil
}
