package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/skinsight/dermascan/internal/domain/scan"
	"github.com/skinsight/dermascan/internal/inference"
	"github.com/skinsight/dermascan/pkg/metrics"
)

// Uploader is the file storage collaborator.
type Uploader interface {
	Upload(ctx context.Context, filename string, file io.Reader, size int64) (string, error)
}

// Analyzer is the lesion-classification collaborator.
type Analyzer interface {
	Invoke(ctx context.Context, prompt string, fileURLs []string) (*inference.Result, error)
}

type ScanService struct {
	repo     scan.Repository
	uploader Uploader
	analyzer Analyzer
	auditSvc *AuditService
	metrics  *metrics.Collector
	log      *zap.Logger
}

func NewScanService(repo scan.Repository, uploader Uploader, analyzer Analyzer, auditSvc *AuditService, m *metrics.Collector, log *zap.Logger) *ScanService {
	return &ScanService{
		repo:     repo,
		uploader: uploader,
		analyzer: analyzer,
		auditSvc: auditSvc,
		metrics:  m,
		log:      log,
	}
}

type AnalyzeCommand struct {
	PatientID    *uuid.UUID
	Filename     string
	File         io.Reader
	Size         int64
	BodyLocation string
	Notes        string
	CreatedBy    uuid.UUID
}

// Analyze runs the capture flow: upload the image, invoke the
// classification collaborator, persist the result. The three steps are
// strictly sequential and a failure at any step aborts the rest; because
// persistence is last, a failed flow leaves no partial record behind.
// There is no retry.
func (s *ScanService) Analyze(ctx context.Context, cmd *AnalyzeCommand, callerID uuid.UUID, callerRole string, ip string) (*scan.SkinScan, error) {
	if cmd.File == nil || cmd.Filename == "" {
		return nil, &ValidationError{Fields: []string{"image file is required"}}
	}

	fileURL, err := s.uploader.Upload(ctx, cmd.Filename, cmd.File, cmd.Size)
	if err != nil {
		s.log.Error("image upload failed", zap.Error(err))
		return nil, fmt.Errorf("uploading image: %w", err)
	}
	s.metrics.UploadBytesTotal.Add(float64(cmd.Size))

	prompt := inference.BuildPrompt(cmd.BodyLocation, cmd.Notes)

	start := time.Now()
	result, err := s.analyzer.Invoke(ctx, prompt, []string{fileURL})
	if err != nil {
		s.metrics.InferenceFailures.Inc()
		s.log.Error("lesion analysis failed", zap.Error(err), zap.String("image_url", fileURL))
		return nil, fmt.Errorf("analyzing image: %w", err)
	}
	s.metrics.InferenceDuration.Observe(time.Since(start).Seconds())

	rec := &scan.SkinScan{
		PatientID:       cmd.PatientID,
		ImageURL:        fileURL,
		Classification:  result.Classification,
		ConfidenceScore: result.ConfidenceScore,
		RiskLevel:       result.RiskLevel,
		AnalysisDetails: result.AnalysisDetails,
		Recommendations: result.Recommendations,
		BodyLocation:    cmd.BodyLocation,
		Notes:           cmd.Notes,
		CreatedBy:       cmd.CreatedBy,
	}

	if err := s.repo.Create(ctx, rec); err != nil {
		s.log.Error("failed to persist scan", zap.Error(err))
		return nil, fmt.Errorf("saving scan: %w", err)
	}

	s.metrics.ScansAnalyzedTotal.WithLabelValues(string(rec.RiskLevel)).Inc()
	if rec.RiskLevel.IsElevated() {
		s.metrics.HighRiskDetections.Inc()
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		UserRole:     callerRole,
		Action:       "analyze",
		ResourceType: "scan",
		ResourceID:   rec.ID.String(),
		IPAddress:    ip,
	})

	s.log.Info("scan analyzed",
		zap.String("scan_id", rec.ID.String()),
		zap.String("classification", string(rec.Classification)),
		zap.String("risk_level", string(rec.RiskLevel)),
	)

	return rec, nil
}

func (s *ScanService) GetScan(ctx context.Context, id uuid.UUID, callerID uuid.UUID, callerRole string, ip string) (*scan.SkinScan, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		UserRole:     callerRole,
		Action:       "read",
		ResourceType: "scan",
		ResourceID:   id.String(),
		IPAddress:    ip,
	})

	return rec, nil
}

func (s *ScanService) DeleteScan(ctx context.Context, id uuid.UUID, callerID uuid.UUID, callerRole string, ip string) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		UserRole:     callerRole,
		Action:       "delete",
		ResourceType: "scan",
		ResourceID:   id.String(),
		IPAddress:    ip,
	})

	return nil
}

func (s *ScanService) ListScans(ctx context.Context, q *scan.ListScansQuery) (*scan.PagedScans, error) {
	if q.PageSize <= 0 || q.PageSize > 100 {
		q.PageSize = 20
	}
	if q.Page <= 0 {
		q.Page = 1
	}

	return s.repo.List(ctx, q)
}
