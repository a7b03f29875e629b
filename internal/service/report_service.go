package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/skinsight/dermascan/internal/config"
	"github.com/skinsight/dermascan/internal/domain/patient"
	"github.com/skinsight/dermascan/internal/domain/scan"
	"github.com/skinsight/dermascan/internal/export"
	"github.com/skinsight/dermascan/internal/report"
	"github.com/skinsight/dermascan/pkg/metrics"
)

type ReportService struct {
	scans    scan.Repository
	patients patient.Repository
	auditSvc *AuditService
	metrics  *metrics.Collector
	cfg      config.ReportConfig
	log      *zap.Logger
}

func NewReportService(scans scan.Repository, patients patient.Repository, auditSvc *AuditService, m *metrics.Collector, cfg config.ReportConfig, log *zap.Logger) *ReportService {
	return &ReportService{
		scans:    scans,
		patients: patients,
		auditSvc: auditSvc,
		metrics:  m,
		cfg:      cfg,
		log:      log,
	}
}

// ReportQuery carries the filter criteria for one report run. Zero values
// are normalized: an empty range defaults to the configured lookback
// window and empty filters pass everything.
type ReportQuery struct {
	Range                report.DateRange
	RiskFilter           string
	ClassificationFilter string
}

func (s *ReportService) normalize(q ReportQuery) ReportQuery {
	if q.Range.Start.IsZero() || q.Range.End.IsZero() {
		now := time.Now()
		q.Range = report.DateRange{
			Start: now.AddDate(0, 0, -s.cfg.DefaultRangeDays),
			End:   now,
		}
	}
	if q.RiskFilter == "" {
		q.RiskFilter = report.FilterAll
	}
	if q.ClassificationFilter == "" {
		q.ClassificationFilter = report.FilterAll
	}
	return q
}

// snapshot fetches the records one pipeline run operates on. The pipeline
// itself is pure; a re-fetch simply means a re-run on the new snapshot.
func (s *ReportService) snapshot(ctx context.Context, q ReportQuery) ([]*scan.SkinScan, []*patient.Patient, ReportQuery, error) {
	q = s.normalize(q)

	allScans, err := s.scans.ListAll(ctx, s.cfg.MaxRecords)
	if err != nil {
		return nil, nil, q, fmt.Errorf("fetching scans: %w", err)
	}
	patients, err := s.patients.ListAll(ctx, s.cfg.MaxRecords)
	if err != nil {
		return nil, nil, q, fmt.Errorf("fetching patients: %w", err)
	}

	filtered := report.Filter(allScans, q.Range, q.RiskFilter, q.ClassificationFilter)
	return filtered, patients, q, nil
}

// Summary is the full statistics payload for the reports page.
type Summary struct {
	Stats           report.Stats                 `json:"stats"`
	DetectionRate   int                          `json:"detection_rate"`
	ScansPerPatient float64                      `json:"scans_per_patient"`
	Classifications []report.ClassificationCount `json:"classifications"`
	Demographics    []report.GenderCount         `json:"demographics"`
}

func (s *ReportService) Summary(ctx context.Context, q ReportQuery) (*Summary, error) {
	filtered, patients, _, err := s.snapshot(ctx, q)
	if err != nil {
		return nil, err
	}

	stats := report.Aggregate(filtered, patients)
	return &Summary{
		Stats:           stats,
		DetectionRate:   stats.DetectionRate(),
		ScansPerPatient: stats.ScansPerPatient(),
		Classifications: report.ClassificationBreakdown(filtered),
		Demographics:    report.Demographics(patients),
	}, nil
}

func (s *ReportService) Trend(ctx context.Context, q ReportQuery) ([]report.TrendPoint, error) {
	filtered, _, _, err := s.snapshot(ctx, q)
	if err != nil {
		return nil, err
	}
	return report.Trend(filtered), nil
}

// ExportCSV renders the filtered scan set as CSV and returns the artifact
// with its suggested filename.
func (s *ReportService) ExportCSV(ctx context.Context, q ReportQuery, callerID uuid.UUID, callerRole string, ip string) (string, []byte, error) {
	filtered, _, _, err := s.snapshot(ctx, q)
	if err != nil {
		return "", nil, err
	}

	data, err := export.ToCSV(filtered)
	if err != nil {
		return "", nil, fmt.Errorf("rendering csv: %w", err)
	}

	s.metrics.ReportsExportedTotal.WithLabelValues("csv").Inc()
	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		UserRole:     callerRole,
		Action:       "export",
		ResourceType: "report",
		ResourceID:   "csv",
		IPAddress:    ip,
	})

	filename := fmt.Sprintf("dermascan-data-%s.csv", time.Now().Format("2006-01-02"))
	return filename, []byte(data), nil
}

// ExportPDF renders the summary statistics of the filtered scan set as the
// clinical report document.
func (s *ReportService) ExportPDF(ctx context.Context, q ReportQuery, callerID uuid.UUID, callerRole string, ip string) (string, []byte, error) {
	filtered, patients, nq, err := s.snapshot(ctx, q)
	if err != nil {
		return "", nil, err
	}

	stats := report.Aggregate(filtered, patients)
	data, err := export.ToPDF(stats, nq.Range, time.Now())
	if err != nil {
		return "", nil, fmt.Errorf("rendering pdf: %w", err)
	}

	s.metrics.ReportsExportedTotal.WithLabelValues("pdf").Inc()
	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		UserRole:     callerRole,
		Action:       "export",
		ResourceType: "report",
		ResourceID:   "pdf",
		IPAddress:    ip,
	})

	filename := fmt.Sprintf("dermascan-report-%s.pdf", time.Now().Format("2006-01-02"))
	return filename, data, nil
}
