package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/skinsight/dermascan/internal/config"
	"github.com/skinsight/dermascan/internal/domain/patient"
	"github.com/skinsight/dermascan/internal/domain/scan"
	"github.com/skinsight/dermascan/internal/report"
)

func reportFixture(scans []*scan.SkinScan, patients []*patient.Patient) (*ReportService, *int) {
	limitSeen := new(int)
	scanRepo := &mockScanRepo{
		listAllFn: func(ctx context.Context, limit int) ([]*scan.SkinScan, error) {
			*limitSeen = limit
			return scans, nil
		},
	}
	patientRepo := &mockPatientRepo{
		listAllFn: func(ctx context.Context, limit int) ([]*patient.Patient, error) {
			return patients, nil
		},
	}

	cfg := config.ReportConfig{DefaultRangeDays: 30, MaxRecords: 500}
	return NewReportService(scanRepo, patientRepo, newTestAuditService(), testMetrics, cfg, zap.NewNop()), limitSeen
}

func fixtureScan(created time.Time, risk scan.RiskLevel, class scan.Classification, confidence float64) *scan.SkinScan {
	return &scan.SkinScan{
		ID:              uuid.New(),
		CreatedAt:       created,
		RiskLevel:       risk,
		Classification:  class,
		ConfidenceScore: confidence,
	}
}

func TestSummaryAppliesFiltersAndDefaults(t *testing.T) {
	now := time.Now()
	scans := []*scan.SkinScan{
		fixtureScan(now.AddDate(0, 0, -1), scan.RiskHigh, scan.ClassMelanoma, 80),
		fixtureScan(now.AddDate(0, 0, -2), scan.RiskLow, scan.ClassNevus, 90),
		// Outside the default 30 day window.
		fixtureScan(now.AddDate(0, 0, -45), scan.RiskCritical, scan.ClassMelanoma, 70),
	}
	patients := []*patient.Patient{
		{Gender: patient.GenderFemale},
		{Gender: patient.GenderMale},
	}

	svc, limitSeen := reportFixture(scans, patients)

	got, err := svc.Summary(context.Background(), ReportQuery{})
	require.NoError(t, err)

	assert.Equal(t, 500, *limitSeen, "fetch must honor the configured record cap")
	assert.Equal(t, 2, got.Stats.TotalScans, "the 45 day old scan falls outside the default window")
	assert.Equal(t, 2, got.Stats.TotalPatients)
	assert.Equal(t, 1, got.Stats.HighRiskCount)
	assert.Equal(t, 50, got.DetectionRate)
	assert.Equal(t, 1.0, got.ScansPerPatient)
	require.Len(t, got.Demographics, 2)
}

func TestSummaryRiskFilter(t *testing.T) {
	now := time.Now()
	scans := []*scan.SkinScan{
		fixtureScan(now.AddDate(0, 0, -1), scan.RiskHigh, scan.ClassMelanoma, 80),
		fixtureScan(now.AddDate(0, 0, -2), scan.RiskLow, scan.ClassNevus, 90),
	}

	svc, _ := reportFixture(scans, nil)

	got, err := svc.Summary(context.Background(), ReportQuery{RiskFilter: "high"})
	require.NoError(t, err)
	assert.Equal(t, 1, got.Stats.TotalScans)
	require.Len(t, got.Classifications, 1)
	assert.Equal(t, scan.ClassMelanoma, got.Classifications[0].Classification)
}

func TestTrendFromService(t *testing.T) {
	now := time.Now()
	scans := []*scan.SkinScan{
		fixtureScan(now.AddDate(0, 0, -1), scan.RiskCritical, scan.ClassMelanoma, 80),
		fixtureScan(now.AddDate(0, 0, -1), scan.RiskCritical, scan.ClassMelanoma, 85),
	}

	svc, _ := reportFixture(scans, nil)

	points, err := svc.Trend(context.Background(), ReportQuery{})
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, 100, points[0].Risk)
	assert.Equal(t, 2, points[0].Scans)
}

func TestExportCSVArtifact(t *testing.T) {
	now := time.Now()
	scans := []*scan.SkinScan{
		fixtureScan(now.AddDate(0, 0, -1), scan.RiskHigh, scan.ClassMelanoma, 80),
	}

	svc, _ := reportFixture(scans, nil)

	filename, data, err := svc.ExportCSV(context.Background(), ReportQuery{}, uuid.New(), "clinician", "10.0.0.1")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(filename, "dermascan-data-"), "filename = %q", filename)
	assert.True(t, strings.HasSuffix(filename, ".csv"))

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 2, "header plus one row")
	assert.Equal(t, "Date,Classification,Risk Level,Confidence Score,Body Location,Patient ID", lines[0])
	assert.Contains(t, lines[1], "melanoma")
}

func TestExportPDFArtifact(t *testing.T) {
	svc, _ := reportFixture(nil, nil)

	filename, data, err := svc.ExportPDF(context.Background(), ReportQuery{
		Range: report.DateRange{
			Start: time.Now().AddDate(0, 0, -7),
			End:   time.Now(),
		},
	}, uuid.New(), "clinician", "10.0.0.1")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(filename, "dermascan-report-"))
	assert.True(t, strings.HasSuffix(filename, ".pdf"))
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))
}
