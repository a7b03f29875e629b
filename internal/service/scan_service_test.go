package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/skinsight/dermascan/internal/domain/scan"
	"github.com/skinsight/dermascan/internal/inference"
)

type mockUploader struct {
	uploadFn func(ctx context.Context, filename string, file io.Reader, size int64) (string, error)
}

func (m *mockUploader) Upload(ctx context.Context, filename string, file io.Reader, size int64) (string, error) {
	return m.uploadFn(ctx, filename, file, size)
}

type mockAnalyzer struct {
	invokeFn func(ctx context.Context, prompt string, fileURLs []string) (*inference.Result, error)
}

func (m *mockAnalyzer) Invoke(ctx context.Context, prompt string, fileURLs []string) (*inference.Result, error) {
	return m.invokeFn(ctx, prompt, fileURLs)
}

func analyzeCmd() *AnalyzeCommand {
	return &AnalyzeCommand{
		Filename:     "lesion.jpg",
		File:         strings.NewReader("fake image bytes"),
		Size:         16,
		BodyLocation: "Back",
		Notes:        "itchy for two weeks",
		CreatedBy:    uuid.New(),
	}
}

func TestAnalyzeHappyPath(t *testing.T) {
	var steps []string

	repo := &mockScanRepo{
		createFn: func(ctx context.Context, s *scan.SkinScan) error {
			steps = append(steps, "persist")
			s.ID = uuid.New()
			return nil
		},
	}
	uploader := &mockUploader{
		uploadFn: func(ctx context.Context, filename string, file io.Reader, size int64) (string, error) {
			steps = append(steps, "upload")
			return "https://files.test/abc.jpg", nil
		},
	}
	analyzer := &mockAnalyzer{
		invokeFn: func(ctx context.Context, prompt string, fileURLs []string) (*inference.Result, error) {
			steps = append(steps, "analyze")
			require.Equal(t, []string{"https://files.test/abc.jpg"}, fileURLs)
			assert.Contains(t, prompt, "Body Location: Back")
			assert.Contains(t, prompt, "itchy for two weeks")
			return &inference.Result{
				Classification:  scan.ClassMelanoma,
				ConfidenceScore: 87,
				RiskLevel:       scan.RiskHigh,
				Recommendations: []string{"Urgent biopsy recommended"},
			}, nil
		},
	}

	svc := NewScanService(repo, uploader, analyzer, newTestAuditService(), testMetrics, zap.NewNop())

	rec, err := svc.Analyze(context.Background(), analyzeCmd(), uuid.New(), "clinician", "10.0.0.1")
	require.NoError(t, err)

	assert.Equal(t, []string{"upload", "analyze", "persist"}, steps, "steps must run in order")
	assert.Equal(t, "https://files.test/abc.jpg", rec.ImageURL)
	assert.Equal(t, scan.ClassMelanoma, rec.Classification)
	assert.Equal(t, scan.RiskHigh, rec.RiskLevel)
	assert.Equal(t, "Back", rec.BodyLocation)
}

func TestAnalyzeUploadFailureAbortsFlow(t *testing.T) {
	analyzerCalled := false
	persisted := false

	repo := &mockScanRepo{
		createFn: func(ctx context.Context, s *scan.SkinScan) error {
			persisted = true
			return nil
		},
	}
	uploader := &mockUploader{
		uploadFn: func(ctx context.Context, filename string, file io.Reader, size int64) (string, error) {
			return "", errors.New("storage unreachable")
		},
	}
	analyzer := &mockAnalyzer{
		invokeFn: func(ctx context.Context, prompt string, fileURLs []string) (*inference.Result, error) {
			analyzerCalled = true
			return nil, nil
		},
	}

	svc := NewScanService(repo, uploader, analyzer, newTestAuditService(), testMetrics, zap.NewNop())

	_, err := svc.Analyze(context.Background(), analyzeCmd(), uuid.New(), "clinician", "10.0.0.1")
	require.Error(t, err)
	assert.False(t, analyzerCalled, "analysis must not run after a failed upload")
	assert.False(t, persisted, "nothing may be persisted after a failed upload")
}

func TestAnalyzeInferenceFailureLeavesNoRecord(t *testing.T) {
	persisted := false

	repo := &mockScanRepo{
		createFn: func(ctx context.Context, s *scan.SkinScan) error {
			persisted = true
			return nil
		},
	}
	uploader := &mockUploader{
		uploadFn: func(ctx context.Context, filename string, file io.Reader, size int64) (string, error) {
			return "https://files.test/abc.jpg", nil
		},
	}
	analyzer := &mockAnalyzer{
		invokeFn: func(ctx context.Context, prompt string, fileURLs []string) (*inference.Result, error) {
			return nil, inference.ErrUnavailable
		},
	}

	svc := NewScanService(repo, uploader, analyzer, newTestAuditService(), testMetrics, zap.NewNop())

	_, err := svc.Analyze(context.Background(), analyzeCmd(), uuid.New(), "clinician", "10.0.0.1")
	require.Error(t, err)
	assert.ErrorIs(t, err, inference.ErrUnavailable)
	assert.False(t, persisted, "a failed analysis must leave no partial record")
}

func TestAnalyzeRequiresImage(t *testing.T) {
	svc := NewScanService(&mockScanRepo{}, &mockUploader{}, &mockAnalyzer{}, newTestAuditService(), testMetrics, zap.NewNop())

	cmd := analyzeCmd()
	cmd.File = nil

	_, err := svc.Analyze(context.Background(), cmd, uuid.New(), "clinician", "10.0.0.1")

	var validErr *ValidationError
	require.ErrorAs(t, err, &validErr)
}

func TestListScansClampsPagination(t *testing.T) {
	var captured *scan.ListScansQuery
	repo := &mockScanRepo{
		listFn: func(ctx context.Context, q *scan.ListScansQuery) (*scan.PagedScans, error) {
			captured = q
			return &scan.PagedScans{}, nil
		},
	}

	svc := NewScanService(repo, &mockUploader{}, &mockAnalyzer{}, newTestAuditService(), testMetrics, zap.NewNop())

	_, err := svc.ListScans(context.Background(), &scan.ListScansQuery{Page: -1, PageSize: 10_000})
	require.NoError(t, err)
	assert.Equal(t, 1, captured.Page)
	assert.Equal(t, 20, captured.PageSize)
}
