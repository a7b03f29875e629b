package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/skinsight/dermascan/internal/report"
)

func TestToPDFProducesDocument(t *testing.T) {
	stats := report.Stats{
		TotalScans:    10,
		TotalPatients: 4,
		AvgConfidence: 86,
		HighRiskCount: 3,
		LowRiskCount:  5,
		RiskDistribution: report.RiskDistribution{
			Low: 5, Moderate: 2, High: 2, Critical: 1,
		},
	}
	r := report.DateRange{
		Start: time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
	}

	data, err := ToPDF(stats, r, time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("ToPDF returned error: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("ToPDF returned empty document")
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Errorf("output does not start with a PDF header: %q", data[:8])
	}
}

func TestToPDFEmptyStats(t *testing.T) {
	r := report.DateRange{
		Start: time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
	}

	// Zero scans must not divide by zero in the percentage lines.
	data, err := ToPDF(report.Stats{}, r, time.Now())
	if err != nil {
		t.Fatalf("ToPDF returned error on empty stats: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("ToPDF returned empty document")
	}
}
