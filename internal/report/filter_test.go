package report

import (
	"testing"
	"time"

	"github.com/skinsight/dermascan/internal/domain/scan"
)

func mkScan(created time.Time, risk scan.RiskLevel, class scan.Classification, confidence float64) *scan.SkinScan {
	return &scan.SkinScan{
		CreatedAt:       created,
		RiskLevel:       risk,
		Classification:  class,
		ConfidenceScore: confidence,
	}
}

func day(yyyy int, mm time.Month, dd int) time.Time {
	return time.Date(yyyy, mm, dd, 0, 0, 0, 0, time.UTC)
}

func TestFilterDateRangeInclusive(t *testing.T) {
	r := DateRange{Start: day(2026, time.March, 10), End: day(2026, time.March, 20)}

	scans := []*scan.SkinScan{
		mkScan(day(2026, time.March, 9), scan.RiskLow, scan.ClassNevus, 90),
		mkScan(time.Date(2026, time.March, 10, 23, 59, 0, 0, time.UTC), scan.RiskLow, scan.ClassNevus, 90),
		mkScan(day(2026, time.March, 15), scan.RiskLow, scan.ClassNevus, 90),
		mkScan(time.Date(2026, time.March, 20, 0, 0, 1, 0, time.UTC), scan.RiskLow, scan.ClassNevus, 90),
		mkScan(day(2026, time.March, 21), scan.RiskLow, scan.ClassNevus, 90),
	}

	got := Filter(scans, r, FilterAll, FilterAll)
	if len(got) != 3 {
		t.Fatalf("expected 3 scans inside the range, got %d", len(got))
	}
	// Both boundary days survive regardless of time of day.
	if !got[0].CreatedAt.Equal(scans[1].CreatedAt) || !got[2].CreatedAt.Equal(scans[3].CreatedAt) {
		t.Errorf("boundary days were not included: %v", got)
	}
}

func TestFilterByRiskAndClassification(t *testing.T) {
	r := DateRange{Start: day(2026, time.January, 1), End: day(2026, time.December, 31)}
	scans := []*scan.SkinScan{
		mkScan(day(2026, time.June, 1), scan.RiskHigh, scan.ClassMelanoma, 80),
		mkScan(day(2026, time.June, 2), scan.RiskLow, scan.ClassNevus, 95),
		mkScan(day(2026, time.June, 3), scan.RiskHigh, scan.ClassNevus, 70),
		mkScan(day(2026, time.June, 4), scan.RiskCritical, scan.ClassMelanoma, 88),
	}

	tests := []struct {
		name  string
		risk  string
		class string
		want  int
	}{
		{"all pass through", FilterAll, FilterAll, 4},
		{"risk only", "high", FilterAll, 2},
		{"classification only", FilterAll, "melanoma", 2},
		{"both must match", "high", "melanoma", 1},
		{"no match", "moderate", FilterAll, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(scans, r, tt.risk, tt.class)
			if len(got) != tt.want {
				t.Errorf("Filter(%q, %q) returned %d scans, want %d", tt.risk, tt.class, len(got), tt.want)
			}
		})
	}
}

func TestFilterMissingFieldsFailNonAllFilters(t *testing.T) {
	r := DateRange{Start: day(2026, time.January, 1), End: day(2026, time.December, 31)}
	scans := []*scan.SkinScan{
		mkScan(day(2026, time.June, 1), "", "", 0),
	}

	if got := Filter(scans, r, "low", FilterAll); len(got) != 0 {
		t.Errorf("scan with missing risk level passed the risk filter")
	}
	if got := Filter(scans, r, FilterAll, "nevus"); len(got) != 0 {
		t.Errorf("scan with missing classification passed the classification filter")
	}
	if got := Filter(scans, r, FilterAll, FilterAll); len(got) != 1 {
		t.Errorf("scan with missing fields should pass when both filters are %q", FilterAll)
	}
}

func TestFilterPreservesOrderAndSkipsNil(t *testing.T) {
	r := DateRange{Start: day(2026, time.January, 1), End: day(2026, time.December, 31)}
	a := mkScan(day(2026, time.June, 3), scan.RiskLow, scan.ClassNevus, 90)
	b := mkScan(day(2026, time.June, 1), scan.RiskLow, scan.ClassNevus, 90)
	c := mkScan(day(2026, time.June, 2), scan.RiskLow, scan.ClassNevus, 90)

	got := Filter([]*scan.SkinScan{a, nil, b, c}, r, FilterAll, FilterAll)
	if len(got) != 3 {
		t.Fatalf("expected 3 scans, got %d", len(got))
	}
	if got[0] != a || got[1] != b || got[2] != c {
		t.Errorf("input order was not preserved")
	}
}

func TestFilterIdempotent(t *testing.T) {
	r := DateRange{Start: day(2026, time.March, 10), End: day(2026, time.March, 20)}
	scans := []*scan.SkinScan{
		mkScan(day(2026, time.March, 9), scan.RiskLow, scan.ClassNevus, 90),
		mkScan(day(2026, time.March, 12), scan.RiskHigh, scan.ClassMelanoma, 80),
		mkScan(day(2026, time.March, 15), scan.RiskHigh, scan.ClassNevus, 85),
	}

	once := Filter(scans, r, "high", FilterAll)
	twice := Filter(once, r, "high", FilterAll)

	if len(once) != len(twice) {
		t.Fatalf("second application changed the result: %d != %d", len(once), len(twice))
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Errorf("element %d differs after re-filtering", i)
		}
	}
}

func TestFilterEmptyInput(t *testing.T) {
	r := DateRange{Start: day(2026, time.January, 1), End: day(2026, time.December, 31)}
	if got := Filter(nil, r, FilterAll, FilterAll); len(got) != 0 {
		t.Errorf("nil input should yield an empty result")
	}
}
