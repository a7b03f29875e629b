// Package report implements the reporting pipeline: filtering scans by date
// range and clinical criteria, aggregating summary statistics, and bucketing
// the risk trend series. Every function here is pure; callers pass in a
// snapshot of already-fetched records and re-run the pipeline when the
// snapshot changes.
package report

import (
	"time"

	"github.com/skinsight/dermascan/internal/domain/scan"
)

// FilterAll is the sentinel that disables a categorical filter.
const FilterAll = "all"

// DateRange bounds a report query. Comparison is at day granularity,
// inclusive on both ends; time of day is ignored.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Filter returns the scans that fall inside the date range and match the
// risk and classification filters. Input order is preserved. A scan with a
// missing risk level or classification fails any filter that is not
// FilterAll for that field.
func Filter(scans []*scan.SkinScan, r DateRange, riskFilter, classFilter string) []*scan.SkinScan {
	start := dayKey(r.Start)
	end := dayKey(r.End)

	out := make([]*scan.SkinScan, 0, len(scans))
	for _, s := range scans {
		if s == nil {
			continue
		}
		day := dayKey(s.CreatedAt)
		if day < start || day > end {
			continue
		}
		if riskFilter != FilterAll && string(s.RiskLevel) != riskFilter {
			continue
		}
		if classFilter != FilterAll && string(s.Classification) != classFilter {
			continue
		}
		out = append(out, s)
	}
	return out
}

// dayKey collapses a timestamp to its calendar day, comparable with <.
func dayKey(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}
