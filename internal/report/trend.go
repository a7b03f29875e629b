package report

import (
	"math"
	"sort"
	"time"

	"github.com/skinsight/dermascan/internal/domain/scan"
)

// MaxTrendBuckets caps the trend series at the most recent calendar days
// present in the data (not the most recent scans).
const MaxTrendBuckets = 14

// TrendPoint is one calendar-day bucket of the risk trend series. Risk is
// the day's ordinal average rescaled onto the 0-100 display axis.
type TrendPoint struct {
	Date  string `json:"date"`
	Risk  int    `json:"risk"`
	Scans int    `json:"scans"`
}

type trendBucket struct {
	day   int
	first time.Time
	total int
	count int
}

// Trend buckets scans by calendar day and averages their ordinal risk
// scores. The average is multiplied by 25 to land on the display scale
// (ordinal 1 -> 25, ordinal 4 -> 100); the literal x25 factor is kept for
// output compatibility with existing consumers. The series is chronological
// and truncated to the MaxTrendBuckets most recent days. Empty input yields
// an empty series.
func Trend(scans []*scan.SkinScan) []TrendPoint {
	byDay := make(map[int]*trendBucket)
	buckets := make([]*trendBucket, 0)

	for _, s := range scans {
		if s == nil {
			continue
		}
		key := dayKey(s.CreatedAt)
		b, ok := byDay[key]
		if !ok {
			b = &trendBucket{day: key, first: s.CreatedAt}
			byDay[key] = b
			buckets = append(buckets, b)
		}
		b.total += s.RiskLevel.Ordinal()
		b.count++
	}

	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].day < buckets[j].day
	})
	if len(buckets) > MaxTrendBuckets {
		buckets = buckets[len(buckets)-MaxTrendBuckets:]
	}

	points := make([]TrendPoint, 0, len(buckets))
	for _, b := range buckets {
		points = append(points, TrendPoint{
			Date:  b.first.Format("Jan 02"),
			Risk:  int(math.Round(float64(b.total) / float64(b.count) * 25)),
			Scans: b.count,
		})
	}
	return points
}
