package report

import (
	"math"

	"github.com/skinsight/dermascan/internal/domain/patient"
	"github.com/skinsight/dermascan/internal/domain/scan"
)

// RiskDistribution exposes the per-level counts as a nested record for
// percentage displays.
type RiskDistribution struct {
	Low      int `json:"low"`
	Moderate int `json:"moderate"`
	High     int `json:"high"`
	Critical int `json:"critical"`
}

// Stats is the fixed-shape summary derived from a (filtered) scan set.
type Stats struct {
	TotalScans        int              `json:"total_scans"`
	TotalPatients     int              `json:"total_patients"`
	AvgConfidence     int              `json:"avg_confidence"`
	HighRiskCount     int              `json:"high_risk_count"`
	LowRiskCount      int              `json:"low_risk_count"`
	ModerateRiskCount int              `json:"moderate_risk_count"`
	CriticalRiskCount int              `json:"critical_risk_count"`
	RiskDistribution  RiskDistribution `json:"risk_distribution"`
}

// Aggregate derives summary statistics from scans and patients. It never
// fails: an empty scan set yields zeroes, and absent confidence scores
// contribute zero to the average.
func Aggregate(scans []*scan.SkinScan, patients []*patient.Patient) Stats {
	st := Stats{
		TotalScans:    len(scans),
		TotalPatients: len(patients),
	}

	var confidenceSum float64
	for _, s := range scans {
		if s == nil {
			continue
		}
		confidenceSum += s.ConfidenceScore
		switch s.RiskLevel {
		case scan.RiskLow:
			st.LowRiskCount++
			st.RiskDistribution.Low++
		case scan.RiskModerate:
			st.ModerateRiskCount++
			st.RiskDistribution.Moderate++
		case scan.RiskHigh:
			st.HighRiskCount++
			st.RiskDistribution.High++
		case scan.RiskCritical:
			st.CriticalRiskCount++
			st.HighRiskCount++
			st.RiskDistribution.Critical++
		}
	}

	if st.TotalScans > 0 {
		st.AvgConfidence = int(math.Round(confidenceSum / float64(st.TotalScans)))
	}

	return st
}

// DetectionRate is the percentage of scans flagged high or critical risk,
// rounded to a whole number. Zero when there are no scans.
func (s Stats) DetectionRate() int {
	if s.TotalScans == 0 {
		return 0
	}
	return int(math.Round(float64(s.HighRiskCount) / float64(s.TotalScans) * 100))
}

// ScansPerPatient is the screening frequency, rounded to one decimal.
// Zero when there are no patients.
func (s Stats) ScansPerPatient() float64 {
	if s.TotalPatients == 0 {
		return 0
	}
	return round1(float64(s.TotalScans) / float64(s.TotalPatients))
}

// Percentage renders count as a share of total, rounded to one decimal.
// Total zero yields 0 rather than dividing.
func Percentage(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return round1(float64(count) / float64(total) * 100)
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
