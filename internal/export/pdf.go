package export

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/skinsight/dermascan/internal/report"
)

// ToPDF renders the clinical report document: title, report period,
// generation timestamp, the summary statistics, and the risk distribution
// with per-level percentages. Percentages share the zero guards of the
// aggregation stage.
func ToPDF(stats report.Stats, r report.DateRange, generatedAt time.Time) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	// Title
	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetTextColor(30, 58, 138)
	pdf.Text(20, 20, "DermaScan - Clinical Report")

	// Date range
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(100, 100, 100)
	pdf.Text(20, 30, fmt.Sprintf("Report Period: %s - %s",
		r.Start.Format("Jan 2, 2006"), r.End.Format("Jan 2, 2006")))
	pdf.Text(20, 35, "Generated: "+generatedAt.Format("Jan 2, 2006 3:04 PM"))

	// Summary statistics
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(0, 0, 0)
	pdf.Text(20, 50, "Summary Statistics")

	pdf.SetFont("Helvetica", "", 11)
	y := 60.0
	summary := []string{
		fmt.Sprintf("Total Scans: %d", stats.TotalScans),
		fmt.Sprintf("Total Patients: %d", stats.TotalPatients),
		fmt.Sprintf("Average Confidence: %d%%", stats.AvgConfidence),
		fmt.Sprintf("High Risk Detections: %d", stats.HighRiskCount),
		fmt.Sprintf("Low Risk Detections: %d", stats.LowRiskCount),
	}
	for _, line := range summary {
		pdf.Text(25, y, line)
		y += 7
	}

	// Risk distribution
	y += 10
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Text(20, y, "Risk Distribution")
	y += 10

	pdf.SetFont("Helvetica", "", 11)
	levels := []struct {
		label string
		count int
	}{
		{"Low Risk", stats.RiskDistribution.Low},
		{"Moderate Risk", stats.RiskDistribution.Moderate},
		{"High Risk", stats.RiskDistribution.High},
		{"Critical Risk", stats.RiskDistribution.Critical},
	}
	for _, lv := range levels {
		pct := report.Percentage(lv.count, stats.TotalScans)
		pdf.Text(25, y, fmt.Sprintf("%s: %d (%s%%)",
			lv.label, lv.count, strconv.FormatFloat(pct, 'f', 1, 64)))
		y += 7
	}

	// Footer
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(150, 150, 150)
	pdf.Text(20, 280, "This report is generated for medical analysis purposes only.")
	pdf.Text(20, 285, fmt.Sprintf("DermaScan (c) %d", generatedAt.Year()))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering pdf: %w", err)
	}
	return buf.Bytes(), nil
}
