// Package export serializes filtered scan sets and their summary
// statistics into downloadable artifacts.
package export

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/skinsight/dermascan/internal/domain/scan"
)

var csvHeader = []string{"Date", "Classification", "Risk Level", "Confidence Score", "Body Location", "Patient ID"}

// ToCSV renders one row per scan in input order, preceded by the header
// row. Missing body locations and patient references render as N/A.
// Fields containing delimiters are quoted by the encoder.
func ToCSV(scans []*scan.SkinScan) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	if err := w.Write(csvHeader); err != nil {
		return "", fmt.Errorf("writing header: %w", err)
	}

	for _, s := range scans {
		if s == nil {
			continue
		}
		bodyLocation := s.BodyLocation
		if bodyLocation == "" {
			bodyLocation = "N/A"
		}
		patientID := "N/A"
		if s.PatientID != nil {
			patientID = s.PatientID.String()
		}

		row := []string{
			s.CreatedAt.Format("2006-01-02 15:04"),
			string(s.Classification),
			string(s.RiskLevel),
			strconv.FormatFloat(s.ConfidenceScore, 'f', -1, 64),
			bodyLocation,
			patientID,
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("writing row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flushing csv: %w", err)
	}
	return sb.String(), nil
}
