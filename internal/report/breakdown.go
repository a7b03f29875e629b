package report

import (
	"github.com/skinsight/dermascan/internal/domain/patient"
	"github.com/skinsight/dermascan/internal/domain/scan"
)

// ClassificationCount pairs a lesion classification with its scan count.
type ClassificationCount struct {
	Classification scan.Classification `json:"classification"`
	Label          string              `json:"label"`
	Count          int                 `json:"count"`
}

// ClassificationBreakdown counts scans per classification, in order of
// first occurrence. Scans with no classification count as unknown.
func ClassificationBreakdown(scans []*scan.SkinScan) []ClassificationCount {
	index := make(map[scan.Classification]int)
	out := make([]ClassificationCount, 0)

	for _, s := range scans {
		if s == nil {
			continue
		}
		c := s.Classification
		if c == "" {
			c = scan.ClassUnknown
		}
		i, ok := index[c]
		if !ok {
			i = len(out)
			index[c] = i
			out = append(out, ClassificationCount{Classification: c, Label: c.Label()})
		}
		out[i].Count++
	}
	return out
}

// GenderCount pairs a patient gender with its count.
type GenderCount struct {
	Gender patient.Gender `json:"gender"`
	Count  int            `json:"count"`
}

// Demographics counts patients per gender, in order of first occurrence.
func Demographics(patients []*patient.Patient) []GenderCount {
	index := make(map[patient.Gender]int)
	out := make([]GenderCount, 0)

	for _, p := range patients {
		if p == nil {
			continue
		}
		i, ok := index[p.Gender]
		if !ok {
			i = len(out)
			index[p.Gender] = i
			out = append(out, GenderCount{Gender: p.Gender})
		}
		out[i].Count++
	}
	return out
}
