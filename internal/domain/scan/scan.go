package scan

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Classification is the lesion-type label assigned by the inference collaborator.
type Classification string

const (
	ClassMelanoma              Classification = "melanoma"
	ClassNevus                 Classification = "nevus"
	ClassBenignKeratosis       Classification = "benign_keratosis"
	ClassBasalCellCarcinoma    Classification = "basal_cell_carcinoma"
	ClassActinicKeratosis      Classification = "actinic_keratosis"
	ClassDermatofibroma        Classification = "dermatofibroma"
	ClassVascularLesion        Classification = "vascular_lesion"
	ClassSquamousCellCarcinoma Classification = "squamous_cell_carcinoma"
	ClassUnknown               Classification = "unknown"
)

func (c Classification) IsValid() bool {
	switch c {
	case ClassMelanoma, ClassNevus, ClassBenignKeratosis, ClassBasalCellCarcinoma,
		ClassActinicKeratosis, ClassDermatofibroma, ClassVascularLesion,
		ClassSquamousCellCarcinoma, ClassUnknown:
		return true
	}
	return false
}

// Label renders the classification for display, e.g. "Basal Cell Carcinoma".
func (c Classification) Label() string {
	parts := strings.Split(string(c), "_")
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, " ")
}

// RiskLevel is the ordinal clinical severity bucket attached to a scan.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

func (r RiskLevel) IsValid() bool {
	switch r {
	case RiskLow, RiskModerate, RiskHigh, RiskCritical:
		return true
	}
	return false
}

// Ordinal maps the risk level onto the 1-4 scale used for averaging.
// Unknown values map to 1, the same contribution as low risk.
func (r RiskLevel) Ordinal() int {
	switch r {
	case RiskModerate:
		return 2
	case RiskHigh:
		return 3
	case RiskCritical:
		return 4
	default:
		return 1
	}
}

// IsElevated reports whether the level counts as a high-risk detection.
func (r RiskLevel) IsElevated() bool {
	return r == RiskHigh || r == RiskCritical
}

// AnalysisDetails holds the free-text ABCDE assessment from the collaborator.
type AnalysisDetails struct {
	Asymmetry string `json:"asymmetry"`
	Border    string `json:"border"`
	Color     string `json:"color"`
	Diameter  string `json:"diameter"`
	Evolution string `json:"evolution"`
}

// SkinScan is immutable once created; the only lifecycle operation besides
// creation is deletion. PatientID is a weak reference: it may be nil
// (unattributed scan) or dangle after the patient is deleted, and consumers
// must tolerate both.
type SkinScan struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index"`
	DeletedAt *time.Time `gorm:"index"`

	PatientID *uuid.UUID `gorm:"column:patient_id;type:uuid;index"`
	ImageURL  string     `gorm:"column:image_url;type:text;not null"`

	Classification  Classification `gorm:"column:classification;type:varchar(50);not null;index"`
	ConfidenceScore float64        `gorm:"column:confidence_score;not null"`
	RiskLevel       RiskLevel      `gorm:"column:risk_level;type:varchar(20);not null;index"`

	AnalysisDetails *AnalysisDetails `gorm:"column:analysis_details;serializer:json"`
	Recommendations []string         `gorm:"column:recommendations;serializer:json"`

	BodyLocation string `gorm:"column:body_location;type:varchar(50)"`
	Notes        string `gorm:"column:notes;type:text"` // PHI

	CreatedBy uuid.UUID `gorm:"column:created_by;type:uuid;not null"`
}

func (SkinScan) TableName() string {
	return "clinical.skin_scans"
}

// BodyLocations enumerates the locations offered during capture.
var BodyLocations = []string{
	"Head/Face", "Neck", "Chest", "Back", "Abdomen",
	"Upper Arm", "Lower Arm", "Hand", "Upper Leg", "Lower Leg", "Foot", "Other",
}

type CreateScanCommand struct {
	PatientID       *uuid.UUID
	ImageURL        string
	Classification  Classification
	ConfidenceScore float64
	RiskLevel       RiskLevel
	AnalysisDetails *AnalysisDetails
	Recommendations []string
	BodyLocation    string
	Notes           string
	CreatedBy       uuid.UUID
}

// ListScansQuery defines filtering and pagination for scan list queries.
type ListScansQuery struct {
	PatientID *uuid.UUID
	Page      int
	PageSize  int
	// Sorted by created_at descending; no other order is offered.
}

type PagedScans struct {
	Scans      []*SkinScan
	TotalCount int64
	Page       int
	PageSize   int
	TotalPages int
}
