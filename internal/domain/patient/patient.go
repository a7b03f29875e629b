package patient

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

type Patient struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
	DeletedAt *time.Time `gorm:"index"` // Soft delete

	FullName            string    `gorm:"column:full_name;type:varchar(200);not null"`
	DateOfBirth         time.Time `gorm:"column:date_of_birth;not null"`
	Gender              Gender    `gorm:"column:gender;type:varchar(20);not null"`
	MedicalRecordNumber string    `gorm:"column:medical_record_number;type:varchar(50);index"`
	Phone               string    `gorm:"column:phone;type:varchar(20)"`
	Email               string    `gorm:"column:email;type:varchar(255)"`
	Notes               string    `gorm:"column:notes;type:text"` // PHI

	// Audit: who registered this patient
	CreatedBy uuid.UUID `gorm:"column:created_by;type:uuid;not null"`
}

func (Patient) TableName() string {
	return "clinical.patients"
}

func (p *Patient) Age() int {
	now := time.Now()
	years := now.Year() - p.DateOfBirth.Year()
	if now.Month() < p.DateOfBirth.Month() ||
		(now.Month() == p.DateOfBirth.Month() && now.Day() < p.DateOfBirth.Day()) {
		years--
	}
	return years
}

type CreatePatientCommand struct {
	FullName            string
	DateOfBirth         time.Time
	Gender              Gender
	MedicalRecordNumber string
	Phone               string
	Email               string
	Notes               string
	CreatedBy           uuid.UUID
}

type UpdatePatientCommand struct {
	FullName            *string
	DateOfBirth         *time.Time
	Gender              *Gender
	MedicalRecordNumber *string
	Phone               *string
	Email               *string
	Notes               *string
	UpdatedBy           uuid.UUID
}

// NormalizedEmail lowercases and trims the email for storage.
func (c *CreatePatientCommand) NormalizedEmail() string {
	return strings.ToLower(strings.TrimSpace(c.Email))
}

// ListPatientsQuery defines filtering and pagination for patient list queries.
type ListPatientsQuery struct {
	Search    string // Substring match on full name
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string // "asc" | "desc"
}

type PagedPatients struct {
	Patients   []*Patient
	TotalCount int64
	Page       int
	PageSize   int
	TotalPages int
}
