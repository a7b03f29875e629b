package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/skinsight/dermascan/internal/domain/patient"
)

func validCreateCommand() *patient.CreatePatientCommand {
	return &patient.CreatePatientCommand{
		FullName:    "Jane Doe",
		DateOfBirth: time.Date(1985, time.July, 12, 0, 0, 0, 0, time.UTC),
		Gender:      patient.GenderFemale,
		Email:       "  Jane.Doe@Example.com ",
		CreatedBy:   uuid.New(),
	}
}

func TestCreatePatient(t *testing.T) {
	var created *patient.Patient
	repo := &mockPatientRepo{
		createFn: func(ctx context.Context, p *patient.Patient) error {
			p.ID = uuid.New()
			created = p
			return nil
		},
	}

	svc := NewPatientService(repo, newTestAuditService(), testMetrics, zap.NewNop())

	p, err := svc.CreatePatient(context.Background(), validCreateCommand(), uuid.New(), "clinician", "10.0.0.1")
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "Jane Doe", p.FullName)
	assert.Equal(t, "jane.doe@example.com", p.Email, "email must be normalized before storage")
}

func TestCreatePatientValidation(t *testing.T) {
	svc := NewPatientService(&mockPatientRepo{}, newTestAuditService(), testMetrics, zap.NewNop())

	tests := []struct {
		name   string
		mutate func(cmd *patient.CreatePatientCommand)
		field  string
	}{
		{"missing name", func(cmd *patient.CreatePatientCommand) { cmd.FullName = "  " }, "full_name"},
		{"missing dob", func(cmd *patient.CreatePatientCommand) { cmd.DateOfBirth = time.Time{} }, "date_of_birth"},
		{"future dob", func(cmd *patient.CreatePatientCommand) { cmd.DateOfBirth = time.Now().AddDate(1, 0, 0) }, "date_of_birth"},
		{"bad gender", func(cmd *patient.CreatePatientCommand) { cmd.Gender = "robot" }, "gender"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := validCreateCommand()
			tt.mutate(cmd)

			_, err := svc.CreatePatient(context.Background(), cmd, uuid.New(), "clinician", "10.0.0.1")

			var validErr *ValidationError
			require.ErrorAs(t, err, &validErr)
			found := false
			for _, f := range validErr.Fields {
				if strings.Contains(f, tt.field) {
					found = true
				}
			}
			assert.True(t, found, "expected a %s error in %v", tt.field, validErr.Fields)
		})
	}
}

func TestUpdatePatientRejectsEmptyName(t *testing.T) {
	svc := NewPatientService(&mockPatientRepo{}, newTestAuditService(), testMetrics, zap.NewNop())

	empty := "   "
	_, err := svc.UpdatePatient(context.Background(), uuid.New(), &patient.UpdatePatientCommand{FullName: &empty}, uuid.New(), "clinician", "10.0.0.1")

	var validErr *ValidationError
	require.ErrorAs(t, err, &validErr)
}

func TestDeletePatientKeepsScans(t *testing.T) {
	deleted := false
	repo := &mockPatientRepo{
		softDeleteFn: func(ctx context.Context, id uuid.UUID) error {
			deleted = true
			return nil
		},
	}

	svc := NewPatientService(repo, newTestAuditService(), testMetrics, zap.NewNop())

	err := svc.DeletePatient(context.Background(), uuid.New(), uuid.New(), "clinician", "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestListPatientsClampsPagination(t *testing.T) {
	var captured *patient.ListPatientsQuery
	repo := &mockPatientRepo{
		listFn: func(ctx context.Context, q *patient.ListPatientsQuery) (*patient.PagedPatients, error) {
			captured = q
			return &patient.PagedPatients{}, nil
		},
	}

	svc := NewPatientService(repo, newTestAuditService(), testMetrics, zap.NewNop())

	_, err := svc.ListPatients(context.Background(), &patient.ListPatientsQuery{Page: 0, PageSize: 500})
	require.NoError(t, err)
	assert.Equal(t, 1, captured.Page)
	assert.Equal(t, 20, captured.PageSize)
}
