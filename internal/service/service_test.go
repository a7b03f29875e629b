package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/skinsight/dermascan/internal/domain"
	"github.com/skinsight/dermascan/internal/domain/patient"
	"github.com/skinsight/dermascan/internal/domain/scan"
	"github.com/skinsight/dermascan/pkg/metrics"
)

// One collector per test binary; prometheus panics on duplicate registration.
var testMetrics = metrics.NewCollector("dermascan_test")

func newTestAuditService() *AuditService {
	return NewAuditService(&mockAuditRepo{}, testMetrics, zap.NewNop())
}

type mockAuditRepo struct {
	mu      sync.Mutex
	entries []*domain.AuditLog
}

func (m *mockAuditRepo) Create(ctx context.Context, entry *domain.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

type mockScanRepo struct {
	createFn     func(ctx context.Context, s *scan.SkinScan) error
	getByIDFn    func(ctx context.Context, id uuid.UUID) (*scan.SkinScan, error)
	softDeleteFn func(ctx context.Context, id uuid.UUID) error
	listFn       func(ctx context.Context, q *scan.ListScansQuery) (*scan.PagedScans, error)
	listAllFn    func(ctx context.Context, limit int) ([]*scan.SkinScan, error)
}

var _ scan.Repository = (*mockScanRepo)(nil)

func (m *mockScanRepo) Create(ctx context.Context, s *scan.SkinScan) error {
	return m.createFn(ctx, s)
}

func (m *mockScanRepo) GetByID(ctx context.Context, id uuid.UUID) (*scan.SkinScan, error) {
	return m.getByIDFn(ctx, id)
}

func (m *mockScanRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return m.softDeleteFn(ctx, id)
}

func (m *mockScanRepo) List(ctx context.Context, q *scan.ListScansQuery) (*scan.PagedScans, error) {
	return m.listFn(ctx, q)
}

func (m *mockScanRepo) ListAll(ctx context.Context, limit int) ([]*scan.SkinScan, error) {
	return m.listAllFn(ctx, limit)
}

type mockPatientRepo struct {
	createFn     func(ctx context.Context, p *patient.Patient) error
	getByIDFn    func(ctx context.Context, id uuid.UUID) (*patient.Patient, error)
	updateFn     func(ctx context.Context, id uuid.UUID, cmd *patient.UpdatePatientCommand) (*patient.Patient, error)
	softDeleteFn func(ctx context.Context, id uuid.UUID) error
	listFn       func(ctx context.Context, q *patient.ListPatientsQuery) (*patient.PagedPatients, error)
	listAllFn    func(ctx context.Context, limit int) ([]*patient.Patient, error)
}

var _ patient.Repository = (*mockPatientRepo)(nil)

func (m *mockPatientRepo) Create(ctx context.Context, p *patient.Patient) error {
	return m.createFn(ctx, p)
}

func (m *mockPatientRepo) GetByID(ctx context.Context, id uuid.UUID) (*patient.Patient, error) {
	return m.getByIDFn(ctx, id)
}

func (m *mockPatientRepo) Update(ctx context.Context, id uuid.UUID, cmd *patient.UpdatePatientCommand) (*patient.Patient, error) {
	return m.updateFn(ctx, id, cmd)
}

func (m *mockPatientRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return m.softDeleteFn(ctx, id)
}

func (m *mockPatientRepo) List(ctx context.Context, q *patient.ListPatientsQuery) (*patient.PagedPatients, error) {
	return m.listFn(ctx, q)
}

func (m *mockPatientRepo) ListAll(ctx context.Context, limit int) ([]*patient.Patient, error) {
	return m.listAllFn(ctx, limit)
}

type mockUserStore struct {
	getByEmailFn func(ctx context.Context, email string) (*domain.User, error)
	getByIDFn    func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	saveFn       func(ctx context.Context, u *domain.User) error
}

var _ UserStore = (*mockUserStore)(nil)

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return m.getByEmailFn(ctx, email)
}

func (m *mockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return m.getByIDFn(ctx, id)
}

func (m *mockUserStore) Save(ctx context.Context, u *domain.User) error {
	return m.saveFn(ctx, u)
}
