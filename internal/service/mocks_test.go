package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/harwick/wip-reporting/internal/model"
	"github.com/harwick/wip-reporting/internal/repository"
)

type mockSnapshotStore struct {
	createFunc             func(ctx context.Context, snap model.Snapshot) (*model.Snapshot, error)
	getByIDFunc            func(ctx context.Context, id uuid.UUID) (*model.SnapshotWithProject, error)
	getByProjectPeriodFunc func(ctx context.Context, projectID uuid.UUID, period model.Period) (*model.Snapshot, error)
	nearestPriorFunc       func(ctx context.Context, projectID uuid.UUID, period model.Period) (*model.Snapshot, error)
	hasLaterPeriodFunc     func(ctx context.Context, projectID uuid.UUID, period model.Period) (bool, error)
	listFunc               func(ctx context.Context, filter repository.SnapshotFilter) ([]model.SnapshotWithProject, error)
	latestPerProjectFunc   func(ctx context.Context) ([]model.SnapshotWithProject, error)
	updateInputsFunc       func(ctx context.Context, snap model.Snapshot) (*model.Snapshot, error)
	deleteFunc             func(ctx context.Context, id uuid.UUID) error

	createCalls int
	deleteCalls int
	updateCalls int
}

func (m *mockSnapshotStore) Create(ctx context.Context, snap model.Snapshot) (*model.Snapshot, error) {
	m.createCalls++
	if m.createFunc != nil {
		return m.createFunc(ctx, snap)
	}
	saved := snap
	saved.ID = uuid.New()
	return &saved, nil
}

func (m *mockSnapshotStore) GetByID(ctx context.Context, id uuid.UUID) (*model.SnapshotWithProject, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSnapshotStore) GetByProjectPeriod(ctx context.Context, projectID uuid.UUID, period model.Period) (*model.Snapshot, error) {
	if m.getByProjectPeriodFunc != nil {
		return m.getByProjectPeriodFunc(ctx, projectID, period)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSnapshotStore) NearestPrior(ctx context.Context, projectID uuid.UUID, period model.Period) (*model.Snapshot, error) {
	if m.nearestPriorFunc != nil {
		return m.nearestPriorFunc(ctx, projectID, period)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSnapshotStore) HasLaterPeriod(ctx context.Context, projectID uuid.UUID, period model.Period) (bool, error) {
	if m.hasLaterPeriodFunc != nil {
		return m.hasLaterPeriodFunc(ctx, projectID, period)
	}
	return false, nil
}

func (m *mockSnapshotStore) List(ctx context.Context, filter repository.SnapshotFilter) ([]model.SnapshotWithProject, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, filter)
	}
	return nil, nil
}

func (m *mockSnapshotStore) LatestPerProject(ctx context.Context) ([]model.SnapshotWithProject, error) {
	if m.latestPerProjectFunc != nil {
		return m.latestPerProjectFunc(ctx)
	}
	return nil, nil
}

func (m *mockSnapshotStore) UpdateInputs(ctx context.Context, snap model.Snapshot) (*model.Snapshot, error) {
	m.updateCalls++
	if m.updateInputsFunc != nil {
		return m.updateInputsFunc(ctx, snap)
	}
	saved := snap
	return &saved, nil
}

func (m *mockSnapshotStore) Delete(ctx context.Context, id uuid.UUID) error {
	m.deleteCalls++
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

type mockProjectStore struct {
	createFunc       func(ctx context.Context, project model.Project) (*model.Project, error)
	getByIDFunc      func(ctx context.Context, id uuid.UUID) (*model.Project, error)
	listFunc         func(ctx context.Context, filter repository.ProjectFilter) ([]model.ProjectSummary, error)
	updateFunc       func(ctx context.Context, project model.Project) (*model.Project, error)
	deactivateFunc   func(ctx context.Context, id uuid.UUID) error
	deleteFunc       func(ctx context.Context, id uuid.UUID) error
	hasSnapshotsFunc func(ctx context.Context, id uuid.UUID) (bool, error)

	deactivateCalls int
	deleteCalls     int
}

func (m *mockProjectStore) Create(ctx context.Context, project model.Project) (*model.Project, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, project)
	}
	saved := project
	saved.ID = uuid.New()
	return &saved, nil
}

func (m *mockProjectStore) GetByID(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProjectStore) List(ctx context.Context, filter repository.ProjectFilter) ([]model.ProjectSummary, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, filter)
	}
	return nil, nil
}

func (m *mockProjectStore) Update(ctx context.Context, project model.Project) (*model.Project, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, project)
	}
	saved := project
	return &saved, nil
}

func (m *mockProjectStore) Deactivate(ctx context.Context, id uuid.UUID) error {
	m.deactivateCalls++
	if m.deactivateFunc != nil {
		return m.deactivateFunc(ctx, id)
	}
	return nil
}

func (m *mockProjectStore) Delete(ctx context.Context, id uuid.UUID) error {
	m.deleteCalls++
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockProjectStore) HasSnapshots(ctx context.Context, id uuid.UUID) (bool, error) {
	if m.hasSnapshotsFunc != nil {
		return m.hasSnapshotsFunc(ctx, id)
	}
	return false, nil
}

type mockTrendStore struct {
	trendFunc func(ctx context.Context, projectID uuid.UUID) ([]model.ProjectTrendPoint, error)
}

func (m *mockTrendStore) Trend(ctx context.Context, projectID uuid.UUID) ([]model.ProjectTrendPoint, error) {
	if m.trendFunc != nil {
		return m.trendFunc(ctx, projectID)
	}
	return nil, nil
}

type mockUserStore struct {
	getByUsernameFunc func(ctx context.Context, username string) (*model.User, error)
	getByIDFunc       func(ctx context.Context, id uuid.UUID) (*model.User, error)
	listFunc          func(ctx context.Context) ([]model.User, error)
}

func (m *mockUserStore) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	if m.getByUsernameFunc != nil {
		return m.getByUsernameFunc(ctx, username)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserStore) List(ctx context.Context) ([]model.User, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

type mockTokenIssuer struct {
	issueFunc func(user model.User) (string, time.Time, error)
}

func (m *mockTokenIssuer) Issue(user model.User) (string, time.Time, error) {
	if m.issueFunc != nil {
		return m.issueFunc(user)
	}
	return "token-" + user.Username, time.Now().Add(time.Hour), nil
}

type mockExplanationStore struct {
	createFunc         func(ctx context.Context, expl model.Explanation) (*model.Explanation, error)
	listBySnapshotFunc func(ctx context.Context, snapshotID uuid.UUID, fieldName string) ([]model.Explanation, error)
	latestPerFieldFunc func(ctx context.Context, snapshotID uuid.UUID) ([]model.Explanation, error)

	createCalls int
}

func (m *mockExplanationStore) Create(ctx context.Context, expl model.Explanation) (*model.Explanation, error) {
	m.createCalls++
	if m.createFunc != nil {
		return m.createFunc(ctx, expl)
	}
	saved := expl
	saved.ID = uuid.New()
	return &saved, nil
}

func (m *mockExplanationStore) ListBySnapshot(ctx context.Context, snapshotID uuid.UUID, fieldName string) ([]model.Explanation, error) {
	if m.listBySnapshotFunc != nil {
		return m.listBySnapshotFunc(ctx, snapshotID, fieldName)
	}
	return nil, nil
}

func (m *mockExplanationStore) LatestPerField(ctx context.Context, snapshotID uuid.UUID) ([]model.Explanation, error) {
	if m.latestPerFieldFunc != nil {
		return m.latestPerFieldFunc(ctx, snapshotID)
	}
	return nil, nil
}

type mockAuditRecorder struct {
	recordFunc func(ctx context.Context, entry model.AuditEntry) error
	entries    []model.AuditEntry
}

func (m *mockAuditRecorder) Record(ctx context.Context, entry model.AuditEntry) error {
	m.entries = append(m.entries, entry)
	if m.recordFunc != nil {
		return m.recordFunc(ctx, entry)
	}
	return nil
}

type mockAuditStore struct {
	listFunc func(ctx context.Context, filter repository.AuditFilter) ([]model.AuditEntry, error)
}

func (m *mockAuditStore) List(ctx context.Context, filter repository.AuditFilter) ([]model.AuditEntry, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, filter)
	}
	return nil, nil
}

type mockExcelGenerator struct {
	generateFunc func(report model.WIPReport) ([]byte, error)
	lastReport   *model.WIPReport
}

func (m *mockExcelGenerator) Generate(report model.WIPReport) ([]byte, error) {
	m.lastReport = &report
	if m.generateFunc != nil {
		return m.generateFunc(report)
	}
	return []byte("xlsx"), nil
}

type mockPDFGenerator struct {
	generateFunc func(report model.WIPReport) ([]byte, error)
}

func (m *mockPDFGenerator) Generate(report model.WIPReport) ([]byte, error) {
	if m.generateFunc != nil {
		return m.generateFunc(report)
	}
	return []byte("pdf"), nil
}
