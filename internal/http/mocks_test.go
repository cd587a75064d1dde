package http

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/harwick/wip-reporting/internal/model"
	"github.com/harwick/wip-reporting/internal/repository"
)

type fakeUserStore struct {
	users []model.User
}

func (f *fakeUserStore) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	for i := range f.users {
		if f.users[i].Username == username {
			user := f.users[i]
			return &user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserStore) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	for i := range f.users {
		if f.users[i].ID == id {
			user := f.users[i]
			return &user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserStore) List(ctx context.Context) ([]model.User, error) {
	return f.users, nil
}

type fakeProjectStore struct {
	createFunc       func(ctx context.Context, project model.Project) (*model.Project, error)
	getByIDFunc      func(ctx context.Context, id uuid.UUID) (*model.Project, error)
	listFunc         func(ctx context.Context, filter repository.ProjectFilter) ([]model.ProjectSummary, error)
	updateFunc       func(ctx context.Context, project model.Project) (*model.Project, error)
	deactivateFunc   func(ctx context.Context, id uuid.UUID) error
	deleteFunc       func(ctx context.Context, id uuid.UUID) error
	hasSnapshotsFunc func(ctx context.Context, id uuid.UUID) (bool, error)
}

func (f *fakeProjectStore) Create(ctx context.Context, project model.Project) (*model.Project, error) {
	if f.createFunc != nil {
		return f.createFunc(ctx, project)
	}
	saved := project
	saved.ID = uuid.New()
	return &saved, nil
}

func (f *fakeProjectStore) GetByID(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	if f.getByIDFunc != nil {
		return f.getByIDFunc(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeProjectStore) List(ctx context.Context, filter repository.ProjectFilter) ([]model.ProjectSummary, error) {
	if f.listFunc != nil {
		return f.listFunc(ctx, filter)
	}
	return nil, nil
}

func (f *fakeProjectStore) Update(ctx context.Context, project model.Project) (*model.Project, error) {
	if f.updateFunc != nil {
		return f.updateFunc(ctx, project)
	}
	saved := project
	return &saved, nil
}

func (f *fakeProjectStore) Deactivate(ctx context.Context, id uuid.UUID) error {
	if f.deactivateFunc != nil {
		return f.deactivateFunc(ctx, id)
	}
	return nil
}

func (f *fakeProjectStore) Delete(ctx context.Context, id uuid.UUID) error {
	if f.deleteFunc != nil {
		return f.deleteFunc(ctx, id)
	}
	return nil
}

func (f *fakeProjectStore) HasSnapshots(ctx context.Context, id uuid.UUID) (bool, error) {
	if f.hasSnapshotsFunc != nil {
		return f.hasSnapshotsFunc(ctx, id)
	}
	return false, nil
}

type fakeSnapshotStore struct {
	createFunc             func(ctx context.Context, snap model.Snapshot) (*model.Snapshot, error)
	getByIDFunc            func(ctx context.Context, id uuid.UUID) (*model.SnapshotWithProject, error)
	getByProjectPeriodFunc func(ctx context.Context, projectID uuid.UUID, period model.Period) (*model.Snapshot, error)
	nearestPriorFunc       func(ctx context.Context, projectID uuid.UUID, period model.Period) (*model.Snapshot, error)
	hasLaterPeriodFunc     func(ctx context.Context, projectID uuid.UUID, period model.Period) (bool, error)
	listFunc               func(ctx context.Context, filter repository.SnapshotFilter) ([]model.SnapshotWithProject, error)
	latestPerProjectFunc   func(ctx context.Context) ([]model.SnapshotWithProject, error)
	updateInputsFunc       func(ctx context.Context, snap model.Snapshot) (*model.Snapshot, error)
	deleteFunc             func(ctx context.Context, id uuid.UUID) error
	trendFunc              func(ctx context.Context, projectID uuid.UUID) ([]model.ProjectTrendPoint, error)
}

func (f *fakeSnapshotStore) Create(ctx context.Context, snap model.Snapshot) (*model.Snapshot, error) {
	if f.createFunc != nil {
		return f.createFunc(ctx, snap)
	}
	saved := snap
	saved.ID = uuid.New()
	return &saved, nil
}

func (f *fakeSnapshotStore) GetByID(ctx context.Context, id uuid.UUID) (*model.SnapshotWithProject, error) {
	if f.getByIDFunc != nil {
		return f.getByIDFunc(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeSnapshotStore) GetByProjectPeriod(ctx context.Context, projectID uuid.UUID, period model.Period) (*model.Snapshot, error) {
	if f.getByProjectPeriodFunc != nil {
		return f.getByProjectPeriodFunc(ctx, projectID, period)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeSnapshotStore) NearestPrior(ctx context.Context, projectID uuid.UUID, period model.Period) (*model.Snapshot, error) {
	if f.nearestPriorFunc != nil {
		return f.nearestPriorFunc(ctx, projectID, period)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeSnapshotStore) HasLaterPeriod(ctx context.Context, projectID uuid.UUID, period model.Period) (bool, error) {
	if f.hasLaterPeriodFunc != nil {
		return f.hasLaterPeriodFunc(ctx, projectID, period)
	}
	return false, nil
}

func (f *fakeSnapshotStore) List(ctx context.Context, filter repository.SnapshotFilter) ([]model.SnapshotWithProject, error) {
	if f.listFunc != nil {
		return f.listFunc(ctx, filter)
	}
	return nil, nil
}

func (f *fakeSnapshotStore) LatestPerProject(ctx context.Context) ([]model.SnapshotWithProject, error) {
	if f.latestPerProjectFunc != nil {
		return f.latestPerProjectFunc(ctx)
	}
	return nil, nil
}

func (f *fakeSnapshotStore) UpdateInputs(ctx context.Context, snap model.Snapshot) (*model.Snapshot, error) {
	if f.updateInputsFunc != nil {
		return f.updateInputsFunc(ctx, snap)
	}
	saved := snap
	return &saved, nil
}

func (f *fakeSnapshotStore) Delete(ctx context.Context, id uuid.UUID) error {
	if f.deleteFunc != nil {
		return f.deleteFunc(ctx, id)
	}
	return nil
}

func (f *fakeSnapshotStore) Trend(ctx context.Context, projectID uuid.UUID) ([]model.ProjectTrendPoint, error) {
	if f.trendFunc != nil {
		return f.trendFunc(ctx, projectID)
	}
	return nil, nil
}

type fakeExplanationStore struct {
	createFunc         func(ctx context.Context, expl model.Explanation) (*model.Explanation, error)
	listBySnapshotFunc func(ctx context.Context, snapshotID uuid.UUID, fieldName string) ([]model.Explanation, error)
	latestPerFieldFunc func(ctx context.Context, snapshotID uuid.UUID) ([]model.Explanation, error)
}

func (f *fakeExplanationStore) Create(ctx context.Context, expl model.Explanation) (*model.Explanation, error) {
	if f.createFunc != nil {
		return f.createFunc(ctx, expl)
	}
	saved := expl
	saved.ID = uuid.New()
	return &saved, nil
}

func (f *fakeExplanationStore) ListBySnapshot(ctx context.Context, snapshotID uuid.UUID, fieldName string) ([]model.Explanation, error) {
	if f.listBySnapshotFunc != nil {
		return f.listBySnapshotFunc(ctx, snapshotID, fieldName)
	}
	return nil, nil
}

func (f *fakeExplanationStore) LatestPerField(ctx context.Context, snapshotID uuid.UUID) ([]model.Explanation, error) {
	if f.latestPerFieldFunc != nil {
		return f.latestPerFieldFunc(ctx, snapshotID)
	}
	return nil, nil
}

type fakeAuditRecorder struct {
	entries []model.AuditEntry
}

func (f *fakeAuditRecorder) Record(ctx context.Context, entry model.AuditEntry) error {
	f.entries = append(f.entries, entry)
	return nil
}

type fakeAuditStore struct {
	listFunc func(ctx context.Context, filter repository.AuditFilter) ([]model.AuditEntry, error)
}

func (f *fakeAuditStore) List(ctx context.Context, filter repository.AuditFilter) ([]model.AuditEntry, error) {
	if f.listFunc != nil {
		return f.listFunc(ctx, filter)
	}
	return nil, nil
}

type fakeGenerator struct {
	content []byte
}

func (f *fakeGenerator) Generate(report model.WIPReport) ([]byte, error) {
	return f.content, nil
}
