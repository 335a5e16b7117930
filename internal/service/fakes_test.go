package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/karuteens/moderation/internal/models"
	"github.com/karuteens/moderation/internal/repository"
	"github.com/karuteens/moderation/internal/repository/common"
)

// memStore in-memory реализация хранилищ очереди модерации для тестов сервиса.
type memStore struct {
	mu      sync.Mutex
	now     time.Time
	reports map[uuid.UUID]*models.Report
	appeals map[uuid.UUID]*models.Appeal
	actions []models.EnforcementAction
	flags   map[uuid.UUID]*models.AutoFlag
	logs    []models.ModerationLog

	failSetStatus error
	failAppend    error
}

func newMemStore() *memStore {
	return &memStore{
		now:     time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
		reports: map[uuid.UUID]*models.Report{},
		appeals: map[uuid.UUID]*models.Appeal{},
		flags:   map[uuid.UUID]*models.AutoFlag{},
	}
}

// tick сдвигает часы, чтобы updated_at заметно менялся.
func (m *memStore) tick() time.Time {
	m.now = m.now.Add(time.Second)
	return m.now
}

type memReports struct{ *memStore }
type memAppeals struct{ *memStore }
type memActions struct{ *memStore }
type memFlags struct{ *memStore }
type memLogs struct{ *memStore }

func (r memReports) Create(_ context.Context, report *models.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	report.ID = uuid.New()
	report.Status = models.ReportStatusPending
	report.CreatedAt = r.tick()
	report.UpdatedAt = report.CreatedAt
	cp := *report
	r.reports[report.ID] = &cp
	return nil
}

func (r memReports) GetByID(_ context.Context, id uuid.UUID) (*models.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	report, ok := r.reports[id]
	if !ok {
		return nil, repository.ErrReportNotFound
	}
	cp := *report
	return &cp, nil
}

func (r memReports) List(_ context.Context, filter repository.ReportFilter, limit, offset int) ([]models.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Report{}
	for _, report := range r.reports {
		if filter.Status != "" && report.Status != filter.Status {
			continue
		}
		if filter.ReportType != "" && report.ReportType != filter.ReportType {
			continue
		}
		out = append(out, *report)
	}
	return out, nil
}

func (r memReports) UpdateStatus(_ context.Context, id uuid.UUID, from, to string) (*models.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	report, ok := r.reports[id]
	if !ok || report.Status != from {
		return nil, common.ErrStatusConflict
	}
	report.Status = to
	report.UpdatedAt = r.tick()
	cp := *report
	return &cp, nil
}

func (r memReports) SetStatus(_ context.Context, id uuid.UUID, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failSetStatus != nil {
		return r.failSetStatus
	}
	report, ok := r.reports[id]
	if !ok {
		return repository.ErrReportNotFound
	}
	report.Status = status
	report.UpdatedAt = r.tick()
	return nil
}

func (a memAppeals) Create(_ context.Context, appeal *models.Appeal) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	appeal.ID = uuid.New()
	appeal.Status = models.AppealStatusPending
	appeal.CreatedAt = a.tick()
	appeal.UpdatedAt = appeal.CreatedAt
	cp := *appeal
	a.appeals[appeal.ID] = &cp
	return nil
}

func (a memAppeals) GetByID(_ context.Context, id uuid.UUID) (*models.Appeal, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	appeal, ok := a.appeals[id]
	if !ok {
		return nil, repository.ErrAppealNotFound
	}
	cp := *appeal
	return &cp, nil
}

func (a memAppeals) List(_ context.Context, filter repository.AppealFilter, limit, offset int) ([]models.Appeal, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := []models.Appeal{}
	for _, appeal := range a.appeals {
		if filter.Status != "" && appeal.Status != filter.Status {
			continue
		}
		if filter.UserID != nil && appeal.UserID != *filter.UserID {
			continue
		}
		out = append(out, *appeal)
	}
	return out, nil
}

func (a memAppeals) UpdateStatus(_ context.Context, id uuid.UUID, from, to string) (*models.Appeal, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	appeal, ok := a.appeals[id]
	if !ok || appeal.Status != from {
		return nil, common.ErrStatusConflict
	}
	appeal.Status = to
	appeal.UpdatedAt = a.tick()
	cp := *appeal
	return &cp, nil
}

func (e memActions) Create(_ context.Context, action *models.EnforcementAction, durationSeconds *float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	action.ID = uuid.New()
	action.CreatedAt = e.tick()
	if durationSeconds != nil {
		d := (time.Duration(*durationSeconds) * time.Second).String()
		action.Duration = &d
	}
	e.actions = append(e.actions, *action)
	return nil
}

func (e memActions) List(_ context.Context, filter repository.EnforcementActionFilter, limit, offset int) ([]models.EnforcementAction, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := []models.EnforcementAction{}
	for _, action := range e.actions {
		if filter.ActionType != "" && action.ActionType != filter.ActionType {
			continue
		}
		out = append(out, action)
	}
	return out, nil
}

func (f memFlags) Create(_ context.Context, flag *models.AutoFlag) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	flag.ID = uuid.New()
	flag.Status = models.AutoFlagStatusPending
	flag.CreatedAt = f.tick()
	flag.UpdatedAt = flag.CreatedAt
	cp := *flag
	f.flags[flag.ID] = &cp
	return nil
}

func (f memFlags) GetByID(_ context.Context, id uuid.UUID) (*models.AutoFlag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	flag, ok := f.flags[id]
	if !ok {
		return nil, repository.ErrAutoFlagNotFound
	}
	cp := *flag
	return &cp, nil
}

func (f memFlags) List(_ context.Context, filter repository.AutoFlagFilter, limit, offset int) ([]models.AutoFlag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.AutoFlag{}
	for _, flag := range f.flags {
		if filter.Status != "" && flag.Status != filter.Status {
			continue
		}
		if filter.FlagType != "" && flag.FlagType != filter.FlagType {
			continue
		}
		out = append(out, *flag)
	}
	return out, nil
}

func (f memFlags) UpdateStatus(_ context.Context, id uuid.UUID, from, to string) (*models.AutoFlag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	flag, ok := f.flags[id]
	if !ok || flag.Status != from {
		return nil, common.ErrStatusConflict
	}
	flag.Status = to
	flag.UpdatedAt = f.tick()
	cp := *flag
	return &cp, nil
}

func (f memFlags) PromoteToReport(ctx context.Context, flagID uuid.UUID, report *models.Report) (*models.AutoFlag, error) {
	flag, err := f.UpdateStatus(ctx, flagID, models.AutoFlagStatusPending, models.AutoFlagStatusReviewed)
	if err != nil {
		return nil, err
	}
	if err := (memReports{f.memStore}).Create(ctx, report); err != nil {
		return nil, err
	}
	return flag, nil
}

func (l memLogs) Append(_ context.Context, entry *models.ModerationLog) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.failAppend != nil {
		return l.failAppend
	}
	entry.ID = uuid.New()
	entry.CreatedAt = l.tick()
	l.logs = append(l.logs, *entry)
	return nil
}

func (m *memStore) logCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.logs)
}

func (m *memStore) lastLog() models.ModerationLog {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.logs[len(m.logs)-1]
}
