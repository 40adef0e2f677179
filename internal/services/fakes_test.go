package services

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"crewplan-backend/internal/models"
)

type stubClock struct {
	t time.Time
}

func (c stubClock) Now() time.Time { return c.t }

func testClock() stubClock {
	return stubClock{t: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)}
}

// fastSettings keeps the worker delays short so tests do not crawl, while the
// autosave delay stays far away unless a test wants it
func fastSettings() Settings {
	return Settings{
		QueueDelay:    time.Millisecond,
		AutosaveDelay: time.Hour,
	}.Normalize()
}

type fakeShiftStore struct {
	mu     sync.Mutex
	shifts map[string]models.Shift

	failCreate error
	failUpdate error
	failDelete error

	creates int
	updates int
	deletes int

	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

func newFakeShiftStore() *fakeShiftStore {
	return &fakeShiftStore{shifts: make(map[string]models.Shift)}
}

func (f *fakeShiftStore) Filter(ctx context.Context, filter ShiftFilter) ([]models.Shift, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Shift{}
	for _, s := range f.shifts {
		if filter.ScheduleID != "" && s.ScheduleID != filter.ScheduleID {
			continue
		}
		if filter.EmployeeID != "" && !s.AssignedTo(filter.EmployeeID) {
			continue
		}
		if filter.Date != "" && s.Date != filter.Date {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		if out[i].StartTime != out[j].StartTime {
			return out[i].StartTime < out[j].StartTime
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (f *fakeShiftStore) Create(ctx context.Context, shift *models.Shift) (*models.Shift, error) {
	cur := f.inFlight.Add(1)
	for {
		max := f.maxInFlight.Load()
		if cur <= max || f.maxInFlight.CompareAndSwap(max, cur) {
			break
		}
	}
	defer f.inFlight.Add(-1)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate != nil {
		return nil, f.failCreate
	}
	created := *shift
	if created.ID == "" || IsTempID(created.ID) {
		created.ID = uuid.New().String()
	}
	f.shifts[created.ID] = created
	f.creates++
	copied := created
	return &copied, nil
}

func (f *fakeShiftStore) Update(ctx context.Context, id string, shift *models.Shift) (*models.Shift, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpdate != nil {
		return nil, f.failUpdate
	}
	if _, ok := f.shifts[id]; !ok {
		return nil, ErrNotFound
	}
	updated := *shift
	updated.ID = id
	f.shifts[id] = updated
	f.updates++
	copied := updated
	return &copied, nil
}

func (f *fakeShiftStore) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDelete != nil {
		return f.failDelete
	}
	if _, ok := f.shifts[id]; !ok {
		return ErrNotFound
	}
	delete(f.shifts, id)
	f.deletes++
	return nil
}

func (f *fakeShiftStore) BulkCreate(ctx context.Context, shifts []models.Shift) ([]models.Shift, error) {
	created := make([]models.Shift, 0, len(shifts))
	for i := range shifts {
		row, err := f.Create(ctx, &shifts[i])
		if err != nil {
			return nil, err
		}
		created = append(created, *row)
	}
	return created, nil
}

func (f *fakeShiftStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.shifts)
}

func (f *fakeShiftStore) byID(id string) (models.Shift, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.shifts[id]
	return s, ok
}

type fakeScheduleStore struct {
	mu        sync.Mutex
	schedules map[string]models.WeeklySchedule
	updates   int
}

func newFakeScheduleStore() *fakeScheduleStore {
	return &fakeScheduleStore{schedules: make(map[string]models.WeeklySchedule)}
}

func (f *fakeScheduleStore) Filter(ctx context.Context, filter ScheduleFilter) ([]models.WeeklySchedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.WeeklySchedule{}
	for _, s := range f.schedules {
		if filter.WeekStartDate != "" && s.WeekStartDate != filter.WeekStartDate {
			continue
		}
		if filter.ScheduleType != "" && s.ScheduleType != filter.ScheduleType {
			continue
		}
		if filter.CreatedBy != "" && s.CreatedBy != filter.CreatedBy {
			continue
		}
		if filter.Published != nil && s.IsPublished != *filter.Published {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].VersionNumber != out[j].VersionNumber {
			return out[i].VersionNumber > out[j].VersionNumber
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (f *fakeScheduleStore) Get(ctx context.Context, id string) (*models.WeeklySchedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.schedules[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := s
	return &copied, nil
}

func (f *fakeScheduleStore) Create(ctx context.Context, schedule *models.WeeklySchedule) (*models.WeeklySchedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	created := *schedule
	if created.ID == "" {
		created.ID = uuid.New().String()
	}
	f.schedules[created.ID] = created
	copied := created
	return &copied, nil
}

func (f *fakeScheduleStore) Update(ctx context.Context, id string, schedule *models.WeeklySchedule) (*models.WeeklySchedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.schedules[id]; !ok {
		return nil, ErrNotFound
	}
	updated := *schedule
	updated.ID = id
	f.schedules[id] = updated
	f.updates++
	copied := updated
	return &copied, nil
}

func (f *fakeScheduleStore) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.schedules[id]; !ok {
		return ErrNotFound
	}
	delete(f.schedules, id)
	return nil
}

func (f *fakeScheduleStore) put(s models.WeeklySchedule) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.schedules[s.ID] = s
}

type fakePublishJobStore struct {
	mu   sync.Mutex
	jobs map[string]models.PublishJob
}

func newFakePublishJobStore() *fakePublishJobStore {
	return &fakePublishJobStore{jobs: make(map[string]models.PublishJob)}
}

func (f *fakePublishJobStore) Filter(ctx context.Context, filter PublishJobFilter) ([]models.PublishJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.PublishJob{}
	for _, j := range f.jobs {
		if filter.SourceScheduleID != "" && j.SourceScheduleID != filter.SourceScheduleID {
			continue
		}
		if len(filter.Statuses) > 0 {
			match := false
			for _, st := range filter.Statuses {
				if j.Status == st {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		out = append(out, j)
	}
	return out, nil
}

func (f *fakePublishJobStore) Get(ctx context.Context, id string) (*models.PublishJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	j, ok := f.jobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := j
	return &copied, nil
}

func (f *fakePublishJobStore) Create(ctx context.Context, job *models.PublishJob) (*models.PublishJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	created := *job
	if created.ID == "" {
		created.ID = uuid.New().String()
	}
	f.jobs[created.ID] = created
	copied := created
	return &copied, nil
}

func (f *fakePublishJobStore) Update(ctx context.Context, id string, job *models.PublishJob) (*models.PublishJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.jobs[id]; !ok {
		return nil, ErrNotFound
	}
	updated := *job
	updated.ID = id
	f.jobs[id] = updated
	copied := updated
	return &copied, nil
}

type fakeEmployeeStore struct {
	employees []models.Employee
}

func (f *fakeEmployeeStore) Filter(ctx context.Context, activeOnly bool) ([]models.Employee, error) {
	if !activeOnly {
		return f.employees, nil
	}
	out := []models.Employee{}
	for _, e := range f.employees {
		if e.IsActive {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEmployeeStore) Get(ctx context.Context, id string) (*models.Employee, error) {
	for i := range f.employees {
		if f.employees[i].ID == id {
			copied := f.employees[i]
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

type fakeProjectionStore struct {
	projections []models.SalesProjection
}

func (f *fakeProjectionStore) Filter(ctx context.Context, weekStartDate string) ([]models.SalesProjection, error) {
	out := []models.SalesProjection{}
	for _, p := range f.projections {
		if p.WeekStartDate == weekStartDate {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []map[string]interface{}
}

func (f *fakeNotifier) BroadcastToRole(role string, data interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := data.(map[string]interface{}); ok {
		f.events = append(f.events, m)
	}
}

func (f *fakeNotifier) eventTypes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	types := make([]string, 0, len(f.events))
	for _, e := range f.events {
		if t, ok := e["type"].(string); ok {
			types = append(types, t)
		}
	}
	return types
}
