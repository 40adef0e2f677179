package services

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"crewplan-backend/internal/models"
)

// DraftManager hands out one DraftReconciler per draft schedule, creating the
// backing draft row lazily when a week has none yet. Reconcilers are kept for
// the life of the process so repeated requests share the same in-memory draft
// and save queue.
type DraftManager struct {
	mu       sync.Mutex
	drafts   map[string]*DraftReconciler
	settings Settings
	clock    Clock

	shifts      ShiftStore
	schedules   ScheduleStore
	employees   EmployeeStore
	projections ProjectionStore
}

// NewDraftManager wires a DraftManager over the entity stores
func NewDraftManager(
	shifts ShiftStore,
	schedules ScheduleStore,
	employees EmployeeStore,
	projections ProjectionStore,
	clock Clock,
	settings Settings,
) *DraftManager {
	if clock == nil {
		clock = realClock{}
	}
	return &DraftManager{
		drafts:      make(map[string]*DraftReconciler),
		settings:    settings.Normalize(),
		clock:       clock,
		shifts:      shifts,
		schedules:   schedules,
		employees:   employees,
		projections: projections,
	}
}

// ForSchedule returns the reconciler for an existing draft schedule
func (m *DraftManager) ForSchedule(ctx context.Context, scheduleID string) (*DraftReconciler, error) {
	m.mu.Lock()
	if r, ok := m.drafts[scheduleID]; ok {
		m.mu.Unlock()
		return r, nil
	}
	m.mu.Unlock()

	schedule, err := m.schedules.Get(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	if schedule.IsPublished {
		return nil, ErrScheduleNotDraft
	}
	return m.attach(ctx, schedule)
}

// ForWeek returns the reconciler for the week's draft, creating the draft
// schedule row on first use. At most one unpublished draft exists per
// (week, type, owner).
func (m *DraftManager) ForWeek(ctx context.Context, weekStartDate string, scheduleType models.ScheduleType, createdBy string) (*DraftReconciler, error) {
	published := false
	existing, err := m.schedules.Filter(ctx, ScheduleFilter{
		WeekStartDate: weekStartDate,
		ScheduleType:  scheduleType,
		CreatedBy:     createdBy,
		Published:     &published,
	})
	if err != nil {
		return nil, fmt.Errorf("looking up draft: %w", err)
	}
	if len(existing) > 0 {
		return m.ForSchedule(ctx, existing[0].ID)
	}

	now := m.clock.Now().Unix()
	draft, err := m.schedules.Create(ctx, &models.WeeklySchedule{
		ID:            uuid.New().String(),
		WeekStartDate: weekStartDate,
		ScheduleType:  scheduleType,
		Name:          fmt.Sprintf("Week of %s", weekStartDate),
		VersionNumber: 0,
		IsPublished:   false,
		CreatedBy:     createdBy,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		return nil, fmt.Errorf("creating draft schedule: %w", err)
	}
	log.Printf("📋 Created draft schedule %s (%s %s)", draft.ID, scheduleType, weekStartDate)
	return m.attach(ctx, draft)
}

// Evict closes and forgets the reconciler for a schedule, draining its queue
func (m *DraftManager) Evict(scheduleID string) {
	m.mu.Lock()
	r, ok := m.drafts[scheduleID]
	if ok {
		delete(m.drafts, scheduleID)
	}
	m.mu.Unlock()
	if ok {
		r.Close()
	}
}

// CloseAll drains and closes every live reconciler (shutdown path)
func (m *DraftManager) CloseAll() {
	m.mu.Lock()
	drafts := make([]*DraftReconciler, 0, len(m.drafts))
	for _, r := range m.drafts {
		drafts = append(drafts, r)
	}
	m.drafts = make(map[string]*DraftReconciler)
	m.mu.Unlock()
	for _, r := range drafts {
		r.Close()
	}
}

func (m *DraftManager) attach(ctx context.Context, schedule *models.WeeklySchedule) (*DraftReconciler, error) {
	r, err := NewDraftReconciler(ctx, m.shifts, m.schedules, m.clock, m.settings, m.summarize, schedule)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.drafts[schedule.ID]; ok {
		// Lost the race to another request; keep the first reconciler
		go r.Close()
		return existing, nil
	}
	m.drafts[schedule.ID] = r
	return r, nil
}

// summarize computes the autosaved draft totals from the current shift set
// and the week's sales projections
func (m *DraftManager) summarize(weekStartDate string, shifts []models.Shift) ScheduleTotals {
	ctx := context.Background()

	employees, err := m.employees.Filter(ctx, false)
	if err != nil {
		log.Printf("⚠️ Summary: employee fetch failed: %v", err)
	}
	sales := SalesSplit{}
	projections, err := m.projections.Filter(ctx, weekStartDate)
	if err != nil {
		log.Printf("⚠️ Summary: projection fetch failed: %v", err)
	}
	for _, p := range projections {
		sales.AM += p.AMSales()
		sales.PM += p.PMSales()
	}

	summary := ComputeLaborSummary(shifts, employees, sales, m.settings)
	return ScheduleTotals{
		TotalLaborCost:      summary.Total.LaborCost,
		LaborPercentage:     summary.Total.LaborPercent,
		TotalProjectedSales: summary.Total.Sales,
		SalesPerLaborHour:   summary.Total.SalesPerLaborHour,
	}
}
