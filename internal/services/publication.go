package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"

	"crewplan-backend/internal/models"
)

// PublicationManager turns drafts into immutable, versioned published
// schedules and prunes old versions past the retention limit.
type PublicationManager struct {
	shifts    ShiftStore
	schedules ScheduleStore
	employees EmployeeStore
	clock     Clock
	settings  Settings
}

// NewPublicationManager wires a PublicationManager over the entity stores
func NewPublicationManager(
	shifts ShiftStore,
	schedules ScheduleStore,
	employees EmployeeStore,
	clock Clock,
	settings Settings,
) *PublicationManager {
	if clock == nil {
		clock = realClock{}
	}
	return &PublicationManager{
		shifts:    shifts,
		schedules: schedules,
		employees: employees,
		clock:     clock,
		settings:  settings.Normalize(),
	}
}

// Publish snapshots a draft into a brand-new published schedule. The draft
// row and its shifts are left untouched for continued editing; the copy gets
// fresh identities, the next version number, and publishedAt set to now.
// Versions beyond the retention limit are retired afterwards.
func (m *PublicationManager) Publish(ctx context.Context, draftScheduleID string) (*models.WeeklySchedule, error) {
	draft, err := m.schedules.Get(ctx, draftScheduleID)
	if err != nil {
		return nil, fmt.Errorf("loading draft: %w", err)
	}
	if draft.IsPublished {
		return nil, ErrScheduleNotDraft
	}

	version, err := m.nextVersion(ctx, draft.WeekStartDate, draft.ScheduleType)
	if err != nil {
		return nil, err
	}

	now := m.clock.Now()
	publishedAt := now.Unix()
	snapshot := &models.WeeklySchedule{
		ID:                  uuid.New().String(),
		WeekStartDate:       draft.WeekStartDate,
		ScheduleType:        draft.ScheduleType,
		Name:                draft.Name,
		VersionNumber:       version,
		IsPublished:         true,
		PublishedAt:         &publishedAt,
		TotalLaborCost:      draft.TotalLaborCost,
		LaborPercentage:     draft.LaborPercentage,
		TotalProjectedSales: draft.TotalProjectedSales,
		SalesPerLaborHour:   draft.SalesPerLaborHour,
		CreatedBy:           draft.CreatedBy,
		CreatedAt:           publishedAt,
		UpdatedAt:           publishedAt,
	}

	published, err := m.schedules.Create(ctx, snapshot)
	if err != nil {
		return nil, fmt.Errorf("creating published schedule: %w", err)
	}

	draftShifts, err := m.shifts.Filter(ctx, ShiftFilter{ScheduleID: draft.ID})
	if err != nil {
		return nil, fmt.Errorf("loading draft shifts: %w", err)
	}
	copies := make([]models.Shift, 0, len(draftShifts))
	for _, s := range draftShifts {
		copied := s
		copied.ID = uuid.New().String()
		copied.ScheduleID = published.ID
		copied.CreatedAt = publishedAt
		copied.UpdatedAt = publishedAt
		copies = append(copies, copied)
	}
	if len(copies) > 0 {
		if _, err := m.shifts.BulkCreate(ctx, copies); err != nil {
			return nil, fmt.Errorf("copying shifts: %w", err)
		}
	}

	log.Printf("📣 Published %s v%d for week %s (%d shifts)", draft.ScheduleType, version, draft.WeekStartDate, len(copies))

	if err := m.pruneVersions(ctx, draft.WeekStartDate, draft.ScheduleType); err != nil {
		return nil, err
	}
	return published, nil
}

// CopyInto replaces the target draft's shifts with copies of a published
// source schedule's shifts, shifted by weekOffset days. Only published
// schedules may serve as copy sources. Destructive to the target:
// the caller is responsible for confirming with the user. Employees that are
// no longer active are unassigned in the copies.
func (m *PublicationManager) CopyInto(ctx context.Context, draftScheduleID, sourceScheduleID string, weekOffset int) ([]models.Shift, error) {
	draft, err := m.schedules.Get(ctx, draftScheduleID)
	if err != nil {
		return nil, fmt.Errorf("loading target draft: %w", err)
	}
	if draft.IsPublished {
		return nil, ErrScheduleNotDraft
	}
	source, err := m.schedules.Get(ctx, sourceScheduleID)
	if err != nil {
		return nil, fmt.Errorf("loading copy source: %w", err)
	}
	if !source.IsPublished {
		return nil, ErrScheduleNotPublished
	}

	active := make(map[string]bool)
	employees, err := m.employees.Filter(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("loading employees: %w", err)
	}
	for _, emp := range employees {
		active[emp.ID] = true
	}

	existing, err := m.shifts.Filter(ctx, ShiftFilter{ScheduleID: draft.ID})
	if err != nil {
		return nil, fmt.Errorf("loading target shifts: %w", err)
	}
	for _, s := range existing {
		if err := m.shifts.Delete(ctx, s.ID); err != nil && err != ErrNotFound {
			return nil, fmt.Errorf("clearing target draft: %w", err)
		}
	}

	sourceShifts, err := m.shifts.Filter(ctx, ShiftFilter{ScheduleID: source.ID})
	if err != nil {
		return nil, fmt.Errorf("loading source shifts: %w", err)
	}

	now := m.clock.Now().Unix()
	copies := make([]models.Shift, 0, len(sourceShifts))
	for _, s := range sourceShifts {
		copied := s
		copied.ID = uuid.New().String()
		copied.ScheduleID = draft.ID
		copied.Date = offsetDate(s.Date, weekOffset)
		copied.ActualStartTime = nil
		copied.ActualEndTime = nil
		copied.VarianceReason = nil
		copied.CreatedAt = now
		copied.UpdatedAt = now
		if copied.EmployeeID != nil && !active[*copied.EmployeeID] {
			copied.EmployeeID = nil
		}
		copies = append(copies, copied)
	}
	if len(copies) == 0 {
		return []models.Shift{}, nil
	}

	created, err := m.shifts.BulkCreate(ctx, copies)
	if err != nil {
		return nil, fmt.Errorf("copying shifts into draft: %w", err)
	}
	log.Printf("📋 Copied %d shifts from %s into draft %s (offset %d days)", len(created), sourceScheduleID, draftScheduleID, weekOffset)
	return created, nil
}

// nextVersion is one past the highest published version for the week/type.
// Versions are never reused, even after retention cleanup.
func (m *PublicationManager) nextVersion(ctx context.Context, weekStartDate string, scheduleType models.ScheduleType) (int, error) {
	published := true
	versions, err := m.schedules.Filter(ctx, ScheduleFilter{
		WeekStartDate: weekStartDate,
		ScheduleType:  scheduleType,
		Published:     &published,
	})
	if err != nil {
		return 0, fmt.Errorf("listing published versions: %w", err)
	}
	highest := 0
	for _, s := range versions {
		if s.VersionNumber > highest {
			highest = s.VersionNumber
		}
	}
	return highest + 1, nil
}

// pruneVersions retires published versions beyond the retention limit,
// newest first. Drafts never appear in the candidate set. A "not found"
// during deletion means someone else already cleaned up; that is fine.
func (m *PublicationManager) pruneVersions(ctx context.Context, weekStartDate string, scheduleType models.ScheduleType) error {
	published := true
	versions, err := m.schedules.Filter(ctx, ScheduleFilter{
		WeekStartDate: weekStartDate,
		ScheduleType:  scheduleType,
		Published:     &published,
	})
	if err != nil {
		return fmt.Errorf("listing published versions: %w", err)
	}
	sort.Slice(versions, func(i, j int) bool {
		return versions[i].VersionNumber > versions[j].VersionNumber
	})

	if len(versions) <= m.settings.RetentionLimit {
		return nil
	}
	for _, old := range versions[m.settings.RetentionLimit:] {
		shifts, err := m.shifts.Filter(ctx, ShiftFilter{ScheduleID: old.ID})
		if err != nil {
			return fmt.Errorf("listing shifts of v%d: %w", old.VersionNumber, err)
		}
		for _, s := range shifts {
			if err := m.shifts.Delete(ctx, s.ID); err != nil && !errors.Is(err, ErrNotFound) {
				return fmt.Errorf("deleting shift %s of v%d: %w", s.ID, old.VersionNumber, err)
			}
		}
		if err := m.schedules.Delete(ctx, old.ID); err != nil && !errors.Is(err, ErrNotFound) {
			return fmt.Errorf("deleting schedule v%d: %w", old.VersionNumber, err)
		}
		log.Printf("🗑️  Retired %s v%d for week %s", scheduleType, old.VersionNumber, weekStartDate)
	}
	return nil
}

// offsetDate shifts a "YYYY-MM-DD" date by the given number of days.
// An unparseable date is returned unchanged rather than corrupted.
func offsetDate(date string, days int) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.AddDate(0, 0, days).Format("2006-01-02")
}
