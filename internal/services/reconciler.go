package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"crewplan-backend/internal/models"
)

// tempIDPrefix marks shifts that exist only in memory and have not been
// persisted yet
const tempIDPrefix = "new-"

// IsTempID reports whether a shift id is a local, unpersisted identity
func IsTempID(id string) bool {
	return strings.HasPrefix(id, tempIDPrefix)
}

type opType string

const (
	opCreate opType = "create"
	opUpdate opType = "update"
	opDelete opType = "delete"
)

type queuedOp struct {
	typ     opType
	shiftID string
	flush   chan struct{}
}

// ReconcileResult counts the operations a ReconcileAll pass emitted
type ReconcileResult struct {
	Creates int `json:"creates"`
	Updates int `json:"updates"`
	Deletes int `json:"deletes"`
}

// ScheduleTotals are the derived summary fields autosaved onto the draft header
type ScheduleTotals struct {
	TotalLaborCost      float64
	LaborPercentage     float64
	TotalProjectedSales float64
	SalesPerLaborHour   float64
}

// SummaryFunc computes a draft's summary totals from its current shift set
type SummaryFunc func(weekStartDate string, shifts []models.Shift) ScheduleTotals

// DraftReconciler owns the in-memory draft of one week's shifts and keeps it
// reconciled with storage. Edits are optimistic: the local state changes
// immediately and a single worker goroutine drains a FIFO op queue with a
// fixed inter-operation delay, rolling the local state back when a create or
// update fails. Deletes tolerate "not found".
type DraftReconciler struct {
	mu sync.Mutex

	store     ShiftStore
	schedules ScheduleStore
	clock     Clock
	settings  Settings
	summarize SummaryFunc

	scheduleID    string
	weekStartDate string
	scheduleType  models.ScheduleType
	createdBy     string

	shifts        map[string]*models.Shift
	dirty         map[string]bool
	persisted     map[string]models.Shift
	pendingUpdate map[string]bool

	queue     chan queuedOp
	closed    bool
	saveTimer *time.Timer
}

// NewDraftReconciler builds a reconciler attached to an existing draft
// schedule and primes it with the persisted shift set.
func NewDraftReconciler(
	ctx context.Context,
	store ShiftStore,
	schedules ScheduleStore,
	clock Clock,
	settings Settings,
	summarize SummaryFunc,
	schedule *models.WeeklySchedule,
) (*DraftReconciler, error) {
	if clock == nil {
		clock = realClock{}
	}
	r := &DraftReconciler{
		store:         store,
		schedules:     schedules,
		clock:         clock,
		settings:      settings.Normalize(),
		summarize:     summarize,
		scheduleID:    schedule.ID,
		weekStartDate: schedule.WeekStartDate,
		scheduleType:  schedule.ScheduleType,
		createdBy:     schedule.CreatedBy,
		shifts:        make(map[string]*models.Shift),
		dirty:         make(map[string]bool),
		persisted:     make(map[string]models.Shift),
		pendingUpdate: make(map[string]bool),
		queue:         make(chan queuedOp, 256),
	}

	existing, err := store.Filter(ctx, ShiftFilter{ScheduleID: schedule.ID})
	if err != nil {
		return nil, fmt.Errorf("loading draft shifts: %w", err)
	}
	for i := range existing {
		s := existing[i]
		r.shifts[s.ID] = &s
		r.persisted[s.ID] = s
	}

	go r.worker()
	return r, nil
}

// ScheduleID returns the id of the draft schedule this reconciler owns
func (r *DraftReconciler) ScheduleID() string {
	return r.scheduleID
}

// Shifts returns a snapshot copy of the current in-memory draft
func (r *DraftReconciler) Shifts() []models.Shift {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

// AddShift inserts a placeholder shift into the draft. It receives a temporary
// local identity and is queued for creation; the optimistic insert is rolled
// back if the create fails.
func (r *DraftReconciler) AddShift(date, startTime, endTime string, positions []string) (*models.Shift, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, ErrReconcilerClosed
	}

	if len(positions) == 0 {
		positions = []string{PositionAnyTeamMember}
	}
	now := r.clock.Now().Unix()
	shift := &models.Shift{
		ID:         tempIDPrefix + uuid.New().String(),
		ScheduleID: r.scheduleID,
		Date:       date,
		StartTime:  startTime,
		EndTime:    endTime,
		Hours:      ShiftHours(startTime, endTime),
		Positions:  positions,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	r.shifts[shift.ID] = shift
	r.enqueueLocked(queuedOp{typ: opCreate, shiftID: shift.ID})
	r.scheduleAutosaveLocked()

	copied := *shift
	return &copied, nil
}

// ChangeField applies a single field edit to a draft shift. Edits touching
// start or end times recompute hours immediately. The shift is marked dirty
// and an update is queued (coalesced to at most one queued update per shift).
func (r *DraftReconciler) ChangeField(shiftID, field string, value interface{}) (*models.Shift, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, ErrReconcilerClosed
	}

	shift, ok := r.shifts[shiftID]
	if !ok {
		return nil, ErrShiftNotInDraft
	}

	if err := applyShiftField(shift, field, value); err != nil {
		return nil, err
	}
	if field == "start_time" || field == "end_time" {
		shift.Hours = ShiftHours(shift.StartTime, shift.EndTime)
	}
	shift.UpdatedAt = r.clock.Now().Unix()
	r.dirty[shiftID] = true

	if !IsTempID(shiftID) && !r.pendingUpdate[shiftID] {
		r.pendingUpdate[shiftID] = true
		r.enqueueLocked(queuedOp{typ: opUpdate, shiftID: shiftID})
	}
	r.scheduleAutosaveLocked()

	copied := *shift
	return &copied, nil
}

// RemoveShift drops a shift from the draft. Persisted shifts get a queued
// delete; a pending create for a temp shift is simply skipped by the worker.
func (r *DraftReconciler) RemoveShift(shiftID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrReconcilerClosed
	}

	if _, ok := r.shifts[shiftID]; !ok {
		return ErrShiftNotInDraft
	}
	delete(r.shifts, shiftID)
	delete(r.dirty, shiftID)

	if !IsTempID(shiftID) {
		r.enqueueLocked(queuedOp{typ: opDelete, shiftID: shiftID})
	}
	r.scheduleAutosaveLocked()
	return nil
}

// Flush blocks until every queued operation submitted so far has been drained
func (r *DraftReconciler) Flush() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	done := make(chan struct{})
	sent := r.enqueueLocked(queuedOp{flush: done})
	r.mu.Unlock()
	if sent {
		<-done
	}
}

// ReconcileAll diffs the in-memory draft against the persisted set and emits
// the minimal create/update/delete operations: creates for temp identities,
// updates for dirty persisted shifts, deletes for persisted identities absent
// from memory. Running it twice with no intervening edits is a no-op the
// second time.
func (r *DraftReconciler) ReconcileAll(ctx context.Context) (ReconcileResult, error) {
	r.Flush()

	var result ReconcileResult

	persistedSet, err := r.store.Filter(ctx, ShiftFilter{ScheduleID: r.scheduleID})
	if err != nil {
		return result, fmt.Errorf("fetching persisted shifts: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	persistedIDs := make(map[string]bool, len(persistedSet))
	for _, s := range persistedSet {
		persistedIDs[s.ID] = true
	}

	// Updates for dirty persisted shifts, creates for temp identities
	var tempIDs, dirtyIDs []string
	for id := range r.shifts {
		if IsTempID(id) {
			tempIDs = append(tempIDs, id)
		} else if r.dirty[id] {
			dirtyIDs = append(dirtyIDs, id)
		}
	}
	for _, id := range dirtyIDs {
		updated, err := r.store.Update(ctx, id, r.shifts[id])
		if err != nil {
			return result, fmt.Errorf("reconcile update: %w", err)
		}
		delete(r.dirty, id)
		delete(r.pendingUpdate, id)
		r.persisted[id] = *updated
		result.Updates++
	}
	for _, id := range tempIDs {
		created, err := r.store.Create(ctx, r.shifts[id])
		if err != nil {
			return result, fmt.Errorf("reconcile create: %w", err)
		}
		delete(r.shifts, id)
		delete(r.dirty, id)
		copied := *created
		r.shifts[created.ID] = &copied
		r.persisted[created.ID] = *created
		result.Creates++
	}

	// Deletes for persisted identities no longer present in memory
	for id := range persistedIDs {
		if _, ok := r.shifts[id]; ok {
			continue
		}
		if err := r.store.Delete(ctx, id); err != nil && err != ErrNotFound {
			return result, fmt.Errorf("reconcile delete: %w", err)
		}
		delete(r.persisted, id)
		result.Deletes++
	}

	return result, nil
}

// Close stops the worker and cancels any pending autosave. Queued operations
// already submitted are drained first.
func (r *DraftReconciler) Close() {
	r.Flush()
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	close(r.queue)
	if r.saveTimer != nil {
		r.saveTimer.Stop()
		r.saveTimer = nil
	}
}

// enqueueLocked hands an op to the worker. Ops always run on the single
// worker in submission order; when the queue is saturated the caller waits
// for room, releasing the lock so the worker can drain. Returns false when
// the reconciler closed while waiting.
func (r *DraftReconciler) enqueueLocked(op queuedOp) bool {
	for {
		if r.closed {
			return false
		}
		select {
		case r.queue <- op:
			return true
		default:
		}
		r.mu.Unlock()
		time.Sleep(r.settings.QueueDelay)
		r.mu.Lock()
	}
}

// worker drains the op queue strictly in order with a fixed delay between
// operations so a burst of edits does not hammer the backend
func (r *DraftReconciler) worker() {
	for op := range r.queue {
		if op.flush != nil {
			close(op.flush)
			continue
		}
		r.execute(op)
		time.Sleep(r.settings.QueueDelay)
	}
}

func (r *DraftReconciler) execute(op queuedOp) {
	ctx := context.Background()

	switch op.typ {
	case opCreate:
		r.mu.Lock()
		shift, ok := r.shifts[op.shiftID]
		if !ok {
			// Removed before the create ran
			r.mu.Unlock()
			return
		}
		payload := *shift
		r.mu.Unlock()

		created, err := r.store.Create(ctx, &payload)
		r.mu.Lock()
		if err != nil {
			log.Printf("❌ Draft %s: shift create failed, rolling back %s: %v", r.scheduleID, op.shiftID, err)
			delete(r.shifts, op.shiftID)
			delete(r.dirty, op.shiftID)
			r.mu.Unlock()
			return
		}
		if _, still := r.shifts[op.shiftID]; still {
			delete(r.shifts, op.shiftID)
			delete(r.dirty, op.shiftID)
			copied := *created
			r.shifts[created.ID] = &copied
			r.persisted[created.ID] = *created
		} else {
			// Removed while the create was in flight; undo it
			r.mu.Unlock()
			if err := r.store.Delete(ctx, created.ID); err != nil && err != ErrNotFound {
				log.Printf("⚠️ Draft %s: cleanup of orphaned shift %s failed: %v", r.scheduleID, created.ID, err)
			}
			return
		}
		r.mu.Unlock()

	case opUpdate:
		r.mu.Lock()
		delete(r.pendingUpdate, op.shiftID)
		shift, ok := r.shifts[op.shiftID]
		if !ok {
			r.mu.Unlock()
			return
		}
		payload := *shift
		r.mu.Unlock()

		updated, err := r.store.Update(ctx, op.shiftID, &payload)
		r.mu.Lock()
		if err != nil {
			log.Printf("❌ Draft %s: shift update failed for %s: %v", r.scheduleID, op.shiftID, err)
			if snapshot, ok := r.persisted[op.shiftID]; ok {
				restored := snapshot
				r.shifts[op.shiftID] = &restored
				delete(r.dirty, op.shiftID)
			}
			r.mu.Unlock()
			return
		}
		r.persisted[op.shiftID] = *updated
		delete(r.dirty, op.shiftID)
		r.mu.Unlock()

	case opDelete:
		if err := r.store.Delete(ctx, op.shiftID); err != nil && err != ErrNotFound {
			log.Printf("❌ Draft %s: shift delete failed for %s: %v", r.scheduleID, op.shiftID, err)
			return
		}
		r.mu.Lock()
		delete(r.persisted, op.shiftID)
		r.mu.Unlock()
	}
}

// scheduleAutosaveLocked debounces a save of the draft header's summary
// totals: each edit resets the timer, and the save runs after a quiet period
// without blocking further edits.
func (r *DraftReconciler) scheduleAutosaveLocked() {
	if r.summarize == nil {
		return
	}
	if r.saveTimer != nil {
		r.saveTimer.Stop()
	}
	r.saveTimer = time.AfterFunc(r.settings.AutosaveDelay, r.autosave)
}

func (r *DraftReconciler) autosave() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	shifts := r.snapshotLocked()
	r.mu.Unlock()

	totals := r.summarize(r.weekStartDate, shifts)

	ctx := context.Background()
	schedule, err := r.schedules.Get(ctx, r.scheduleID)
	if err != nil {
		log.Printf("❌ Draft %s: autosave fetch failed: %v", r.scheduleID, err)
		return
	}
	schedule.TotalLaborCost = totals.TotalLaborCost
	schedule.LaborPercentage = totals.LaborPercentage
	schedule.TotalProjectedSales = totals.TotalProjectedSales
	schedule.SalesPerLaborHour = totals.SalesPerLaborHour
	schedule.UpdatedAt = r.clock.Now().Unix()

	if _, err := r.schedules.Update(ctx, r.scheduleID, schedule); err != nil {
		log.Printf("❌ Draft %s: autosave failed: %v", r.scheduleID, err)
		return
	}
	log.Printf("💾 Draft %s: summary autosaved (cost %.2f, %.1f%%)", r.scheduleID, totals.TotalLaborCost, totals.LaborPercentage)
}

func (r *DraftReconciler) snapshotLocked() []models.Shift {
	out := make([]models.Shift, 0, len(r.shifts))
	for _, s := range r.shifts {
		out = append(out, *s)
	}
	return out
}

// applyShiftField mutates one field on a shift. Unknown fields are rejected so
// a typo in a client payload cannot silently no-op.
func applyShiftField(shift *models.Shift, field string, value interface{}) error {
	switch field {
	case "date":
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("field %q expects a string", field)
		}
		shift.Date = s
	case "start_time":
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("field %q expects a string", field)
		}
		shift.StartTime = s
	case "end_time":
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("field %q expects a string", field)
		}
		shift.EndTime = s
	case "positions":
		switch v := value.(type) {
		case []string:
			shift.Positions = v
		case []interface{}:
			positions := make([]string, 0, len(v))
			for _, item := range v {
				s, ok := item.(string)
				if !ok {
					return fmt.Errorf("field %q expects strings", field)
				}
				positions = append(positions, s)
			}
			shift.Positions = positions
		default:
			return fmt.Errorf("field %q expects a string list", field)
		}
	case "employee_id":
		shift.EmployeeID = optionalString(value)
	case "actual_start_time":
		shift.ActualStartTime = optionalString(value)
	case "actual_end_time":
		shift.ActualEndTime = optionalString(value)
	case "variance_reason":
		shift.VarianceReason = optionalString(value)
	default:
		return fmt.Errorf("unknown shift field %q", field)
	}
	return nil
}

func optionalString(value interface{}) *string {
	if value == nil {
		return nil
	}
	if s, ok := value.(string); ok && s != "" {
		return &s
	}
	return nil
}
