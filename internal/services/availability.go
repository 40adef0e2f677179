package services

import (
	"sort"
	"time"

	"crewplan-backend/internal/models"
)

// PositionAnyTeamMember is the wildcard position. A shift that requires it (or
// requires nothing) accepts any employee regardless of training.
const PositionAnyTeamMember = "Team Member"

// Classification labels the outcome of evaluating an employee against a shift
type Classification string

const (
	ClassificationTimeOff       Classification = "time_off"
	ClassificationUnavailable   Classification = "unavailable"
	ClassificationWrongPosition Classification = "wrong_position"
	ClassificationTimeConflict  Classification = "time_conflict"
	ClassificationOverlapping   Classification = "overlapping"
	ClassificationAvailable     Classification = "available"
)

const conflictScore = -100

// Evaluation is the result of a single (employee, shift) assignment check
type Evaluation struct {
	Classification Classification `json:"classification"`
	IsAvailable    bool           `json:"is_available"`
	Score          float64        `json:"score"`
}

// Suggestion pairs an available employee with their ranking score
type Suggestion struct {
	Employee models.Employee `json:"employee"`
	Score    float64         `json:"score"`
}

// EvaluateAssignment classifies whether an employee may fill a shift.
// Rules are checked in order and the first conflict wins; a fully clean pass
// scores 100 minus the employee's already-assigned hours this week, so lighter
// loads rank higher. Pure function, no side effects.
func EvaluateAssignment(
	employee models.Employee,
	shift models.Shift,
	availability []models.Availability,
	timeOff []models.TimeOffRequest,
	weekShifts []models.Shift,
) Evaluation {
	// 1. Approved time off covering the shift date
	for _, req := range timeOff {
		if req.EmployeeID != employee.ID || req.Status != models.TimeOffApproved {
			continue
		}
		if !req.CoversDate(shift.Date) {
			continue
		}
		if req.IsAllDay || req.StartTime == nil || req.EndTime == nil {
			return conflict(ClassificationTimeOff)
		}
		if Overlaps(*req.StartTime, *req.EndTime, shift.StartTime, shift.EndTime) {
			return conflict(ClassificationTimeOff)
		}
	}

	// 2. Weekly availability for the shift's weekday; absent record means unavailable
	day := weekdayOf(shift.Date)
	var window *models.Availability
	for i := range availability {
		if availability[i].EmployeeID == employee.ID && availability[i].DayOfWeek == day {
			window = &availability[i]
			break
		}
	}
	if window == nil || !window.IsAvailable {
		return conflict(ClassificationUnavailable)
	}

	// 3. Position match: every required position must be held, unless the shift
	// asks for the Team Member wildcard
	if !positionsSatisfied(employee, shift.Positions) {
		return conflict(ClassificationWrongPosition)
	}

	// 4. Shift must lie entirely within the availability window
	if ClockToDecimal(shift.StartTime) < ClockToDecimal(window.StartTime) ||
		ClockToDecimal(shift.EndTime) > ClockToDecimal(window.EndTime) {
		return conflict(ClassificationTimeConflict)
	}

	// 5. Double booking against the employee's other shifts on the same date
	for _, other := range weekShifts {
		if other.ID == shift.ID || other.Date != shift.Date || !other.AssignedTo(employee.ID) {
			continue
		}
		if Overlaps(other.StartTime, other.EndTime, shift.StartTime, shift.EndTime) {
			return conflict(ClassificationOverlapping)
		}
	}

	return Evaluation{
		Classification: ClassificationAvailable,
		IsAvailable:    true,
		Score:          100 - assignedHours(employee.ID, weekShifts),
	}
}

// SuggestEmployees ranks the available employees for a shift, best first.
// Ties keep input order (stable sort). limit <= 0 means no cap.
func SuggestEmployees(
	shift models.Shift,
	employees []models.Employee,
	availability []models.Availability,
	timeOff []models.TimeOffRequest,
	weekShifts []models.Shift,
	limit int,
) []Suggestion {
	suggestions := make([]Suggestion, 0, len(employees))
	for _, emp := range employees {
		if !emp.IsActive {
			continue
		}
		eval := EvaluateAssignment(emp, shift, availability, timeOff, weekShifts)
		if !eval.IsAvailable {
			continue
		}
		suggestions = append(suggestions, Suggestion{Employee: emp, Score: eval.Score})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Score > suggestions[j].Score
	})

	if limit > 0 && len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions
}

func conflict(c Classification) Evaluation {
	return Evaluation{Classification: c, IsAvailable: false, Score: conflictScore}
}

func positionsSatisfied(employee models.Employee, required []string) bool {
	if len(required) == 0 {
		return true
	}
	for _, pos := range required {
		if pos == PositionAnyTeamMember {
			return true
		}
	}
	for _, pos := range required {
		if !employee.HoldsPosition(pos) {
			return false
		}
	}
	return true
}

func assignedHours(employeeID string, weekShifts []models.Shift) float64 {
	total := 0.0
	for _, s := range weekShifts {
		if s.AssignedTo(employeeID) {
			total += s.Hours
		}
	}
	return total
}

// weekdayOf returns 0=Sunday..6=Saturday for a "YYYY-MM-DD" date, -1 when the
// date cannot be parsed (which then classifies as unavailable, never panics)
func weekdayOf(date string) int {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return -1
	}
	return int(t.Weekday())
}
