package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crewplan-backend/internal/models"
)

// 2025-03-10 is a Monday
const testDate = "2025-03-10"

func testEmployee(id string, positions ...string) models.Employee {
	return models.Employee{
		ID:        id,
		Name:      "Employee " + id,
		PayType:   models.PayTypeHourly,
		Positions: positions,
		IsActive:  true,
	}
}

// openAllWeek mirrors the seeded default window, 00:00 through the 24:00 day
// boundary, for every weekday
func openAllWeek(employeeID string) []models.Availability {
	out := make([]models.Availability, 0, 7)
	for day := 0; day <= 6; day++ {
		out = append(out, models.Availability{
			EmployeeID:  employeeID,
			DayOfWeek:   day,
			IsAvailable: true,
			StartTime:   "00:00",
			EndTime:     "24:00",
		})
	}
	return out
}

func testShift(id, date, start, end string, positions ...string) models.Shift {
	return models.Shift{
		ID:        id,
		Date:      date,
		StartTime: start,
		EndTime:   end,
		Hours:     ShiftHours(start, end),
		Positions: positions,
	}
}

func strPtr(s string) *string { return &s }

func TestEvaluateAssignmentTimeOff(t *testing.T) {
	emp := testEmployee("e1", "Cook")
	shift := testShift("s1", testDate, "09:00", "17:00", "Cook")
	availability := openAllWeek("e1")

	t.Run("approved all-day time off blocks", func(t *testing.T) {
		timeOff := []models.TimeOffRequest{{
			EmployeeID: "e1",
			StartDate:  testDate,
			EndDate:    testDate,
			IsAllDay:   true,
			Status:     models.TimeOffApproved,
		}}
		eval := EvaluateAssignment(emp, shift, availability, timeOff, nil)
		assert.Equal(t, ClassificationTimeOff, eval.Classification)
		assert.False(t, eval.IsAvailable)
		assert.Equal(t, float64(conflictScore), eval.Score)
	})

	t.Run("pending time off is ignored", func(t *testing.T) {
		timeOff := []models.TimeOffRequest{{
			EmployeeID: "e1",
			StartDate:  testDate,
			EndDate:    testDate,
			IsAllDay:   true,
			Status:     models.TimeOffPending,
		}}
		eval := EvaluateAssignment(emp, shift, availability, timeOff, nil)
		assert.Equal(t, ClassificationAvailable, eval.Classification)
	})

	t.Run("time off outside the date range is ignored", func(t *testing.T) {
		timeOff := []models.TimeOffRequest{{
			EmployeeID: "e1",
			StartDate:  "2025-03-12",
			EndDate:    "2025-03-14",
			IsAllDay:   true,
			Status:     models.TimeOffApproved,
		}}
		eval := EvaluateAssignment(emp, shift, availability, timeOff, nil)
		assert.Equal(t, ClassificationAvailable, eval.Classification)
	})

	t.Run("partial-day time off blocks only when it overlaps", func(t *testing.T) {
		timeOff := []models.TimeOffRequest{{
			EmployeeID: "e1",
			StartDate:  testDate,
			EndDate:    testDate,
			IsAllDay:   false,
			StartTime:  strPtr("06:00"),
			EndTime:    strPtr("09:00"),
			Status:     models.TimeOffApproved,
		}}
		// Back-to-back with the shift: no overlap
		eval := EvaluateAssignment(emp, shift, availability, timeOff, nil)
		assert.Equal(t, ClassificationAvailable, eval.Classification)

		timeOff[0].EndTime = strPtr("10:00")
		eval = EvaluateAssignment(emp, shift, availability, timeOff, nil)
		assert.Equal(t, ClassificationTimeOff, eval.Classification)
	})

	t.Run("another employee's time off does not block", func(t *testing.T) {
		timeOff := []models.TimeOffRequest{{
			EmployeeID: "other",
			StartDate:  testDate,
			EndDate:    testDate,
			IsAllDay:   true,
			Status:     models.TimeOffApproved,
		}}
		eval := EvaluateAssignment(emp, shift, availability, timeOff, nil)
		assert.Equal(t, ClassificationAvailable, eval.Classification)
	})
}

func TestEvaluateAssignmentAvailability(t *testing.T) {
	emp := testEmployee("e1", "Cook")
	shift := testShift("s1", testDate, "09:00", "17:00", "Cook")

	t.Run("no record for the weekday means unavailable", func(t *testing.T) {
		eval := EvaluateAssignment(emp, shift, nil, nil, nil)
		assert.Equal(t, ClassificationUnavailable, eval.Classification)
	})

	t.Run("explicitly unavailable day blocks", func(t *testing.T) {
		availability := []models.Availability{{
			EmployeeID: "e1", DayOfWeek: 1, IsAvailable: false,
			StartTime: "00:00", EndTime: "23:59",
		}}
		eval := EvaluateAssignment(emp, shift, availability, nil, nil)
		assert.Equal(t, ClassificationUnavailable, eval.Classification)
	})

	t.Run("shift must fit entirely inside the window", func(t *testing.T) {
		availability := []models.Availability{{
			EmployeeID: "e1", DayOfWeek: 1, IsAvailable: true,
			StartTime: "10:00", EndTime: "18:00",
		}}
		eval := EvaluateAssignment(emp, shift, availability, nil, nil)
		assert.Equal(t, ClassificationTimeConflict, eval.Classification)

		inside := testShift("s2", testDate, "10:00", "18:00", "Cook")
		eval = EvaluateAssignment(emp, inside, availability, nil, nil)
		assert.Equal(t, ClassificationAvailable, eval.Classification)
	})

	t.Run("full-day window accepts any shift", func(t *testing.T) {
		availability := []models.Availability{{
			EmployeeID: "e1", DayOfWeek: 1, IsAvailable: true,
			StartTime: "00:00", EndTime: "24:00",
		}}
		eval := EvaluateAssignment(emp, shift, availability, nil, nil)
		assert.Equal(t, ClassificationAvailable, eval.Classification)

		closing := testShift("s4", testDate, "16:00", "24:00", "Cook")
		eval = EvaluateAssignment(emp, closing, availability, nil, nil)
		assert.Equal(t, ClassificationAvailable, eval.Classification)
	})

	t.Run("unparseable date classifies as unavailable", func(t *testing.T) {
		bad := testShift("s3", "not-a-date", "09:00", "17:00", "Cook")
		eval := EvaluateAssignment(emp, bad, openAllWeek("e1"), nil, nil)
		assert.Equal(t, ClassificationUnavailable, eval.Classification)
	})
}

func TestEvaluateAssignmentPositions(t *testing.T) {
	availability := openAllWeek("e1")

	t.Run("missing position blocks", func(t *testing.T) {
		emp := testEmployee("e1", "Server")
		shift := testShift("s1", testDate, "09:00", "17:00", "Cook")
		eval := EvaluateAssignment(emp, shift, availability, nil, nil)
		assert.Equal(t, ClassificationWrongPosition, eval.Classification)
	})

	t.Run("every required position must be held", func(t *testing.T) {
		emp := testEmployee("e1", "Cook")
		shift := testShift("s1", testDate, "09:00", "17:00", "Cook", "Prep")
		eval := EvaluateAssignment(emp, shift, availability, nil, nil)
		assert.Equal(t, ClassificationWrongPosition, eval.Classification)

		emp = testEmployee("e1", "Cook", "Prep")
		eval = EvaluateAssignment(emp, shift, availability, nil, nil)
		assert.Equal(t, ClassificationAvailable, eval.Classification)
	})

	t.Run("wildcard accepts anyone", func(t *testing.T) {
		emp := testEmployee("e1") // no trained positions at all
		shift := testShift("s1", testDate, "09:00", "17:00", PositionAnyTeamMember)
		eval := EvaluateAssignment(emp, shift, availability, nil, nil)
		assert.Equal(t, ClassificationAvailable, eval.Classification)
	})

	t.Run("no required positions accepts anyone", func(t *testing.T) {
		emp := testEmployee("e1")
		shift := testShift("s1", testDate, "09:00", "17:00")
		eval := EvaluateAssignment(emp, shift, availability, nil, nil)
		assert.Equal(t, ClassificationAvailable, eval.Classification)
	})
}

func TestEvaluateAssignmentDoubleBooking(t *testing.T) {
	emp := testEmployee("e1", "Cook")
	availability := openAllWeek("e1")
	shift := testShift("s1", testDate, "09:00", "13:00", "Cook")

	t.Run("overlapping assigned shift blocks", func(t *testing.T) {
		other := testShift("s2", testDate, "12:00", "17:00", "Cook")
		other.EmployeeID = strPtr("e1")
		eval := EvaluateAssignment(emp, shift, availability, nil, []models.Shift{other})
		assert.Equal(t, ClassificationOverlapping, eval.Classification)
	})

	t.Run("back-to-back shifts do not block", func(t *testing.T) {
		other := testShift("s2", testDate, "13:00", "17:00", "Cook")
		other.EmployeeID = strPtr("e1")
		eval := EvaluateAssignment(emp, shift, availability, nil, []models.Shift{other})
		assert.Equal(t, ClassificationAvailable, eval.Classification)
	})

	t.Run("overlap on another date does not block", func(t *testing.T) {
		other := testShift("s2", "2025-03-11", "09:00", "13:00", "Cook")
		other.EmployeeID = strPtr("e1")
		eval := EvaluateAssignment(emp, shift, availability, nil, []models.Shift{other})
		assert.Equal(t, ClassificationAvailable, eval.Classification)
	})

	t.Run("the shift itself is skipped", func(t *testing.T) {
		assigned := shift
		assigned.EmployeeID = strPtr("e1")
		eval := EvaluateAssignment(emp, shift, availability, nil, []models.Shift{assigned})
		assert.Equal(t, ClassificationAvailable, eval.Classification)
	})
}

func TestEvaluateAssignmentScore(t *testing.T) {
	emp := testEmployee("e1", "Cook")
	availability := openAllWeek("e1")
	shift := testShift("s1", testDate, "09:00", "13:00", "Cook")

	// 6 hours already assigned this week, on a different day
	other := testShift("s2", "2025-03-12", "09:00", "15:00", "Cook")
	other.EmployeeID = strPtr("e1")

	eval := EvaluateAssignment(emp, shift, availability, nil, []models.Shift{other})
	require.True(t, eval.IsAvailable)
	assert.InDelta(t, 94.0, eval.Score, 1e-9)

	// With nothing assigned the score is the full 100
	eval = EvaluateAssignment(emp, shift, availability, nil, nil)
	assert.InDelta(t, 100.0, eval.Score, 1e-9)
}

func TestSuggestEmployees(t *testing.T) {
	light := testEmployee("light", "Cook")
	heavy := testEmployee("heavy", "Cook")
	wrong := testEmployee("wrong", "Server")
	inactive := testEmployee("inactive", "Cook")
	inactive.IsActive = false

	availability := append(openAllWeek("light"), openAllWeek("heavy")...)
	availability = append(availability, openAllWeek("wrong")...)
	availability = append(availability, openAllWeek("inactive")...)

	shift := testShift("s1", testDate, "09:00", "13:00", "Cook")

	// heavy already carries 8 hours this week
	loaded := testShift("s2", "2025-03-12", "09:00", "17:00", "Cook")
	loaded.EmployeeID = strPtr("heavy")
	weekShifts := []models.Shift{loaded}

	suggestions := SuggestEmployees(shift, []models.Employee{heavy, light, wrong, inactive}, availability, nil, weekShifts, 0)
	require.Len(t, suggestions, 2)
	assert.Equal(t, "light", suggestions[0].Employee.ID)
	assert.Equal(t, "heavy", suggestions[1].Employee.ID)
	assert.Greater(t, suggestions[0].Score, suggestions[1].Score)

	t.Run("limit caps the list", func(t *testing.T) {
		capped := SuggestEmployees(shift, []models.Employee{heavy, light}, availability, nil, weekShifts, 1)
		require.Len(t, capped, 1)
		assert.Equal(t, "light", capped[0].Employee.ID)
	})

	t.Run("ties keep input order", func(t *testing.T) {
		a := testEmployee("a", "Cook")
		b := testEmployee("b", "Cook")
		avail := append(openAllWeek("a"), openAllWeek("b")...)
		tied := SuggestEmployees(shift, []models.Employee{b, a}, avail, nil, nil, 0)
		require.Len(t, tied, 2)
		assert.Equal(t, "b", tied[0].Employee.ID)
		assert.Equal(t, "a", tied[1].Employee.ID)
	})
}
