package services

import (
	"math"

	"crewplan-backend/internal/models"
)

// PeriodMetrics aggregates one period (AM, PM, or the whole day/week)
type PeriodMetrics struct {
	Sales             float64 `json:"sales"`
	Hours             float64 `json:"hours"`
	LaborCost         float64 `json:"labor_cost"`
	LaborPercent      float64 `json:"labor_percent"`
	SalesPerLaborHour float64 `json:"sales_per_labor_hour"`
}

// LaborSummary is the full output of the labor metrics calculator
type LaborSummary struct {
	AM             PeriodMetrics `json:"am"`
	PM             PeriodMetrics `json:"pm"`
	Total          PeriodMetrics `json:"total"`
	PreOpenHours   float64       `json:"pre_open_hours"`
	PostCloseHours float64       `json:"post_close_hours"`
}

// SalesSplit carries the sales figures for the period being summarized
type SalesSplit struct {
	AM float64 `json:"am"`
	PM float64 `json:"pm"`
}

// VarianceReasonThreshold is the absolute variance, in hours, at which a
// variance reason must be collected from the manager (15 minutes).
const VarianceReasonThreshold = 0.25

// ComputeLaborSummary aggregates a set of shifts into AM/PM/total hours, cost,
// labor percent, and sales-per-labor-hour, plus the pre-open/post-close hours
// outside the store's operating window.
//
// Hours count for every shift; cost accrues only for shifts assigned to an
// hourly employee. All ratios are zero when their denominator is zero.
func ComputeLaborSummary(
	shifts []models.Shift,
	employees []models.Employee,
	sales SalesSplit,
	settings Settings,
) LaborSummary {
	settings = settings.Normalize()

	rates := make(map[string]float64, len(employees))
	for _, emp := range employees {
		if emp.IsHourly() {
			rates[emp.ID] = emp.HourlyRate
		}
	}

	var summary LaborSummary
	for _, shift := range shifts {
		cost := 0.0
		if shift.EmployeeID != nil {
			if rate, ok := rates[*shift.EmployeeID]; ok {
				cost = shift.Hours * rate
			}
		}

		if IsAM(shift.StartTime, settings.MiddayCutoff) {
			summary.AM.Hours += shift.Hours
			summary.AM.LaborCost += cost
		} else {
			summary.PM.Hours += shift.Hours
			summary.PM.LaborCost += cost
		}

		pre, post := outsideWindowHours(shift, settings)
		summary.PreOpenHours += pre
		summary.PostCloseHours += post
	}

	summary.AM.Sales = sales.AM
	summary.PM.Sales = sales.PM
	summary.Total = PeriodMetrics{
		Sales:     sales.AM + sales.PM,
		Hours:     summary.AM.Hours + summary.PM.Hours,
		LaborCost: summary.AM.LaborCost + summary.PM.LaborCost,
	}

	finishPeriod(&summary.AM)
	finishPeriod(&summary.PM)
	finishPeriod(&summary.Total)
	return summary
}

// ActualHours returns the worked duration from the shift's recorded actual
// times, clamped at zero. Falls back to zero when actuals are missing.
func ActualHours(shift models.Shift) float64 {
	if shift.ActualStartTime == nil || shift.ActualEndTime == nil {
		return 0
	}
	return ShiftHours(*shift.ActualStartTime, *shift.ActualEndTime)
}

// VarianceHours is actual minus projected hours for an audited shift
func VarianceHours(shift models.Shift) float64 {
	return ActualHours(shift) - shift.Hours
}

// NeedsVarianceReason reports whether the variance is large enough that a
// reason must be collected. The caller enforces collection; this only exposes
// the obligation.
func NeedsVarianceReason(shift models.Shift) bool {
	if shift.ActualStartTime == nil || shift.ActualEndTime == nil {
		return false
	}
	return math.Abs(VarianceHours(shift)) >= VarianceReasonThreshold
}

func finishPeriod(p *PeriodMetrics) {
	if p.Sales > 0 {
		p.LaborPercent = p.LaborCost / p.Sales * 100
	}
	if p.Hours > 0 {
		p.SalesPerLaborHour = p.Sales / p.Hours
	}
}

// outsideWindowHours measures the portion of a shift before open and after
// close, preferring actual times when recorded. Additive exposure, never
// subtracted from the shift's hours.
func outsideWindowHours(shift models.Shift, settings Settings) (pre, post float64) {
	start := shift.StartTime
	end := shift.EndTime
	if shift.ActualStartTime != nil && shift.ActualEndTime != nil {
		start = *shift.ActualStartTime
		end = *shift.ActualEndTime
	}

	s, e := ClockToDecimal(start), ClockToDecimal(end)
	if e <= s {
		return 0, 0
	}
	open := ClockToDecimal(settings.OpenTime)
	closeAt := ClockToDecimal(settings.CloseTime)

	if s < open {
		pre = math.Min(e, open) - s
	}
	if e > closeAt {
		post = e - math.Max(s, closeAt)
	}
	return pre, post
}
