package models

// SalesProjection holds the projected meal-period sales for one day of a week,
// plus optional recorded actuals once the day has happened.
type SalesProjection struct {
	ID             string   `json:"id" db:"id"`
	WeekStartDate  string   `json:"week_start_date" db:"week_start_date"`
	DayOfWeek      int      `json:"day_of_week" db:"day_of_week"`
	BreakfastSales float64  `json:"breakfast_sales" db:"breakfast_sales"`
	LunchSales     float64  `json:"lunch_sales" db:"lunch_sales"`
	DinnerSales    float64  `json:"dinner_sales" db:"dinner_sales"`
	LateNightSales float64  `json:"late_night_sales" db:"late_night_sales"`
	ActualAMSales  *float64 `json:"actual_am_sales" db:"actual_am_sales"`
	ActualPMSales  *float64 `json:"actual_pm_sales" db:"actual_pm_sales"`
	CreatedAt      int64    `json:"created_at" db:"created_at"`
	UpdatedAt      int64    `json:"updated_at" db:"updated_at"`
}

// AMSales returns the morning half of the day's sales, preferring recorded
// actuals over the projection when present.
func (p *SalesProjection) AMSales() float64 {
	if p.ActualAMSales != nil {
		return *p.ActualAMSales
	}
	return p.BreakfastSales + p.LunchSales
}

// PMSales returns the evening half of the day's sales
func (p *SalesProjection) PMSales() float64 {
	if p.ActualPMSales != nil {
		return *p.ActualPMSales
	}
	return p.DinnerSales + p.LateNightSales
}

// TotalSales returns the full day's sales
func (p *SalesProjection) TotalSales() float64 {
	return p.AMSales() + p.PMSales()
}
