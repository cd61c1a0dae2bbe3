package payroll

import (
	"math"
	"time"

	"github.com/karyaprima/payroll-backend-go/internal/config"
	"github.com/karyaprima/payroll-backend-go/internal/domain/attendance"
)

const (
	// Regular weekday: the first 7 worked hours are base salary, anything
	// beyond is overtime, capped per day.
	regularDailyHours  = 7
	weekdayOvertimeCap = 4

	// Sunday/holiday: every worked hour is overtime; the multiplier steps up
	// after the eighth hour.
	holidayTierOneHours = 8
)

// Calculator derives the daily payroll fields from one attendance fact.
// Pure and total: it never fails, never touches a clock, and is safe to call
// concurrently. Wage constants are injected so rate changes stay config-only.
type Calculator struct {
	rates config.PayrollConfig
}

func NewCalculator(rates config.PayrollConfig) *Calculator {
	return &Calculator{rates: rates}
}

// PresenceDailyRate is the per-day presence bonus: the monthly premium spread
// flat across the assumed working days, floored to whole rupiah.
func (c *Calculator) PresenceDailyRate() int {
	return c.rates.PresencePremiumMonthly / c.rates.WorkDaysPerMonth
}

// Compute turns a normalized fact into a fully populated daily record.
// Presence is the gate: an absent day keeps the record (for reporting) but
// zeroes every presence-dependent monetary field.
func (c *Calculator) Compute(fact attendance.Fact) attendance.ComputedDailyRecord {
	rec := attendance.ComputedDailyRecord{Fact: fact}

	present := fact.IsPresent()
	rec.TenureGE1Y = tenureAtLeastOneYear(fact.JoinDate, fact.ScheduleDate)

	// Statutory deductions are monthly constants stored on every row so the
	// recap can read them off any single record.
	rec.BPJSTKDeduction = c.rates.BPJSTK
	rec.BPJSKesDeduction = c.rates.BPJSKes

	if !present {
		return rec
	}

	monthly := c.rates.MonthlyUnder1Y
	if rec.TenureGE1Y {
		monthly = c.rates.MonthlyGE1Y()
	}
	hourlyRate := roundHalfUp(float64(monthly) / float64(c.rates.MonthlyHoursDivisor))
	rec.HourlyRateUsed = hourlyRate

	// Overtime tiers work on whole hours; fractions are dropped before
	// monetization, matching the reference rate sheet.
	wholeHours := int(math.Floor(fact.RealWorkHour))
	if wholeHours < 0 {
		wholeHours = 0
	}

	if fact.Holiday || isSunday(fact.ScheduleDate) {
		firstTier := min(wholeHours, holidayTierOneHours)
		secondTier := max(wholeHours-holidayTierOneHours, 0)
		rec.OvertimeFirstAmount = roundHalfUp(float64(firstTier) * 2.0 * float64(hourlyRate))
		rec.OvertimeSecondAmount = roundHalfUp(float64(secondTier) * 3.0 * float64(hourlyRate))
		rec.OvertimeHours = wholeHours
	} else {
		overtime := max(wholeHours-regularDailyHours, 0)
		overtime = min(overtime, weekdayOvertimeCap)
		firstTier := min(overtime, 1)
		secondTier := max(overtime-1, 0)
		rec.OvertimeFirstAmount = roundHalfUp(float64(firstTier) * 1.5 * float64(hourlyRate))
		rec.OvertimeSecondAmount = roundHalfUp(float64(secondTier) * 2.0 * float64(hourlyRate))
		rec.OvertimeHours = overtime
	}
	rec.OvertimeTotalAmount = rec.OvertimeFirstAmount + rec.OvertimeSecondAmount

	rec.DailyBillableHours = math.Min(math.Max(fact.RealWorkHour, 0), float64(regularDailyHours))
	baseSalary := roundHalfUp(rec.DailyBillableHours * float64(hourlyRate))
	rec.DailyTotalAmount = baseSalary + rec.OvertimeTotalAmount

	if rec.TenureGE1Y {
		rec.PresencePremiumDaily = c.PresenceDailyRate()
	}

	return rec
}

// tenureAtLeastOneYear compares calendar-year components, not day counts:
// service reaches one year on the join date's anniversary. Unknown or
// malformed dates fail open so missing data never docks pay.
func tenureAtLeastOneYear(joinDate *string, scheduleDate string) bool {
	if joinDate == nil || *joinDate == "" {
		return true
	}
	jd, err := time.Parse("2006-01-02", *joinDate)
	if err != nil {
		return true
	}
	sd, err := time.Parse("2006-01-02", scheduleDate)
	if err != nil {
		return true
	}
	if sd.Before(jd) {
		return false
	}

	years := sd.Year() - jd.Year()
	if sd.Month() < jd.Month() || (sd.Month() == jd.Month() && sd.Day() < jd.Day()) {
		years--
	}
	return years >= 1
}

// isSunday is false for unparseable dates, leaving them on the weekday branch.
func isSunday(scheduleDate string) bool {
	d, err := time.Parse("2006-01-02", scheduleDate)
	if err != nil {
		return false
	}
	return d.Weekday() == time.Sunday
}

// roundHalfUp rounds monetary amounts to whole currency units, halves up.
// Amounts here are never negative, so half-away-from-zero is equivalent.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
