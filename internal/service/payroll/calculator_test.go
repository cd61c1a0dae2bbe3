package payroll

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karyaprima/payroll-backend-go/internal/config"
	"github.com/karyaprima/payroll-backend-go/internal/domain/attendance"
)

func testRates() config.PayrollConfig {
	return config.PayrollConfig{
		MonthlyUnder1Y:         4_870_511,
		TenureAllowance:        25_000,
		PresencePremiumMonthly: 100_000,
		WorkDaysPerMonth:       25,
		MonthlyHoursDivisor:    173,
		BPJSTK:                 146_115,
		BPJSKes:                48_705,
	}
}

func strPtr(s string) *string { return &s }

// presentFact is a weekday (Monday 2025-07-07) fact with tenure over a year.
func presentFact(hours float64) attendance.Fact {
	return attendance.Fact{
		EmployeeID:   "EMP001",
		FullName:     "Budi Santoso",
		ScheduleDate: "2025-07-07",
		ClockIn:      strPtr("08:00:00"),
		ClockOut:     strPtr("17:00:00"),
		RealWorkHour: hours,
		BranchID:     21089,
		JoinDate:     strPtr("2020-01-15"),
	}
}

func TestComputeAbsentDayZeroesMonetaryFields(t *testing.T) {
	t.Parallel()
	calc := NewCalculator(testRates())

	cases := []struct {
		name string
		mut  func(*attendance.Fact)
	}{
		{"no worked hours", func(f *attendance.Fact) { f.RealWorkHour = 0 }},
		{"missing clock in", func(f *attendance.Fact) { f.ClockIn = nil }},
		{"missing clock out", func(f *attendance.Fact) { f.ClockOut = nil }},
		{"blank clock in", func(f *attendance.Fact) { f.ClockIn = strPtr("   ") }},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			fact := presentFact(8)
			tc.mut(&fact)

			rec := calc.Compute(fact)

			assert.Zero(t, rec.HourlyRateUsed)
			assert.Zero(t, rec.DailyBillableHours)
			assert.Zero(t, rec.OvertimeHours)
			assert.Zero(t, rec.OvertimeFirstAmount)
			assert.Zero(t, rec.OvertimeSecondAmount)
			assert.Zero(t, rec.OvertimeTotalAmount)
			assert.Zero(t, rec.PresencePremiumDaily)
			assert.Zero(t, rec.DailyTotalAmount)

			// Tenure and statutory deductions survive absence.
			assert.True(t, rec.TenureGE1Y)
			assert.Equal(t, 146_115, rec.BPJSTKDeduction)
			assert.Equal(t, 48_705, rec.BPJSKesDeduction)
		})
	}
}

func TestComputeHourlyRateRounding(t *testing.T) {
	t.Parallel()
	calc := NewCalculator(testRates())

	// 4,895,511 / 173 = 28,297.75 rounds half-up to 28,298
	rec := calc.Compute(presentFact(7))
	assert.Equal(t, 28_298, rec.HourlyRateUsed)

	// 4,870,511 / 173 = 28,153.24 rounds to 28,153
	junior := presentFact(7)
	junior.JoinDate = strPtr("2025-02-01")
	rec = calc.Compute(junior)
	assert.False(t, rec.TenureGE1Y)
	assert.Equal(t, 28_153, rec.HourlyRateUsed)
}

func TestComputeWeekdayOvertime(t *testing.T) {
	t.Parallel()
	calc := NewCalculator(testRates())

	// 9.5 worked hours: fraction dropped, 9 - 7 = 2 overtime hours,
	// first at 1.5x, second at 2x.
	rec := calc.Compute(presentFact(9.5))

	require.Equal(t, 2, rec.OvertimeHours)
	assert.Equal(t, 42_447, rec.OvertimeFirstAmount)  // 1 * 1.5 * 28,298
	assert.Equal(t, 56_596, rec.OvertimeSecondAmount) // 1 * 2.0 * 28,298
	assert.Equal(t, 99_043, rec.OvertimeTotalAmount)

	assert.Equal(t, 7.0, rec.DailyBillableHours)
	assert.Equal(t, 198_086+99_043, rec.DailyTotalAmount) // 7 * 28,298 + OT
	assert.Equal(t, 4_000, rec.PresencePremiumDaily)
}

func TestComputeWeekdayOvertimeCap(t *testing.T) {
	t.Parallel()
	calc := NewCalculator(testRates())

	// 13 worked hours would be 6 overtime hours; the cap holds it at 4.
	rec := calc.Compute(presentFact(13))

	require.Equal(t, 4, rec.OvertimeHours)
	assert.Equal(t, 42_447, rec.OvertimeFirstAmount)   // 1 * 1.5 * 28,298
	assert.Equal(t, 169_788, rec.OvertimeSecondAmount) // 3 * 2.0 * 28,298
}

func TestComputeNoOvertimeUnderEightHours(t *testing.T) {
	t.Parallel()
	calc := NewCalculator(testRates())

	rec := calc.Compute(presentFact(7))
	assert.Zero(t, rec.OvertimeHours)
	assert.Zero(t, rec.OvertimeTotalAmount)
	assert.Equal(t, 198_086, rec.DailyTotalAmount)

	// 7.9 floors to 7 whole hours: still no overtime, but billable hours
	// stay capped at 7 anyway.
	rec = calc.Compute(presentFact(7.9))
	assert.Zero(t, rec.OvertimeHours)
	assert.Equal(t, 7.0, rec.DailyBillableHours)
}

func TestComputeSundayOvertime(t *testing.T) {
	t.Parallel()
	calc := NewCalculator(testRates())

	// Sunday 2025-07-06, 10 worked hours: all hours are overtime,
	// 8 at 2x then 2 at 3x.
	fact := presentFact(10)
	fact.ScheduleDate = "2025-07-06"

	rec := calc.Compute(fact)

	require.Equal(t, 10, rec.OvertimeHours)
	assert.Equal(t, 452_768, rec.OvertimeFirstAmount)  // 8 * 2.0 * 28,298
	assert.Equal(t, 169_788, rec.OvertimeSecondAmount) // 2 * 3.0 * 28,298
	assert.Equal(t, 622_556, rec.OvertimeTotalAmount)
	assert.Equal(t, 198_086+622_556, rec.DailyTotalAmount)
}

func TestComputeHolidayFlagUsesHolidayTiers(t *testing.T) {
	t.Parallel()
	calc := NewCalculator(testRates())

	// A flagged holiday on a weekday takes the Sunday branch.
	fact := presentFact(6)
	fact.Holiday = true

	rec := calc.Compute(fact)

	require.Equal(t, 6, rec.OvertimeHours)
	assert.Equal(t, 339_576, rec.OvertimeFirstAmount) // 6 * 2.0 * 28,298
	assert.Zero(t, rec.OvertimeSecondAmount)
}

func TestComputeIsPureAndIdempotent(t *testing.T) {
	t.Parallel()
	calc := NewCalculator(testRates())

	fact := presentFact(9.5)
	first := calc.Compute(fact)
	second := calc.Compute(fact)

	assert.Equal(t, first, second)
}

func TestPresenceDailyRate(t *testing.T) {
	t.Parallel()
	calc := NewCalculator(testRates())
	assert.Equal(t, 4_000, calc.PresenceDailyRate())
}

func TestTenureAtLeastOneYear(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		join     *string
		schedule string
		want     bool
	}{
		{"nil join date fails open", nil, "2025-07-07", true},
		{"empty join date fails open", strPtr(""), "2025-07-07", true},
		{"malformed join date fails open", strPtr("not-a-date"), "2025-07-07", true},
		{"malformed schedule date fails open", strPtr("2024-01-01"), "garbage", true},
		{"schedule before join", strPtr("2026-01-01"), "2025-07-07", false},
		{"day before anniversary", strPtr("2024-07-08"), "2025-07-07", false},
		{"anniversary day", strPtr("2024-07-07"), "2025-07-07", true},
		{"well past a year", strPtr("2020-01-15"), "2025-07-07", true},
		{"same year join", strPtr("2025-02-01"), "2025-07-07", false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, tenureAtLeastOneYear(tc.join, tc.schedule))
		})
	}
}

func TestIsSunday(t *testing.T) {
	t.Parallel()
	assert.True(t, isSunday("2025-07-06"))
	assert.False(t, isSunday("2025-07-07"))
	assert.False(t, isSunday("not-a-date"))
}

func TestRoundHalfUp(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 28_298, roundHalfUp(28_297.75))
	assert.Equal(t, 28_153, roundHalfUp(28_153.24))
	assert.Equal(t, 3, roundHalfUp(2.5))
	assert.Equal(t, 2, roundHalfUp(2.49))
}
