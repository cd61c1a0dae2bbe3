package attendance

import (
	"strings"
	"time"
)

// Fact is one normalized attendance observation for one employee on one day.
// ScheduleDate and JoinDate stay canonical YYYY-MM-DD strings rather than
// time.Time: the normalizer degrades unparseable upstream dates to a
// best-effort prefix instead of failing, and that value must survive as-is.
type Fact struct {
	UserID     *string
	EmployeeID string
	FullName   string

	ScheduleDate string
	ClockIn      *string // HH:MM:SS
	ClockOut     *string // HH:MM:SS
	RealWorkHour float64

	BranchID       int64
	BranchName     *string
	ShiftName      *string
	AttendanceCode *string
	Holiday        bool

	Gender           *string
	OrganizationID   *int64
	OrganizationName *string
	JobPositionID    *int64
	JobPosition      *string
	JobLevelID       *int64
	JobLevel         *string
	JoinDate         *string // YYYY-MM-DD
}

// IsPresent reports whether the employee is judged present for the day:
// worked hours recorded and both clock marks set. Every presence-dependent
// monetary field must be exactly 0 when this is false.
func (f Fact) IsPresent() bool {
	if f.RealWorkHour <= 0 {
		return false
	}
	if f.ClockIn == nil || strings.TrimSpace(*f.ClockIn) == "" {
		return false
	}
	if f.ClockOut == nil || strings.TrimSpace(*f.ClockOut) == "" {
		return false
	}
	return true
}

// ComputedDailyRecord is a Fact plus the derived daily payroll fields.
// Records are upserted by the (EmployeeID, ScheduleDate, BranchID) natural key.
type ComputedDailyRecord struct {
	ID int64

	Fact

	TenureGE1Y         bool
	HourlyRateUsed     int
	DailyBillableHours float64

	OvertimeHours        int
	OvertimeFirstAmount  int
	OvertimeSecondAmount int
	OvertimeTotalAmount  int

	PresencePremiumDaily int
	DailyTotalAmount     int

	BPJSTKDeduction  int
	BPJSKesDeduction int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PeriodSummary holds per-employee totals over a date range. Computed on
// demand from stored daily records; never persisted.
type PeriodSummary struct {
	EmployeeID string
	FullName   string

	MonthlyOvertimeTotal int
	MonthlyDailyTotal    int
	MonthlyPresenceTotal int
	WorkDays             int

	BPJSTK  int
	BPJSKes int
}
