package attendance

import (
	"strings"

	"github.com/karyaprima/payroll-backend-go/internal/pkg/validator"
)

// ========================================
// LIST / RECAP DTOs
// ========================================

type ListFilter struct {
	// Search & Filter
	BranchID       int64   `json:"branch_id"`
	StartDate      *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate        *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Query          *string `json:"q,omitempty"`          // employee_id or full_name prefix
	OrganizationID *int64  `json:"organization_id,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`

	// Sorting
	SortBy    string `json:"sort_by"`    // schedule_date, employee_id, full_name, daily_total_amount
	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *ListFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.BranchID <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "branch_id",
			Message: "branch_id is required",
		})
	}

	// Page validation
	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1 // Default page
	}

	// Limit validation
	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 10 // Default limit (matches the web UI page size)
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	// Date validation
	if f.StartDate != nil && *f.StartDate != "" {
		if _, valid := validator.IsValidDate(*f.StartDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.EndDate != nil && *f.EndDate != "" {
		if _, valid := validator.IsValidDate(*f.EndDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	// Swap an inverted range rather than rejecting it (the UI sends both ends
	// from free-typed inputs)
	if f.StartDate != nil && f.EndDate != nil && *f.StartDate > *f.EndDate {
		f.StartDate, f.EndDate = f.EndDate, f.StartDate
	}

	// Sort validation
	if f.SortBy != "" {
		validSortFields := []string{"schedule_date", "employee_id", "full_name", "daily_total_amount"}
		if !validator.IsInSlice(f.SortBy, validSortFields) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_by",
				Message: "sort_by must be one of: schedule_date, employee_id, full_name, daily_total_amount",
			})
		}
	} else {
		f.SortBy = "schedule_date" // Default sort
	}

	if f.SortOrder != "" {
		validSortOrders := []string{"asc", "desc"}
		if !validator.IsInSlice(strings.ToLower(f.SortOrder), validSortOrders) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_order",
				Message: "sort_order must be one of: asc, desc",
			})
		}
	} else {
		f.SortOrder = "asc" // Default ascending (chronological)
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// RangeScope selects the full (unpaginated) record set for aggregation,
// export, and payslips.
type RangeScope struct {
	BranchID       int64
	StartDate      string // YYYY-MM-DD
	EndDate        string // YYYY-MM-DD
	Query          *string
	OrganizationID *int64
	EmployeeID     *string
}

type RecordResponse struct {
	ID         int64   `json:"id"`
	UserID     *string `json:"user_id,omitempty"`
	EmployeeID string  `json:"employee_id"`
	FullName   string  `json:"full_name"`

	ScheduleDate string  `json:"schedule_date"`
	ClockIn      *string `json:"clock_in,omitempty"`
	ClockOut     *string `json:"clock_out,omitempty"`
	RealWorkHour float64 `json:"real_work_hour"`
	Present      bool    `json:"present"`

	BranchID         int64   `json:"branch_id"`
	BranchName       *string `json:"branch_name,omitempty"`
	ShiftName        *string `json:"shift_name,omitempty"`
	AttendanceCode   *string `json:"attendance_code,omitempty"`
	Holiday          bool    `json:"holiday"`
	Gender           *string `json:"gender,omitempty"`
	OrganizationID   *int64  `json:"organization_id,omitempty"`
	OrganizationName *string `json:"organization_name,omitempty"`
	JobPosition      *string `json:"job_position,omitempty"`
	JoinDate         *string `json:"join_date,omitempty"`

	TenureGE1Y           bool    `json:"tenure_ge_1y"`
	HourlyRateUsed       int     `json:"hourly_rate_used"`
	DailyBillableHours   float64 `json:"daily_billable_hours"`
	OvertimeHours        int     `json:"overtime_hours"`
	OvertimeFirstAmount  int     `json:"overtime_first_amount"`
	OvertimeSecondAmount int     `json:"overtime_second_amount"`
	OvertimeTotalAmount  int     `json:"overtime_total_amount"`
	PresencePremiumDaily int     `json:"presence_premium_daily"`
	DailyTotalAmount     int     `json:"daily_total_amount"`
	BPJSTKDeduction      int     `json:"bpjs_tk_deduction"`
	BPJSKesDeduction     int     `json:"bpjs_kes_deduction"`
}

type PeriodSummaryResponse struct {
	EmployeeID           string `json:"employee_id"`
	FullName             string `json:"full_name"`
	MonthlyOvertimeTotal int    `json:"monthly_overtime_total"`
	MonthlyDailyTotal    int    `json:"monthly_daily_total"`
	MonthlyPresenceTotal int    `json:"monthly_presence_total"`
	WorkDays             int    `json:"work_days"`
	BPJSTK               int    `json:"bpjs_tk"`
	BPJSKes              int    `json:"bpjs_kes"`
}

type OrganizationOption struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type EmployeeOption struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ListResponse struct {
	TotalCount     int64                   `json:"total_count"`
	Page           int                     `json:"page"`
	Limit          int                     `json:"limit"`
	TotalPages     int                     `json:"total_pages"`
	Records        []RecordResponse        `json:"records"`
	EmployeeTotals []PeriodSummaryResponse `json:"employee_totals"`
	Organizations  []OrganizationOption    `json:"organizations"`
	Employees      []EmployeeOption        `json:"employees"`
}

// ========================================
// IMPORT DTOs
// ========================================

type ImportRequest struct {
	From     string `json:"from"` // YYYY-MM-DD
	To       string `json:"to"`   // YYYY-MM-DD
	BranchID int64  `json:"branch_id"`
}

func (r *ImportRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, valid := validator.IsValidDate(r.From); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "from",
			Message: "from must be in YYYY-MM-DD format",
		})
	}
	if _, valid := validator.IsValidDate(r.To); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "to",
			Message: "to must be in YYYY-MM-DD format",
		})
	}
	if r.From != "" && r.To != "" && r.From > r.To {
		r.From, r.To = r.To, r.From
	}
	if r.BranchID <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "branch_id",
			Message: "branch_id is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ImportResult reports a completed batch: rows stored vs rows skipped for
// missing required fields. A batch with skips still succeeds.
type ImportResult struct {
	ImportID  string `json:"import_id"`
	Processed int    `json:"processed"`
	Skipped   int    `json:"skipped"`
}

// ========================================
// PAYSLIP DTOs
// ========================================

type PayslipRequest struct {
	Month          string `json:"month"` // YYYY-MM
	BranchID       int64  `json:"branch_id"`
	OrganizationID *int64 `json:"organization_id,omitempty"`
	NameQuery      string `json:"name,omitempty"` // partial full_name match
}

func (r *PayslipRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, valid := validator.IsValidMonth(r.Month); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be in YYYY-MM format",
		})
	}
	if r.BranchID <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "branch_id",
			Message: "branch_id is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Payslip carries one employee's monthly payslip figures.
type Payslip struct {
	EmployeeID  string `json:"employee_id"`
	FullName    string `json:"full_name"`
	JobPosition string `json:"job_position"`
	PeriodLabel string `json:"period_label"`
	WorkDays    int    `json:"work_days"`

	BaseWage        int `json:"base_wage"`
	TenureAllowance int `json:"tenure_allowance"`
	TotalWage       int `json:"total_wage"`

	OvertimeFirst  int `json:"overtime_first"`
	OvertimeSecond int `json:"overtime_second"`
	OvertimeTotal  int `json:"overtime_total"`

	PresencePremium int `json:"presence_premium"`

	TotalEarnings   int `json:"total_earnings"`
	BPJSTK          int `json:"bpjs_tk"`
	BPJSKes         int `json:"bpjs_kes"`
	TotalDeductions int `json:"total_deductions"`
	TakeHomePay     int `json:"take_home_pay"`
}
