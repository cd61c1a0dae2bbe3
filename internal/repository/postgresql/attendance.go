package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/karyaprima/payroll-backend-go/internal/domain/attendance"
	"github.com/karyaprima/payroll-backend-go/internal/pkg/database"
)

// attendanceColumns is every data column in insert order; the natural key
// (employee_id, schedule_date, branch_id) is embedded in it.
var attendanceColumns = []string{
	"user_id", "employee_id", "full_name",
	"schedule_date", "clock_in", "clock_out", "real_work_hour",
	"branch_id", "branch_name", "shift_name", "attendance_code", "holiday",
	"gender", "organization_id", "organization_name",
	"job_position_id", "job_position", "job_level_id", "job_level", "join_date",
	"tenure_ge_1y", "hourly_rate_used", "daily_billable_hours",
	"overtime_hours", "overtime_first_amount", "overtime_second_amount", "overtime_total_amount",
	"presence_premium_daily", "daily_total_amount",
	"bpjs_tk_deduction", "bpjs_kes_deduction",
}

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.Repository {
	return &attendanceRepository{db: db}
}

// UpsertBatch implements attendance.Repository.
func (a *attendanceRepository) UpsertBatch(ctx context.Context, records []attendance.ComputedDailyRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	q := GetQuerier(ctx, a.db)

	cols := len(attendanceColumns)
	placeholders := make([]string, 0, len(records))
	args := make([]interface{}, 0, len(records)*cols)

	for i, rec := range records {
		marks := make([]string, cols)
		for j := range marks {
			marks[j] = fmt.Sprintf("$%d", i*cols+j+1)
		}
		placeholders = append(placeholders, "("+strings.Join(marks, ", ")+")")

		args = append(args,
			rec.UserID, rec.EmployeeID, rec.FullName,
			rec.ScheduleDate, rec.ClockIn, rec.ClockOut, rec.RealWorkHour,
			rec.BranchID, rec.BranchName, rec.ShiftName, rec.AttendanceCode, rec.Holiday,
			rec.Gender, rec.OrganizationID, rec.OrganizationName,
			rec.JobPositionID, rec.JobPosition, rec.JobLevelID, rec.JobLevel, rec.JoinDate,
			rec.TenureGE1Y, rec.HourlyRateUsed, rec.DailyBillableHours,
			rec.OvertimeHours, rec.OvertimeFirstAmount, rec.OvertimeSecondAmount, rec.OvertimeTotalAmount,
			rec.PresencePremiumDaily, rec.DailyTotalAmount,
			rec.BPJSTKDeduction, rec.BPJSKesDeduction,
		)
	}

	// Recompute every non-key column on conflict: last write wins so re-runs
	// are idempotent.
	updates := make([]string, 0, cols)
	for _, col := range attendanceColumns {
		switch col {
		case "employee_id", "schedule_date", "branch_id":
			continue
		}
		updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", col, col))
	}
	updates = append(updates, "updated_at = NOW()")

	query := fmt.Sprintf(`
		INSERT INTO attendances (%s)
		VALUES %s
		ON CONFLICT (employee_id, schedule_date, branch_id)
		DO UPDATE SET %s
	`, strings.Join(attendanceColumns, ", "), strings.Join(placeholders, ", "), strings.Join(updates, ", "))

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert attendances: %w", err)
	}

	return int(tag.RowsAffected()), nil
}

const attendanceSelectColumns = `
	a.id, a.user_id, a.employee_id, a.full_name,
	a.schedule_date, a.clock_in, a.clock_out, a.real_work_hour,
	a.branch_id, a.branch_name, a.shift_name, a.attendance_code, a.holiday,
	a.gender, a.organization_id, a.organization_name,
	a.job_position_id, a.job_position, a.job_level_id, a.job_level, a.join_date,
	a.tenure_ge_1y, a.hourly_rate_used, a.daily_billable_hours,
	a.overtime_hours, a.overtime_first_amount, a.overtime_second_amount, a.overtime_total_amount,
	a.presence_premium_daily, a.daily_total_amount,
	a.bpjs_tk_deduction, a.bpjs_kes_deduction,
	a.created_at, a.updated_at`

func scanAttendance(row interface{ Scan(...any) error }) (attendance.ComputedDailyRecord, error) {
	var rec attendance.ComputedDailyRecord
	err := row.Scan(
		&rec.ID, &rec.UserID, &rec.EmployeeID, &rec.FullName,
		&rec.ScheduleDate, &rec.ClockIn, &rec.ClockOut, &rec.RealWorkHour,
		&rec.BranchID, &rec.BranchName, &rec.ShiftName, &rec.AttendanceCode, &rec.Holiday,
		&rec.Gender, &rec.OrganizationID, &rec.OrganizationName,
		&rec.JobPositionID, &rec.JobPosition, &rec.JobLevelID, &rec.JobLevel, &rec.JoinDate,
		&rec.TenureGE1Y, &rec.HourlyRateUsed, &rec.DailyBillableHours,
		&rec.OvertimeHours, &rec.OvertimeFirstAmount, &rec.OvertimeSecondAmount, &rec.OvertimeTotalAmount,
		&rec.PresencePremiumDaily, &rec.DailyTotalAmount,
		&rec.BPJSTKDeduction, &rec.BPJSKesDeduction,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	return rec, err
}

// List implements attendance.Repository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.ListFilter) ([]attendance.ComputedDailyRecord, int64, error) {
	q := GetQuerier(ctx, a.db)

	baseWhere, args := buildScopeWhere(attendance.RangeScope{
		BranchID:       filter.BranchID,
		StartDate:      deref(filter.StartDate),
		EndDate:        deref(filter.EndDate),
		Query:          filter.Query,
		OrganizationID: filter.OrganizationID,
	})
	argIdx := len(args) + 1

	// Count total
	countQuery := "SELECT COUNT(*) FROM attendances a WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	// Build ORDER BY (whitelisted in the filter validator)
	orderByField := "a.schedule_date"
	switch filter.SortBy {
	case "employee_id":
		orderByField = "a.employee_id"
	case "full_name":
		orderByField = "a.full_name"
	case "daily_total_amount":
		orderByField = "a.daily_total_amount"
	}
	sortOrder := "ASC"
	if strings.ToLower(filter.SortOrder) == "desc" {
		sortOrder = "DESC"
	}

	selectQuery := fmt.Sprintf(`
		SELECT %s
		FROM attendances a
		WHERE %s
		ORDER BY %s %s, a.employee_id ASC
		LIMIT $%d OFFSET $%d
	`, attendanceSelectColumns, baseWhere, orderByField, sortOrder, argIdx, argIdx+1)

	limit := filter.Limit
	if limit == 0 {
		limit = 10
	}
	offset := (filter.Page - 1) * limit
	args = append(args, limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query attendances: %w", err)
	}
	defer rows.Close()

	var records []attendance.ComputedDailyRecord
	for rows.Next() {
		rec, err := scanAttendance(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, rec)
	}

	return records, total, nil
}

// ListRange implements attendance.Repository.
func (a *attendanceRepository) ListRange(ctx context.Context, scope attendance.RangeScope) ([]attendance.ComputedDailyRecord, error) {
	q := GetQuerier(ctx, a.db)

	baseWhere, args := buildScopeWhere(scope)

	query := fmt.Sprintf(`
		SELECT %s
		FROM attendances a
		WHERE %s
		ORDER BY a.schedule_date ASC, a.employee_id ASC
	`, attendanceSelectColumns, baseWhere)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance range: %w", err)
	}
	defer rows.Close()

	var records []attendance.ComputedDailyRecord
	for rows.Next() {
		rec, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, rec)
	}

	return records, nil
}

// DistinctOrganizations implements attendance.Repository.
func (a *attendanceRepository) DistinctOrganizations(ctx context.Context, branchID int64) ([]attendance.OrganizationOption, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT organization_id, COALESCE(organization_name, '(Unknown)') AS organization_name
		FROM attendances
		WHERE branch_id = $1
		  AND organization_id IS NOT NULL
		GROUP BY organization_id, organization_name
		ORDER BY organization_name
	`

	rows, err := q.Query(ctx, query, branchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query organizations: %w", err)
	}
	defer rows.Close()

	var options []attendance.OrganizationOption
	for rows.Next() {
		var opt attendance.OrganizationOption
		if err := rows.Scan(&opt.ID, &opt.Name); err != nil {
			return nil, fmt.Errorf("failed to scan organization: %w", err)
		}
		options = append(options, opt)
	}

	return options, nil
}

// DistinctEmployees implements attendance.Repository.
func (a *attendanceRepository) DistinctEmployees(ctx context.Context, branchID int64, organizationID *int64) ([]attendance.EmployeeOption, error) {
	q := GetQuerier(ctx, a.db)

	baseWhere := "branch_id = $1"
	args := []interface{}{branchID}
	if organizationID != nil {
		baseWhere += " AND organization_id = $2"
		args = append(args, *organizationID)
	}

	query := fmt.Sprintf(`
		SELECT employee_id, full_name
		FROM attendances
		WHERE %s
		GROUP BY employee_id, full_name
		ORDER BY full_name
	`, baseWhere)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	var options []attendance.EmployeeOption
	for rows.Next() {
		var opt attendance.EmployeeOption
		if err := rows.Scan(&opt.ID, &opt.Name); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		options = append(options, opt)
	}

	return options, nil
}

// buildScopeWhere assembles the shared WHERE clause for list, range,
// export, and payslip reads.
func buildScopeWhere(scope attendance.RangeScope) (string, []interface{}) {
	baseWhere := "a.branch_id = $1"
	args := []interface{}{scope.BranchID}
	argIdx := 2

	if scope.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND a.schedule_date >= $%d", argIdx)
		args = append(args, scope.StartDate)
		argIdx++
	}
	if scope.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND a.schedule_date <= $%d", argIdx)
		args = append(args, scope.EndDate)
		argIdx++
	}

	if scope.Query != nil && *scope.Query != "" {
		baseWhere += fmt.Sprintf(" AND (a.employee_id LIKE $%d OR a.full_name ILIKE $%d)", argIdx, argIdx+1)
		args = append(args, *scope.Query+"%", *scope.Query+"%")
		argIdx += 2
	}

	if scope.OrganizationID != nil {
		baseWhere += fmt.Sprintf(" AND a.organization_id = $%d", argIdx)
		args = append(args, *scope.OrganizationID)
		argIdx++
	}

	if scope.EmployeeID != nil && *scope.EmployeeID != "" {
		baseWhere += fmt.Sprintf(" AND a.employee_id = $%d", argIdx)
		args = append(args, *scope.EmployeeID)
		argIdx++
	}

	return baseWhere, args
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
