package report

import (
	"context"
	"fmt"

	"github.com/karyaprima/payroll-backend-go/internal/config"
	"github.com/karyaprima/payroll-backend-go/internal/domain/attendance"
	"github.com/karyaprima/payroll-backend-go/internal/service/payroll"
)

type reportServiceImpl struct {
	repo  attendance.Repository
	rates config.PayrollConfig
}

func NewReportService(repo attendance.Repository, rates config.PayrollConfig) attendance.ReportService {
	return &reportServiceImpl{repo: repo, rates: rates}
}

// List implements attendance.ReportService. One call returns the requested
// page, per-employee totals over the whole filtered range, and the dropdown
// option lists the UI builds its filters from.
func (s *reportServiceImpl) List(ctx context.Context, filter attendance.ListFilter) (attendance.ListResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListResponse{}, err
	}

	records, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return attendance.ListResponse{}, fmt.Errorf("failed to list attendances: %w", err)
	}

	// Totals run over the full range, not the page.
	rangeRecords, err := s.repo.ListRange(ctx, attendance.RangeScope{
		BranchID:       filter.BranchID,
		StartDate:      deref(filter.StartDate),
		EndDate:        deref(filter.EndDate),
		Query:          filter.Query,
		OrganizationID: filter.OrganizationID,
	})
	if err != nil {
		return attendance.ListResponse{}, fmt.Errorf("failed to load attendance range: %w", err)
	}

	organizations, err := s.repo.DistinctOrganizations(ctx, filter.BranchID)
	if err != nil {
		return attendance.ListResponse{}, fmt.Errorf("failed to load organizations: %w", err)
	}

	employees, err := s.repo.DistinctEmployees(ctx, filter.BranchID, filter.OrganizationID)
	if err != nil {
		return attendance.ListResponse{}, fmt.Errorf("failed to load employees: %w", err)
	}

	resp := attendance.ListResponse{
		TotalCount:    total,
		Page:          filter.Page,
		Limit:         filter.Limit,
		TotalPages:    int((total + int64(filter.Limit) - 1) / int64(filter.Limit)),
		Records:       make([]attendance.RecordResponse, 0, len(records)),
		Organizations: organizations,
		Employees:     employees,
	}

	for _, rec := range records {
		resp.Records = append(resp.Records, toRecordResponse(rec))
	}

	for _, sum := range payroll.Aggregate(rangeRecords) {
		resp.EmployeeTotals = append(resp.EmployeeTotals, attendance.PeriodSummaryResponse{
			EmployeeID:           sum.EmployeeID,
			FullName:             sum.FullName,
			MonthlyOvertimeTotal: sum.MonthlyOvertimeTotal,
			MonthlyDailyTotal:    sum.MonthlyDailyTotal,
			MonthlyPresenceTotal: sum.MonthlyPresenceTotal,
			WorkDays:             sum.WorkDays,
			BPJSTK:               sum.BPJSTK,
			BPJSKes:              sum.BPJSKes,
		})
	}

	return resp, nil
}

func toRecordResponse(rec attendance.ComputedDailyRecord) attendance.RecordResponse {
	return attendance.RecordResponse{
		ID:         rec.ID,
		UserID:     rec.UserID,
		EmployeeID: rec.EmployeeID,
		FullName:   rec.FullName,

		ScheduleDate: rec.ScheduleDate,
		ClockIn:      rec.ClockIn,
		ClockOut:     rec.ClockOut,
		RealWorkHour: rec.RealWorkHour,
		Present:      rec.IsPresent(),

		BranchID:         rec.BranchID,
		BranchName:       rec.BranchName,
		ShiftName:        rec.ShiftName,
		AttendanceCode:   rec.AttendanceCode,
		Holiday:          rec.Holiday,
		Gender:           rec.Gender,
		OrganizationID:   rec.OrganizationID,
		OrganizationName: rec.OrganizationName,
		JobPosition:      rec.JobPosition,
		JoinDate:         rec.JoinDate,

		TenureGE1Y:           rec.TenureGE1Y,
		HourlyRateUsed:       rec.HourlyRateUsed,
		DailyBillableHours:   rec.DailyBillableHours,
		OvertimeHours:        rec.OvertimeHours,
		OvertimeFirstAmount:  rec.OvertimeFirstAmount,
		OvertimeSecondAmount: rec.OvertimeSecondAmount,
		OvertimeTotalAmount:  rec.OvertimeTotalAmount,
		PresencePremiumDaily: rec.PresencePremiumDaily,
		DailyTotalAmount:     rec.DailyTotalAmount,
		BPJSTKDeduction:      rec.BPJSTKDeduction,
		BPJSKesDeduction:     rec.BPJSKesDeduction,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
