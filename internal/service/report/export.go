package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/xuri/excelize/v2"

	"github.com/karyaprima/payroll-backend-go/internal/domain/attendance"
)

// exportHeader is the shared column layout for the CSV and Excel exports.
// Payroll readers feed these files into spreadsheets directly, so the labels
// stay human facing.
var exportHeader = []string{
	"Date", "Employee ID", "Name", "Gender", "Join Date",
	"Branch", "Organization", "Job Position",
	"Clock In", "Clock Out", "Work Hours", "Timeoff",
	"OT Hours", "OT 1 (1.5x)", "OT 2 (2x)", "OT Total",
	"Presence Daily", "Hourly Rate", "Billable Hours", "Basic Salary", "Daily Total",
	"Tenure >= 1y", "BPJS TK", "BPJS Kesehatan",
}

// ExportCSV implements attendance.ReportService. The output starts with a
// UTF-8 BOM so Excel on Windows detects the encoding.
func (s *reportServiceImpl) ExportCSV(ctx context.Context, scope attendance.RangeScope) ([]byte, string, error) {
	records, err := s.repo.ListRange(ctx, scope)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load attendance range: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("\xEF\xBB\xBF")

	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, "", fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, rec := range records {
		if err := w.Write(exportRow(rec)); err != nil {
			return nil, "", fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", fmt.Errorf("failed to flush csv: %w", err)
	}

	return buf.Bytes(), exportFilename(scope, "csv"), nil
}

// ExportExcel implements attendance.ReportService.
func (s *reportServiceImpl) ExportExcel(ctx context.Context, scope attendance.RangeScope) ([]byte, string, error) {
	records, err := s.repo.ListRange(ctx, scope)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load attendance range: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Attendance"
	f.SetSheetName(f.GetSheetName(0), sheet)

	header := make([]interface{}, len(exportHeader))
	for i, h := range exportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, "", fmt.Errorf("failed to write excel header: %w", err)
	}

	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, "", fmt.Errorf("failed to create excel style: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(exportHeader))
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", boldStyle); err != nil {
		return nil, "", fmt.Errorf("failed to style excel header: %w", err)
	}

	for i, rec := range records {
		row := exportRow(rec)
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return nil, "", fmt.Errorf("failed to write excel row: %w", err)
		}
	}

	_ = f.SetColWidth(sheet, "A", lastCol, 14)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", fmt.Errorf("failed to render excel: %w", err)
	}

	return buf.Bytes(), exportFilename(scope, "xlsx"), nil
}

// exportRow renders one stored record for spreadsheets. Monetary and hour
// fields are re-gated on the presence predicate so an absent day always
// exports as zeros, even if an older import stored nonzero figures.
func exportRow(rec attendance.ComputedDailyRecord) []string {
	present := rec.IsPresent()

	gated := func(v int) string {
		if !present {
			return "0"
		}
		return strconv.Itoa(v)
	}
	gatedFloat := func(v float64) string {
		if !present {
			return "0"
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	}

	basicSalary := 0
	if present {
		basicSalary = rec.DailyTotalAmount - rec.OvertimeTotalAmount
	}

	tenure := "No"
	if rec.TenureGE1Y {
		tenure = "Yes"
	}

	return []string{
		firstN(rec.ScheduleDate, 10),
		rec.EmployeeID,
		rec.FullName,
		deref(rec.Gender),
		firstN(deref(rec.JoinDate), 10),
		deref(rec.BranchName),
		deref(rec.OrganizationName),
		deref(rec.JobPosition),
		firstN(deref(rec.ClockIn), 5),
		firstN(deref(rec.ClockOut), 5),
		gatedFloat(rec.RealWorkHour),
		deref(rec.AttendanceCode),
		gated(rec.OvertimeHours),
		gated(rec.OvertimeFirstAmount),
		gated(rec.OvertimeSecondAmount),
		gated(rec.OvertimeTotalAmount),
		gated(rec.PresencePremiumDaily),
		gated(rec.HourlyRateUsed),
		gatedFloat(rec.DailyBillableHours),
		strconv.Itoa(basicSalary),
		gated(rec.DailyTotalAmount),
		tenure,
		strconv.Itoa(rec.BPJSTKDeduction),
		strconv.Itoa(rec.BPJSKesDeduction),
	}
}

// exportFilename builds attendance_<label>_<branch>_<from>_<to>.<ext> where
// label is the slugged search term or "all".
func exportFilename(scope attendance.RangeScope, ext string) string {
	label := "all"
	if scope.Query != nil && strings.TrimSpace(*scope.Query) != "" {
		label = slug(*scope.Query)
	}
	return fmt.Sprintf("attendance_%s_%d_%s_%s.%s",
		label, scope.BranchID, scope.StartDate, scope.EndDate, ext)
}

func slug(s string) string {
	var b strings.Builder
	lastUnderscore := true
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastUnderscore = false
			continue
		}
		if !lastUnderscore {
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	return strings.Trim(b.String(), "_")
}

func firstN(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
