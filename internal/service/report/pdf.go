package report

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/karyaprima/payroll-backend-go/internal/domain/attendance"
	"github.com/karyaprima/payroll-backend-go/internal/service/payroll"
)

// ExportRecapPDF implements attendance.ReportService: the daily detail table
// followed by per-employee period totals, A4 landscape.
func (s *reportServiceImpl) ExportRecapPDF(ctx context.Context, scope attendance.RangeScope) ([]byte, string, error) {
	records, err := s.repo.ListRange(ctx, scope)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load attendance range: %w", err)
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 12)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, fmt.Sprintf("Attendance Recap %s to %s (branch %d)",
		scope.StartDate, scope.EndDate, scope.BranchID))
	pdf.Ln(10)

	detailCols := []struct {
		label string
		width float64
	}{
		{"Date", 22}, {"Employee", 24}, {"Name", 55},
		{"In", 14}, {"Out", 14}, {"Hours", 14},
		{"OT Hrs", 14}, {"OT 1", 22}, {"OT 2", 22}, {"OT Total", 24},
		{"Premium", 20}, {"Daily Total", 26},
	}

	writeDetailHeader := func() {
		pdf.SetFont("Helvetica", "B", 8)
		pdf.SetFillColor(230, 230, 230)
		for _, col := range detailCols {
			pdf.CellFormat(col.width, 6, col.label, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 8)
	}

	writeDetailHeader()
	for _, rec := range records {
		if pdf.GetY() > 185 {
			pdf.AddPage()
			writeDetailHeader()
		}

		present := rec.IsPresent()
		gated := func(v int) string {
			if !present {
				return "0"
			}
			return formatAmount(v)
		}

		hours := "0"
		if present {
			hours = strconv.FormatFloat(rec.RealWorkHour, 'f', -1, 64)
		}

		cells := []string{
			firstN(rec.ScheduleDate, 10),
			rec.EmployeeID,
			firstN(rec.FullName, 32),
			firstN(deref(rec.ClockIn), 5),
			firstN(deref(rec.ClockOut), 5),
			hours,
			gated(rec.OvertimeHours),
			gated(rec.OvertimeFirstAmount),
			gated(rec.OvertimeSecondAmount),
			gated(rec.OvertimeTotalAmount),
			gated(rec.PresencePremiumDaily),
			gated(rec.DailyTotalAmount),
		}
		for i, col := range detailCols {
			align := "R"
			if i < 5 {
				align = "L"
			}
			pdf.CellFormat(col.width, 5, cells[i], "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	// Period totals
	summaries := payroll.Aggregate(records)
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 7, "Employee Totals")
	pdf.Ln(8)

	totalCols := []struct {
		label string
		width float64
	}{
		{"Employee", 28}, {"Name", 70}, {"Work Days", 22},
		{"OT Total", 30}, {"Presence", 30}, {"Daily Total", 34},
		{"BPJS TK", 28}, {"BPJS Kes", 28},
	}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(230, 230, 230)
	for _, col := range totalCols {
		pdf.CellFormat(col.width, 6, col.label, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	for _, sum := range summaries {
		cells := []string{
			sum.EmployeeID,
			firstN(sum.FullName, 42),
			strconv.Itoa(sum.WorkDays),
			formatAmount(sum.MonthlyOvertimeTotal),
			formatAmount(sum.MonthlyPresenceTotal),
			formatAmount(sum.MonthlyDailyTotal),
			formatAmount(sum.BPJSTK),
			formatAmount(sum.BPJSKes),
		}
		for i, col := range totalCols {
			align := "R"
			if i < 2 {
				align = "L"
			}
			pdf.CellFormat(col.width, 5, cells[i], "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", fmt.Errorf("failed to render recap pdf: %w", err)
	}

	return buf.Bytes(), exportFilename(scope, "pdf"), nil
}

// monthNames renders period labels the way payslips are read locally.
var monthNames = []string{
	"JANUARI", "FEBRUARI", "MARET", "APRIL", "MEI", "JUNI",
	"JULI", "AGUSTUS", "SEPTEMBER", "OKTOBER", "NOVEMBER", "DESEMBER",
}

// ExportPayslipsPDF implements attendance.ReportService: one A4 page per
// employee for the requested month.
func (s *reportServiceImpl) ExportPayslipsPDF(ctx context.Context, req attendance.PayslipRequest) ([]byte, string, error) {
	if err := req.Validate(); err != nil {
		return nil, "", err
	}

	month, err := time.Parse("2006-01", req.Month)
	if err != nil {
		return nil, "", fmt.Errorf("invalid month %q: %w", req.Month, err)
	}
	monthStart := month.Format("2006-01-02")
	monthEnd := month.AddDate(0, 1, -1)

	records, err := s.repo.ListRange(ctx, attendance.RangeScope{
		BranchID:       req.BranchID,
		StartDate:      monthStart,
		EndDate:        monthEnd.Format("2006-01-02"),
		OrganizationID: req.OrganizationID,
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to load attendance month: %w", err)
	}

	payslips := s.buildPayslips(records, monthEnd, req.NameQuery)
	if len(payslips) == 0 {
		return nil, "", attendance.ErrNoPayslipData
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	for _, slip := range payslips {
		renderPayslipPage(pdf, slip)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", fmt.Errorf("failed to render payslip pdf: %w", err)
	}

	filename := fmt.Sprintf("payslips_%d_%s.pdf", req.BranchID, req.Month)
	return buf.Bytes(), filename, nil
}

// buildPayslips folds one month of records into per-employee payslips,
// ordered by employee id. Overtime and premium amounts are summed from the
// stored daily figures; the base wage split comes from the configured rates
// with the tenure allowance granted when the first service anniversary falls
// on or before month end.
func (s *reportServiceImpl) buildPayslips(records []attendance.ComputedDailyRecord, monthEnd time.Time, nameQuery string) []attendance.Payslip {
	nameQuery = strings.ToLower(strings.TrimSpace(nameQuery))

	groups := make(map[string][]attendance.ComputedDailyRecord)
	for _, rec := range records {
		if rec.EmployeeID == "" {
			continue
		}
		if nameQuery != "" && !strings.Contains(strings.ToLower(rec.FullName), nameQuery) {
			continue
		}
		groups[rec.EmployeeID] = append(groups[rec.EmployeeID], rec)
	}

	ids := make([]string, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	periodLabel := monthNames[monthEnd.Month()-1]

	payslips := make([]attendance.Payslip, 0, len(ids))
	for _, id := range ids {
		rows := groups[id]

		slip := attendance.Payslip{
			EmployeeID:  id,
			FullName:    rows[0].FullName,
			JobPosition: deref(rows[0].JobPosition),
			PeriodLabel: periodLabel,
		}

		var joinDate *string
		for _, r := range rows {
			slip.OvertimeFirst += r.OvertimeFirstAmount
			slip.OvertimeSecond += r.OvertimeSecondAmount
			slip.OvertimeTotal += r.OvertimeTotalAmount
			slip.PresencePremium += r.PresencePremiumDaily
			if r.PresencePremiumDaily > 0 {
				slip.WorkDays++
			}
			if joinDate == nil && r.JoinDate != nil {
				joinDate = r.JoinDate
			}
			slip.BPJSTK = firstPositive(slip.BPJSTK, r.BPJSTKDeduction)
			slip.BPJSKes = firstPositive(slip.BPJSKes, r.BPJSKesDeduction)
		}

		if slip.BPJSTK == 0 {
			slip.BPJSTK = s.rates.BPJSTK
		}
		if slip.BPJSKes == 0 {
			slip.BPJSKes = s.rates.BPJSKes
		}

		ge1y := tenureReachedByMonthEnd(joinDate, monthEnd)

		slip.BaseWage = s.rates.MonthlyUnder1Y
		if ge1y {
			slip.TenureAllowance = s.rates.TenureAllowance
		}
		slip.TotalWage = slip.BaseWage + slip.TenureAllowance

		slip.TotalEarnings = slip.TotalWage + slip.OvertimeTotal
		if ge1y {
			slip.TotalEarnings += slip.PresencePremium
		}
		slip.TotalDeductions = slip.BPJSTK + slip.BPJSKes
		slip.TakeHomePay = slip.TotalEarnings - slip.TotalDeductions

		payslips = append(payslips, slip)
	}

	return payslips
}

// tenureReachedByMonthEnd reports whether the first service anniversary falls
// on or before the payslip month's last day. Unknown or unparseable join
// dates count as reached.
func tenureReachedByMonthEnd(joinDate *string, monthEnd time.Time) bool {
	if joinDate == nil {
		return true
	}
	jd, err := time.Parse("2006-01-02", firstN(*joinDate, 10))
	if err != nil {
		return true
	}
	return !jd.AddDate(1, 0, 0).After(monthEnd)
}

func renderPayslipPage(pdf *gofpdf.Fpdf, slip attendance.Payslip) {
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "SLIP GAJI", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 7, "PERIODE "+slip.PeriodLabel, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 10)
	info := [][2]string{
		{"Employee ID", slip.EmployeeID},
		{"Nama", slip.FullName},
		{"Bagian", slip.JobPosition},
		{"Hari Kerja", strconv.Itoa(slip.WorkDays)},
	}
	for _, kv := range info {
		pdf.CellFormat(40, 6, kv[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, ": "+kv[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	line := func(label string, amount int, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 10)
		pdf.CellFormat(110, 6, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, "Rp "+formatAmount(amount), "", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 7, "PENERIMAAN", "B", 1, "L", false, 0, "")
	line("Upah Pokok", slip.BaseWage, false)
	line("Tunjangan Masa Kerja", slip.TenureAllowance, false)
	line("Upah Total", slip.TotalWage, false)
	line("Lembur Jam Pertama (1.5x)", slip.OvertimeFirst, false)
	line("Lembur Jam Berikutnya (2x)", slip.OvertimeSecond, false)
	line("Total Lembur", slip.OvertimeTotal, false)
	line("Premi Hadir", slip.PresencePremium, false)
	line("Total Penerimaan", slip.TotalEarnings, true)
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 7, "POTONGAN", "B", 1, "L", false, 0, "")
	line("BPJS Ketenagakerjaan", slip.BPJSTK, false)
	line("BPJS Kesehatan", slip.BPJSKes, false)
	line("Total Potongan", slip.TotalDeductions, true)
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(110, 8, "TAKE HOME PAY", "T", 0, "L", false, 0, "")
	pdf.CellFormat(0, 8, "Rp "+formatAmount(slip.TakeHomePay), "T", 1, "R", false, 0, "")
}

// formatAmount writes an integer rupiah amount with dot thousand separators.
func formatAmount(n int) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	digits := strconv.Itoa(n)
	var b strings.Builder
	b.WriteString(sign)
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
		if len(digits) > lead {
			b.WriteByte('.')
		}
	}
	for i := lead; i < len(digits); i += 3 {
		b.WriteString(digits[i : i+3])
		if i+3 < len(digits) {
			b.WriteByte('.')
		}
	}
	return b.String()
}

func firstPositive(current, candidate int) int {
	if current > 0 {
		return current
	}
	if candidate > 0 {
		return candidate
	}
	return current
}
