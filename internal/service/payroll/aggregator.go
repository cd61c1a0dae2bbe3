package payroll

import (
	"github.com/karyaprima/payroll-backend-go/internal/domain/attendance"
)

// Aggregate folds daily records into one PeriodSummary per employee,
// preserving the order each employee first appears so rendered output is
// stable. An empty input yields an empty result, never an error.
//
// Monetary fields are summed as-is: the calculator already zeroes them on
// absent days, so no presence gating is repeated here. WorkDays recomputes
// the presence predicate from the stored clock marks and hours because
// presence itself is derived, not stored.
func Aggregate(records []attendance.ComputedDailyRecord) []attendance.PeriodSummary {
	index := make(map[string]int)

	var summaries []attendance.PeriodSummary
	for _, rec := range records {
		if rec.EmployeeID == "" {
			continue
		}

		i, seen := index[rec.EmployeeID]
		if !seen {
			summaries = append(summaries, attendance.PeriodSummary{
				EmployeeID: rec.EmployeeID,
				FullName:   rec.FullName,
			})
			i = len(summaries) - 1
			index[rec.EmployeeID] = i
		}

		s := &summaries[i]
		s.MonthlyOvertimeTotal += rec.OvertimeTotalAmount
		s.MonthlyDailyTotal += rec.DailyTotalAmount
		s.MonthlyPresenceTotal += rec.PresencePremiumDaily

		if rec.IsPresent() {
			s.WorkDays++
		}

		// BPJS amounts are identical on every row of a period; the first
		// nonzero value wins in case older rows carry a stale zero.
		s.BPJSTK = firstNonZero(s.BPJSTK, rec.BPJSTKDeduction)
		s.BPJSKes = firstNonZero(s.BPJSKes, rec.BPJSKesDeduction)
	}

	return summaries
}

func firstNonZero(current, candidate int) int {
	if current != 0 {
		return current
	}
	return candidate
}
