package report

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karyaprima/payroll-backend-go/internal/domain/attendance"
)

type fakeRepo struct {
	pageRecords  []attendance.ComputedDailyRecord
	total        int64
	rangeRecords []attendance.ComputedDailyRecord

	lastFilter attendance.ListFilter
	lastScope  attendance.RangeScope
}

func (f *fakeRepo) UpsertBatch(context.Context, []attendance.ComputedDailyRecord) (int, error) {
	return 0, nil
}

func (f *fakeRepo) List(_ context.Context, filter attendance.ListFilter) ([]attendance.ComputedDailyRecord, int64, error) {
	f.lastFilter = filter
	return f.pageRecords, f.total, nil
}

func (f *fakeRepo) ListRange(_ context.Context, scope attendance.RangeScope) ([]attendance.ComputedDailyRecord, error) {
	f.lastScope = scope
	return f.rangeRecords, nil
}

func (f *fakeRepo) DistinctOrganizations(context.Context, int64) ([]attendance.OrganizationOption, error) {
	return []attendance.OrganizationOption{{ID: 55, Name: "Produksi"}}, nil
}

func (f *fakeRepo) DistinctEmployees(context.Context, int64, *int64) ([]attendance.EmployeeOption, error) {
	return []attendance.EmployeeOption{{ID: "EMP001", Name: "Budi Santoso"}}, nil
}

func TestListCombinesPageAndRangeTotals(t *testing.T) {
	t.Parallel()

	// The page holds one day but the range holds three: totals must cover
	// the whole range, not the page.
	repo := &fakeRepo{
		pageRecords: []attendance.ComputedDailyRecord{
			presentRecord("EMP001", "2025-07-07"),
		},
		total: 3,
		rangeRecords: []attendance.ComputedDailyRecord{
			presentRecord("EMP001", "2025-07-07"),
			presentRecord("EMP001", "2025-07-08"),
			presentRecord("EMP001", "2025-07-09"),
		},
	}
	svc := NewReportService(repo, testRates())

	resp, err := svc.List(context.Background(), attendance.ListFilter{
		BranchID:  21089,
		StartDate: strPtr("2025-07-01"),
		EndDate:   strPtr("2025-07-31"),
		Limit:     1,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(3), resp.TotalCount)
	assert.Equal(t, 3, resp.TotalPages)
	require.Len(t, resp.Records, 1)
	assert.True(t, resp.Records[0].Present)

	require.Len(t, resp.EmployeeTotals, 1)
	totals := resp.EmployeeTotals[0]
	assert.Equal(t, 3*42_447, totals.MonthlyOvertimeTotal)
	assert.Equal(t, 3*240_533, totals.MonthlyDailyTotal)
	assert.Equal(t, 3, totals.WorkDays)

	require.Len(t, resp.Organizations, 1)
	require.Len(t, resp.Employees, 1)

	// The range read reuses the list filter scope.
	assert.Equal(t, "2025-07-01", repo.lastScope.StartDate)
	assert.Equal(t, "2025-07-31", repo.lastScope.EndDate)
	assert.Equal(t, int64(21089), repo.lastScope.BranchID)
}

func TestExportCSVStartsWithBOMAndHeader(t *testing.T) {
	t.Parallel()

	repo := &fakeRepo{rangeRecords: []attendance.ComputedDailyRecord{
		presentRecord("EMP001", "2025-07-07"),
	}}
	svc := NewReportService(repo, testRates())

	data, filename, err := svc.ExportCSV(context.Background(), attendance.RangeScope{
		BranchID:  21089,
		StartDate: "2025-07-01",
		EndDate:   "2025-07-31",
	})
	require.NoError(t, err)

	assert.Equal(t, "attendance_all_21089_2025-07-01_2025-07-31.csv", filename)
	require.True(t, len(data) > 3)
	assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, data[:3], "UTF-8 BOM")

	body := string(data[3:])
	assert.Contains(t, body, "Date,Employee ID,Name,Gender,Join Date")
	assert.Contains(t, body, "EMP001")
}

func TestExportPayslipsPDFNoData(t *testing.T) {
	t.Parallel()

	svc := NewReportService(&fakeRepo{}, testRates())
	_, _, err := svc.ExportPayslipsPDF(context.Background(), attendance.PayslipRequest{
		Month:    "2025-07",
		BranchID: 21089,
	})
	assert.ErrorIs(t, err, attendance.ErrNoPayslipData)
}

func TestListRejectsInvalidFilter(t *testing.T) {
	t.Parallel()

	svc := NewReportService(&fakeRepo{}, testRates())
	_, err := svc.List(context.Background(), attendance.ListFilter{})
	assert.Error(t, err)
}

func TestListAppliesFilterDefaults(t *testing.T) {
	t.Parallel()

	repo := &fakeRepo{}
	svc := NewReportService(repo, testRates())

	resp, err := svc.List(context.Background(), attendance.ListFilter{BranchID: 21089})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 10, resp.Limit)
	assert.Equal(t, "schedule_date", repo.lastFilter.SortBy)
}
