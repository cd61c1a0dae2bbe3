package attendance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karyaprima/payroll-backend-go/internal/pkg/validator"
)

func strPtr(s string) *string { return &s }

func TestListFilterValidateDefaults(t *testing.T) {
	t.Parallel()

	filter := ListFilter{BranchID: 21089}
	require.NoError(t, filter.Validate())

	assert.Equal(t, 1, filter.Page)
	assert.Equal(t, 10, filter.Limit)
	assert.Equal(t, "schedule_date", filter.SortBy)
	assert.Equal(t, "asc", filter.SortOrder)
}

func TestListFilterValidateRejectsBadInput(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		filter ListFilter
		field  string
	}{
		{"missing branch", ListFilter{}, "branch_id"},
		{"negative page", ListFilter{BranchID: 1, Page: -1}, "page"},
		{"limit too large", ListFilter{BranchID: 1, Limit: 500}, "limit"},
		{"bad start date", ListFilter{BranchID: 1, StartDate: strPtr("07/01/2025")}, "start_date"},
		{"bad sort field", ListFilter{BranchID: 1, SortBy: "salary; DROP TABLE"}, "sort_by"},
		{"bad sort order", ListFilter{BranchID: 1, SortOrder: "sideways"}, "sort_order"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := tc.filter.Validate()
			require.Error(t, err)

			var errs validator.ValidationErrors
			require.ErrorAs(t, err, &errs)
			assert.Contains(t, errs.ToMap(), tc.field)
		})
	}
}

func TestListFilterValidateSwapsInvertedRange(t *testing.T) {
	t.Parallel()

	filter := ListFilter{
		BranchID:  21089,
		StartDate: strPtr("2025-07-31"),
		EndDate:   strPtr("2025-07-01"),
	}
	require.NoError(t, filter.Validate())

	assert.Equal(t, "2025-07-01", *filter.StartDate)
	assert.Equal(t, "2025-07-31", *filter.EndDate)
}

func TestImportRequestValidate(t *testing.T) {
	t.Parallel()

	req := ImportRequest{From: "2025-07-08", To: "2025-07-01", BranchID: 21089}
	require.NoError(t, req.Validate())
	assert.Equal(t, "2025-07-01", req.From, "inverted range is swapped")
	assert.Equal(t, "2025-07-08", req.To)

	bad := ImportRequest{From: "July 1st", To: "2025-07-08", BranchID: 21089}
	assert.Error(t, bad.Validate())

	noBranch := ImportRequest{From: "2025-07-01", To: "2025-07-08"}
	assert.Error(t, noBranch.Validate())
}

func TestPayslipRequestValidate(t *testing.T) {
	t.Parallel()

	req := PayslipRequest{Month: "2025-07", BranchID: 21089}
	assert.NoError(t, req.Validate())

	bad := PayslipRequest{Month: "2025-07-01", BranchID: 21089}
	assert.Error(t, bad.Validate())

	noBranch := PayslipRequest{Month: "2025-07"}
	assert.Error(t, noBranch.Validate())
}

func TestFactIsPresent(t *testing.T) {
	t.Parallel()

	present := Fact{
		RealWorkHour: 8,
		ClockIn:      strPtr("08:00:00"),
		ClockOut:     strPtr("17:00:00"),
	}
	assert.True(t, present.IsPresent())

	cases := []struct {
		name string
		mut  func(*Fact)
	}{
		{"zero hours", func(f *Fact) { f.RealWorkHour = 0 }},
		{"negative hours", func(f *Fact) { f.RealWorkHour = -1 }},
		{"nil clock in", func(f *Fact) { f.ClockIn = nil }},
		{"nil clock out", func(f *Fact) { f.ClockOut = nil }},
		{"whitespace clock in", func(f *Fact) { f.ClockIn = strPtr("  ") }},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			f := present
			tc.mut(&f)
			assert.False(t, f.IsPresent())
		})
	}
}
