package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karyaprima/payroll-backend-go/internal/domain/attendance"
)

const testBranchID = int64(21089)

func TestNormalizeRowMissingRequiredFields(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		raw  map[string]any
	}{
		{"empty row", map[string]any{}},
		{"missing employee id", map[string]any{"schedule_date": "2025-07-07"}},
		{"missing schedule date", map[string]any{"employee_id": "EMP001"}},
		{"blank employee id", map[string]any{"employee_id": "", "schedule_date": "2025-07-07"}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := NormalizeRow(tc.raw, testBranchID)
			assert.ErrorIs(t, err, attendance.ErrMissingRequiredField)
		})
	}
}

func TestNormalizeRowAcceptsAlternateKeys(t *testing.T) {
	t.Parallel()

	fact, err := NormalizeRow(map[string]any{
		"employee_id":     "EMP001",
		"date":            "2025-07-07",
		"talenta_user_id": "12345",
	}, testBranchID)
	require.NoError(t, err)

	assert.Equal(t, "2025-07-07", fact.ScheduleDate)
	require.NotNil(t, fact.UserID)
	assert.Equal(t, "12345", *fact.UserID)
}

func TestNormalizeRowDateFormats(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   any
		want string
	}{
		{"canonical", "2025-07-07", "2025-07-07"},
		{"timestamp", "2025-07-07 08:15:00", "2025-07-07"},
		{"rfc3339", "2025-07-07T08:15:00Z", "2025-07-07"},
		{"slashed", "2025/07/07", "2025-07-07"},
		{"day first", "07/07/2025", "2025-07-07"},
		{"unparseable keeps first ten chars", "not-a-date-xyz", "not-a-date"},
		{"short garbage kept as-is", "garbage", "garbage"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			fact, err := NormalizeRow(map[string]any{
				"employee_id":   "EMP001",
				"schedule_date": tc.in,
			}, testBranchID)
			require.NoError(t, err)
			assert.Equal(t, tc.want, fact.ScheduleDate)
		})
	}
}

func TestNormalizeRowClockTimes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   any
		want *string
	}{
		{"full time", "08:15:30", strPtr("08:15:30")},
		{"bare hh:mm gets seconds", "08:15", strPtr("08:15:00")},
		{"timestamp lifts time of day", "2025-07-07 08:15:30", strPtr("08:15:30")},
		{"time inside text", "checked in 09:30 late", strPtr("09:30:00")},
		{"empty is nil", "", nil},
		{"nil stays nil", nil, nil},
		{"garbage is nil", "no clock here", nil},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			fact, err := NormalizeRow(map[string]any{
				"employee_id":   "EMP001",
				"schedule_date": "2025-07-07",
				"clock_in":      tc.in,
			}, testBranchID)
			require.NoError(t, err)
			if tc.want == nil {
				assert.Nil(t, fact.ClockIn)
			} else {
				require.NotNil(t, fact.ClockIn)
				assert.Equal(t, *tc.want, *fact.ClockIn)
			}
		})
	}
}

func TestNormalizeRowNumbers(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   any
		want float64
	}{
		{"float", 8.5, 8.5},
		{"int", 8, 8},
		{"numeric string", "8.5", 8.5},
		{"thousands separator stripped", "1,234.5", 1234.5},
		{"empty string falls back", "", 0},
		{"garbage falls back", "eight", 0},
		{"nil falls back", nil, 0},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			fact, err := NormalizeRow(map[string]any{
				"employee_id":    "EMP001",
				"schedule_date":  "2025-07-07",
				"real_work_hour": tc.in,
			}, testBranchID)
			require.NoError(t, err)
			assert.Equal(t, tc.want, fact.RealWorkHour)
		})
	}
}

func TestNormalizeRowBooleanCoercion(t *testing.T) {
	t.Parallel()

	truthy := []any{true, 1, float64(1), "1", "true", "yes", "Y", "on"}
	for _, v := range truthy {
		fact, err := NormalizeRow(map[string]any{
			"employee_id":   "EMP001",
			"schedule_date": "2025-07-07",
			"holiday":       v,
		}, testBranchID)
		require.NoError(t, err)
		assert.True(t, fact.Holiday, "value %v should be truthy", v)
	}

	falsy := []any{nil, false, 0, "0", "no", "off", ""}
	for _, v := range falsy {
		fact, err := NormalizeRow(map[string]any{
			"employee_id":   "EMP001",
			"schedule_date": "2025-07-07",
			"holiday":       v,
		}, testBranchID)
		require.NoError(t, err)
		assert.False(t, fact.Holiday, "value %v should be falsy", v)
	}
}

func TestNormalizeRowBranchFallback(t *testing.T) {
	t.Parallel()

	fact, err := NormalizeRow(map[string]any{
		"employee_id":   "EMP001",
		"schedule_date": "2025-07-07",
	}, testBranchID)
	require.NoError(t, err)
	assert.Equal(t, testBranchID, fact.BranchID)

	fact, err = NormalizeRow(map[string]any{
		"employee_id":   "EMP001",
		"schedule_date": "2025-07-07",
		"branch_id":     float64(777),
	}, testBranchID)
	require.NoError(t, err)
	assert.Equal(t, int64(777), fact.BranchID)

	// Zero and negative ids fall back too
	fact, err = NormalizeRow(map[string]any{
		"employee_id":   "EMP001",
		"schedule_date": "2025-07-07",
		"branch_id":     0,
	}, testBranchID)
	require.NoError(t, err)
	assert.Equal(t, testBranchID, fact.BranchID)
}

func TestNormalizeRowNumericIDsRenderWithoutDecimal(t *testing.T) {
	t.Parallel()

	// JSON decoding turns ids into float64; they must round-trip as ids.
	fact, err := NormalizeRow(map[string]any{
		"employee_id":   float64(100123),
		"schedule_date": "2025-07-07",
	}, testBranchID)
	require.NoError(t, err)
	assert.Equal(t, "100123", fact.EmployeeID)
}

func TestNormalizeRowOptionalFieldsDegradeToNil(t *testing.T) {
	t.Parallel()

	fact, err := NormalizeRow(map[string]any{
		"employee_id":     "EMP001",
		"schedule_date":   "2025-07-07",
		"join_date":       "never",
		"organization_id": -4,
		"gender":          "",
	}, testBranchID)
	require.NoError(t, err)

	assert.Nil(t, fact.JoinDate)
	assert.Nil(t, fact.OrganizationID)
	assert.Nil(t, fact.Gender)
}

func TestNormalizeRowIsDeterministic(t *testing.T) {
	t.Parallel()

	raw := map[string]any{
		"employee_id":    "EMP001",
		"schedule_date":  "2025-07-07 09:00:00",
		"clock_in":       "08:00",
		"clock_out":      "17:00",
		"real_work_hour": "8",
		"holiday":        "no",
	}

	first, err := NormalizeRow(raw, testBranchID)
	require.NoError(t, err)
	second, err := NormalizeRow(raw, testBranchID)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func strPtr(s string) *string { return &s }
