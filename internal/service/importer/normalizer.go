package importer

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/karyaprima/payroll-backend-go/internal/domain/attendance"
)

// dateLayouts are tried in order when normalizing upstream date values.
// The API usually sends plain Y-m-d but exports and manual fixes have shown
// up with timestamps and slashed forms.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
	"02/01/2006",
	"02-01-2006",
}

var (
	clockRegex = regexp.MustCompile(`^\d{2}:\d{2}(:\d{2})?$`)
	timeInText = regexp.MustCompile(`(\d{2}:\d{2})(:\d{2})?`)
)

// NormalizeRow converts one loosely-typed source row into a strict Fact.
// The only failure mode is a missing employee_id or schedule date
// (attendance.ErrMissingRequiredField); every other malformed field degrades
// to nil/zero so a dirty upstream row still imports. Pure: identical input
// always yields an identical Fact.
func NormalizeRow(raw map[string]any, defaultBranchID int64) (attendance.Fact, error) {
	employeeID := str(raw["employee_id"])
	scheduleDate := str(raw["schedule_date"])
	if scheduleDate == "" {
		scheduleDate = str(raw["date"])
	}

	if employeeID == "" || scheduleDate == "" {
		return attendance.Fact{}, fmt.Errorf("employee %q date %q: %w",
			employeeID, scheduleDate, attendance.ErrMissingRequiredField)
	}

	userID := str(raw["user_id"])
	if userID == "" {
		userID = str(raw["talenta_user_id"])
	}

	fact := attendance.Fact{
		UserID:     strOrNull(userID),
		EmployeeID: employeeID,
		FullName:   str(raw["full_name"]),

		ScheduleDate: toDate(scheduleDate),
		ClockIn:      toTimeOrNull(raw["clock_in"]),
		ClockOut:     toTimeOrNull(raw["clock_out"]),
		RealWorkHour: num(raw["real_work_hour"], 0),

		BranchID:       defaultBranchID,
		BranchName:     strOrNull(str(raw["branch_name"])),
		ShiftName:      strOrNull(str(raw["shift_name"])),
		AttendanceCode: strOrNull(str(raw["attendance_code"])),
		Holiday:        toBool(raw["holiday"]),

		Gender:           strOrNull(str(raw["gender"])),
		OrganizationID:   bigintOrNull(raw["organization_id"]),
		OrganizationName: strOrNull(str(raw["organization_name"])),
		JobPositionID:    bigintOrNull(raw["job_position_id"]),
		JobPosition:      strOrNull(str(raw["job_position"])),
		JobLevelID:       bigintOrNull(raw["job_level_id"]),
		JobLevel:         strOrNull(str(raw["job_level"])),
		JoinDate:         toDateOrNull(raw["join_date"]),
	}

	if branch := bigintOrNull(raw["branch_id"]); branch != nil {
		fact.BranchID = *branch
	}

	return fact, nil
}

// toDate normalizes to YYYY-MM-DD. Unparseable input keeps its first ten
// characters: best effort, never an error.
func toDate(val string) string {
	val = strings.TrimSpace(val)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, val); err == nil {
			return t.Format("2006-01-02")
		}
	}
	if len(val) > 10 {
		return val[:10]
	}
	return val
}

func toDateOrNull(v any) *string {
	s := str(v)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d := t.Format("2006-01-02")
			return &d
		}
	}
	return nil
}

// toTimeOrNull normalizes to HH:MM:SS. Accepts bare HH:MM, HH:MM:SS, or a
// full timestamp whose time-of-day is lifted out by pattern match. Anything
// else is nil; there is no default clock time.
func toTimeOrNull(v any) *string {
	s := strings.TrimSpace(str(v))
	if s == "" {
		return nil
	}

	if clockRegex.MatchString(s) {
		if len(s) == 5 {
			s += ":00"
		}
		return &s
	}

	for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			clock := t.Format("15:04:05")
			return &clock
		}
	}

	if m := timeInText.FindString(s); m != "" {
		if len(m) == 5 {
			m += ":00"
		}
		return &m
	}

	return nil
}

// num parses a numeric field, tolerating thousands separators and treating
// empty input as the default. Non-finite results also fall back.
func num(v any, fallback float64) float64 {
	switch n := v.(type) {
	case nil:
		return fallback
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return fallback
		}
		return n
	case float32:
		return num(float64(n), fallback)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(n, ",", ""))
		if s == "" {
			return fallback
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return fallback
		}
		return f
	default:
		return fallback
	}
}

func toBool(v any) bool {
	switch b := v.(type) {
	case nil:
		return false
	case bool:
		return b
	case float64:
		return b == 1
	case int:
		return b == 1
	default:
		s := strings.ToLower(strings.TrimSpace(str(v)))
		switch s {
		case "1", "true", "yes", "y", "on":
			return true
		}
		return false
	}
}

func bigintOrNull(v any) *int64 {
	n := int64(num(v, 0))
	if n <= 0 {
		return nil
	}
	return &n
}

func str(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		// JSON decodes ids as float64; render integral values without the
		// trailing ".0" so they round-trip as ids.
		if s == math.Trunc(s) && !math.IsInf(s, 0) {
			return strconv.FormatInt(int64(s), 10)
		}
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	case bool:
		if s {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprintf("%v", v)
	}
}

func strOrNull(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
