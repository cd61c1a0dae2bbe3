package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/karyaprima/payroll-backend-go/internal/config"
	"github.com/karyaprima/payroll-backend-go/internal/domain/attendance"
)

// AttendanceJobs keeps the stored attendance in sync with the upstream API.
type AttendanceJobs struct {
	importService attendance.ImportService
	fetchCfg      config.FetchConfig
	location      *time.Location
}

func NewAttendanceJobs(importService attendance.ImportService, cfg *config.Config) *AttendanceJobs {
	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		loc = time.UTC
	}
	return &AttendanceJobs{
		importService: importService,
		fetchCfg:      cfg.Fetch,
		location:      loc,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("fetch_recent_attendance", j.fetchCfg.Interval, j.FetchRecentAttendance)
}

// FetchRecentAttendance re-imports yesterday and today. Yesterday is included
// because clock-outs and corrections keep landing after midnight; the upsert
// makes the re-import idempotent.
func (j *AttendanceJobs) FetchRecentAttendance(ctx context.Context) error {
	now := time.Now().In(j.location)
	from := now.AddDate(0, 0, -1).Format("2006-01-02")
	to := now.Format("2006-01-02")

	slog.Info("Cron: Fetching recent attendance",
		"from", from, "to", to, "branch_id", j.fetchCfg.DefaultBranchID)

	result, err := j.importService.FetchRange(ctx, from, to, j.fetchCfg.DefaultBranchID)
	if err != nil {
		return fmt.Errorf("failed to fetch recent attendance: %w", err)
	}

	slog.Info("Cron: Recent attendance fetched",
		"import_id", result.ImportID,
		"processed", result.Processed,
		"skipped", result.Skipped,
	)
	return nil
}
