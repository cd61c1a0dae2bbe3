package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/karyaprima/payroll-backend-go/internal/domain/attendance"
	"github.com/karyaprima/payroll-backend-go/internal/service/payroll"
)

// upsertChunkSize bounds one multi-row upsert statement.
const upsertChunkSize = 1000

// Fetcher is the upstream attendance source (the Mekari client in
// production). One call returns every summary row for one day.
type Fetcher interface {
	FetchDate(ctx context.Context, date string, branchID int64) ([]map[string]any, error)
}

// TxRunner runs fn inside one database transaction. Production wires
// postgresql.WithTransaction; a nil runner executes fn directly.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

type importServiceImpl struct {
	repo    attendance.Repository
	calc    *payroll.Calculator
	fetcher Fetcher
	tx      TxRunner
}

func NewImportService(repo attendance.Repository, calc *payroll.Calculator, fetcher Fetcher, tx TxRunner) attendance.ImportService {
	if tx == nil {
		tx = func(ctx context.Context, fn func(ctx context.Context) error) error {
			return fn(ctx)
		}
	}
	return &importServiceImpl{
		repo:    repo,
		calc:    calc,
		fetcher: fetcher,
		tx:      tx,
	}
}

// ImportRows implements attendance.ImportService.
func (s *importServiceImpl) ImportRows(ctx context.Context, rows []map[string]any, branchID int64) (attendance.ImportResult, error) {
	result := attendance.ImportResult{ImportID: uuid.NewString()}
	if len(rows) == 0 {
		return result, nil
	}

	records := make([]attendance.ComputedDailyRecord, 0, len(rows))
	for _, raw := range rows {
		fact, err := NormalizeRow(raw, branchID)
		if err != nil {
			if errors.Is(err, attendance.ErrMissingRequiredField) {
				// Skip the single bad row, never the batch.
				result.Skipped++
				slog.Warn("Skipping invalid attendance row",
					"import_id", result.ImportID, "error", err)
				continue
			}
			return result, fmt.Errorf("failed to normalize attendance row: %w", err)
		}
		records = append(records, s.calc.Compute(fact))
	}

	// One batch commits or rolls back as a whole so a retried import never
	// sees half a day.
	err := s.tx(ctx, func(ctx context.Context) error {
		for start := 0; start < len(records); start += upsertChunkSize {
			end := min(start+upsertChunkSize, len(records))
			written, err := s.repo.UpsertBatch(ctx, records[start:end])
			if err != nil {
				return fmt.Errorf("failed to upsert attendance chunk: %w", err)
			}
			result.Processed += written
		}
		return nil
	})
	if err != nil {
		// Nothing persisted after a rollback.
		result.Processed = 0
		return result, err
	}

	return result, nil
}

// FetchRange implements attendance.ImportService.
func (s *importServiceImpl) FetchRange(ctx context.Context, from, to string, branchID int64) (attendance.ImportResult, error) {
	if s.fetcher == nil {
		return attendance.ImportResult{}, fmt.Errorf("no upstream fetcher configured")
	}

	start, err := time.Parse("2006-01-02", from)
	if err != nil {
		return attendance.ImportResult{}, fmt.Errorf("invalid from date %q: %w", from, err)
	}
	end, err := time.Parse("2006-01-02", to)
	if err != nil {
		return attendance.ImportResult{}, fmt.Errorf("invalid to date %q: %w", to, err)
	}
	if end.Before(start) {
		start, end = end, start
	}

	total := attendance.ImportResult{ImportID: uuid.NewString()}
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		date := d.Format("2006-01-02")

		rows, err := s.fetcher.FetchDate(ctx, date, branchID)
		if err != nil {
			return total, fmt.Errorf("failed to fetch attendance for %s: %w", date, err)
		}

		dayResult, err := s.ImportRows(ctx, rows, branchID)
		if err != nil {
			return total, fmt.Errorf("failed to import attendance for %s: %w", date, err)
		}
		total.Processed += dayResult.Processed
		total.Skipped += dayResult.Skipped

		slog.Info("Imported attendance day",
			"import_id", total.ImportID,
			"date", date,
			"rows", len(rows),
			"processed", dayResult.Processed,
			"skipped", dayResult.Skipped,
		)

		// Light pause between days to stay under the upstream rate limit.
		select {
		case <-ctx.Done():
			return total, ctx.Err()
		case <-time.After(120 * time.Millisecond):
		}
	}

	return total, nil
}
