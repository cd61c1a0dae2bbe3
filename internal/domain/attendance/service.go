package attendance

import (
	"context"
)

// ImportService pulls raw rows from the upstream HR API (or receives them
// directly), runs them through the normalize/compute pipeline, and upserts
// the results.
type ImportService interface {
	// ImportRows normalizes and stores a batch of loosely-typed source rows.
	// Invalid rows are skipped and counted, never fatal.
	ImportRows(ctx context.Context, rows []map[string]any, branchID int64) (ImportResult, error)

	// FetchRange pulls one day at a time from the upstream API across the
	// inclusive [from, to] range and imports each day's rows.
	FetchRange(ctx context.Context, from, to string, branchID int64) (ImportResult, error)
}

// ReportService reads stored daily records and renders them: paginated list
// with period totals, document exports, and monthly payslips.
type ReportService interface {
	List(ctx context.Context, filter ListFilter) (ListResponse, error)

	// Exports return the file bytes plus a suggested filename.
	ExportCSV(ctx context.Context, scope RangeScope) ([]byte, string, error)
	ExportExcel(ctx context.Context, scope RangeScope) ([]byte, string, error)
	ExportRecapPDF(ctx context.Context, scope RangeScope) ([]byte, string, error)
	ExportPayslipsPDF(ctx context.Context, req PayslipRequest) ([]byte, string, error)
}
