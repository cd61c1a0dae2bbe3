package attendance

import (
	"context"
)

// Repository defines data access for computed daily records. Writes go
// through UpsertBatch only: the (employee_id, schedule_date, branch_id)
// natural key makes re-imports idempotent.
type Repository interface {
	// UpsertBatch inserts or replaces records by natural key and returns the
	// number of rows written.
	UpsertBatch(ctx context.Context, records []ComputedDailyRecord) (int, error)

	// List retrieves one page of records with filters applied.
	List(ctx context.Context, filter ListFilter) ([]ComputedDailyRecord, int64, error)

	// ListRange retrieves every record in scope, ordered by schedule_date then
	// employee_id. Used for aggregation, export, and payslips.
	ListRange(ctx context.Context, scope RangeScope) ([]ComputedDailyRecord, error)

	// DistinctOrganizations lists organizations present in a branch.
	DistinctOrganizations(ctx context.Context, branchID int64) ([]OrganizationOption, error)

	// DistinctEmployees lists employees present in a branch, optionally
	// narrowed to one organization.
	DistinctEmployees(ctx context.Context, branchID int64, organizationID *int64) ([]EmployeeOption, error)
}
