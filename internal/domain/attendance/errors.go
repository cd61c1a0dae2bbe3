package attendance

import "errors"

// Attendance domain errors
var (
	// ErrMissingRequiredField is the only hard failure in the ingest core:
	// a source row without an employee id or schedule date. Callers skip the
	// row and keep the batch going.
	ErrMissingRequiredField = errors.New("source row is missing employee_id or schedule date")

	ErrRecordNotFound = errors.New("attendance record not found")
	ErrNoPayslipData  = errors.New("no attendance data for the requested month")
)
