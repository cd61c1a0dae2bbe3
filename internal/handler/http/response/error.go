package response

import (
	"errors"
	"net/http"

	"github.com/karyaprima/payroll-backend-go/internal/domain/attendance"
	"github.com/karyaprima/payroll-backend-go/internal/pkg/mekari"
	"github.com/karyaprima/payroll-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Upstream API failures surface as gateway errors
	var apiErr *mekari.APIError
	if errors.As(err, &apiErr) {
		BadGateway(w, "Upstream attendance API request failed")
		return
	}

	switch {
	case errors.Is(err, attendance.ErrMissingRequiredField):
		BadRequest(w, "Attendance row is missing a required field", nil)
	case errors.Is(err, attendance.ErrRecordNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrNoPayslipData):
		NotFound(w, "No attendance data for that month")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
