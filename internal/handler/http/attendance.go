package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/karyaprima/payroll-backend-go/internal/config"
	"github.com/karyaprima/payroll-backend-go/internal/domain/attendance"
	"github.com/karyaprima/payroll-backend-go/internal/handler/http/response"
)

type AttendanceHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Recap(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)
	ExportPayslips(w http.ResponseWriter, r *http.Request)
	Import(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	reportService attendance.ReportService
	importService attendance.ImportService
	fetchCfg      config.FetchConfig
	location      *time.Location
}

func NewAttendanceHandler(
	reportService attendance.ReportService,
	importService attendance.ImportService,
	cfg *config.Config,
) AttendanceHandler {
	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		loc = time.UTC
	}
	return &attendanceHandlerImpl{
		reportService: reportService,
		importService: importService,
		fetchCfg:      cfg.Fetch,
		location:      loc,
	}
}

// List implements AttendanceHandler.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := h.parseListFilter(r)

	result, err := h.reportService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: result.TotalPages,
	})
}

// Recap implements AttendanceHandler: period summaries without the page of
// daily rows.
func (h *attendanceHandlerImpl) Recap(w http.ResponseWriter, r *http.Request) {
	filter := h.parseListFilter(r)
	filter.Limit = 1 // totals only; fetch the smallest valid page

	result, err := h.reportService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result.EmployeeTotals)
}

// Export implements AttendanceHandler: ?format=csv|xlsx|pdf.
func (h *attendanceHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	scope := h.parseRangeScope(r)

	var (
		data        []byte
		filename    string
		contentType string
		err         error
	)

	format := strings.ToLower(r.URL.Query().Get("format"))
	switch format {
	case "", "csv":
		data, filename, err = h.reportService.ExportCSV(r.Context(), scope)
		contentType = "text/csv; charset=UTF-8"
	case "xlsx":
		data, filename, err = h.reportService.ExportExcel(r.Context(), scope)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case "pdf":
		data, filename, err = h.reportService.ExportRecapPDF(r.Context(), scope)
		contentType = "application/pdf"
	default:
		response.BadRequest(w, "format must be one of: csv, xlsx, pdf", nil)
		return
	}
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.File(w, filename, contentType, data)
}

// ExportPayslips implements AttendanceHandler: ?month=YYYY-MM.
func (h *attendanceHandlerImpl) ExportPayslips(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	req := attendance.PayslipRequest{
		Month:     q.Get("month"),
		BranchID:  h.branchID(q.Get("branch_id")),
		NameQuery: strings.TrimSpace(q.Get("name")),
	}
	if req.Month == "" {
		req.Month = time.Now().In(h.location).Format("2006-01")
	}
	if org := parseInt64OrNil(q.Get("organization_id")); org != nil {
		req.OrganizationID = org
	}

	data, filename, err := h.reportService.ExportPayslipsPDF(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.File(w, filename, "application/pdf", data)
}

// Import implements AttendanceHandler: pulls a date range from the upstream
// API and stores the computed records.
func (h *attendanceHandlerImpl) Import(w http.ResponseWriter, r *http.Request) {
	var req attendance.ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if req.BranchID == 0 {
		req.BranchID = h.fetchCfg.DefaultBranchID
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.importService.FetchRange(r.Context(), req.From, req.To, req.BranchID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Import completed", result)
}

// parseListFilter reads the list/recap query parameters; the service-side
// Validate fills defaults and rejects bad values.
func (h *attendanceHandlerImpl) parseListFilter(r *http.Request) attendance.ListFilter {
	q := r.URL.Query()

	filter := attendance.ListFilter{
		BranchID:  h.branchID(q.Get("branch_id")),
		SortBy:    q.Get("sort_by"),
		SortOrder: q.Get("sort_order"),
	}

	if v := strings.TrimSpace(q.Get("q")); v != "" {
		filter.Query = &v
	}
	if v := q.Get("start_date"); v != "" {
		filter.StartDate = &v
	}
	if v := q.Get("end_date"); v != "" {
		filter.EndDate = &v
	}
	filter.OrganizationID = parseInt64OrNil(q.Get("organization_id"))

	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil {
		filter.Limit = limit
	}

	return filter
}

// parseRangeScope reads export query parameters. The range defaults to
// month-start through today in the configured timezone.
func (h *attendanceHandlerImpl) parseRangeScope(r *http.Request) attendance.RangeScope {
	q := r.URL.Query()
	now := time.Now().In(h.location)

	scope := attendance.RangeScope{
		BranchID:  h.branchID(q.Get("branch_id")),
		StartDate: validDateOr(q.Get("from"), now.Format("2006-01")+"-01"),
		EndDate:   validDateOr(q.Get("to"), now.Format("2006-01-02")),
	}
	if scope.StartDate > scope.EndDate {
		scope.StartDate, scope.EndDate = scope.EndDate, scope.StartDate
	}

	if v := strings.TrimSpace(q.Get("q")); v != "" {
		scope.Query = &v
	}
	scope.OrganizationID = parseInt64OrNil(q.Get("organization_id"))

	return scope
}

func (h *attendanceHandlerImpl) branchID(raw string) int64 {
	if id, err := strconv.ParseInt(raw, 10, 64); err == nil && id > 0 {
		return id
	}
	return h.fetchCfg.DefaultBranchID
}

func parseInt64OrNil(raw string) *int64 {
	if raw == "" || raw == "all" {
		return nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil
	}
	return &id
}

func validDateOr(raw, fallback string) string {
	if _, err := time.Parse("2006-01-02", raw); err == nil {
		return raw
	}
	return fallback
}
