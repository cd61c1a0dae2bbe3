package mekari

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/karyaprima/payroll-backend-go/internal/config"
)

// Client talks to the Mekari/Talenta attendance API using its HMAC scheme:
// the Authorization header signs the Date header plus the request line.
type Client struct {
	cfg  config.MekariConfig
	http *http.Client

	mu       sync.Mutex
	empCache map[string]map[string]any // employee detail per user_id, per client lifetime
}

func NewClient(cfg config.MekariConfig) *Client {
	return &Client{
		cfg:      cfg,
		http:     &http.Client{Timeout: 30 * time.Second},
		empCache: make(map[string]map[string]any),
	}
}

// APIError represents a non-2xx response from the Mekari API
type APIError struct {
	StatusCode int
	URL        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("mekari API error [%d] %s", e.StatusCode, e.URL)
}

func (c *Client) hmacHeaders(method, fullURL string) (http.Header, error) {
	u, err := url.Parse(fullURL)
	if err != nil {
		return nil, fmt.Errorf("invalid request url %q: %w", fullURL, err)
	}
	path := u.Path
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}

	date := time.Now().UTC().Format("Mon, 02 Jan 2006 15:04:05 GMT")
	signing := fmt.Sprintf("date: %s\n%s %s HTTP/1.1", date, method, path)

	mac := hmac.New(sha256.New, []byte(c.cfg.Secret))
	mac.Write([]byte(signing))
	signature := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	h := http.Header{}
	h.Set("Authorization", fmt.Sprintf(
		`hmac username="%s", algorithm="hmac-sha256", headers="date request-line", signature="%s"`,
		c.cfg.Username, signature,
	))
	h.Set("Date", date)
	h.Set("Accept", "application/json")
	return h, nil
}

func (c *Client) getJSON(ctx context.Context, fullURL string) (map[string]any, error) {
	headers, err := c.hmacHeaders(http.MethodGet, fullURL)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header = headers

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, &APIError{StatusCode: res.StatusCode, URL: fullURL}
	}

	var body map[string]any
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return body, nil
}

// FetchDate walks every page of the attendance summary report for one day and
// enriches each row with employee detail (organization, job, join date,
// gender). The returned rows stay loosely typed; the importer's normalizer
// owns all coercion.
func (c *Client) FetchDate(ctx context.Context, date string, branchID int64) ([]map[string]any, error) {
	var rows []map[string]any

	base := strings.TrimRight(c.cfg.BaseURL, "/")
	next := fmt.Sprintf("%s%s?date=%s&branch_id=%d&limit=%d&page=1",
		base, c.cfg.SummaryEndpoint, date, branchID, c.cfg.PageLimit)

	for next != "" {
		body, err := c.getJSON(ctx, next)
		if err != nil {
			return nil, err
		}

		data, _ := body["data"].(map[string]any)
		items, _ := data["summary_attendance_report"].([]any)

		for _, item := range items {
			r, ok := item.(map[string]any)
			if !ok {
				continue
			}

			row := map[string]any{
				"user_id":         pickUserID(r),
				"employee_id":     r["employee_id"],
				"full_name":       r["full_name"],
				"schedule_date":   valueOr(r["schedule_date"], date),
				"clock_in":        timeOnly(r["clock_in"]),
				"clock_out":       timeOnly(r["clock_out"]),
				"real_work_hour":  r["real_work_hour"],
				"branch_id":       valueOr(r["branch_id"], branchID),
				"shift_name":      r["shift_name"],
				"attendance_code": r["attendance_code"],
				"holiday":         r["holiday"],
			}

			if uid, _ := row["user_id"].(string); uid != "" {
				detail := c.fetchEmployeeDetail(ctx, uid)
				for k, v := range detail {
					if v != nil {
						row[k] = v
					}
				}
			}

			rows = append(rows, row)
		}

		next = nextPageURL(data, base)
		if next != "" {
			select {
			case <-ctx.Done():
				return rows, ctx.Err()
			case <-time.After(100 * time.Millisecond):
			}
		}
	}

	return rows, nil
}

// fetchEmployeeDetail resolves one employee's profile, caching per user so a
// month-long import hits the endpoint once per person. Failures return an
// empty detail rather than aborting the day.
func (c *Client) fetchEmployeeDetail(ctx context.Context, userID string) map[string]any {
	c.mu.Lock()
	if cached, ok := c.empCache[userID]; ok {
		c.mu.Unlock()
		return cached
	}
	c.mu.Unlock()

	base := strings.TrimRight(c.cfg.BaseURL, "/")
	fullURL := base + strings.TrimRight(c.cfg.EmployeeEndpoint, "/") + "/" + url.PathEscape(userID)

	detail := map[string]any{}
	if body, err := c.getJSON(ctx, fullURL); err == nil {
		data, _ := body["data"].(map[string]any)
		emp, _ := data["employee"].(map[string]any)
		personal, _ := emp["personal"].(map[string]any)
		employment, _ := emp["employment"].(map[string]any)

		gender := personal["gender"]
		if gender == nil {
			gender = emp["gender"]
		}

		detail = map[string]any{
			"gender":            normalizeGender(gender),
			"organization_id":   employment["organization_id"],
			"organization_name": employment["organization_name"],
			"job_position_id":   employment["job_position_id"],
			"job_position":      employment["job_position"],
			"job_level_id":      employment["job_level_id"],
			"job_level":         employment["job_level"],
			"branch_id":         employment["branch_id"],
			"branch_name":       employment["branch"],
			"join_date":         employment["join_date"],
		}
	}

	c.mu.Lock()
	c.empCache[userID] = detail
	c.mu.Unlock()
	return detail
}

// pickUserID tries the response fields that have carried the user id across
// API versions.
func pickUserID(r map[string]any) any {
	for _, key := range []string{"user_id", "employee_user_id"} {
		if v, ok := r[key].(string); ok && v != "" {
			return v
		}
		if v, ok := r[key].(float64); ok && v > 0 {
			return fmt.Sprintf("%.0f", v)
		}
	}
	if user, ok := r["user"].(map[string]any); ok {
		if v, ok := user["id"].(string); ok && v != "" {
			return v
		}
	}
	return nil
}

// timeOnly extracts a bare HH:MM:SS from a possibly-datetime value; empty
// stays nil.
func timeOnly(v any) any {
	s, ok := v.(string)
	if !ok || s == "" {
		return nil
	}
	if i := strings.IndexByte(s, ' '); i >= 0 && i+9 <= len(s) {
		return s[i+1:]
	}
	return s
}

// normalizeGender maps the many upstream gender spellings to Male/Female.
func normalizeGender(v any) any {
	switch g := v.(type) {
	case nil:
		return nil
	case float64:
		switch int(g) {
		case 1:
			return "Male"
		case 2:
			return "Female"
		}
		return nil
	case string:
		switch strings.ToLower(strings.TrimSpace(g)) {
		case "":
			return nil
		case "male", "m", "l", "pria", "laki-laki":
			return "Male"
		case "female", "f", "p", "wanita", "perempuan":
			return "Female"
		default:
			lower := strings.ToLower(strings.TrimSpace(g))
			return strings.ToUpper(lower[:1]) + lower[1:]
		}
	default:
		return nil
	}
}

func valueOr(v, fallback any) any {
	if v == nil {
		return fallback
	}
	if s, ok := v.(string); ok && s == "" {
		return fallback
	}
	return v
}

func nextPageURL(data map[string]any, base string) string {
	pagination, _ := data["pagination"].(map[string]any)
	next, _ := pagination["next_page_url"].(string)
	if next == "" {
		return ""
	}
	if strings.HasPrefix(next, "/") {
		return base + next
	}
	return next
}
