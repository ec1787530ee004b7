// Package period maps Vietnamese time phrases to closed date intervals.
// Resolution is deterministic and calendar-correct; when nothing matches the
// caller gets an explicit miss, never a default window.
package period

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"moneytalk/internal/models"
)

// Request is a resolved aggregation window. Start and End are inclusive
// dates; End >= Start always holds for a matched period.
type Request struct {
	Start   time.Time     `json:"start_date"`
	End     time.Time     `json:"end_date"`
	Type    models.TxType `json:"tx_type"`
	RawText string        `json:"raw_period_text"`
}

var (
	rangeRe     = regexp.MustCompile(`(?i)từ\s+(\S+)\s+đến\s+(\S+)`)
	monthRe     = regexp.MustCompile(`tháng\s*(\d{1,2})(?:\s*/\s*(\d{4}))?`)
	lastNDaysRe = regexp.MustCompile(`(\d+)\s*ngày`)

	dmyRe      = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	dmyShortRe = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{2})$`)
	dmRe       = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})$`)
	isoRe      = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	compactRe  = regexp.MustCompile(`^(\d{4})(\d{2})(\d{2})$`)
)

var incomeCues = []string{"thu nhập", "tiền thu", "tiền vào", "lương", "thu"}
var expenseCues = []string{"chi tiêu", "tiền chi", "tiền ra", "chi"}

// Resolver turns normalized text into a Request. The clock is injectable so
// the current-month clipping rules are testable on any date.
type Resolver struct {
	now func() time.Time
}

func NewResolver() *Resolver {
	return &Resolver{now: time.Now}
}

// NewResolverAt pins the resolver's notion of today. Used in tests.
func NewResolverAt(now func() time.Time) *Resolver {
	return &Resolver{now: now}
}

// Resolve maps text to a period. The returned bool is false when no period
// marker was recognized; the Type filter is still populated in that case so
// callers can report "type understood, period not". Callers must never
// substitute a default window for a miss.
func (r *Resolver) Resolve(text string) (Request, bool) {
	lower := strings.ToLower(text)
	today := dateOnly(r.now())
	txType := resolveType(lower)

	// First match wins, in this order.
	if req, ok := r.explicitRange(lower, today); ok {
		req.Type = txType
		req.RawText = text
		return req, true
	}
	if req, ok := r.namedMonth(lower, today); ok {
		req.Type = txType
		req.RawText = text
		return req, true
	}
	if strings.Contains(lower, "tháng này") {
		start := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
		// An in-progress month is never reported as complete: end is always
		// today, even on the last calendar day.
		return Request{Start: start, End: today, Type: txType, RawText: text}, true
	}
	if strings.Contains(lower, "tháng trước") {
		return Request{Start: previousMonthStart(today), End: previousMonthEnd(today), Type: txType, RawText: text}, true
	}
	if req, ok := lastNDays(lower, today); ok {
		req.Type = txType
		req.RawText = text
		return req, true
	}

	return Request{Type: txType}, false
}

// explicitRange handles "từ <date> đến <date>".
func (r *Resolver) explicitRange(lower string, today time.Time) (Request, bool) {
	m := rangeRe.FindStringSubmatch(lower)
	if m == nil {
		return Request{}, false
	}
	start, ok := parseDateToken(m[1], today)
	if !ok {
		return Request{}, false
	}
	end, ok := parseDateToken(m[2], today)
	if !ok {
		return Request{}, false
	}
	if end.Before(start) {
		return Request{}, false
	}
	return Request{Start: start, End: end}, true
}

// namedMonth handles "tháng N" and "tháng N/YYYY". The year defaults to the
// current one. A month that is still in progress is clipped to today.
func (r *Resolver) namedMonth(lower string, today time.Time) (Request, bool) {
	m := monthRe.FindStringSubmatch(lower)
	if m == nil {
		return Request{}, false
	}
	month, err := strconv.Atoi(m[1])
	if err != nil || month < 1 || month > 12 {
		return Request{}, false
	}
	year := today.Year()
	if m[2] != "" {
		year, err = strconv.Atoi(m[2])
		if err != nil {
			return Request{}, false
		}
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, today.Location())
	end := time.Date(year, time.Month(month), daysInMonth(year, month), 0, 0, 0, 0, today.Location())
	if year == today.Year() && time.Month(month) == today.Month() && today.Before(end) {
		end = today
	}
	return Request{Start: start, End: end}, true
}

func lastNDays(lower string, today time.Time) (Request, bool) {
	m := lastNDaysRe.FindStringSubmatch(lower)
	if m == nil {
		return Request{}, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 1 {
		return Request{}, false
	}
	// Trailing window ending today, today included.
	return Request{Start: today.AddDate(0, 0, -(n - 1)), End: today}, true
}

func previousMonthStart(today time.Time) time.Time {
	year, month := today.Year(), int(today.Month())-1
	if month == 0 {
		month = 12
		year--
	}
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, today.Location())
}

func previousMonthEnd(today time.Time) time.Time {
	start := previousMonthStart(today)
	return time.Date(start.Year(), start.Month(), daysInMonth(start.Year(), int(start.Month())), 0, 0, 0, 0, today.Location())
}

// resolveType derives the income/expense filter from keyword cues. It is
// independent of period matching.
func resolveType(lower string) models.TxType {
	income := containsAny(lower, incomeCues)
	expense := containsAny(lower, expenseCues)
	switch {
	case income && !expense:
		return models.TxTypeIncome
	case expense && !income:
		return models.TxTypeExpense
	default:
		return models.TxTypeBoth
	}
}

func containsAny(s string, cues []string) bool {
	for _, cue := range cues {
		if strings.Contains(s, cue) {
			return true
		}
	}
	return false
}

// parseDateToken accepts DD/MM/YYYY, DD/MM/YY, DD/MM (current year),
// YYYY-MM-DD and YYYYMMDD.
func parseDateToken(token string, today time.Time) (time.Time, bool) {
	var year, month, day int

	switch {
	case dmyRe.MatchString(token):
		m := dmyRe.FindStringSubmatch(token)
		day, _ = strconv.Atoi(m[1])
		month, _ = strconv.Atoi(m[2])
		year, _ = strconv.Atoi(m[3])
	case dmyShortRe.MatchString(token):
		m := dmyShortRe.FindStringSubmatch(token)
		day, _ = strconv.Atoi(m[1])
		month, _ = strconv.Atoi(m[2])
		year, _ = strconv.Atoi(m[3])
		year += 2000
	case dmRe.MatchString(token):
		m := dmRe.FindStringSubmatch(token)
		day, _ = strconv.Atoi(m[1])
		month, _ = strconv.Atoi(m[2])
		year = today.Year()
	case isoRe.MatchString(token):
		m := isoRe.FindStringSubmatch(token)
		year, _ = strconv.Atoi(m[1])
		month, _ = strconv.Atoi(m[2])
		day, _ = strconv.Atoi(m[3])
	case compactRe.MatchString(token):
		m := compactRe.FindStringSubmatch(token)
		year, _ = strconv.Atoi(m[1])
		month, _ = strconv.Atoi(m[2])
		day, _ = strconv.Atoi(m[3])
	default:
		return time.Time{}, false
	}

	if month < 1 || month > 12 || day < 1 || day > daysInMonth(year, month) {
		return time.Time{}, false
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, today.Location()), true
}

func daysInMonth(year, month int) int {
	switch time.Month(month) {
	case time.January, time.March, time.May, time.July, time.August, time.October, time.December:
		return 31
	case time.April, time.June, time.September, time.November:
		return 30
	case time.February:
		if isLeap(year) {
			return 29
		}
		return 28
	default:
		return 0
	}
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
