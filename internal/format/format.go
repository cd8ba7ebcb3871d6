package format

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// NotAvailable is rendered for missing values.
const NotAvailable = "---"

// IST is Indian Standard Time (UTC+05:30), the display timezone for all dates.
// A fixed zone is used so formatting does not depend on the host tzdata.
var IST = time.FixedZone("IST", 5*60*60+30*60)

const (
	layoutDate     = "02 Jan 2006"
	layoutTime     = "03:04 PM"
	layoutDateTime = "02 Jan 2006, 03:04 PM"
	layoutClock    = "15:04:05"
)

// FormatDateIST formats t as a date in IST, e.g. "05 Mar 2024".
func FormatDateIST(t time.Time) string {
	if t.IsZero() {
		return NotAvailable
	}
	return t.In(IST).Format(layoutDate)
}

// FormatTimeIST formats t as a 12-hour clock time in IST, e.g. "09:30 AM".
func FormatTimeIST(t time.Time) string {
	if t.IsZero() {
		return NotAvailable
	}
	return t.In(IST).Format(layoutTime)
}

// FormatDateTimeIST formats t as date and time in IST with a zone suffix,
// e.g. "05 Mar 2024, 09:30 AM IST".
func FormatDateTimeIST(t time.Time) string {
	if t.IsZero() {
		return NotAvailable
	}
	return t.In(IST).Format(layoutDateTime) + " IST"
}

// FormatClockIST formats t as a 24-hour "HH:MM:SS" clock in IST.
func FormatClockIST(t time.Time) string {
	if t.IsZero() {
		return NotAvailable
	}
	return t.In(IST).Format(layoutClock)
}

// timestampLayouts are tried in order by ParseTimestamp. Layouts without a
// zone are interpreted as UTC, matching what the backend stores.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// ParseTimestamp parses the timestamp formats emitted by the backend.
// An empty string yields the zero time and no error.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

// FormatNumber formats an integer with locale-style comma separators.
// Example: 12345678 → "12,345,678".
func FormatNumber(n int64) string {
	s := strconv.FormatInt(n, 10)
	if n < 0 {
		return "-" + insertCommas(s[1:])
	}
	return insertCommas(s)
}

// FormatPercent formats a percentage with one decimal place.
// Negative values return NotAvailable.
func FormatPercent(p float64) string {
	if p < 0 {
		return NotAvailable
	}
	return fmt.Sprintf("%.1f%%", p)
}

// FormatRatio renders "done/total", e.g. "12/40".
func FormatRatio(done, total int) string {
	return FormatNumber(int64(done)) + "/" + FormatNumber(int64(total))
}

// FormatLatency formats a poll duration: milliseconds below one second,
// seconds with two decimals above.
func FormatLatency(d time.Duration) string {
	if d < 0 {
		return NotAvailable
	}
	if d >= time.Second {
		return fmt.Sprintf("%.2f s", d.Seconds())
	}
	return fmt.Sprintf("%d ms", d.Milliseconds())
}

// insertCommas inserts comma separators into a digit string every 3 digits from the right.
func insertCommas(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	var buf strings.Builder
	lead := n % 3
	if lead > 0 {
		buf.WriteString(s[:lead])
	}
	for i := lead; i < n; i += 3 {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(s[i : i+3])
	}
	return buf.String()
}
