package core

// timewin.go normalizes the operator-entered maintenance window to UTC.
//
// Operators enter local dates (d/m/y), 24-hour times, and a free-form UTC
// offset. All three parsers are total: anything unparseable yields an absent
// instant (or a zero offset) rather than an error, and the composer renders
// placeholders for whatever is missing.

import (
	"math"
	"strconv"
	"strings"
	"time"
)

const windowLayout = "2/1/2006 15:04"

// ParseToUTC parses a local date, time, and UTC offset into an absolute
// instant. The boolean is false when the date or time is missing or
// malformed. A malformed offset does not fail the parse; it counts as UTC.
func ParseToUTC(dateStr, timeStr, offsetStr string) (time.Time, bool) {
	dateStr = strings.TrimSpace(dateStr)
	timeStr = strings.TrimSpace(timeStr)
	if dateStr == "" || timeStr == "" {
		return time.Time{}, false
	}

	parts := strings.Split(dateStr, "/")
	if len(parts) != 3 {
		return time.Time{}, false
	}
	year := parts[2]
	if len(year) == 2 {
		year = "20" + year
	}

	naive, err := time.Parse(windowLayout, parts[0]+"/"+parts[1]+"/"+year+" "+timeStr)
	if err != nil {
		return time.Time{}, false
	}

	local := time.FixedZone("", parseOffsetMinutes(offsetStr)*60)
	t := time.Date(naive.Year(), naive.Month(), naive.Day(), naive.Hour(), naive.Minute(), 0, 0, local)
	return t.UTC(), true
}

// parseOffsetMinutes parses a UTC offset string into signed minutes.
// Accepted forms: "±HH:MM", "±H.h" fractional hours, a bare (signed) hour
// count, all optionally prefixed with the literal "UTC". Empty or
// unparseable input means UTC.
func parseOffsetMinutes(s string) int {
	s = strings.TrimSpace(strings.ReplaceAll(s, "UTC", ""))
	if s == "" {
		return 0
	}

	sign := 1
	if strings.HasPrefix(s, "-") {
		sign = -1
	}
	v := strings.NewReplacer("+", "", "-", "").Replace(s)

	switch {
	case strings.Contains(v, ":"):
		hm := strings.SplitN(v, ":", 2)
		hh, err1 := strconv.Atoi(strings.TrimSpace(hm[0]))
		mm, err2 := strconv.Atoi(strings.TrimSpace(hm[1]))
		if err1 != nil || err2 != nil {
			return 0
		}
		return sign * (hh*60 + mm)
	case strings.Contains(v, "."):
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0
		}
		hh := int(f)
		mm := int(math.Round((f - float64(hh)) * 60))
		return sign * (hh*60 + mm)
	default:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0
		}
		return sign * int(f) * 60
	}
}

// NormalizeWindow applies the overnight rule: when both instants are present
// and end is strictly before start, the window is assumed to cross local
// midnight and end moves forward one day. The returned end feeds both the
// duration and the displayed end date.
func NormalizeWindow(start, end time.Time, haveStart, haveEnd bool) (time.Time, bool) {
	if haveStart && haveEnd && end.Before(start) {
		return end.Add(24 * time.Hour), true
	}
	return end, haveEnd
}

// WindowMinutes returns the window duration in whole minutes, floored and
// clamped at zero. Callers pass the already-normalized end.
func WindowMinutes(start, end time.Time) int {
	mins := int(end.Sub(start).Minutes())
	if mins < 0 {
		return 0
	}
	return mins
}

// HumanizeMinutes renders a minute count as "1h 30m", "2h", or "45m".
// Zero renders as "0m".
func HumanizeMinutes(mins int) string {
	if mins < 0 {
		mins = 0
	}
	h, m := mins/60, mins%60
	switch {
	case h > 0 && m > 0:
		return strconv.Itoa(h) + "h " + strconv.Itoa(m) + "m"
	case h > 0:
		return strconv.Itoa(h) + "h"
	default:
		return strconv.Itoa(m) + "m"
	}
}

// fmtDateUTC renders an instant's UTC date as d/m/Y, or "" when absent.
func fmtDateUTC(t time.Time, ok bool) string {
	if !ok {
		return ""
	}
	return t.Format("02/01/2006")
}

// fmtTimeUTC renders an instant's UTC wall time as HH:MM, or "" when absent.
func fmtTimeUTC(t time.Time, ok bool) string {
	if !ok {
		return ""
	}
	return t.Format("15:04")
}
