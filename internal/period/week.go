package period

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	weekRangeSeparator = regexp.MustCompile(`(?i)\s*(?:–|—|-|\bto\b|\bthrough\b)\s*`)
	trailingYear       = regexp.MustCompile(`,?\s+(\d{4})$`)
	dayOnly            = regexp.MustCompile(`^\d{1,2}$`)
)

var monthDayLayouts = []string{"Jan 2", "January 2", "Jan. 2", "2 Jan", "2 January", "1/2"}

type monthDay struct {
	month   time.Month
	day     int
	year    int
	hasYear bool
}

// parseWeekRange reads "Nov 09 - Nov 15", "November 9 to November 15",
// "Nov 9 – 15" or "Dec 28, 2025 - Jan 3, 2026". Halves without a year take
// defaultYear; an end that lands before its start rolls into the next year.
func parseWeekRange(s string, defaultYear int) (time.Time, time.Time, bool) {
	parts := weekRangeSeparator.Split(strings.TrimSpace(s), -1)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return time.Time{}, time.Time{}, false
	}

	start, ok := parseMonthDay(parts[0])
	if !ok {
		return time.Time{}, time.Time{}, false
	}

	var end monthDay
	if dayOnly.MatchString(parts[1]) {
		day, _ := strconv.Atoi(parts[1])
		end = monthDay{month: start.month, day: day}
	} else if end, ok = parseMonthDay(parts[1]); !ok {
		return time.Time{}, time.Time{}, false
	}

	if !start.hasYear {
		start.year = defaultYear
	}
	if !end.hasYear {
		end.year = start.year
	}

	startDate, ok := start.date()
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	endDate, ok := end.date()
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	if endDate.Before(startDate) && !end.hasYear {
		end.year++
		if endDate, ok = end.date(); !ok {
			return time.Time{}, time.Time{}, false
		}
	}
	return startDate, endDate, true
}

func parseMonthDay(s string) (monthDay, bool) {
	s = strings.TrimSpace(s)
	var md monthDay
	if m := trailingYear.FindStringSubmatch(s); m != nil {
		md.year, _ = strconv.Atoi(m[1])
		md.hasYear = true
		s = strings.TrimSpace(strings.TrimSuffix(s, m[0]))
	}
	for _, layout := range monthDayLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			md.month, md.day = t.Month(), t.Day()
			return md, true
		}
	}
	return monthDay{}, false
}

// date rejects days that do not exist in the month, e.g. Feb 30
func (md monthDay) date() (time.Time, bool) {
	t := time.Date(md.year, md.month, md.day, 0, 0, 0, 0, time.UTC)
	if t.Month() != md.month || t.Day() != md.day {
		return time.Time{}, false
	}
	return t, true
}
