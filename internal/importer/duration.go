package importer

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	durationRe = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:[\d.]+S)?)?$`)
	firstIntRe = regexp.MustCompile(`\d+`)
)

// ParseDuration converts an ISO-8601 duration such as "PT1H15M" to whole
// minutes. It reports false when the value has neither an hour nor a minute
// component, so a day-only value such as "P1D" is no duration. Days are
// added only alongside an hour or minute part.
func ParseDuration(s string) (int, bool) {
	m := durationRe.FindStringSubmatch(strings.ToUpper(strings.TrimSpace(s)))
	if m == nil {
		return 0, false
	}
	days, hours, minutes := m[1], m[2], m[3]
	if hours == "" && minutes == "" {
		return 0, false
	}
	total := atoi(days)*24*60 + atoi(hours)*60 + atoi(minutes)
	return total, true
}

// FirstInt returns the first run of digits in s.
func FirstInt(s string) (int, bool) {
	d := firstIntRe.FindString(s)
	if d == "" {
		return 0, false
	}
	n, err := strconv.Atoi(d)
	if err != nil {
		return 0, false
	}
	return n, true
}

func atoi(s string) int {
	if s == "" {
		return 0
	}
	n, _ := strconv.Atoi(s)
	return n
}
