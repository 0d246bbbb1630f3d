package event

import (
	"fmt"
	"strconv"
	"strings"
)

// MinutesPerDay is the length of a calendar day in minutes.
const MinutesPerDay = 24 * 60

// TimeToMinutes converts "H:MM" or "HH:MM" to minutes since midnight.
// The second return value is false for malformed input: a missing colon,
// non-numeric parts, or an hour or minute out of range.
func TimeToMinutes(t string) (int, bool) {
	hh, mm, found := strings.Cut(strings.TrimSpace(t), ":")
	if !found || hh == "" || len(mm) != 2 || len(hh) > 2 {
		return 0, false
	}
	hours, err := strconv.Atoi(hh)
	if err != nil || hours < 0 || hours > 23 || hh[0] == '+' || hh[0] == '-' {
		return 0, false
	}
	mins, err := strconv.Atoi(mm)
	if err != nil || mins < 0 || mins > 59 || mm[0] == '+' || mm[0] == '-' {
		return 0, false
	}
	return hours*60 + mins, true
}

// MinutesToTime converts minutes since midnight to "HH:MM" format.
func MinutesToTime(m int) string {
	if m < 0 {
		m = 0
	}
	if m >= MinutesPerDay {
		m = MinutesPerDay - 1
	}
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// IsEndBeforeStart returns true when both times are present and the end is
// not strictly after the start. Equal times are invalid.
func IsEndBeforeStart(start, end string) bool {
	if start == "" || end == "" {
		return false
	}
	s, ok1 := TimeToMinutes(start)
	e, ok2 := TimeToMinutes(end)
	if !ok1 || !ok2 {
		return false
	}
	return e <= s
}

// OverlapMinutes returns the minutes shared by two "HH:MM" ranges, 0 if none.
func OverlapMinutes(start1, end1, start2, end2 string) int {
	s1, ok1 := TimeToMinutes(start1)
	e1, ok2 := TimeToMinutes(end1)
	s2, ok3 := TimeToMinutes(start2)
	e2, ok4 := TimeToMinutes(end2)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return 0
	}
	overlapStart := max(s1, s2)
	overlapEnd := min(e1, e2)
	if overlapEnd <= overlapStart {
		return 0
	}
	return overlapEnd - overlapStart
}
