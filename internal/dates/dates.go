// Package dates holds the pure date comparison and formatting helpers shared
// by the ride and request workflows.
package dates

import (
	"fmt"
	"time"
)

// Compare reports -1 if a is before b, 0 if equal, 1 if after.
func Compare(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	default:
		return 0
	}
}

// FormatInZone renders t in the named IANA zone as e.g.
// "Tue, Mar 3rd, 4:05 PM GMT". Unknown or empty zone names fall back to
// fallbackZone, and to UTC when that is also unusable.
func FormatInZone(t time.Time, zoneName, fallbackZone string) string {
	loc, err := time.LoadLocation(zoneName)
	if zoneName == "" || err != nil {
		loc, err = time.LoadLocation(fallbackZone)
		if err != nil {
			loc = time.UTC
		}
	}
	local := t.In(loc)
	return fmt.Sprintf("%s %s, %s %s",
		local.Format("Mon,"),
		ordinalDay(local),
		local.Format("3:04 PM"),
		local.Format("MST"),
	)
}

func ordinalDay(t time.Time) string {
	day := t.Day()
	suffix := "th"
	switch {
	case day%100 >= 11 && day%100 <= 13:
		suffix = "th"
	case day%10 == 1:
		suffix = "st"
	case day%10 == 2:
		suffix = "nd"
	case day%10 == 3:
		suffix = "rd"
	}
	return fmt.Sprintf("%s %d%s", t.Format("Jan"), day, suffix)
}
