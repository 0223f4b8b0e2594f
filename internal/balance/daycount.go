package balance

import (
	"math"
	"time"
)

// DayCount converts a request span into whole calendar days:
// ceil((end - start) / 24h), minimum 1. Business-day calendars are a
// policy decision this system does not model.
func DayCount(start, end time.Time) int {
	if !start.Before(end) {
		return 1
	}
	days := int(math.Ceil(end.Sub(start).Hours() / 24))
	if days < 1 {
		return 1
	}
	return days
}
