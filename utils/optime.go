package utils

import (
	"fmt"
	"time"
)

// Optime is the daily operation start: 19:00 in the community's home
// timezone.
const optimeHour = 19

var london = mustLoadLocation("Europe/London")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic("failed to load timezone " + name + ": " + err.Error())
	}
	return loc
}

// TimeUntilOptime returns how long from now until the next optime, offset by
// modifier hours. A target already passed today rolls to tomorrow, so the
// result is never negative.
func TimeUntilOptime(now time.Time, modifier int) time.Duration {
	today := now.In(london)
	opday := time.Date(today.Year(), today.Month(), today.Day(), optimeHour, 0, 0, 0, london).
		Add(time.Duration(modifier) * time.Hour)

	if today.After(opday) {
		opday = opday.AddDate(0, 0, 1)
	}

	return opday.Sub(today)
}

// FormatDuration renders a duration as H:MM:SS with no zero-padding on hours,
// e.g. "3:30:00" or "23:29:18".
func FormatDuration(d time.Duration) string {
	total := int(d.Seconds())
	return fmt.Sprintf("%d:%02d:%02d", total/3600, (total/60)%60, total%60)
}
