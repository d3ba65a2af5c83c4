package utils

import (
	"time"

	cal "github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/us"
)

// create once at init
var usFed = cal.NewBusinessCalendar()

func init() {
	usFed.AddHoliday(
		us.NewYear,
		us.MlkDay,
		us.PresidentsDay,
		us.MemorialDay,
		us.Juneteenth,
		us.IndependenceDay,
		us.LaborDay,
		us.ColumbusDay,
		us.VeteransDay,
		us.ThanksgivingDay,
		us.ChristmasDay,
	)
}

func IsUSFedHoliday(t time.Time) bool {
	actual, observed, _ := usFed.IsHoliday(t)
	return actual || observed
}

func IsBusinessDay(t time.Time) bool {
	return usFed.IsWorkday(t)
}

// NextBusinessDay returns t unchanged when it is a business day, otherwise
// the first following business day at the same clock time.
func NextBusinessDay(t time.Time) time.Time {
	for i := 0; i < 14 && !usFed.IsWorkday(t); i++ {
		t = t.AddDate(0, 0, 1)
	}
	return t
}
