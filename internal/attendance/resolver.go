// Package attendance holds the attendance rules: which event a scan records
// next, how worked time is paired up, when a first check-in counts as late,
// and the check-in / device-binding workflows that tie those rules to the
// token codec and the store.
package attendance

import (
	"math"

	"asistencia/internal/models"
)

// NextKind decides what a new scan records, given the employee's most recent
// event of the current day (nil when there is none). The first event of every
// calendar day is a check-in no matter how the previous day ended.
func NextKind(lastToday *models.AttendanceEvent) models.EventKind {
	if lastToday == nil || lastToday.Kind == models.CheckOut {
		return models.CheckIn
	}
	return models.CheckOut
}

// WorkedHours totals the paired check-in/check-out intervals of a
// timestamp-ordered event sequence, in hours rounded to two decimals.
//
// Malformed sequences are tolerated rather than repaired: a second
// consecutive check-in overwrites the open cursor (the orphaned interval
// counts nothing), and a check-out without an open check-in is ignored.
func WorkedHours(events []models.AttendanceEvent) float64 {
	var total float64
	var open *models.AttendanceEvent

	for i := range events {
		ev := &events[i]
		switch ev.Kind {
		case models.CheckIn:
			open = ev
		case models.CheckOut:
			if open != nil {
				total += ev.Timestamp.Sub(open.Timestamp).Seconds()
				open = nil
			}
		}
	}
	return math.Round(total/3600*100) / 100
}
