package attendance

import (
	"context"
	"strconv"
	"time"

	"asistencia/internal/storage"
)

// DefaultToleranceMinutes applies when the tolerancia_minutos config entry is
// missing or does not parse as a non-negative integer.
const DefaultToleranceMinutes = 15

// ToleranceMinutes reads the configured late tolerance, falling back to the
// default on any missing or malformed value.
func ToleranceMinutes(ctx context.Context, st storage.Store) int {
	raw, err := st.GetConfig(ctx, "tolerancia_minutos")
	if err != nil {
		return DefaultToleranceMinutes
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return DefaultToleranceMinutes
	}
	return n
}

// LateArrival is one flagged first-check-in of a day.
type LateArrival struct {
	EmployeeID      int64  `json:"empleado_id"`
	Name            string `json:"nombre"`
	Department      string `json:"departamento"`
	Date            string `json:"fecha"`
	Scheduled       string `json:"hora_programada"`
	Registered      string `json:"hora_registro"`
	WithinTolerance bool   `json:"con_tolerancia"`
}

// ClassifyArrival compares a first check-in of the day against the scheduled
// HH:MM time. Both sides are zero-padded two-digit fields, so plain string
// comparison orders them correctly; an arrival exactly on schedule is never
// flagged (strict >). The second result only holds meaning when flagged: it
// reports whether the arrival still fell inside scheduled+tolerance.
func ClassifyArrival(scheduled string, registered time.Time, toleranceMinutes int) (flagged, withinTolerance bool) {
	reg := registered.Format("15:04")
	if reg <= scheduled {
		return false, false
	}

	sched, err := time.Parse("15:04", scheduled)
	if err != nil {
		return false, false
	}
	limit := sched.Add(time.Duration(toleranceMinutes) * time.Minute).Format("15:04")
	return true, reg <= limit
}
