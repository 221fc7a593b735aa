// Package report assembles the worked-hours and late-arrival reports and
// renders the Excel export.
package report

import (
	"context"
	"fmt"

	"asistencia/internal/attendance"
	"asistencia/internal/models"
	"asistencia/internal/storage"
)

// EmployeeHours is one row of the worked-hours summary.
type EmployeeHours struct {
	EmployeeID int64   `json:"empleado_id"`
	Name       string  `json:"nombre"`
	Department string  `json:"departamento"`
	Hours      float64 `json:"horas"`
}

// WorkedHours totals the paired intervals of every active employee over the
// inclusive [from, to] date range.
func WorkedHours(ctx context.Context, st storage.Store, from, to string) ([]EmployeeHours, error) {
	employees, err := st.ListEmployees(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}

	out := make([]EmployeeHours, 0, len(employees))
	for _, emp := range employees {
		rows, err := st.EventsInRange(ctx, from, to, emp.ID)
		if err != nil {
			return nil, fmt.Errorf("events for employee %d: %w", emp.ID, err)
		}
		events := make([]models.AttendanceEvent, len(rows))
		for i, r := range rows {
			events[i] = r.AttendanceEvent
		}
		out = append(out, EmployeeHours{
			EmployeeID: emp.ID,
			Name:       emp.Name,
			Department: emp.Department,
			Hours:      attendance.WorkedHours(events),
		})
	}
	return out, nil
}

// LateArrivals flags, per active employee and day, the first check-in that
// came after the scheduled time. Days without a check-in produce no row.
func LateArrivals(ctx context.Context, st storage.Store, from, to string) ([]attendance.LateArrival, error) {
	employees, err := st.ListEmployees(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	tolerance := attendance.ToleranceMinutes(ctx, st)

	out := []attendance.LateArrival{}
	for _, emp := range employees {
		rows, err := st.EventsInRange(ctx, from, to, emp.ID)
		if err != nil {
			return nil, fmt.Errorf("events for employee %d: %w", emp.ID, err)
		}

		// Rows arrive timestamp-ordered, so the first check-in seen per
		// day is the earliest one.
		firstSeen := map[string]bool{}
		for _, r := range rows {
			if r.Kind != models.CheckIn {
				continue
			}
			day := r.Timestamp.Format("2006-01-02")
			if firstSeen[day] {
				continue
			}
			firstSeen[day] = true

			flagged, within := attendance.ClassifyArrival(emp.ScheduledIn, r.Timestamp, tolerance)
			if !flagged {
				continue
			}
			out = append(out, attendance.LateArrival{
				EmployeeID:      emp.ID,
				Name:            emp.Name,
				Department:      emp.Department,
				Date:            day,
				Scheduled:       emp.ScheduledIn,
				Registered:      r.Timestamp.Format("15:04"),
				WithinTolerance: within,
			})
		}
	}
	return out, nil
}
