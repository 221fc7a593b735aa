package models

import "time"

type EventKind string

const (
	CheckIn  EventKind = "entrada"
	CheckOut EventKind = "salida"
)

// AttendanceEvent is an append-only record of a single scan. Rows are never
// updated; they are only removed by the destructive admin wipe.
type AttendanceEvent struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	EmployeeID int64     `gorm:"index;not null" json:"empleado_id"`
	Kind       EventKind `gorm:"size:16;not null" json:"tipo"`
	Timestamp  time.Time `gorm:"index;not null" json:"fecha_hora"`
	TokenUsed  string    `gorm:"size:255" json:"token_usado,omitempty"`
}
