package models

import "time"

// Employee is soft-deleted via the Active flag; rows are only hard-deleted
// by the destructive admin wipe. DeviceToken holds the currently bound
// device credential verbatim, empty when no device is linked.
type Employee struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:200;not null" json:"nombre"`
	Department   string    `gorm:"size:100;default:''" json:"departamento"`
	ScheduledIn  string    `gorm:"size:5;not null;default:'09:00'" json:"hora_entrada"`
	ScheduledOut string    `gorm:"size:5;not null;default:'18:00'" json:"hora_salida"`
	DeviceToken  string    `gorm:"size:255;index" json:"token_dispositivo,omitempty"`
	Active       bool      `gorm:"default:true" json:"activo"`
	CreatedAt    time.Time `json:"fecha_registro"`
}
