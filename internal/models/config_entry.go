package models

// ConfigEntry is a row of the string-keyed configuration store
// (secret_key, tolerancia_minutos, nombre_empresa).
type ConfigEntry struct {
	Key   string `gorm:"primaryKey;size:100" json:"clave"`
	Value string `gorm:"size:500;not null" json:"valor"`
}
