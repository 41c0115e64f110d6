package models

import "time"

// StateRecord is one persisted key of the state store in SQL backends.
type StateRecord struct {
	Key       string    `gorm:"column:record_key;primaryKey;size:128"`
	Value     string    `gorm:"column:record_value;type:longtext;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName pins the table name regardless of naming strategy.
func (StateRecord) TableName() string {
	return "state_records"
}
