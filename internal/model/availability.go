package model

import "time"

// AvailabilityStatus is the state of a single calendar day of a property.
type AvailabilityStatus string

const (
	StatusAvailable   AvailabilityStatus = "available"
	StatusUnavailable AvailabilityStatus = "unavailable"
	StatusBooked      AvailabilityStatus = "booked"
)

// Valid reports whether s is one of the known statuses.
func (s AvailabilityStatus) Valid() bool {
	switch s {
	case StatusAvailable, StatusUnavailable, StatusBooked:
		return true
	}
	return false
}

// AvailabilityRecord is the status of one property on one date.
type AvailabilityRecord struct {
	PropertyID int64              `gorm:"primaryKey;autoIncrement:false" json:"propertyId"`
	Date       Date               `gorm:"primaryKey;type:date" json:"date"`
	Status     AvailabilityStatus `gorm:"size:16;not null" json:"status"`
	UpdatedAt  time.Time          `json:"-"`
}
