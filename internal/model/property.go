package model

import "time"

// Host owns and manages properties.
type Host struct {
	ID        int64     `gorm:"primaryKey" yaml:"id" json:"id"`
	Name      string    `gorm:"size:128;not null" yaml:"name" json:"name"`
	Email     string    `gorm:"size:256" yaml:"email" json:"email"`
	CreatedAt time.Time `yaml:"-" json:"-"`
	UpdatedAt time.Time `yaml:"-" json:"-"`
}

// Guest requests stays.
type Guest struct {
	ID        int64     `gorm:"primaryKey" yaml:"id" json:"id"`
	Name      string    `gorm:"size:128;not null" yaml:"name" json:"name"`
	Email     string    `gorm:"size:256" yaml:"email" json:"email"`
	CreatedAt time.Time `yaml:"-" json:"-"`
	UpdatedAt time.Time `yaml:"-" json:"-"`
}

// Property is a bookable listing.
type Property struct {
	ID            int64     `gorm:"primaryKey" yaml:"id" json:"id"`
	HostID        int64     `gorm:"index;not null" yaml:"host_id" json:"hostId"`
	Title         string    `gorm:"size:256;not null" yaml:"title" json:"title"`
	Location      string    `gorm:"size:256" yaml:"location" json:"location"`
	MaxGuests     int       `gorm:"not null" yaml:"max_guests" json:"maxGuests"`
	PricePerNight Money     `gorm:"not null" yaml:"price_per_night" json:"pricePerNight"`
	CreatedAt     time.Time `yaml:"-" json:"-"`
	UpdatedAt     time.Time `yaml:"-" json:"-"`

	// Associations
	Host Host `gorm:"constraint:OnDelete:CASCADE" yaml:"-" json:"-"`
}
