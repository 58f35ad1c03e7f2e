package model

import "time"

// Money is an amount in minor currency units (cents).
type Money int64

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingDeclined  BookingStatus = "declined"
	BookingCancelled BookingStatus = "cancelled"
)

// ActiveStatuses lists the statuses that still claim a property's dates.
var ActiveStatuses = []BookingStatus{BookingPending, BookingConfirmed}

// Active reports whether s is pending or confirmed.
func (s BookingStatus) Active() bool {
	return s == BookingPending || s == BookingConfirmed
}

// PriceBreakdown itemizes the total price of a stay.
type PriceBreakdown struct {
	NightlyRate Money `gorm:"not null" json:"nightlyRate"`
	Nights      int   `gorm:"not null" json:"nights"`
	CleaningFee Money `gorm:"not null" json:"cleaningFee"`
	ServiceFee  Money `gorm:"not null" json:"serviceFee"`
	Total       Money `gorm:"not null" json:"total"`
}

// Booking is a guest's request to stay at a property over [CheckIn, CheckOut).
type Booking struct {
	ID             int64          `gorm:"primaryKey" json:"id"`
	PropertyID     int64          `gorm:"index;not null" json:"propertyId"`
	GuestID        int64          `gorm:"index;not null" json:"guestId"`
	HostID         int64          `gorm:"index;not null" json:"hostId"`
	CheckIn        Date           `gorm:"type:date;not null" json:"checkIn"`
	CheckOut       Date           `gorm:"type:date;not null" json:"checkOut"`
	Guests         int            `gorm:"not null" json:"guests"`
	TotalPrice     Money          `gorm:"not null" json:"totalPrice"`
	PriceBreakdown PriceBreakdown `gorm:"embedded;embeddedPrefix:price_" json:"priceBreakdown"`
	Status         BookingStatus  `gorm:"size:16;index;not null" json:"status"`
	DeclineReason  string         `gorm:"size:64" json:"declineReason,omitempty"`
	CreatedAt      time.Time      `gorm:"not null" json:"createdAt"`
	UpdatedAt      time.Time      `gorm:"not null" json:"updatedAt"`
}

// Nights returns the number of nights of the stay.
func (b Booking) Nights() int {
	return b.CheckIn.DaysUntil(b.CheckOut)
}

// BookingEvent records one status change of a booking.
type BookingEvent struct {
	ID        int64         `gorm:"primaryKey" json:"id"`
	BookingID int64         `gorm:"index;not null" json:"bookingId"`
	From      BookingStatus `gorm:"column:from_status;size:16" json:"from"`
	To        BookingStatus `gorm:"column:to_status;size:16;not null" json:"to"`
	Reason    string        `gorm:"size:64" json:"reason,omitempty"`
	Actor     string        `gorm:"size:64" json:"actor"`
	At        time.Time     `gorm:"column:occurred_at;not null" json:"at"`
}
