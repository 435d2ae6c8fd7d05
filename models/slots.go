package models

import (
	"fmt"
	"time"
)

// TimeSlot is the per-hour capacity ledger entry for a collector folder on one date.
type TimeSlot struct {
	ID              string         `bson:"id" json:"id"`
	FolderID        string         `bson:"folderId" json:"folderId"`
	Date            time.Time      `bson:"date" json:"date"` // midnight UTC of the calendar date
	Hour            int            `bson:"hour" json:"hour"`
	CurrentBookings int            `bson:"currentBookings" json:"currentBookings"`
	MaxBookings     int            `bson:"maxBookings" json:"maxBookings"`
	Bookings        []BookingEntry `bson:"bookings" json:"bookings"`
	IsAvailable     bool           `bson:"isAvailable" json:"isAvailable"`
	CreatedAt       time.Time      `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time      `bson:"updatedAt" json:"updatedAt"`
}

// BookingEntry records one unit of a slot's capacity claimed by an order.
type BookingEntry struct {
	OrderID      string    `bson:"orderId" json:"orderId"`
	PatientName  string    `bson:"patientName" json:"patientName"`
	PatientPhone string    `bson:"patientPhone" json:"patientPhone"`
	BookedAt     time.Time `bson:"bookedAt" json:"bookedAt"`
}

// RemainingSlots is derived and never persisted.
func (ts TimeSlot) RemainingSlots() int {
	if r := ts.MaxBookings - ts.CurrentBookings; r > 0 {
		return r
	}
	return 0
}

// HasBooking reports whether the order already holds a unit of this slot.
func (ts TimeSlot) HasBooking(orderID string) bool {
	for _, b := range ts.Bookings {
		if b.OrderID == orderID {
			return true
		}
	}
	return false
}

// HourRange renders the display range for an hour, e.g. "09:00 - 10:00".
func HourRange(hour int) string {
	return fmt.Sprintf("%02d:00 - %02d:00", hour, hour+1)
}

// AvailableSlot is the per-hour view returned by slot enumeration.
type AvailableSlot struct {
	Hour            int    `json:"hour"`
	TimeSlot        string `json:"timeSlot"`
	IsAvailable     bool   `json:"isAvailable"`
	CurrentBookings int    `json:"currentBookings"`
	MaxBookings     int    `json:"maxBookings"`
	RemainingSlots  int    `json:"remainingSlots"`
}

// NewAvailableSlot projects a ledger row into its public view.
func NewAvailableSlot(ts TimeSlot) AvailableSlot {
	return AvailableSlot{
		Hour:            ts.Hour,
		TimeSlot:        HourRange(ts.Hour),
		IsAvailable:     ts.CurrentBookings < ts.MaxBookings,
		CurrentBookings: ts.CurrentBookings,
		MaxBookings:     ts.MaxBookings,
		RemainingSlots:  ts.RemainingSlots(),
	}
}

// DaySlots is the enumeration response for a folder and date.
type DaySlots struct {
	FolderID   string          `json:"folderId"`
	FolderName string          `json:"folderName"`
	Date       string          `json:"date"`
	Slots      []AvailableSlot `json:"slots"`
}

// NextAvailable is the result of a next-available-slot search.
type NextAvailable struct {
	Available      bool   `json:"available"`
	Date           string `json:"date"`
	Hour           *int   `json:"hour,omitempty"`
	TimeSlot       string `json:"timeSlot,omitempty"`
	RemainingSlots int    `json:"remainingSlots,omitempty"`
	Message        string `json:"message,omitempty"`
	// Set only when nothing is left on the requested day. Next-day capacity is not checked.
	NextDate      string `json:"nextDate,omitempty"`
	SuggestedHour *int   `json:"suggestedHour,omitempty"`
	SuggestedTime string `json:"suggestedTimeSlot,omitempty"`
}

// BookSlotRequest is the payload for reserving a slot.
type BookSlotRequest struct {
	OrderID string `json:"orderId" binding:"required"`
	Pincode string `json:"pincode" binding:"required"`
	Date    string `json:"date" binding:"required"`
	Hour    *int   `json:"hour" binding:"required"`
}

// SlotStats summarises a folder's ledger for one day.
type SlotStats struct {
	FolderID       string  `json:"folderId"`
	Date           string  `json:"date"`
	TotalSlots     int     `json:"totalSlots"`
	TotalBookings  int     `json:"totalBookings"`
	AvailableSlots int     `json:"availableSlots"`
	Utilization    float64 `json:"utilization"`
}
