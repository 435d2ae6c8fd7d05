package models

import "time"

// CollectorFolder is a service region: the pincodes a collector team covers, its hourly
// booking ceiling and working hours.
type CollectorFolder struct {
	ID               string       `bson:"id" json:"id"`
	Name             string       `bson:"name" json:"name"`
	CollectorID      string       `bson:"collectorId,omitempty" json:"collectorId,omitempty"`
	Pincodes         []string     `bson:"pincodes" json:"pincodes"`
	MaxOrdersPerHour int          `bson:"maxOrdersPerHour" json:"maxOrdersPerHour"`
	WorkingHours     WorkingHours `bson:"workingHours" json:"workingHours"`
	IsActive         bool         `bson:"isActive" json:"isActive"`
	CreatedAt        time.Time    `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time    `bson:"updatedAt" json:"updatedAt"`
}

// WorkingHours is the half-open hour interval [Start, End).
type WorkingHours struct {
	Start int `bson:"start" json:"start"`
	End   int `bson:"end" json:"end"`
}

// Hours lists every bookable hour in the interval.
func (w WorkingHours) Hours() []int {
	hours := make([]int, 0, w.End-w.Start)
	for h := w.Start; h < w.End; h++ {
		hours = append(hours, h)
	}
	return hours
}

// Covers reports whether hour is a working hour.
func (w WorkingHours) Covers(hour int) bool {
	return hour >= w.Start && hour < w.End
}

const (
	DefaultMaxOrdersPerHour = 5
	MaxOrdersPerHourLimit   = 20
	DefaultWorkingStart     = 8
	DefaultWorkingEnd       = 18
)

// CollectorFolderRequest is the admin create payload.
type CollectorFolderRequest struct {
	Name             string        `json:"name" binding:"required"`
	CollectorID      string        `json:"collectorId"`
	Pincodes         []string      `json:"pincodes" binding:"required"`
	MaxOrdersPerHour *int          `json:"maxOrdersPerHour"`
	WorkingHours     *WorkingHours `json:"workingHours"`
	IsActive         *bool         `json:"isActive"`
}

// CollectorFolderUpdate is the admin partial-update payload; nil fields are left untouched.
type CollectorFolderUpdate struct {
	Name             *string       `json:"name"`
	CollectorID      *string       `json:"collectorId"`
	Pincodes         []string      `json:"pincodes"`
	MaxOrdersPerHour *int          `json:"maxOrdersPerHour"`
	WorkingHours     *WorkingHours `json:"workingHours"`
	IsActive         *bool         `json:"isActive"`
}
