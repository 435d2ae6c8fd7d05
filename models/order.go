package models

import "time"

// Order statuses.
const (
	OrderPending         = "pending"
	OrderScheduled       = "scheduled"
	OrderSampleCollected = "sample_collected"
	OrderProcessing      = "processing"
	OrderCompleted       = "completed"
	OrderCancelled       = "cancelled"
)

var orderStatuses = map[string]bool{
	OrderPending:         true,
	OrderScheduled:       true,
	OrderSampleCollected: true,
	OrderProcessing:      true,
	OrderCompleted:       true,
	OrderCancelled:       true,
}

// ValidOrderStatus reports whether s is a known order status.
func ValidOrderStatus(s string) bool { return orderStatuses[s] }

type Order struct {
	ID             string          `bson:"id" json:"id"`
	UserID         string          `bson:"userId" json:"userId"`
	Items          []OrderItem     `bson:"items" json:"items"`
	TotalAmount    float64         `bson:"totalAmount" json:"totalAmount"`
	OrderStatus    string          `bson:"orderStatus" json:"orderStatus"`
	BookingDetails *BookingDetails `bson:"bookingDetails" json:"bookingDetails"`
	CreatedAt      time.Time       `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time       `bson:"updatedAt" json:"updatedAt"`
}

type OrderItem struct {
	TestID string  `bson:"testId" json:"testId" binding:"required"`
	Name   string  `bson:"name" json:"name" binding:"required"`
	Price  float64 `bson:"price" json:"price"`
}

// BookingDetails is the booking stamp an order carries while it holds a slot.
type BookingDetails struct {
	FolderID   string    `bson:"folderId" json:"folderId"`
	FolderName string    `bson:"folderName" json:"folderName"`
	Date       time.Time `bson:"date" json:"date"`
	Hour       int       `bson:"hour" json:"hour"`
	TimeSlot   string    `bson:"timeSlot" json:"timeSlot"`
	BookedAt   time.Time `bson:"bookedAt" json:"bookedAt"`
}

// Matches reports whether the stamp points at the given ledger row.
func (b *BookingDetails) Matches(ts TimeSlot) bool {
	return b != nil && b.FolderID == ts.FolderID && b.Hour == ts.Hour && b.Date.Equal(ts.Date)
}

type CreateOrderRequest struct {
	Items []OrderItem `json:"items" binding:"required,min=1,dive"`
}

type OrderStatusUpdate struct {
	Status string `json:"status" binding:"required"`
}
