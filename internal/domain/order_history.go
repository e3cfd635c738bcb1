package domain

import "time"

// OrderStatusChange is an immutable audit trail entry.
type OrderStatusChange struct {
	ID            string
	OrderID       string
	FromStatus    *OrderStatus
	ToStatus      OrderStatus
	ChangedByKind SubjectKind
	ChangedByID   string
	Note          string
	ChangedAt     time.Time
}
