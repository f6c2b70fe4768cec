package models

import "time"

// Notification is a delivered alert record. The ID is caller-supplied; for
// budget overruns it is derived deterministically from (budget, year, month),
// so inserting a duplicate id is a no-op and delivery stays at-most-once.
type Notification struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Title     string    `gorm:"not null" json:"title"`
	Body      string    `json:"body"`
	Route     string    `json:"route"`
	CreatedAt time.Time `json:"created_at"`
}
