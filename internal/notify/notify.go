// Package notify is the notification delivery collaborator. Producers hand
// it fully-formed notifications; delivery is best-effort and at most once
// per id.
package notify

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "hearth/internal/errors"
	"hearth/internal/models"
	"hearth/internal/uuid"
)

// Notification is a single user-facing alert. ID is the deduplication key;
// producers that need at-most-once semantics supply a deterministic id.
type Notification struct {
	ID     string
	UserID uint
	Title  string
	Body   string
	Route  string
}

// Deliverer delivers notifications. Implementations must discard a
// notification whose id has already been delivered.
type Deliverer interface {
	Deliver(n Notification) error
}

// storeDelivery persists notifications to the database; the UI layer reads
// them from there. The primary key makes duplicate ids a no-op insert,
// which is what gives at-most-once delivery.
type storeDelivery struct {
	db *gorm.DB
}

// NewStoreDelivery creates a database-backed Deliverer.
func NewStoreDelivery(db *gorm.DB) Deliverer {
	return &storeDelivery{db: db}
}

// Deliver stores the notification. An empty id gets a random one and is
// never deduplicated.
func (d *storeDelivery) Deliver(n Notification) error {
	if n.ID == "" {
		n.ID = uuid.New()
	}

	record := &models.Notification{
		ID:     n.ID,
		UserID: n.UserID,
		Title:  n.Title,
		Body:   n.Body,
		Route:  n.Route,
	}
	err := d.db.Clauses(clause.OnConflict{DoNothing: true}).Create(record).Error
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
