package models

// Household groups user accounts whose transactions are jointly reported.
type Household struct {
	Base
	OwnerID uint              `gorm:"not null;index" json:"owner_id"`
	Name    string            `gorm:"not null" json:"name"`
	Members []HouseholdMember `gorm:"foreignKey:HouseholdID" json:"members,omitempty"`
}

// HouseholdMember links a user account to a household.
type HouseholdMember struct {
	Base
	HouseholdID uint `gorm:"not null;index" json:"household_id"`
	UserID      uint `gorm:"not null" json:"user_id"`
	User        User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
