package models

import "time"

// Contact belongs to exactly one user. Every query against contacts must
// carry the owning user_id in its predicate; a contact of another user is
// indistinguishable from a missing one.
type Contact struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"-"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
	FirstName string    `gorm:"size:100;not null" json:"first_name"`
	LastName  string    `gorm:"size:100" json:"last_name"`
	Email     string    `gorm:"size:200" json:"email"`
	Phone     string    `gorm:"size:20" json:"phone"`
	Addresses []Address `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
