package models

import "time"

// Address belongs to exactly one contact. Access always resolves the parent
// contact under the current user first, then scopes by contact_id.
type Address struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ContactID  uint      `gorm:"not null;index" json:"-"`
	Street     string    `gorm:"size:200" json:"street"`
	City       string    `gorm:"size:100" json:"city"`
	Province   string    `gorm:"size:100" json:"province"`
	Country    string    `gorm:"size:100;not null" json:"country"`
	PostalCode string    `gorm:"size:10;not null" json:"postal_code"`
	CreatedAt  time.Time `json:"-"`
	UpdatedAt  time.Time `json:"-"`
}
