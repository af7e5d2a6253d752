package models

import "time"

// User owns contacts. Password holds a bcrypt hash and is never serialized.
// Token is the opaque session credential: set at login, NULL after logout.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	Username  string    `gorm:"size:100;unique;not null" json:"username"`
	Password  string    `gorm:"size:100;not null" json:"-"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Token     *string   `gorm:"size:100;uniqueIndex" json:"-"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// UserResource is the public profile shape returned by the API.
type UserResource struct {
	Username string `json:"username"`
	Name     string `json:"name"`
}

func (u *User) Resource() UserResource {
	return UserResource{Username: u.Username, Name: u.Name}
}
