package db

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/diewo77/go-contacts/internal/models"
)

// Seed installs a development fixture: one demo account with a batch of
// searchable contacts. Safe to run repeatedly.
func Seed(db *gorm.DB) {
	var user models.User
	err := db.Where("username = ?", "test").First(&user).Error
	if err == gorm.ErrRecordNotFound {
		hash, herr := bcrypt.GenerateFromPassword([]byte("test"), bcrypt.DefaultCost)
		if herr != nil {
			return
		}
		user = models.User{Username: "test", Password: string(hash), Name: "test"}
		if db.Create(&user).Error != nil {
			return
		}
	} else if err != nil {
		return
	}

	var count int64
	db.Model(&models.Contact{}).Where("user_id = ?", user.ID).Count(&count)
	if count > 0 {
		return
	}
	for i := 0; i < 30; i++ {
		db.Create(&models.Contact{
			UserID:    user.ID,
			FirstName: fmt.Sprintf("first %d", i),
			LastName:  fmt.Sprintf("last %d", i),
			Email:     fmt.Sprintf("test%d@example.com", i),
			Phone:     fmt.Sprintf("11111%d", i),
		})
	}
}
