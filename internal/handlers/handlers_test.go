package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/diewo77/go-contacts/auth"
	"github.com/diewo77/go-contacts/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Use a unique in-memory database per test to avoid cross-test collisions.
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Contact{}, &models.Address{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// seedUser creates a user whose password and token both equal the username,
// mirroring the development fixtures.
func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(username), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	token := username
	user := models.User{Username: username, Password: string(hash), Name: username, Token: &token}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return &user
}

func seedContact(t *testing.T, db *gorm.DB, user *models.User, first, last, email, phone string) *models.Contact {
	t.Helper()
	c := models.Contact{UserID: user.ID, FirstName: first, LastName: last, Email: email, Phone: phone}
	if err := db.Create(&c).Error; err != nil {
		t.Fatalf("seed contact: %v", err)
	}
	return &c
}

// jsonRequest builds a request with an authenticated user already in context,
// the way the auth middleware would hand it to the handler.
func jsonRequest(user *models.User, method, target, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if user != nil {
		req = req.WithContext(auth.WithUser(req.Context(), user))
	}
	return req
}

func decodeErrors(t *testing.T, w *httptest.ResponseRecorder) map[string][]string {
	t.Helper()
	var payload struct {
		Errors map[string][]string `json:"errors"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode errors: %v (body %s)", err, w.Body.String())
	}
	return payload.Errors
}
