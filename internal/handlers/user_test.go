package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"github.com/diewo77/go-contacts/internal/models"
)

func decodeProfile(t *testing.T, w *httptest.ResponseRecorder) models.UserResource {
	t.Helper()
	var payload struct {
		Data models.UserResource `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode profile: %v (body %s)", err, w.Body.String())
	}
	return payload.Data
}

func TestRegisterSucceed(t *testing.T) {
	db := setupTestDB(t)
	h := NewUserHandler(db)

	req := jsonRequest(nil, http.MethodPost, "/api/users", `{"username":"edwin321","password":"secret","name":"Edwin Kurniawan"}`)
	w := httptest.NewRecorder()
	h.Register(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d (%s)", w.Code, w.Body.String())
	}
	profile := decodeProfile(t, w)
	assert.Equal(t, "edwin321", profile.Username)
	assert.Equal(t, "Edwin Kurniawan", profile.Name)

	// password is stored hashed, token unset
	var user models.User
	if err := db.Where("username = ?", "edwin321").First(&user).Error; err != nil {
		t.Fatalf("load user: %v", err)
	}
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("secret")))
	assert.Nil(t, user.Token)

	// the profile payload never carries password or token
	assert.NotContains(t, w.Body.String(), "password")
	assert.NotContains(t, w.Body.String(), "token")
}

func TestRegisterFailed(t *testing.T) {
	db := setupTestDB(t)
	h := NewUserHandler(db)

	req := jsonRequest(nil, http.MethodPost, "/api/users", `{"username":"","password":"","name":""}`)
	w := httptest.NewRecorder()
	h.Register(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	errs := decodeErrors(t, w)
	assert.Equal(t, []string{"The username field is required."}, errs["username"])
	assert.Equal(t, []string{"The password field is required."}, errs["password"])
	assert.Equal(t, []string{"The name field is required."}, errs["name"])
}

func TestRegisterExistedUsername(t *testing.T) {
	db := setupTestDB(t)
	h := NewUserHandler(db)

	body := `{"username":"edwin321","password":"secret","name":"Edwin"}`
	w := httptest.NewRecorder()
	h.Register(w, jsonRequest(nil, http.MethodPost, "/api/users", body))
	if w.Code != http.StatusCreated {
		t.Fatalf("first register: expected 201 got %d", w.Code)
	}

	w2 := httptest.NewRecorder()
	h.Register(w2, jsonRequest(nil, http.MethodPost, "/api/users", body))
	assert.Equal(t, http.StatusBadRequest, w2.Code)
	errs := decodeErrors(t, w2)
	assert.Equal(t, []string{"username already registered"}, errs["username"])
}

func TestLoginSuccess(t *testing.T) {
	db := setupTestDB(t)
	h := NewUserHandler(db)
	seedUser(t, db, "test")

	req := jsonRequest(nil, http.MethodPost, "/api/users/login", `{"username":"test","password":"test"}`)
	w := httptest.NewRecorder()
	h.Login(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d (%s)", w.Code, w.Body.String())
	}
	profile := decodeProfile(t, w)
	assert.Equal(t, "test", profile.Username)

	// a fresh token is persisted and echoed in the Authorization header
	token := w.Header().Get("Authorization")
	assert.NotEmpty(t, token)
	var user models.User
	if err := db.Where("username = ?", "test").First(&user).Error; err != nil {
		t.Fatalf("load user: %v", err)
	}
	if user.Token == nil || *user.Token != token {
		t.Fatalf("expected persisted token %q, got %v", token, user.Token)
	}
}

func TestLoginFailedUsernameNotFound(t *testing.T) {
	db := setupTestDB(t)
	h := NewUserHandler(db)

	req := jsonRequest(nil, http.MethodPost, "/api/users/login", `{"username":"test","password":"test"}`)
	w := httptest.NewRecorder()
	h.Login(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	errs := decodeErrors(t, w)
	assert.Equal(t, []string{"username or password is invalid"}, errs["message"])
}

func TestLoginFailedInvalidPassword(t *testing.T) {
	db := setupTestDB(t)
	h := NewUserHandler(db)
	seedUser(t, db, "test")

	req := jsonRequest(nil, http.MethodPost, "/api/users/login", `{"username":"test","password":"wrong"}`)
	w := httptest.NewRecorder()
	h.Login(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	// same body as the unknown-username case, no distinguishing signal
	errs := decodeErrors(t, w)
	assert.Equal(t, []string{"username or password is invalid"}, errs["message"])
}

func TestCurrent(t *testing.T) {
	db := setupTestDB(t)
	h := NewUserHandler(db)
	user := seedUser(t, db, "test")

	w := httptest.NewRecorder()
	h.Current(w, jsonRequest(user, http.MethodGet, "/api/users/current", ""))
	assert.Equal(t, http.StatusOK, w.Code)
	profile := decodeProfile(t, w)
	assert.Equal(t, "test", profile.Username)
	assert.Equal(t, "test", profile.Name)
}

func TestUpdateNameSuccess(t *testing.T) {
	db := setupTestDB(t)
	h := NewUserHandler(db)
	user := seedUser(t, db, "test")

	w := httptest.NewRecorder()
	h.Update(w, jsonRequest(user, http.MethodPatch, "/api/users/current", `{"name":"Eko"}`))
	assert.Equal(t, http.StatusOK, w.Code)
	profile := decodeProfile(t, w)
	assert.Equal(t, "Eko", profile.Name)

	var fresh models.User
	db.First(&fresh, user.ID)
	assert.Equal(t, "Eko", fresh.Name)
}

func TestUpdatePasswordSuccess(t *testing.T) {
	db := setupTestDB(t)
	h := NewUserHandler(db)
	user := seedUser(t, db, "test")
	oldHash := user.Password

	w := httptest.NewRecorder()
	h.Update(w, jsonRequest(user, http.MethodPatch, "/api/users/current", `{"password":"baru"}`))
	assert.Equal(t, http.StatusOK, w.Code)

	var fresh models.User
	db.First(&fresh, user.ID)
	assert.NotEqual(t, oldHash, fresh.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(fresh.Password), []byte("baru")))
}

func TestUpdateNameTooLong(t *testing.T) {
	db := setupTestDB(t)
	h := NewUserHandler(db)
	user := seedUser(t, db, "test")

	long := strings.Repeat("a", 101)
	w := httptest.NewRecorder()
	h.Update(w, jsonRequest(user, http.MethodPatch, "/api/users/current", `{"name":"`+long+`"}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	errs := decodeErrors(t, w)
	assert.Equal(t, []string{"The name field must not be greater than 100 characters."}, errs["name"])
}

func TestLogout(t *testing.T) {
	db := setupTestDB(t)
	h := NewUserHandler(db)
	user := seedUser(t, db, "test")

	w := httptest.NewRecorder()
	h.Logout(w, jsonRequest(user, http.MethodDelete, "/api/users/logout", ""))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":true}`, w.Body.String())

	var fresh models.User
	db.First(&fresh, user.ID)
	assert.Nil(t, fresh.Token)
}
