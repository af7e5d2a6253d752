package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/diewo77/go-contacts/auth"
	"github.com/diewo77/go-contacts/httpx"
	"github.com/diewo77/go-contacts/internal/models"
	"github.com/diewo77/go-contacts/validation"
)

type UserHandler struct{ DB *gorm.DB }

func NewUserHandler(db *gorm.DB) *UserHandler { return &UserHandler{DB: db} }

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		invalidBody(w)
		return
	}
	v := validation.Violations{}
	validation.Required("username", input.Username, v)
	validation.Max("username", input.Username, 100, v)
	validation.Required("password", input.Password, v)
	validation.Max("password", input.Password, 100, v)
	validation.Required("name", input.Name, v)
	validation.Max("name", input.Name, 100, v)
	if !v.Empty() {
		httpx.Errors(w, http.StatusBadRequest, v)
		return
	}

	// Friendly fast path; the unique index on username stays authoritative
	// under concurrent registration.
	var count int64
	if err := h.DB.Model(&models.User{}).Where("username = ?", input.Username).Limit(1).Count(&count).Error; err != nil {
		internalError(w)
		return
	}
	if count > 0 {
		httpx.Errors(w, http.StatusBadRequest, map[string][]string{"username": {"username already registered"}})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		internalError(w)
		return
	}
	user := models.User{Username: input.Username, Password: string(hash), Name: input.Name}
	if err := h.DB.Create(&user).Error; err != nil {
		if isDuplicate(err) {
			httpx.Errors(w, http.StatusBadRequest, map[string][]string{"username": {"username already registered"}})
			return
		}
		internalError(w)
		return
	}
	httpx.Data(w, http.StatusCreated, user.Resource())
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		invalidBody(w)
		return
	}
	v := validation.Violations{}
	validation.Required("username", input.Username, v)
	validation.Required("password", input.Password, v)
	if !v.Empty() {
		httpx.Errors(w, http.StatusBadRequest, v)
		return
	}

	// Unknown username and wrong password answer identically.
	var user models.User
	if err := h.DB.Where("username = ?", input.Username).First(&user).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			internalError(w)
			return
		}
		httpx.Error(w, http.StatusUnauthorized, "username or password is invalid")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)) != nil {
		httpx.Error(w, http.StatusUnauthorized, "username or password is invalid")
		return
	}

	token := auth.NewToken()
	if err := h.DB.Model(&user).Update("token", token).Error; err != nil {
		internalError(w)
		return
	}
	w.Header().Set(auth.HeaderName, token)
	httpx.Data(w, http.StatusOK, user.Resource())
}

func (h *UserHandler) Current(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	httpx.Data(w, http.StatusOK, user.Resource())
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var input struct {
		Name     *string `json:"name"`
		Password *string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		invalidBody(w)
		return
	}
	v := validation.Violations{}
	if input.Name != nil {
		validation.Max("name", *input.Name, 100, v)
	}
	if input.Password != nil {
		validation.Max("password", *input.Password, 100, v)
	}
	if !v.Empty() {
		httpx.Errors(w, http.StatusBadRequest, v)
		return
	}

	if input.Name != nil && *input.Name != "" {
		user.Name = *input.Name
	}
	if input.Password != nil && *input.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			internalError(w)
			return
		}
		user.Password = string(hash)
	}
	if err := h.DB.Save(user).Error; err != nil {
		internalError(w)
		return
	}
	httpx.Data(w, http.StatusOK, user.Resource())
}

func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	// Clearing the token invalidates every outstanding copy of it.
	if err := h.DB.Model(user).Update("token", nil).Error; err != nil {
		internalError(w)
		return
	}
	httpx.Data(w, http.StatusOK, true)
}
