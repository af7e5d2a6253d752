package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/diewo77/go-contacts/auth"
	"github.com/diewo77/go-contacts/httpx"
	"github.com/diewo77/go-contacts/internal/models"
	"github.com/diewo77/go-contacts/validation"
)

type ContactHandler struct{ DB *gorm.DB }

func NewContactHandler(db *gorm.DB) *ContactHandler { return &ContactHandler{DB: db} }

type contactInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

func (in contactInput) validate() validation.Violations {
	v := validation.Violations{}
	validation.Required("first_name", in.FirstName, v)
	validation.Max("first_name", in.FirstName, 100, v)
	validation.Max("last_name", in.LastName, 100, v)
	validation.Email("email", in.Email, v)
	validation.Max("email", in.Email, 200, v)
	validation.Max("phone", in.Phone, 20, v)
	return v
}

// findContact resolves a contact under the given owner. The query predicate
// carries user_id so a foreign contact and a missing one are the same miss.
func findContact(db *gorm.DB, userID uint, id uint64) (*models.Contact, error) {
	var c models.Contact
	if err := db.Where("id = ? AND user_id = ?", id, userID).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// pathID parses a numeric path segment. Non-numeric ids fall out as misses,
// matching the numeric route constraint of the API contract.
func pathID(r *http.Request, name string) (uint64, bool) {
	id, err := strconv.ParseUint(r.PathValue(name), 10, 64)
	return id, err == nil && id > 0
}

func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var input contactInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		invalidBody(w)
		return
	}
	if v := input.validate(); !v.Empty() {
		httpx.Errors(w, http.StatusBadRequest, v)
		return
	}
	contact := models.Contact{
		UserID:    user.ID,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		Phone:     input.Phone,
	}
	if err := h.DB.Create(&contact).Error; err != nil {
		internalError(w)
		return
	}
	httpx.Data(w, http.StatusCreated, contact)
}

func (h *ContactHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, ok := pathID(r, "id")
	if !ok {
		notFound(w)
		return
	}
	contact, err := findContact(h.DB, user.ID, id)
	if err != nil {
		notFound(w)
		return
	}
	httpx.Data(w, http.StatusOK, contact)
}

// Update replaces all mutable fields; id and owner are immutable.
func (h *ContactHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, ok := pathID(r, "id")
	if !ok {
		notFound(w)
		return
	}
	contact, err := findContact(h.DB, user.ID, id)
	if err != nil {
		notFound(w)
		return
	}
	var input contactInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		invalidBody(w)
		return
	}
	if v := input.validate(); !v.Empty() {
		httpx.Errors(w, http.StatusBadRequest, v)
		return
	}
	contact.FirstName = input.FirstName
	contact.LastName = input.LastName
	contact.Email = input.Email
	contact.Phone = input.Phone
	if err := h.DB.Save(contact).Error; err != nil {
		internalError(w)
		return
	}
	httpx.Data(w, http.StatusOK, contact)
}

func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, ok := pathID(r, "id")
	if !ok {
		notFound(w)
		return
	}
	contact, err := findContact(h.DB, user.ID, id)
	if err != nil {
		notFound(w)
		return
	}
	// Addresses go with their contact in one transaction, independent of the
	// driver's foreign-key enforcement.
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("contact_id = ?", contact.ID).Delete(&models.Address{}).Error; err != nil {
			return err
		}
		return tx.Delete(contact).Error
	})
	if err != nil {
		internalError(w)
		return
	}
	httpx.Data(w, http.StatusOK, true)
}

// Search filters the caller's contacts. All supplied filters are ANDed; name
// matches first or last name. Results are ordered by id so paging is stable.
func (h *ContactHandler) Search(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	q := r.URL.Query()
	page := 1
	if n, err := strconv.Atoi(q.Get("page")); err == nil && n > 1 {
		page = n
	}
	size := 10
	if n, err := strconv.Atoi(q.Get("size")); err == nil && n > 0 && n <= 100 {
		size = n
	}

	dbq := h.DB.Model(&models.Contact{}).Where("user_id = ?", user.ID)
	if name := strings.TrimSpace(q.Get("name")); name != "" {
		like := "%" + strings.ToLower(name) + "%"
		dbq = dbq.Where(h.DB.Where("lower(first_name) LIKE ?", like).Or("lower(last_name) LIKE ?", like))
	}
	if email := strings.TrimSpace(q.Get("email")); email != "" {
		dbq = dbq.Where("lower(email) LIKE ?", "%"+strings.ToLower(email)+"%")
	}
	if phone := strings.TrimSpace(q.Get("phone")); phone != "" {
		dbq = dbq.Where("lower(phone) LIKE ?", "%"+strings.ToLower(phone)+"%")
	}

	var total int64
	if err := dbq.Count(&total).Error; err != nil {
		internalError(w)
		return
	}
	contacts := make([]models.Contact, 0, size)
	if err := dbq.Order("id asc").Limit(size).Offset((page - 1) * size).Find(&contacts).Error; err != nil {
		internalError(w)
		return
	}
	lastPage := int((total + int64(size) - 1) / int64(size))
	httpx.DataMeta(w, http.StatusOK, contacts, httpx.Meta{
		Total:       total,
		CurrentPage: page,
		PerPage:     size,
		LastPage:    lastPage,
	})
}
