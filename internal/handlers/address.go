package handlers

import (
	"encoding/json"
	"net/http"

	"gorm.io/gorm"

	"github.com/diewo77/go-contacts/auth"
	"github.com/diewo77/go-contacts/httpx"
	"github.com/diewo77/go-contacts/internal/models"
	"github.com/diewo77/go-contacts/validation"
)

type AddressHandler struct{ DB *gorm.DB }

func NewAddressHandler(db *gorm.DB) *AddressHandler { return &AddressHandler{DB: db} }

type addressInput struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	Province   string `json:"province"`
	Country    string `json:"country"`
	PostalCode string `json:"postal_code"`
}

func (in addressInput) validate() validation.Violations {
	v := validation.Violations{}
	validation.Max("street", in.Street, 200, v)
	validation.Max("city", in.City, 100, v)
	validation.Max("province", in.Province, 100, v)
	validation.Required("country", in.Country, v)
	validation.Max("country", in.Country, 100, v)
	validation.Required("postal_code", in.PostalCode, v)
	validation.Max("postal_code", in.PostalCode, 10, v)
	return v
}

// resolve walks the ownership chain: contact under the current user first,
// then (when addressID > 0) the address under that contact. Any miss on
// either level answers 404 before request payloads are even looked at.
func (h *AddressHandler) resolve(w http.ResponseWriter, r *http.Request, withAddress bool) (*models.Contact, *models.Address, bool) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "unauthorized")
		return nil, nil, false
	}
	contactID, ok := pathID(r, "contactId")
	if !ok {
		notFound(w)
		return nil, nil, false
	}
	contact, err := findContact(h.DB, user.ID, contactID)
	if err != nil {
		notFound(w)
		return nil, nil, false
	}
	if !withAddress {
		return contact, nil, true
	}
	addressID, ok := pathID(r, "addressId")
	if !ok {
		notFound(w)
		return nil, nil, false
	}
	var address models.Address
	if err := h.DB.Where("id = ? AND contact_id = ?", addressID, contact.ID).First(&address).Error; err != nil {
		notFound(w)
		return nil, nil, false
	}
	return contact, &address, true
}

func (h *AddressHandler) Create(w http.ResponseWriter, r *http.Request) {
	contact, _, ok := h.resolve(w, r, false)
	if !ok {
		return
	}
	var input addressInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		invalidBody(w)
		return
	}
	if v := input.validate(); !v.Empty() {
		httpx.Errors(w, http.StatusBadRequest, v)
		return
	}
	address := models.Address{
		ContactID:  contact.ID,
		Street:     input.Street,
		City:       input.City,
		Province:   input.Province,
		Country:    input.Country,
		PostalCode: input.PostalCode,
	}
	if err := h.DB.Create(&address).Error; err != nil {
		internalError(w)
		return
	}
	httpx.Data(w, http.StatusCreated, address)
}

func (h *AddressHandler) List(w http.ResponseWriter, r *http.Request) {
	contact, _, ok := h.resolve(w, r, false)
	if !ok {
		return
	}
	addresses := make([]models.Address, 0)
	if err := h.DB.Where("contact_id = ?", contact.ID).Order("id asc").Find(&addresses).Error; err != nil {
		internalError(w)
		return
	}
	httpx.Data(w, http.StatusOK, addresses)
}

func (h *AddressHandler) Get(w http.ResponseWriter, r *http.Request) {
	_, address, ok := h.resolve(w, r, true)
	if !ok {
		return
	}
	httpx.Data(w, http.StatusOK, address)
}

// Update replaces all mutable fields; id and parent contact are immutable.
func (h *AddressHandler) Update(w http.ResponseWriter, r *http.Request) {
	_, address, ok := h.resolve(w, r, true)
	if !ok {
		return
	}
	var input addressInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		invalidBody(w)
		return
	}
	if v := input.validate(); !v.Empty() {
		httpx.Errors(w, http.StatusBadRequest, v)
		return
	}
	address.Street = input.Street
	address.City = input.City
	address.Province = input.Province
	address.Country = input.Country
	address.PostalCode = input.PostalCode
	if err := h.DB.Save(address).Error; err != nil {
		internalError(w)
		return
	}
	httpx.Data(w, http.StatusOK, address)
}

func (h *AddressHandler) Delete(w http.ResponseWriter, r *http.Request) {
	_, address, ok := h.resolve(w, r, true)
	if !ok {
		return
	}
	if err := h.DB.Delete(address).Error; err != nil {
		internalError(w)
		return
	}
	httpx.Data(w, http.StatusOK, true)
}
