package handlers

import (
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/diewo77/go-contacts/httpx"
)

// Misses and ownership violations share one answer so existence of other
// users' records never leaks.
func notFound(w http.ResponseWriter) {
	httpx.Error(w, http.StatusNotFound, "not found")
}

func internalError(w http.ResponseWriter) {
	httpx.Error(w, http.StatusInternalServerError, "internal server error")
}

func invalidBody(w http.ResponseWriter) {
	httpx.Error(w, http.StatusBadRequest, "invalid request body")
}

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique")
}
