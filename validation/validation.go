package validation

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"
)

// Violations accumulates rule failures per field, in the order the rules ran.
// It marshals directly into the API's {errors:{field:[messages]}} envelope.
type Violations map[string][]string

func (v Violations) Empty() bool { return len(v) == 0 }

func (v Violations) Add(field, message string) {
	v[field] = append(v[field], message)
}

// label turns a field key into the human form used in messages
// ("first_name" -> "first name").
func label(field string) string {
	return strings.ReplaceAll(field, "_", " ")
}

// Basic validators

func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v.Add(field, fmt.Sprintf("The %s field is required.", label(field)))
	}
}

// Max checks the rune length of a value. Empty values pass; combine with
// Required when the field is mandatory.
func Max(field, value string, limit int, v Violations) {
	if utf8.RuneCountInString(value) > limit {
		v.Add(field, fmt.Sprintf("The %s field must not be greater than %d characters.", label(field), limit))
	}
}

// Email checks address format. Empty values pass.
func Email(field, value string, v Violations) {
	if value == "" {
		return
	}
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		v.Add(field, fmt.Sprintf("The %s field must be a valid email address.", label(field)))
	}
}
