// Package lead records seller leads in the JetStream event log.
package lead

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode"
)

var (
	// ErrNotFound is returned when no events exist for a lead ID.
	ErrNotFound = errors.New("lead not found")
	// ErrInvalid wraps every validation failure.
	ErrInvalid = errors.New("invalid lead")
)

// Lead statuses, in pipeline order.
const (
	StatusNew       = "new"
	StatusContacted = "contacted"
	StatusOffered   = "offered"
	StatusClosed    = "closed"
	StatusLost      = "lost"
)

// Statuses lists every valid status.
var Statuses = []string{StatusNew, StatusContacted, StatusOffered, StatusClosed, StatusLost}

// Lead is a seller who asked for an offer.
type Lead struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Status    string    `json:"status"`

	Address  Address  `json:"address"`
	Property Property `json:"property"`
	Timeline string   `json:"timeline"`
	Reason   string   `json:"reason,omitempty"`
	Contact  Contact  `json:"contact"`
	Notes    []Note   `json:"notes,omitempty"`
}

// Address is the property location, usually from a geocoder candidate.
type Address struct {
	Line     string  `json:"line"`
	City     string  `json:"city,omitempty"`
	State    string  `json:"state,omitempty"`
	Postcode string  `json:"postcode,omitempty"`
	Lat      float64 `json:"lat,omitempty"`
	Lon      float64 `json:"lon,omitempty"`
	PlaceID  int64   `json:"place_id,omitempty"`
}

// Property holds what the seller told us about the house.
type Property struct {
	Bedrooms  string `json:"bedrooms"`
	Bathrooms string `json:"bathrooms"`
	Condition string `json:"condition"`
}

// Contact is how to reach the seller.
type Contact struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
}

// Note is a status change comment.
type Note struct {
	At     time.Time `json:"at"`
	Status string    `json:"status"`
	Text   string    `json:"text,omitempty"`
}

// Name returns "First Last".
func (c Contact) Name() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// String returns the address on one line.
func (a Address) String() string {
	parts := []string{a.Line}
	if a.City != "" {
		parts = append(parts, a.City)
	}
	if region := strings.TrimSpace(a.State + " " + a.Postcode); region != "" {
		parts = append(parts, region)
	}
	return strings.Join(parts, ", ")
}

// Validate checks that a lead can be submitted.
func (l *Lead) Validate() error {
	if strings.TrimSpace(l.Address.Line) == "" {
		return fmt.Errorf("%w: address is required", ErrInvalid)
	}
	if strings.TrimSpace(l.Contact.FirstName) == "" {
		return fmt.Errorf("%w: first name is required", ErrInvalid)
	}
	if err := ValidatePhone(l.Contact.Phone); err != nil {
		return err
	}
	if err := ValidateEmail(l.Contact.Email); err != nil {
		return err
	}
	return nil
}

// ValidateEmail accepts a bare address such as "dana@example.com".
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrInvalid)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@"):], ".") {
		return fmt.Errorf("%w: %q is not a valid email", ErrInvalid, email)
	}
	return nil
}

// ValidatePhone accepts US numbers with 10 digits, or 11 with a leading 1.
func ValidatePhone(phone string) error {
	if _, err := NormalizePhone(phone); err != nil {
		return err
	}
	return nil
}

// NormalizePhone formats a US phone number as "(555) 010-4663".
func NormalizePhone(phone string) (string, error) {
	var digits []rune
	for _, r := range phone {
		switch {
		case unicode.IsDigit(r):
			digits = append(digits, r)
		case strings.ContainsRune(" ()-.+", r):
		default:
			return "", fmt.Errorf("%w: %q is not a valid phone number", ErrInvalid, phone)
		}
	}
	if len(digits) == 11 && digits[0] == '1' {
		digits = digits[1:]
	}
	if len(digits) != 10 {
		return "", fmt.Errorf("%w: phone number needs 10 digits", ErrInvalid)
	}
	d := string(digits)
	return fmt.Sprintf("(%s) %s-%s", d[:3], d[3:6], d[6:]), nil
}

// ValidStatus reports whether s is a known status.
func ValidStatus(s string) bool {
	for _, status := range Statuses {
		if s == status {
			return true
		}
	}
	return false
}
