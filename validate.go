package identity

import (
	"errors"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/nyaruka/phonenumbers"
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	// Indian mobile numbers: 10 digits, leading digit 6-9
	phonePattern    = regexp.MustCompile(`^[6-9]\d{9}$`)
	namePattern     = regexp.MustCompile(`^[a-zA-Z\s]+$`)
	sanitizePattern = regexp.MustCompile(`[<>"'&]`)
)

const passwordSpecials = "@$!%*?&"

// PhoneRegion is the region used to interpret phone numbers that carry a
// country prefix before the 10-digit pattern check.
const PhoneRegion = "IN"

// IsValidEmail checks the email shape
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// IsValidPhone checks the normalized phone against the mobile pattern
func IsValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

// IsValidName accepts 2-50 letters and spaces
func IsValidName(name string) bool {
	trimmed := strings.TrimSpace(name)
	if len(trimmed) < 2 || len(trimmed) > 50 {
		return false
	}
	return namePattern.MatchString(name)
}

// IsStrongPassword requires at least 8 characters with lowercase,
// uppercase, digit and one of @$!%*?&, drawn only from that alphabet.
func IsStrongPassword(password string) bool {
	if len(password) < 8 {
		return false
	}

	var lower, upper, digit, special bool
	for _, c := range password {
		switch {
		case c >= 'a' && c <= 'z':
			lower = true
		case c >= 'A' && c <= 'Z':
			upper = true
		case c >= '0' && c <= '9':
			digit = true
		case strings.ContainsRune(passwordSpecials, c):
			special = true
		default:
			return false
		}
	}

	return lower && upper && digit && special
}

// SanitizeInput trims the value and strips characters that could leak
// into markup or SQL fragments.
func SanitizeInput(input string) string {
	return sanitizePattern.ReplaceAllString(strings.TrimSpace(input), "")
}

// NormalizeEmail sanitizes and lower-cases an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(SanitizeInput(email))
}

// NormalizePhone reduces the input to its national significant number so
// that "+91 98765 43210" and "9876543210" resolve to the same record. The
// raw digits are returned when the number does not parse; the pattern
// check decides acceptance either way.
func NormalizePhone(phone string) string {
	cleaned := SanitizeInput(phone)
	parsed, err := phonenumbers.Parse(cleaned, PhoneRegion)
	if err != nil {
		return strings.ReplaceAll(cleaned, " ", "")
	}
	return phonenumbers.GetNationalSignificantNumber(parsed)
}

// RegisterInput is the registration payload
type RegisterInput struct {
	Email     string `json:"email" form:"email"`
	Phone     string `json:"phone" form:"phone"`
	FirstName string `json:"first_name" form:"first_name"`
	LastName  string `json:"last_name" form:"last_name"`
	Password  string `json:"password" form:"password"`
}

// Validate runs the field rules; failures identify the offending field.
func (r RegisterInput) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, validation.By(ruleEmail)),
		validation.Field(&r.Phone, validation.Required, validation.By(rulePhone)),
		validation.Field(&r.FirstName, validation.Required, validation.By(ruleName)),
		validation.Field(&r.LastName, validation.Required, validation.By(ruleName)),
		validation.Field(&r.Password, validation.Required, validation.By(rulePassword)),
	)
}

// LoginInput is the login payload
type LoginInput struct {
	EmailOrPhone string `json:"email_or_phone" form:"email_or_phone"`
	Password     string `json:"password" form:"password"`
}

// Validate only requires both fields to be present; credential checks
// happen in the authenticator so the error message stays uniform.
func (r LoginInput) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.EmailOrPhone, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// ProfileInput carries the mutable profile fields; nil means unchanged
type ProfileInput struct {
	FirstName *string `json:"first_name,omitempty" form:"first_name"`
	LastName  *string `json:"last_name,omitempty" form:"last_name"`
}

// Validate checks only the fields that were provided
func (r ProfileInput) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.By(ruleOptionalName)),
		validation.Field(&r.LastName, validation.By(ruleOptionalName)),
	)
}

func ruleEmail(value any) error {
	s, _ := value.(string)
	if !IsValidEmail(s) {
		return errors.New("invalid email format")
	}
	return nil
}

func rulePhone(value any) error {
	s, _ := value.(string)
	if !IsValidPhone(NormalizePhone(s)) {
		return errors.New("invalid phone number format")
	}
	return nil
}

func ruleName(value any) error {
	s, _ := value.(string)
	if !IsValidName(s) {
		return errors.New("must be 2-50 letters")
	}
	return nil
}

func ruleOptionalName(value any) error {
	s, ok := value.(*string)
	if !ok || s == nil {
		return nil
	}
	return ruleName(*s)
}

func rulePassword(value any) error {
	s, _ := value.(string)
	if !IsStrongPassword(s) {
		return errors.New(ErrWeakPassword.Message)
	}
	return nil
}
