package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrAmountTooLarge     = errors.New("amount exceeds maximum allowed")
	ErrAmountTooSmall     = errors.New("amount below minimum allowed")
	ErrAmountPrecision    = errors.New("amount has more than two decimal places")
	ErrDescriptionTooLong = errors.New("description too long")
)

// Validation constants
const (
	MaxOperationAmount = "100000000" // 10 crore
	MinOperationAmount = "1"
	MaxDescriptionLen  = 500
	MaxNoteLen         = 1000
)

var (
	phoneSeparators = regexp.MustCompile(`[\s\-().]`)
	mobileNumber    = regexp.MustCompile(`^[6-9][0-9]{9}$`)
)

// ValidateAmount validates an operation amount. A zero amount is never a
// valid transaction.
func ValidateAmount(field string, amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return NewValidationError(field, ErrInvalidAmount)
	}

	minAmount, _ := decimal.NewFromString(MinOperationAmount)
	if amount.LessThan(minAmount) {
		return NewValidationError(field, fmt.Errorf("%w: minimum amount is %s", ErrAmountTooSmall, MinOperationAmount))
	}

	maxAmount, _ := decimal.NewFromString(MaxOperationAmount)
	if amount.GreaterThan(maxAmount) {
		return NewValidationError(field, fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxOperationAmount))
	}

	if amount.Exponent() < -2 && !amount.Equal(amount.Round(2)) {
		return NewValidationError(field, ErrAmountPrecision)
	}

	return nil
}

// NormalizePhone strips separators and the +91 or leading 0 prefix.
func NormalizePhone(phone string) string {
	p := phoneSeparators.ReplaceAllString(strings.TrimSpace(phone), "")
	p = strings.TrimPrefix(p, "+91")
	if len(p) == 12 && strings.HasPrefix(p, "91") {
		p = p[2:]
	}
	if len(p) == 11 && strings.HasPrefix(p, "0") {
		p = p[1:]
	}
	return p
}

// ValidatePhone validates a 10-digit mobile number and returns its normalized form.
func ValidatePhone(phone string) (string, error) {
	if strings.TrimSpace(phone) == "" {
		return "", NewValidationError("phone", fmt.Errorf("%w: empty", ErrInvalidPhone))
	}

	normalized := NormalizePhone(phone)
	if !mobileNumber.MatchString(normalized) {
		return "", NewValidationError("phone", fmt.Errorf("%w: %s", ErrInvalidPhone, phone))
	}

	return normalized, nil
}

// ValidateDescription requires a non-empty description within the length limit.
func ValidateDescription(description string) error {
	description = strings.TrimSpace(description)

	if description == "" {
		return NewValidationError("description", ErrDescriptionRequired)
	}

	if len(description) > MaxDescriptionLen {
		return NewValidationError("description", fmt.Errorf("%w: exceeds %d characters", ErrDescriptionTooLong, MaxDescriptionLen))
	}

	return nil
}

// ValidateNote bounds an optional free-text note.
func ValidateNote(note string) error {
	if len(note) > MaxNoteLen {
		return NewValidationError("note", fmt.Errorf("%w: exceeds %d characters", ErrDescriptionTooLong, MaxNoteLen))
	}
	return nil
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 200
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
