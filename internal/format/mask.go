package format

import (
	"regexp"
	"strings"
)

const (
	FieldEmail      = "email"
	FieldFirstName  = "firstName"
	FieldLastName   = "lastName"
	FieldAddress    = "address"
	FieldCity       = "city"
	FieldPostalCode = "postalCode"
	FieldCardNumber = "cardNumber"
	FieldExpiryDate = "expiryDate"
	FieldCVV        = "cvv"
)

var (
	whitespace      = regexp.MustCompile(`\s`)
	nonDigit        = regexp.MustCompile(`\D`)
	nonNameChar     = regexp.MustCompile(`[^a-zA-ZáéíóúÁÉÍÓÚñÑ\s]`)
	nonAddressChar  = regexp.MustCompile(`[^a-zA-Z0-9áéíóúÁÉÍÓÚñÑ\s.,#-]`)
	maxCardNumber   = 19
	cardGroupLength = 4
)

// FormatCardNumber groups the card digits by four, capped at 19 characters.
func FormatCardNumber(value string) string {
	cleaned := []rune(whitespace.ReplaceAllString(value, ""))
	var b strings.Builder
	for i, r := range cleaned {
		if i > 0 && i%cardGroupLength == 0 {
			b.WriteRune(' ')
		}
		b.WriteRune(r)
	}
	formatted := []rune(b.String())
	if len(formatted) > maxCardNumber {
		formatted = formatted[:maxCardNumber]
	}
	return string(formatted)
}

// FormatExpiryDate keeps digits and inserts the MM/YY slash once the month is
// complete.
func FormatExpiryDate(value string) string {
	cleaned := nonDigit.ReplaceAllString(value, "")
	if len(cleaned) < 2 {
		return cleaned
	}
	year := cleaned[2:]
	if len(year) > 2 {
		year = year[:2]
	}
	return cleaned[:2] + "/" + year
}

func FormatCVV(value string) string {
	return digitsMax(value, 3)
}

func FormatPostalCode(value string) string {
	return digitsMax(value, 5)
}

func FormatNameField(value string) string {
	return nonNameChar.ReplaceAllString(value, "")
}

func FormatAddress(value string) string {
	return nonAddressChar.ReplaceAllString(value, "")
}

// FormatField applies the input mask registered for field; unknown fields
// pass through unchanged.
func FormatField(field, value string) string {
	switch field {
	case FieldCardNumber:
		return FormatCardNumber(value)
	case FieldExpiryDate:
		return FormatExpiryDate(value)
	case FieldCVV:
		return FormatCVV(value)
	case FieldPostalCode:
		return FormatPostalCode(value)
	case FieldFirstName, FieldLastName, FieldCity:
		return FormatNameField(value)
	case FieldAddress:
		return FormatAddress(value)
	default:
		return value
	}
}

func digitsMax(value string, max int) string {
	cleaned := nonDigit.ReplaceAllString(value, "")
	if len(cleaned) > max {
		return cleaned[:max]
	}
	return cleaned
}
