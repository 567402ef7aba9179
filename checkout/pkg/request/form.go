package request

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal/format"
	"github.com/Alturino/storefront/internal/validate"
)

// Form is the checkout form of a single submission. Values are stored already
// masked; Errors holds one message per failing field.
type Form struct {
	Email      string `json:"email"      validate:"notblank,basic_email"`
	FirstName  string `json:"firstName"  validate:"notblank,trimmed_min=2,person_name"`
	LastName   string `json:"lastName"   validate:"notblank,trimmed_min=2,person_name"`
	Address    string `json:"address"    validate:"notblank,trimmed_min=10,address"`
	City       string `json:"city"       validate:"notblank,trimmed_min=2,city"`
	PostalCode string `json:"postalCode" validate:"notblank,postal_code"`
	CardNumber string `json:"cardNumber" validate:"notblank,card_number"`
	ExpiryDate string `json:"expiryDate" validate:"notblank,expiry_format,not_expired"`
	CVV        string `json:"cvv"        validate:"notblank,cvv"`

	Errors map[string]string `json:"errors,omitempty" validate:"-"`
}

// Set masks value for field, stores it and clears the field's error.
func (f *Form) Set(field, value string) error {
	value = format.FormatField(field, value)
	switch field {
	case format.FieldEmail:
		f.Email = value
	case format.FieldFirstName:
		f.FirstName = value
	case format.FieldLastName:
		f.LastName = value
	case format.FieldAddress:
		f.Address = value
	case format.FieldCity:
		f.City = value
	case format.FieldPostalCode:
		f.PostalCode = value
	case format.FieldCardNumber:
		f.CardNumber = value
	case format.FieldExpiryDate:
		f.ExpiryDate = value
	case format.FieldCVV:
		f.CVV = value
	default:
		return fmt.Errorf("unknown checkout field=%s", field)
	}
	delete(f.Errors, field)
	return nil
}

// NewForm builds a form from raw field values, masking each one. Unknown
// fields are ignored.
func NewForm(values map[string]string) Form {
	form := Form{}
	for field, value := range values {
		_ = form.Set(field, value)
	}
	return form
}

func (f Form) MarshalZerologObject(e *zerolog.Event) {
	e.Str("email", f.Email).Str("city", f.City).Int("errors", len(f.Errors))
}

var Messages = map[string]map[string]string{
	format.FieldEmail: {
		validate.TagNotBlank:   "Email is required",
		validate.TagBasicEmail: "Email is not valid",
	},
	format.FieldFirstName: {
		validate.TagNotBlank:   "First name is required",
		validate.TagTrimmedMin: "First name must be at least 2 characters",
		validate.TagPersonName: "First name may only contain letters",
	},
	format.FieldLastName: {
		validate.TagNotBlank:   "Last name is required",
		validate.TagTrimmedMin: "Last name must be at least 2 characters",
		validate.TagPersonName: "Last name may only contain letters",
	},
	format.FieldAddress: {
		validate.TagNotBlank:   "Address is required",
		validate.TagTrimmedMin: "Address must be at least 10 characters",
		validate.TagAddress:    "Address contains invalid characters",
	},
	format.FieldCity: {
		validate.TagNotBlank:   "City is required",
		validate.TagTrimmedMin: "City must be at least 2 characters",
		validate.TagCity:       "City may only contain letters, spaces, dots and hyphens",
	},
	format.FieldPostalCode: {
		validate.TagNotBlank:   "Postal code is required",
		validate.TagPostalCode: "Postal code must be exactly 5 digits",
	},
	format.FieldCardNumber: {
		validate.TagNotBlank:   "Card number is required",
		validate.TagCardNumber: "Card number must be exactly 16 digits",
	},
	format.FieldExpiryDate: {
		validate.TagNotBlank:     "Expiry date is required",
		validate.TagExpiryFormat: "Invalid format. Use MM/YY (e.g. 12/25)",
		validate.TagNotExpired:   "The card has expired",
	},
	format.FieldCVV: {
		validate.TagNotBlank: "CVV is required",
		validate.TagCVV:      "CVV must be exactly 3 digits",
	},
}
