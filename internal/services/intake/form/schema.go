package form

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/nyaruka/phonenumbers"
	"golang.org/x/text/message"
)

// DefaultRegion is the phone region assumed for numbers without a country
// calling code.
const DefaultRegion = "CO"

// Schema normalizes and validates patient values.
type Schema struct {
	validate *validator.Validate
	region   string
}

// NewSchema builds a schema that parses local phone numbers in region.
func NewSchema(region string) (*Schema, error) {
	region = strings.ToUpper(strings.TrimSpace(region))
	if region == "" {
		region = DefaultRegion
	}
	if phonenumbers.GetCountryCodeForRegion(region) == 0 {
		return nil, fmt.Errorf("unknown phone region %q", region)
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("form"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("dialable", validDialable); err != nil {
		return nil, fmt.Errorf("register phone validation: %w", err)
	}
	return &Schema{validate: v, region: region}, nil
}

// Region returns the default phone region.
func (s *Schema) Region() string {
	return s.region
}

// Normalize trims values and rewrites a parseable phone number as E.164.
func (s *Schema) Normalize(values PatientValues) PatientValues {
	values.Name = strings.TrimSpace(values.Name)
	values.Email = strings.TrimSpace(values.Email)
	values.Phone = strings.TrimSpace(values.Phone)
	if values.Phone == "" {
		return values
	}
	num, err := phonenumbers.Parse(values.Phone, s.region)
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return values
	}
	values.Phone = phonenumbers.Format(num, phonenumbers.E164)
	return values
}

// Validate checks values and returns localized messages keyed by field name.
// It returns nil when the values are valid.
func (s *Schema) Validate(p *message.Printer, values PatientValues) FieldErrors {
	err := s.validate.Struct(values)
	if err == nil {
		return nil
	}
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return FieldErrors{"": p.Sprintf("errors.bad_request")}
	}
	out := FieldErrors{}
	for _, fieldErr := range validationErrs {
		name := fieldErr.Field()
		if _, exists := out[name]; exists {
			continue
		}
		out[name] = p.Sprintf(messageKey(name, fieldErr.Tag()))
	}
	return out
}

func messageKey(field, tag string) string {
	switch field {
	case NameField:
		switch tag {
		case "min":
			return "intake.validation.name_min"
		case "max":
			return "intake.validation.name_max"
		default:
			return "intake.validation.name_required"
		}
	case EmailField:
		if tag == "required" {
			return "intake.validation.email_required"
		}
		return "intake.validation.email_invalid"
	case PhoneField:
		if tag == "required" {
			return "intake.validation.phone_required"
		}
		return "intake.validation.phone_invalid"
	default:
		return "errors.bad_request"
	}
}

func validDialable(fl validator.FieldLevel) bool {
	num, err := phonenumbers.Parse(fl.Field().String(), "")
	if err != nil {
		return false
	}
	return phonenumbers.IsValidNumber(num)
}
