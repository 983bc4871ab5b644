// Package form declares the patient intake fields, the schema they are
// validated against, and the binding that carries values and messages into
// the rendered form.
package form

import (
	"github.com/louisbranch/carepulse/internal/services/intake/routepath"
	"golang.org/x/text/message"
)

// FieldType selects the widget a field renders as.
type FieldType string

const (
	FieldInput      FieldType = "input"
	FieldCheckbox   FieldType = "checkbox"
	FieldTextarea   FieldType = "textarea"
	FieldPhoneInput FieldType = "phoneInput"
	FieldDatePicker FieldType = "datePicker"
	FieldSelect     FieldType = "select"
	FieldSkeleton   FieldType = "skeleton"
)

// Field names posted by the patient form.
const (
	NameField  = "name"
	EmailField = "email"
	PhoneField = "phone"
)

// Field configures one rendered form field.
type Field struct {
	Type        FieldType
	Name        string
	Label       string
	Placeholder string
	IconSrc     string
	IconAlt     string
	Disabled    bool
	// Region is the default country for phone inputs.
	Region string
}

// HasLabel reports whether the field renders a label element.
func (f Field) HasLabel() bool {
	return f.Label != "" && f.Type != FieldCheckbox
}

// IconAltText returns the icon alt text, defaulting to "icon".
func (f Field) IconAltText() string {
	if f.IconAlt == "" {
		return "icon"
	}
	return f.IconAlt
}

// PatientFields returns the ordered patient intake fields localized with p.
// region is the default country offered by the phone input.
func PatientFields(p *message.Printer, region string) []Field {
	return []Field{
		{
			Type:        FieldInput,
			Name:        NameField,
			Label:       p.Sprintf("intake.field.name.label"),
			Placeholder: p.Sprintf("intake.field.name.placeholder"),
			IconSrc:     routepath.Static("icons/user.svg"),
			IconAlt:     "user",
		},
		{
			Type:        FieldInput,
			Name:        EmailField,
			Label:       p.Sprintf("intake.field.email.label"),
			Placeholder: p.Sprintf("intake.field.email.placeholder"),
			IconSrc:     routepath.Static("icons/email.svg"),
			IconAlt:     "email",
		},
		{
			Type:        FieldPhoneInput,
			Name:        PhoneField,
			Label:       p.Sprintf("intake.field.phone.label"),
			Placeholder: p.Sprintf("intake.field.phone.placeholder"),
			Region:      region,
		},
	}
}
