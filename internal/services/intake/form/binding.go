package form

import (
	"net/url"
	"strings"
)

// PatientValues is the value object collected by the patient form.
type PatientValues struct {
	Name  string `form:"name" validate:"required,min=2,max=50"`
	Email string `form:"email" validate:"required,email"`
	Phone string `form:"phone" validate:"required,e164,dialable"`
}

// ValuesFromForm reads patient values from a decoded form body.
func ValuesFromForm(values url.Values) PatientValues {
	return PatientValues{
		Name:  strings.TrimSpace(values.Get(NameField)),
		Email: strings.TrimSpace(values.Get(EmailField)),
		Phone: strings.TrimSpace(values.Get(PhoneField)),
	}
}

// FieldErrors maps a field name to its localized message.
type FieldErrors map[string]string

// Binding carries the form state for one render.
type Binding struct {
	values    PatientValues
	errors    FieldErrors
	submitted bool
	loading   bool
}

// NewBinding returns a binding holding values and no messages.
func NewBinding(values PatientValues) *Binding {
	return &Binding{values: values}
}

// Values returns the bound values.
func (b *Binding) Values() PatientValues {
	if b == nil {
		return PatientValues{}
	}
	return b.values
}

// Value returns the bound value for a field name.
func (b *Binding) Value(name string) string {
	if b == nil {
		return ""
	}
	switch name {
	case NameField:
		return b.values.Name
	case EmailField:
		return b.values.Email
	case PhoneField:
		return b.values.Phone
	default:
		return ""
	}
}

// Error returns the message for a field name, or "".
func (b *Binding) Error(name string) string {
	if b == nil {
		return ""
	}
	return b.errors[name]
}

// SetErrors replaces the field messages.
func (b *Binding) SetErrors(errs FieldErrors) {
	b.errors = errs
}

// Valid reports whether no field carries a message.
func (b *Binding) Valid() bool {
	return b == nil || len(b.errors) == 0
}

// BeginSubmit marks the form as submitted and loading.
func (b *Binding) BeginSubmit() {
	b.submitted = true
	b.loading = true
}

// EndSubmit clears the loading flag.
func (b *Binding) EndSubmit() {
	b.loading = false
}

// Submitted reports whether a submission was attempted.
func (b *Binding) Submitted() bool {
	return b != nil && b.submitted
}

// Loading reports whether a submission is in flight.
func (b *Binding) Loading() bool {
	return b != nil && b.loading
}
