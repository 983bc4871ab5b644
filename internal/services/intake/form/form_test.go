package form

import (
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/louisbranch/carepulse/internal/platform/i18n"
	"golang.org/x/text/language"
)

func newTestSchema(t *testing.T) *Schema {
	t.Helper()
	schema, err := NewSchema("")
	if err != nil {
		t.Fatalf("NewSchema() error = %v", err)
	}
	return schema
}

func TestNewSchemaRegion(t *testing.T) {
	t.Parallel()

	schema := newTestSchema(t)
	if schema.Region() != DefaultRegion {
		t.Fatalf("Region() = %q, want %q", schema.Region(), DefaultRegion)
	}
	lower, err := NewSchema("us")
	if err != nil {
		t.Fatalf("NewSchema(us) error = %v", err)
	}
	if lower.Region() != "US" {
		t.Fatalf("Region() = %q, want US", lower.Region())
	}
	if _, err := NewSchema("XX"); err == nil {
		t.Fatal("expected unknown region error")
	}
}

func TestNormalizeFormatsLocalPhoneAsE164(t *testing.T) {
	t.Parallel()

	schema := newTestSchema(t)
	got := schema.Normalize(PatientValues{
		Name:  "  Ana Gómez ",
		Email: " ana@example.com ",
		Phone: "321 123 4567",
	})
	want := PatientValues{Name: "Ana Gómez", Email: "ana@example.com", Phone: "+573211234567"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Normalize() mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeKeepsUnparseablePhone(t *testing.T) {
	t.Parallel()

	got := newTestSchema(t).Normalize(PatientValues{Phone: "call me"})
	if got.Phone != "call me" {
		t.Fatalf("Phone = %q, want unchanged", got.Phone)
	}
}

func TestValidateAcceptsValidValues(t *testing.T) {
	t.Parallel()

	schema := newTestSchema(t)
	values := schema.Normalize(PatientValues{Name: "Ana", Email: "ana@example.com", Phone: "3211234567"})
	if errs := schema.Validate(i18n.Printer(i18n.DefaultTag()), values); errs != nil {
		t.Fatalf("Validate() = %v, want nil", errs)
	}
}

func TestValidateReportsFieldMessages(t *testing.T) {
	t.Parallel()

	schema := newTestSchema(t)
	printer := i18n.Printer(i18n.DefaultTag())

	tests := []struct {
		name   string
		values PatientValues
		want   FieldErrors
	}{
		{
			name:   "short name",
			values: PatientValues{Name: "A", Email: "ana@example.com", Phone: "+573211234567"},
			want:   FieldErrors{NameField: "Name must be at least 2 characters."},
		},
		{
			name:   "long name",
			values: PatientValues{Name: strings.Repeat("a", 51), Email: "ana@example.com", Phone: "+573211234567"},
			want:   FieldErrors{NameField: "Name must be at most 50 characters."},
		},
		{
			name:   "all empty",
			values: PatientValues{},
			want: FieldErrors{
				NameField:  "Full name is required.",
				EmailField: "Email is required.",
				PhoneField: "Phone number is required.",
			},
		},
		{
			name:   "bad email and phone",
			values: PatientValues{Name: "Ana", Email: "not-an-email", Phone: "12345"},
			want: FieldErrors{
				EmailField: "Invalid email address.",
				PhoneField: "Invalid phone number.",
			},
		},
		{
			name:   "e164 shaped but not dialable",
			values: PatientValues{Name: "Ana", Email: "ana@example.com", Phone: "+570000000"},
			want:   FieldErrors{PhoneField: "Invalid phone number."},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := schema.Validate(printer, tc.values)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("Validate() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestValidateCountsRunesForNameLength(t *testing.T) {
	t.Parallel()

	schema := newTestSchema(t)
	values := PatientValues{Name: "Ñú", Email: "ana@example.com", Phone: "+573211234567"}
	if errs := schema.Validate(i18n.Printer(i18n.DefaultTag()), values); errs != nil {
		t.Fatalf("Validate() = %v, want nil for two-rune name", errs)
	}
}

func TestValidateLocalizesMessages(t *testing.T) {
	t.Parallel()

	schema := newTestSchema(t)
	printer := i18n.Printer(language.MustParse("es-CO"))
	errs := schema.Validate(printer, PatientValues{Name: "A", Email: "ana@example.com", Phone: "+573211234567"})
	if errs[NameField] == "" || errs[NameField] == "Name must be at least 2 characters." {
		t.Fatalf("name message = %q, want spanish text", errs[NameField])
	}
}

func TestValuesFromFormTrims(t *testing.T) {
	t.Parallel()

	got := ValuesFromForm(url.Values{
		NameField:  {" Ana "},
		EmailField: {"ana@example.com"},
		PhoneField: {" 3211234567"},
		"extra":    {"ignored"},
	})
	want := PatientValues{Name: "Ana", Email: "ana@example.com", Phone: "3211234567"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ValuesFromForm() mismatch (-want +got):\n%s", diff)
	}
}

func TestBindingState(t *testing.T) {
	t.Parallel()

	b := NewBinding(PatientValues{Name: "Ana", Email: "ana@example.com", Phone: "+573211234567"})
	if b.Loading() || b.Submitted() {
		t.Fatal("new binding should not be loading or submitted")
	}
	if b.Value(NameField) != "Ana" || b.Value(EmailField) != "ana@example.com" || b.Value(PhoneField) != "+573211234567" {
		t.Fatalf("unexpected values: %+v", b.Values())
	}
	if b.Value("unknown") != "" {
		t.Fatal("unknown field should have empty value")
	}
	if !b.Valid() {
		t.Fatal("binding without errors should be valid")
	}

	b.SetErrors(FieldErrors{NameField: "too short"})
	if b.Valid() || b.Error(NameField) != "too short" || b.Error(EmailField) != "" {
		t.Fatalf("unexpected error state: valid=%v name=%q", b.Valid(), b.Error(NameField))
	}

	b.BeginSubmit()
	if !b.Loading() || !b.Submitted() {
		t.Fatal("BeginSubmit should set loading and submitted")
	}
	b.EndSubmit()
	if b.Loading() || !b.Submitted() {
		t.Fatal("EndSubmit should clear loading only")
	}

	var nilBinding *Binding
	if nilBinding.Loading() || nilBinding.Value(NameField) != "" || nilBinding.Error(NameField) != "" {
		t.Fatal("nil binding should be empty")
	}
}

func TestPatientFields(t *testing.T) {
	t.Parallel()

	fields := PatientFields(i18n.Printer(i18n.DefaultTag()), DefaultRegion)
	if len(fields) != 3 {
		t.Fatalf("len(fields) = %d, want 3", len(fields))
	}
	want := []struct {
		name string
		typ  FieldType
		icon bool
	}{
		{NameField, FieldInput, true},
		{EmailField, FieldInput, true},
		{PhoneField, FieldPhoneInput, false},
	}
	for i, w := range want {
		if fields[i].Name != w.name || fields[i].Type != w.typ || (fields[i].IconSrc != "") != w.icon {
			t.Fatalf("field %d = %+v", i, fields[i])
		}
		if fields[i].Label == "" || fields[i].Placeholder == "" {
			t.Fatalf("field %d missing label or placeholder: %+v", i, fields[i])
		}
	}
	if fields[2].Region != DefaultRegion {
		t.Fatalf("phone region = %q", fields[2].Region)
	}
	if fields[0].Label != "Full name" {
		t.Fatalf("name label = %q", fields[0].Label)
	}
}

func TestFieldLabelAndIconDefaults(t *testing.T) {
	t.Parallel()

	if (Field{Type: FieldCheckbox, Label: "Agree"}).HasLabel() {
		t.Fatal("checkbox should not render a label")
	}
	if !(Field{Type: FieldInput, Label: "Name"}).HasLabel() {
		t.Fatal("input with label should render it")
	}
	if (Field{Type: FieldInput}).HasLabel() {
		t.Fatal("empty label should not render")
	}
	if got := (Field{}).IconAltText(); got != "icon" {
		t.Fatalf("IconAltText() = %q, want icon", got)
	}
	if got := (Field{IconAlt: "user"}).IconAltText(); got != "user" {
		t.Fatalf("IconAltText() = %q, want user", got)
	}
}
