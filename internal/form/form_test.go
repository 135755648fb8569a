package form

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"transitcrm/internal/domain"
)

func cardFields() []Field {
	return []Field{
		Text("id", "Card ID"),
		Select("type", "Type", Choices("Adult", "Student")),
		BalanceField("Balance"),
		Select(CustomerField, "Customer ID", Choices("CU1", "CU2")),
	}
}

func TestRequiredFieldsBlockSave(t *testing.T) {
	for _, blank := range []string{"", "   ", "\t\n"} {
		f := New("Card", []Field{Text("name", "Name")})
		f.Open(nil)
		f.Set("name", blank)

		saved := false
		err := f.Submit(func(Record) error { saved = true; return nil })
		if saved {
			t.Fatalf("save called for %q", blank)
		}
		var verr *Errors
		if !errors.As(err, &verr) {
			t.Fatalf("err = %v, want *Errors", err)
		}
		if got := verr.Fields["name"]; got != "Name is required" {
			t.Fatalf("message = %q", got)
		}
		if !f.IsOpen() {
			t.Fatalf("form closed after failed validation")
		}
		if f.Notice() != "Validation Error: Please fix the errors in the form" {
			t.Fatalf("notice = %q", f.Notice())
		}
	}
}

func TestValidationErrorIsDomainValidation(t *testing.T) {
	f := New("x", []Field{Text("name", "Name")})
	f.Open(nil)
	err := f.Submit(func(Record) error { return nil })
	if !domain.IsValidation(err) {
		t.Fatalf("err %T should unwrap to domain.ValidationError", err)
	}
}

func TestFieldRules(t *testing.T) {
	cases := []struct {
		field Field
		value string
		want  string
	}{
		{EmailField("Email"), "not-an-email", "Please enter a valid email address"},
		{EmailField("Email"), "a@b.com", ""},
		{BalanceField("Balance"), "-5", "Balance cannot be negative"},
		{BalanceField("Balance"), "abc", "Balance must be a valid number"},
		{BalanceField("Balance"), "0", ""},
		{FareField("Fare"), "0", "Fare must be greater than 0"},
		{FareField("Fare"), "-1", "Fare must be greater than 0"},
		{FareField("Fare"), "12.50", ""},
		{TapTimeField("Tap Time"), "yesterday", "Please enter a valid date and time format"},
		{TapTimeField("Tap Time"), "2024-03-05T08:15", ""},
		{Text("id", "Product Number").With(MaxLength(4)), "ABCDE", "Product Number must be at most 4 characters"},
	}
	for _, tc := range cases {
		f := New("t", []Field{tc.field})
		f.Open(nil)
		f.Set(tc.field.Name, tc.value)
		f.Validate()
		if got := f.Errors()[tc.field.Name]; got != tc.want {
			t.Errorf("%s=%q: error %q, want %q", tc.field.Name, tc.value, got, tc.want)
		}
	}
}

func TestOpenInitialization(t *testing.T) {
	f := New("Card", cardFields())

	f.Open(nil)
	want := Record{"id": "", "type": "", "balance": "", "customer_id": ""}
	if diff := cmp.Diff(want, f.Values()); diff != "" {
		t.Fatalf("create init (-want +got):\n%s", diff)
	}
	if !f.IsCreate() {
		t.Fatalf("nil record should open in create mode")
	}

	existing := Record{"id": "C1", "type": "Adult", "balance": 4.5, "customer_id": "CU1", "issue_date": "2024-01-01"}
	f.Open(existing)
	if diff := cmp.Diff(existing, f.Values()); diff != "" {
		t.Fatalf("edit init (-want +got):\n%s", diff)
	}
	if f.IsCreate() {
		t.Fatalf("existing record should open in edit mode")
	}
}

func TestOpenClearsErrors(t *testing.T) {
	f := New("Card", cardFields())
	f.Open(nil)
	f.Validate()
	if len(f.Errors()) == 0 {
		t.Fatalf("expected errors")
	}
	f.Open(nil)
	if len(f.Errors()) != 0 {
		t.Fatalf("reopen kept errors: %v", f.Errors())
	}
}

func TestSetClearsOnlyThatFieldsError(t *testing.T) {
	f := New("Card", cardFields())
	f.Open(nil)
	f.Validate()
	f.Set("id", "C9")
	errs := f.Errors()
	if _, ok := errs["id"]; ok {
		t.Fatalf("id error not cleared")
	}
	if _, ok := errs["type"]; !ok {
		t.Fatalf("type error should remain")
	}
}

func TestCustomerChangeCallback(t *testing.T) {
	var got []string
	f := New("Case", cardFields(), WithCustomerChange(func(id string) { got = append(got, id) }))
	f.Open(nil)
	f.Set("id", "C1")
	f.Set(CustomerField, "CU2")
	f.Set(CustomerField, "CU1")
	if diff := cmp.Diff([]string{"CU2", "CU1"}, got); diff != "" {
		t.Fatalf("callback calls (-want +got):\n%s", diff)
	}
}

func TestNumericParsing(t *testing.T) {
	f := New("x", []Field{Number("count", "Count"), Amount("fare", "Fare")})
	f.Open(nil)
	f.Set("count", "42")
	f.Set("fare", "1.")
	if v, ok := f.Value("count").(float64); !ok || v != 42 {
		t.Fatalf("count = %#v", f.Value("count"))
	}
	if v := f.Value("fare"); v != "1." {
		t.Fatalf("free-text fare should stay raw, got %#v", v)
	}

	f.Set("count", "abc")
	if v, _ := f.Value("count").(float64); !math.IsNaN(v) {
		t.Fatalf("bad number should be NaN, got %v", v)
	}
	f.Validate()
	if f.Errors()["count"] != "Count is required" {
		t.Fatalf("NaN should fail required, got %q", f.Errors()["count"])
	}
}

func TestSubmitSuccessClosesAndResets(t *testing.T) {
	f := New("Card", cardFields())
	f.Open(nil)
	f.Set("id", "C1")
	f.Set("type", "Adult")
	f.Set("balance", "0")
	f.Set(CustomerField, "CU1")

	var saved Record
	if err := f.Submit(func(r Record) error { saved = r; return nil }); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	want := Record{"id": "C1", "type": "Adult", "balance": "0", "customer_id": "CU1"}
	if diff := cmp.Diff(want, saved); diff != "" {
		t.Fatalf("saved (-want +got):\n%s", diff)
	}
	if f.IsOpen() || f.Value("id") != "" {
		t.Fatalf("form not reset after save")
	}
}

func TestSubmitSaveErrorKeepsForm(t *testing.T) {
	f := New("x", []Field{Text("name", "Name")})
	f.Open(nil)
	f.Set("name", "Ann")
	boom := errors.New("api down")
	if err := f.Submit(func(Record) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if !f.IsOpen() || f.Value("name") != "Ann" {
		t.Fatalf("form should keep state on save error")
	}
}

func TestEditSubmitKeepsKeysOutsideSchema(t *testing.T) {
	f := New("Card", cardFields())
	f.Open(Record{"id": "C1", "type": "Adult", "balance": "5", "customer_id": "CU1", "issue_date": "2024-01-02T03:04:05"})
	posted := map[string]string{"type": "Student", "balance": "7"}
	f.SetAll(func(name string) (string, bool) {
		v, ok := posted[name]
		return v, ok
	})

	var saved Record
	if err := f.Submit(func(r Record) error { saved = r; return nil }); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	want := Record{"id": "C1", "type": "Student", "balance": "7", "customer_id": "CU1", "issue_date": "2024-01-02T03:04:05"}
	if diff := cmp.Diff(want, saved); diff != "" {
		t.Fatalf("saved (-want +got):\n%s", diff)
	}
}
