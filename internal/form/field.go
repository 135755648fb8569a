// Package form holds the schema-driven record editor shared by the list pages.
package form

// Kind is the closed set of input kinds a field can take.
type Kind int

const (
	KindText Kind = iota
	KindNumber
	KindSelect
	KindDateTime
	KindTextArea
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindSelect:
		return "select"
	case KindDateTime:
		return "datetime"
	case KindTextArea:
		return "textarea"
	default:
		return "unknown"
	}
}

// CustomerField is the field whose edits drive dependent selects.
const CustomerField = "customer_id"

// Choice is one entry of a select field.
type Choice struct {
	Value string
	Label string
}

// Choices turns plain values into choices labelled by themselves.
func Choices(values ...string) []Choice {
	out := make([]Choice, 0, len(values))
	for _, v := range values {
		out = append(out, Choice{Value: v, Label: v})
	}
	return out
}

// Field is one schema entry: the record key, its label, its kind and the
// validators that run after the required check.
type Field struct {
	Name       string
	Label      string
	Kind       Kind
	Options    []Choice
	Validators []Validator
	// FreeText keeps a numeric field as raw text until validation so partial
	// input such as "1." survives.
	FreeText bool
}

// With returns a copy of f with extra validators appended.
func (f Field) With(v ...Validator) Field {
	f.Validators = append(append([]Validator(nil), f.Validators...), v...)
	return f
}

// Text is a single-line text field.
func Text(name, label string) Field {
	return Field{Name: name, Label: label, Kind: KindText}
}

// Number is a numeric field parsed on every edit.
func Number(name, label string) Field {
	return Field{Name: name, Label: label, Kind: KindNumber}
}

// Amount is a numeric field entered as free text.
func Amount(name, label string) Field {
	return Field{Name: name, Label: label, Kind: KindNumber, FreeText: true}
}

// Select is a single choice from options.
func Select(name, label string, options []Choice) Field {
	return Field{Name: name, Label: label, Kind: KindSelect, Options: options}
}

// DateTime is edited as a minute-precision local date and time.
func DateTime(name, label string) Field {
	return Field{Name: name, Label: label, Kind: KindDateTime}
}

// TextArea is a multi-line text field.
func TextArea(name, label string) Field {
	return Field{Name: name, Label: label, Kind: KindTextArea}
}

// EmailField is the "email" field with the address check.
func EmailField(label string) Field {
	return Text("email", label).With(Email())
}

// BalanceField is the "balance" amount, zero or more.
func BalanceField(label string) Field {
	return Amount("balance", label).With(NonNegative())
}

// FareField is the "fare" amount, greater than zero.
func FareField(label string) Field {
	return Amount("fare", label).With(Positive())
}

// TapTimeField is the "tap_time" field, which must parse as a timestamp.
func TapTimeField(label string) Field {
	return DateTime("tap_time", label).With(ValidDateTime())
}
