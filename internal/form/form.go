package form

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"transitcrm/internal/domain"
)

// Record is a flat field name to value map. Values are strings, except
// numeric non-free-text fields which hold float64.
type Record map[string]any

func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// String returns the value of key rendered as text.
func (r Record) String(key string) string {
	return stringValue(r[key])
}

// Errors maps field names to messages.
type Errors struct {
	Fields map[string]string
	order  []string
}

func (e *Errors) Error() string {
	parts := make([]string, 0, len(e.order))
	for _, name := range e.order {
		parts = append(parts, e.Fields[name])
	}
	return strings.Join(parts, "; ")
}

// Unwrap exposes the first failure as a domain validation error.
func (e *Errors) Unwrap() error {
	if len(e.order) == 0 {
		return nil
	}
	name := e.order[0]
	return domain.ValidationError{Field: name, Msg: e.Fields[name]}
}

const (
	NoticeTitle   = "Validation Error"
	NoticeMessage = "Please fix the errors in the form"
)

type Option func(*Form)

// WithCustomerChange registers fn to receive every new customer_id value.
func WithCustomerChange(fn func(string)) Option {
	return func(f *Form) { f.onCustomer = fn }
}

type Form struct {
	Title  string
	fields []Field

	open       bool
	create     bool
	values     Record
	errors     map[string]string
	notice     string
	onCustomer func(string)
}

func New(title string, fields []Field, opts ...Option) *Form {
	f := &Form{Title: title, fields: fields}
	for _, opt := range opts {
		opt(f)
	}
	f.reset()
	return f
}

func (f *Form) reset() {
	f.values = Record{}
	for _, fd := range f.fields {
		f.values[fd.Name] = ""
	}
	f.errors = map[string]string{}
	f.notice = ""
}

// Open starts editing rec, or a blank record when rec is nil.
func (f *Form) Open(rec Record) {
	f.reset()
	f.open = true
	f.create = rec == nil
	for k, v := range rec {
		f.values[k] = v
	}
}

func (f *Form) Close() {
	f.open = false
	f.create = false
	f.reset()
}

func (f *Form) IsOpen() bool   { return f.open }
func (f *Form) IsCreate() bool { return f.create }

func (f *Form) Fields() []Field { return f.fields }

// Field returns the schema entry for name so callers can adjust options.
func (f *Form) Field(name string) (*Field, bool) {
	for i := range f.fields {
		if f.fields[i].Name == name {
			return &f.fields[i], true
		}
	}
	return nil, false
}

// SetOptions replaces the choices of a select field.
func (f *Form) SetOptions(name string, opts []Choice) {
	if fd, ok := f.Field(name); ok {
		fd.Options = opts
	}
}

func (f *Form) Value(name string) any { return f.values[name] }

func (f *Form) Values() Record { return f.values.Clone() }

func (f *Form) Errors() map[string]string {
	out := make(map[string]string, len(f.errors))
	for k, v := range f.errors {
		out[k] = v
	}
	return out
}

func (f *Form) Notice() string { return f.notice }

// Set stores raw for name and clears that field's error.
func (f *Form) Set(name, raw string) {
	var value any = raw
	if fd, ok := f.Field(name); ok && fd.Kind == KindNumber && !fd.FreeText {
		n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			n = math.NaN()
		}
		value = n
	}
	f.values[name] = value
	delete(f.errors, name)
	if name == CustomerField && f.onCustomer != nil {
		f.onCustomer(raw)
	}
}

// SetAll applies every schema field present in lookup.
func (f *Form) SetAll(lookup func(string) (string, bool)) {
	for _, fd := range f.fields {
		if raw, ok := lookup(fd.Name); ok {
			f.Set(fd.Name, raw)
		}
	}
}

func (f *Form) Validate() bool {
	f.errors = map[string]string{}
	for _, fd := range f.fields {
		v := f.values[fd.Name]
		if msg := required(fd.Label, v); msg != "" {
			f.errors[fd.Name] = msg
			continue
		}
		for _, check := range fd.Validators {
			if msg := check(fd.Label, v); msg != "" {
				f.errors[fd.Name] = msg
				break
			}
		}
	}
	if len(f.errors) > 0 {
		f.notice = NoticeTitle + ": " + NoticeMessage
		return false
	}
	f.notice = ""
	return true
}

// Submit validates and hands a copy of the record to save. The form stays
// open when validation or save fails, and is closed and reset otherwise.
func (f *Form) Submit(save func(Record) error) error {
	if !f.Validate() {
		return f.validationErrors()
	}
	if err := save(f.values.Clone()); err != nil {
		return err
	}
	f.Close()
	return nil
}

func (f *Form) validationErrors() *Errors {
	errs := &Errors{Fields: f.Errors()}
	for _, fd := range f.fields {
		if _, ok := errs.Fields[fd.Name]; ok {
			errs.order = append(errs.order, fd.Name)
		}
	}
	// keys outside the schema, if a caller injected any
	var extra []string
	for name := range errs.Fields {
		if _, ok := f.Field(name); !ok {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	errs.order = append(errs.order, extra...)
	return errs
}

// AddError attaches a message to a field outside the schema validators.
func (f *Form) AddError(name, msg string) {
	f.errors[name] = msg
	f.notice = NoticeTitle + ": " + NoticeMessage
}
